package table

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       any
		expected any
	}{
		{"nil", nil, nil},
		{"bytes", []byte("abc"), "abc"},
		{"int32", int32(7), int64(7)},
		{"integral float", float64(3), int64(3)},
		{"fractional float", 2.5, 2.5},
		{"json integer", json.Number("12"), int64(12)},
		{"json float", json.Number("1.25"), 1.25},
		{"float at int64 max", float64(1 << 63), float64(1 << 63)},
		{"float at int64 min", float64(-1 << 63), int64(-1 << 63)},
		{"json beyond int64", json.Number("9223372036854775808"), float64(1 << 63)},
		{"time", ts, "2024-05-01T12:00:00Z"},
		{"bool", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

func TestRowEqualityIsTyped(t *testing.T) {
	assert.False(t, Row{"3"}.Equal(Row{int64(3)}))
	assert.False(t, Row{nil}.Equal(Row{""}))
	assert.True(t, Row{int64(3), "a"}.Equal(Row{int64(3), "a"}))
}

func TestParseCell(t *testing.T) {
	assert.Nil(t, ParseCell(""))
	assert.Equal(t, int64(42), ParseCell("42"))
	assert.Equal(t, 4.5, ParseCell("4.5"))
	assert.Equal(t, "cust_1", ParseCell("cust_1"))
	assert.Equal(t, int64(-1<<63), ParseCell("-9223372036854775808"))
	assert.Equal(t, float64(1<<63), ParseCell("9223372036854775808"))
}

func TestSnapshotEditing(t *testing.T) {
	s := SampleSnapshot()
	edited := s.Clone()

	require.NoError(t, edited.SetCell(0, "state", "OR"))
	assert.Equal(t, "CA", s.Rows[0][1], "original must not change")
	assert.Equal(t, "OR", edited.Rows[0][1])

	assert.ErrorIs(t, edited.SetCell(10, "state", "OR"), ErrRowOutOfRange)
	assert.ErrorIs(t, edited.SetCell(0, "city", "Portland"), ErrUnknownColumn)
	assert.ErrorIs(t, edited.DeleteRow(-1), ErrRowOutOfRange)
	assert.ErrorIs(t, edited.AppendRow(map[string]any{"city": "x"}), ErrUnknownColumn)

	require.NoError(t, edited.DeleteRow(0))
	assert.Equal(t, 4, edited.Len())
	assert.False(t, s.Equal(edited))
	assert.True(t, s.Equal(s.Clone()))
}

func TestNewSnapshot(t *testing.T) {
	s, err := NewSnapshot([]string{"id", "name"}, [][]any{{int32(1), []byte("a")}})
	require.NoError(t, err)
	assert.Equal(t, Row{int64(1), "a"}, s.Rows[0])
	assert.Equal(t, "a", s.Get(s.Rows[0], "name"))

	_, err = NewSnapshot([]string{"id"}, [][]any{{1, 2}})
	assert.Error(t, err)
}

func TestShape(t *testing.T) {
	s := &Snapshot{Columns: []string{"id", "name"}, Rows: []Row{{int64(1), "a"}}}

	assert.Equal(t, []any{[]any{int64(1), "a"}}, s.Shape(ShapeArray))
	assert.Equal(t, []any{map[string]any{"id": int64(1), "name": "a"}}, s.Shape(ShapeObjects))
	assert.Equal(t, s.Shape(ShapeObjects), s.Shape("unknown"))
}

func TestParseIdentifier(t *testing.T) {
	id := ParseIdentifier("  main.sales.reviews ")
	assert.False(t, id.IsZero())
	assert.Equal(t, []string{"main", "sales", "reviews"}, id.Parts)
	assert.Equal(t, "reviews", id.Name())
	assert.Equal(t, `"main"."sales"."reviews"`, id.Quote(func(s string) string { return `"` + s + `"` }))

	assert.True(t, ParseIdentifier("   ").IsZero())
}
