package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrColumnMismatch = errors.New("column sets differ")
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrUnknownColumn  = errors.New("unknown column")
)

// Row holds one value per snapshot column, in column order.
type Row []any

// Snapshot is the content of a table at one point in time.
type Snapshot struct {
	Columns []string
	Rows    []Row
}

// NewSnapshot builds a snapshot from raw values, normalizing every cell.
func NewSnapshot(columns []string, rows [][]any) (*Snapshot, error) {
	s := &Snapshot{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(rows)),
	}
	for i, values := range rows {
		if len(values) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(values), len(columns))
		}
		row := make(Row, len(values))
		for j, v := range values {
			row[j] = Normalize(v)
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

// FromObjects builds a snapshot from column→value maps. Columns missing
// from an object are null; keys that are not columns are rejected.
func FromObjects(columns []string, objects []map[string]any) (*Snapshot, error) {
	s := &Snapshot{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(objects)),
	}
	for i, obj := range objects {
		row, err := s.rowFromMap(obj)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func (s *Snapshot) rowFromMap(values map[string]any) (Row, error) {
	for k := range values {
		if s.ColumnIndex(k) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
	}
	row := make(Row, len(s.Columns))
	for i, col := range s.Columns {
		row[i] = Normalize(values[col])
	}
	return row, nil
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Rows)
}

// ColumnIndex returns the position of a column or -1.
func (s *Snapshot) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SameColumns reports whether both snapshots have the same ordered columns.
func (s *Snapshot) SameColumns(other *Snapshot) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != other.Columns[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Columns: append([]string(nil), s.Columns...),
		Rows:    make([]Row, len(s.Rows)),
	}
	for i, r := range s.Rows {
		c.Rows[i] = append(Row(nil), r...)
	}
	return c
}

// Equal compares two snapshots row by row, in order.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if !s.SameColumns(other) || len(s.Rows) != len(other.Rows) {
		return false
	}
	for i := range s.Rows {
		if s.Rows[i].key() != other.Rows[i].key() {
			return false
		}
	}
	return true
}

// AppendRow adds a row built from a column→value map.
func (s *Snapshot) AppendRow(values map[string]any) error {
	row, err := s.rowFromMap(values)
	if err != nil {
		return err
	}
	s.Rows = append(s.Rows, row)
	return nil
}

// DeleteRow removes the row at index.
func (s *Snapshot) DeleteRow(index int) error {
	if index < 0 || index >= len(s.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	s.Rows = append(s.Rows[:index], s.Rows[index+1:]...)
	return nil
}

// SetCell replaces one value.
func (s *Snapshot) SetCell(index int, column string, value any) error {
	if index < 0 || index >= len(s.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	c := s.ColumnIndex(column)
	if c < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	s.Rows[index][c] = Normalize(value)
	return nil
}

// Get returns the value of column in row, or nil when the column is unknown.
func (s *Snapshot) Get(row Row, column string) any {
	i := s.ColumnIndex(column)
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// key is the canonical encoding used for whole-row equality.
func (r Row) key() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = encodeValue(v)
	}
	return strings.Join(parts, "\x1f")
}

// Equal reports whole-row structural equality.
func (r Row) Equal(other Row) bool {
	return len(r) == len(other) && r.key() == other.key()
}
