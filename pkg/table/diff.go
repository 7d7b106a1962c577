package table

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StrategyStructural = "structural"
	StrategyKeyed      = "keyed"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNoKey        = errors.New("keyed diff needs at least one key column")
)

// RowChange pairs the old and new version of a row with the same key.
type RowChange struct {
	Old Row
	New Row
}

// Diff is the difference between an original and an edited snapshot.
type Diff struct {
	Strategy string
	Columns  []string
	Key      []string

	Inserted []Row
	Deleted  []Row
	Updated  []RowChange

	// Retained holds edited rows equal to a deleted row. A value-matched
	// delete removes them too, so they must be written again.
	Retained []Row
}

// Empty reports whether the edit changed nothing.
func (d *Diff) Empty() bool {
	return len(d.Inserted) == 0 && len(d.Deleted) == 0 && len(d.Updated) == 0
}

// Differ computes the rows that changed between two snapshots.
type Differ interface {
	Name() string
	Diff(original, edited *Snapshot) (*Diff, error)
}

// NewDiffer returns the differ for a strategy name. An empty name means
// structural.
func NewDiffer(strategy string, key []string) (Differ, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyStructural:
		return StructuralDiffer{}, nil
	case StrategyKeyed:
		if len(key) == 0 {
			return nil, ErrNoKey
		}
		return KeyedDiffer{Key: key}, nil
	default:
		return nil, fmt.Errorf("unknown diff strategy: %s", strategy)
	}
}

// StructuralDiffer treats rows as whole values. A changed cell shows up
// as one deleted and one inserted row. Duplicates are counted, so the
// difference is a multiset difference.
type StructuralDiffer struct{}

func (StructuralDiffer) Name() string { return StrategyStructural }

func (StructuralDiffer) Diff(original, edited *Snapshot) (*Diff, error) {
	if !original.SameColumns(edited) {
		return nil, ErrColumnMismatch
	}

	remaining := make(map[string]int, len(original.Rows))
	for _, r := range original.Rows {
		remaining[r.key()]++
	}

	d := &Diff{
		Strategy: StrategyStructural,
		Columns:  append([]string(nil), original.Columns...),
	}

	editedCount := make(map[string]int, len(edited.Rows))
	for _, r := range edited.Rows {
		k := r.key()
		editedCount[k]++
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		d.Inserted = append(d.Inserted, r)
	}

	seen := map[string]int{}
	for _, r := range original.Rows {
		k := r.key()
		if remaining[k] == 0 {
			continue
		}
		if seen[k] < remaining[k] {
			d.Deleted = append(d.Deleted, r)
		}
		seen[k]++
	}

	retained := map[string]bool{}
	for _, r := range d.Deleted {
		k := r.key()
		if retained[k] {
			continue
		}
		retained[k] = true
		for i := 0; i < editedCount[k]; i++ {
			d.Retained = append(d.Retained, r)
		}
	}

	return d, nil
}

// KeyedDiffer matches rows on key columns. Rows with the same key and
// different values are reported as updates.
type KeyedDiffer struct {
	Key []string
}

func (k KeyedDiffer) Name() string { return StrategyKeyed }

func (k KeyedDiffer) Diff(original, edited *Snapshot) (*Diff, error) {
	if len(k.Key) == 0 {
		return nil, ErrNoKey
	}
	if !original.SameColumns(edited) {
		return nil, ErrColumnMismatch
	}

	idx := make([]int, len(k.Key))
	for i, col := range k.Key {
		idx[i] = original.ColumnIndex(col)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}

	before, order, err := k.index(original, idx)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	after, _, err := k.index(edited, idx)
	if err != nil {
		return nil, fmt.Errorf("edited: %w", err)
	}

	d := &Diff{
		Strategy: StrategyKeyed,
		Columns:  append([]string(nil), original.Columns...),
		Key:      append([]string(nil), k.Key...),
	}

	for _, r := range edited.Rows {
		old, ok := before[keyOf(r, idx)]
		if !ok {
			d.Inserted = append(d.Inserted, r)
			continue
		}
		if !old.Equal(r) {
			d.Updated = append(d.Updated, RowChange{Old: old, New: r})
		}
	}

	for _, key := range order {
		if _, ok := after[key]; !ok {
			d.Deleted = append(d.Deleted, before[key])
		}
	}

	return d, nil
}

func (k KeyedDiffer) index(s *Snapshot, idx []int) (map[string]Row, []string, error) {
	rows := make(map[string]Row, len(s.Rows))
	order := make([]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		key := keyOf(r, idx)
		if _, ok := rows[key]; ok {
			return nil, nil, fmt.Errorf("%w on %s", ErrDuplicateKey, strings.Join(k.Key, ", "))
		}
		rows[key] = r
		order = append(order, key)
	}
	return rows, order, nil
}

func keyOf(r Row, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = encodeValue(r[j])
	}
	return strings.Join(parts, "\x1f")
}
