package table

import (
	"slices"
	"strings"
)

// Table is an ordered, in-memory list of records.
type Table struct {
	rows []Record
}

// New creates a table holding a copy of rows.
func New(rows ...Record) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in current order.
func (t *Table) Rows() []Record {
	return slices.Clone(t.rows)
}

// Append adds a record at the end of the table.
func (t *Table) Append(r Record) {
	t.rows = append(t.rows, r)
}

// EmptyPasswordRows returns the 1-based positions of rows without a password.
func (t *Table) EmptyPasswordRows() []int {
	var positions []int
	for i, r := range t.rows {
		if !r.HasPassword() {
			positions = append(positions, i+1)
		}
	}
	return positions
}

// DropEmptyPasswords removes rows without a password and returns how many
// were removed. Relative order of the remaining rows is kept.
func (t *Table) DropEmptyPasswords() int {
	before := len(t.rows)
	t.rows = slices.DeleteFunc(t.rows, func(r Record) bool {
		return !r.HasPassword()
	})
	return before - len(t.rows)
}

// DuplicateRows returns the 1-based positions of rows whose
// (name, username, password) triple already appeared earlier in the table.
func (t *Table) DuplicateRows() []int {
	var positions []int
	seen := make(map[identity]struct{}, len(t.rows))
	for i, r := range t.rows {
		id := r.identity()
		if _, ok := seen[id]; ok {
			positions = append(positions, i+1)
			continue
		}
		seen[id] = struct{}{}
	}
	return positions
}

// DropDuplicates keeps the first occurrence of every
// (name, username, password) triple and returns how many rows were removed.
func (t *Table) DropDuplicates() int {
	seen := make(map[identity]struct{}, len(t.rows))
	kept := t.rows[:0]
	for _, r := range t.rows {
		id := r.identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(t.rows) - len(kept)
	clear(t.rows[len(kept):])
	t.rows = kept
	return removed
}

// SortByName orders rows by name, rows without a name last. Rows with equal
// names keep their relative order.
func (t *Table) SortByName() {
	slices.SortStableFunc(t.rows, func(a, b Record) int {
		switch {
		case a.Name == "" && b.Name == "":
			return 0
		case a.Name == "":
			return 1
		case b.Name == "":
			return -1
		}
		return strings.Compare(a.Name, b.Name)
	})
}
