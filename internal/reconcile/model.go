package reconcile

import (
	"fmt"
	"sort"
)

// Position is a (section, row) coordinate into a Snapshot.
type Position struct {
	Section int
	Row     int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Section, p.Row)
}

// Less orders positions by section, then row.
func (p Position) Less(q Position) bool {
	if p.Section != q.Section {
		return p.Section < q.Section
	}
	return p.Row < q.Row
}

// Section is an ordered sequence of rows with optional header and footer labels. A nil label means the section carries none.
type Section[R any] struct {
	Header *string
	Footer *string
	Rows   []R
}

// Label returns a pointer to s, for use as a Section header or footer.
func Label(s string) *string {
	return &s
}

// Snapshot is an ordered sequence of sections. Snapshots are values: once handed to a consumer they must not be mutated.
type Snapshot[R any] struct {
	Sections []Section[R]
}

// NewSnapshot returns a snapshot with one unlabeled section per element of rows.
func NewSnapshot[R any](rows ...[]R) Snapshot[R] {
	s := Snapshot[R]{Sections: make([]Section[R], len(rows))}
	for i, r := range rows {
		s.Sections[i].Rows = r
	}
	return s
}

// SectionCount returns the number of sections.
func (s Snapshot[R]) SectionCount() int {
	return len(s.Sections)
}

// RowCount returns the number of rows in section, or 0 if section is out of range.
func (s Snapshot[R]) RowCount(section int) int {
	if section < 0 || section >= len(s.Sections) {
		return 0
	}
	return len(s.Sections[section].Rows)
}

// Contains reports whether p addresses a row of s.
func (s Snapshot[R]) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < s.RowCount(p.Section)
}

// Row returns the row at p. ok is false if p is out of bounds.
func (s Snapshot[R]) Row(p Position) (row R, ok bool) {
	if !s.Contains(p) {
		return row, false
	}
	return s.Sections[p.Section].Rows[p.Row], true
}

// Positions returns every row position of s, in order.
func (s Snapshot[R]) Positions() []Position {
	var out []Position
	for si, sec := range s.Sections {
		for ri := range sec.Rows {
			out = append(out, Position{Section: si, Row: ri})
		}
	}
	return out
}

// Equality holds the two comparisons rows are diffed by.
type Equality[R any, K comparable] struct {
	Identity func(R) K        // Stable key of a row; unique within a section.
	Content  func(a, b R) bool // Reports whether two rows with the same identity render the same. Nil means they always do.
}

// FullyEqual reports whether a and b have the same identity and the same content.
func (e Equality[R, K]) FullyEqual(a, b R) bool {
	if e.Identity(a) != e.Identity(b) {
		return false
	}
	return e.Content == nil || e.Content(a, b)
}

// PositionSet is a set of positions.
type PositionSet map[Position]struct{}

// NewPositionSet returns a set holding ps.
func NewPositionSet(ps ...Position) PositionSet {
	set := make(PositionSet, len(ps))
	for _, p := range ps {
		set[p] = struct{}{}
	}
	return set
}

// Add adds p to the set.
func (s PositionSet) Add(p Position) {
	s[p] = struct{}{}
}

// Contains reports whether p is in the set. A nil set contains nothing.
func (s PositionSet) Contains(p Position) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the positions of the set in order.
func (s PositionSet) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
