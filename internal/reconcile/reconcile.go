package reconcile

import (
	"errors"
	"fmt"

	"github.com/codalotl/listsync/internal/editscript"
)

// ErrSectionCountMismatch is returned by Reconcile when the snapshots have different numbers of sections.
var ErrSectionCountMismatch = errors.New("reconcile: section counts differ")

// Move is a row that moved from an old position to a new one.
type Move struct {
	From Position // Position in the old snapshot.
	To   Position // Position in the new snapshot.
}

func (m Move) String() string {
	return fmt.Sprintf("%v->%v", m.From, m.To)
}

// Result is the outcome of Reconcile.
type Result struct {
	Removals   []Position  // Old positions of rows whose identity is gone. Sorted.
	Insertions []Position  // New positions of rows whose identity is new. Sorted.
	Moves      []Move      // Rows whose identity survived but whose relative order changed.
	Unchanged  PositionSet // New positions of rows present in both snapshots with equal content, matched in place.
}

// HasStructuralChanges reports whether r contains any removal, insertion, or move.
func (r Result) HasStructuralChanges() bool {
	return len(r.Removals) > 0 || len(r.Insertions) > 0 || len(r.Moves) > 0
}

// Reconcile diffs old against new section by section. See the package doc for the meaning of the result. It returns ErrSectionCountMismatch (wrapped) if the snapshots
// differ in section count.
func Reconcile[R any, K comparable](old, new Snapshot[R], eq Equality[R, K]) (Result, error) {
	if old.SectionCount() != new.SectionCount() {
		return Result{}, fmt.Errorf("%w: %d != %d", ErrSectionCountMismatch, old.SectionCount(), new.SectionCount())
	}

	res := Result{Unchanged: PositionSet{}}
	for si := range new.Sections {
		oldRows := old.Sections[si].Rows
		newRows := new.Sections[si].Rows

		structural := editscript.DiffFunc(oldRows, newRows, eq.Identity, nil)
		for _, e := range structural {
			switch e.Kind {
			case editscript.Remove:
				res.Removals = append(res.Removals, Position{Section: si, Row: e.From})
			case editscript.Insert:
				res.Insertions = append(res.Insertions, Position{Section: si, Row: e.To})
			case editscript.Move:
				res.Moves = append(res.Moves, Move{From: Position{Section: si, Row: e.From}, To: Position{Section: si, Row: e.To}})
			}
		}

		content := structural
		if eq.Content != nil {
			content = editscript.DiffFunc(oldRows, newRows, eq.Identity, eq.Content)
		}

		// Every new row not inserted and not moved by the content pass was matched in place.
		displaced := make([]bool, len(newRows))
		for _, e := range content {
			if e.Kind == editscript.Insert || e.Kind == editscript.Move {
				displaced[e.To] = true
			}
		}
		for ri, d := range displaced {
			if !d {
				res.Unchanged.Add(Position{Section: si, Row: ri})
			}
		}
	}

	return res, nil
}
