package listsync

import (
	"fmt"

	"github.com/codalotl/listsync/internal/reconcile"
)

// Position is a (section, row) coordinate.
type Position = reconcile.Position

// Animation selects how a widget animates inserted and deleted rows.
type Animation int

const (
	AnimationAutomatic Animation = iota // Widget's default.
	AnimationFade
	AnimationNone
)

var animationNames = map[Animation]string{
	AnimationAutomatic: "automatic",
	AnimationFade:      "fade",
	AnimationNone:      "none",
}

func (a Animation) String() string {
	if s, ok := animationNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Animation(%d)", int(a))
}

// ParseAnimation parses the name of an Animation ("automatic", "fade", "none").
func ParseAnimation(s string) (Animation, error) {
	for a, name := range animationNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown animation %q", s)
}

// Widget is the list widget a Controller drives. Every physical change goes through these methods.
//
// Batch coordinates: between BeginBatch and EndBatch, DeleteRows positions and MoveRow origins refer to the widget's state before the batch; InsertSections indices,
// InsertRows positions, and MoveRow destinations refer to the state after it. EndBatch applies the batch and calls onComplete (if non-nil) once it has visually settled, on
// the same goroutine that drives the Controller.
type Widget[V any] interface {
	SectionCount() int // Number of sections the widget currently displays.

	BeginBatch()
	InsertSections(indices []int, anim Animation)
	InsertRows(positions []Position, anim Animation)
	DeleteRows(positions []Position, anim Animation)
	MoveRow(from, to Position)
	EndBatch(onComplete func())

	ReloadAll() // Discards displayed state and re-queries the DataSource.

	VisiblePositions() []Position          // Positions of rows currently on screen. May lag the model by one frame.
	ViewAt(pos Position) (view V, ok bool) // The view showing pos, if it is on screen.
}

// DataSource is what a widget queries to display the model.
type DataSource[V any] interface {
	SectionCount() int
	RowCount(section int) int
	RenderRow(pos Position, reuse V) V // reuse is a recycled view or the zero value.
	SectionHeader(section int) (string, bool)
	SectionFooter(section int) (string, bool)
}

// LabelSource supplies section labels for sections that carry none.
type LabelSource interface {
	SectionHeader(section int) (string, bool)
	SectionFooter(section int) (string, bool)
}

// Querier answers host-specific queries outside the DataSource contract. ok is false if q is not understood.
type Querier interface {
	Query(q any) (answer any, ok bool)
}

// RowFunc renders row at pos into a view. reuse is a view to configure in place (a recycled view, or the view currently showing pos during a refresh pass), or the zero value;
// RowFunc returns the configured view.
type RowFunc[R, V any] func(pos Position, row R, reuse V) V
