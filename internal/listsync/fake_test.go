package listsync

import (
	"fmt"
	"strings"

	"github.com/codalotl/listsync/internal/reconcile"
)

type item struct {
	id    string
	title string
}

var itemEquality = reconcile.Equality[item, string]{
	Identity: func(i item) string { return i.id },
	Content:  func(a, b item) bool { return a.title == b.title },
}

// items builds rows from a compact description: "a b=B2" is row a titled "a" and row b titled "B2".
func items(desc string) []item {
	var out []item
	for _, f := range strings.Fields(desc) {
		id, title, ok := strings.Cut(f, "=")
		if !ok {
			title = id
		}
		out = append(out, item{id: id, title: title})
	}
	return out
}

func snap(sections ...string) reconcile.Snapshot[item] {
	rows := make([][]item, len(sections))
	for i, s := range sections {
		rows[i] = items(s)
	}
	return reconcile.NewSnapshot(rows...)
}

func pos(section, row int) Position {
	return Position{Section: section, Row: row}
}

type view struct {
	text string
}

// fakeWidget records every call as a string and holds batch completions until the test fires them.
type fakeWidget struct {
	sections    int
	ops         []string
	visible     []Position
	views       map[Position]*view
	completions []func()
	ds          DataSource[*view]
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{views: map[Position]*view{}}
}

func (w *fakeWidget) SectionCount() int { return w.sections }

func (w *fakeWidget) BeginBatch() { w.ops = append(w.ops, "begin") }

func (w *fakeWidget) InsertSections(indices []int, anim Animation) {
	w.sections += len(indices)
	w.ops = append(w.ops, fmt.Sprintf("insertSections %v %v", indices, anim))
}

func (w *fakeWidget) InsertRows(positions []Position, anim Animation) {
	w.ops = append(w.ops, fmt.Sprintf("insertRows %v %v", positions, anim))
}

func (w *fakeWidget) DeleteRows(positions []Position, anim Animation) {
	w.ops = append(w.ops, fmt.Sprintf("deleteRows %v %v", positions, anim))
}

func (w *fakeWidget) MoveRow(from, to Position) {
	w.ops = append(w.ops, fmt.Sprintf("moveRow %v %v", from, to))
}

func (w *fakeWidget) EndBatch(onComplete func()) {
	w.ops = append(w.ops, "end")
	w.completions = append(w.completions, onComplete)
}

func (w *fakeWidget) ReloadAll() {
	if w.ds != nil {
		w.sections = w.ds.SectionCount()
	}
	w.ops = append(w.ops, "reload")
}

func (w *fakeWidget) VisiblePositions() []Position { return w.visible }

func (w *fakeWidget) ViewAt(p Position) (*view, bool) {
	v, ok := w.views[p]
	return v, ok
}

// show makes ps visible, each with its own view.
func (w *fakeWidget) show(ps ...Position) {
	w.visible = ps
	w.views = map[Position]*view{}
	for _, p := range ps {
		w.views[p] = &view{}
	}
}

// settle fires the oldest pending batch completion.
func (w *fakeWidget) settle() {
	f := w.completions[0]
	w.completions = w.completions[1:]
	f()
}

// opNames returns the first word of every recorded op.
func (w *fakeWidget) opNames() []string {
	out := make([]string, len(w.ops))
	for i, op := range w.ops {
		out[i], _, _ = strings.Cut(op, " ")
	}
	return out
}

func (w *fakeWidget) reset() {
	w.ops = nil
}

type configureCall struct {
	pos    Position
	title  string
	reused bool
}

type harness struct {
	w     *fakeWidget
	c     *Controller[item, string, *view]
	calls []configureCall
}

func newHarness(animated bool, fallback LabelSource) *harness {
	h := &harness{w: newFakeWidget()}
	h.c = New(h.w, itemEquality, Options[item, *view]{
		Animated:  animated,
		Animation: AnimationFade,
		Fallback:  fallback,
		Configure: func(p Position, row item, reuse *view) *view {
			h.calls = append(h.calls, configureCall{pos: p, title: row.title, reused: reuse != nil})
			if reuse == nil {
				reuse = &view{}
			}
			reuse.text = row.title
			return reuse
		},
	})
	h.w.ds = h.c
	return h
}

type labels struct{}

func (labels) SectionHeader(section int) (string, bool) { return fmt.Sprintf("Section %d", section), true }
func (labels) SectionFooter(section int) (string, bool) { return "", false }

type placeholderQuery struct{}

type queryingLabels struct{ labels }

func (queryingLabels) Query(q any) (any, bool) {
	if _, ok := q.(placeholderQuery); ok {
		return "nothing here", true
	}
	return nil, false
}
