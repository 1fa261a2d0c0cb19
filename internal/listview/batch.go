package listview

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codalotl/listsync/internal/listsync"
)

type move struct {
	from, to listsync.Position
}

// batch accumulates widget calls between BeginBatch and EndBatch.
type batch struct {
	sectionInserts []int
	inserts        []listsync.Position
	deletes        []listsync.Position
	moves          []move
	animated       bool
	completions    []func()
}

func (b *batch) animate(anim listsync.Animation) {
	if anim != listsync.AnimationNone {
		b.animated = true
	}
}

// BeginBatch implements listsync.Widget. Batches nest; the outermost EndBatch applies them.
func (m *Model) BeginBatch() {
	if m.batchDepth == 0 {
		m.batch = &batch{}
	}
	m.batchDepth++
}

// EndBatch implements listsync.Widget.
func (m *Model) EndBatch(onComplete func()) {
	if m.batchDepth == 0 {
		m.logger.Warn("listview: EndBatch without BeginBatch")
		if onComplete != nil {
			onComplete()
		}
		return
	}
	m.batch.completions = append(m.batch.completions, onComplete)
	m.batchDepth--
	if m.batchDepth > 0 {
		return
	}
	b := m.batch
	m.batch = nil
	m.commit(b)
}

// InsertSections implements listsync.Widget. Inserted sections start empty; their rows are inserted with InsertRows.
func (m *Model) InsertSections(indices []int, anim listsync.Animation) {
	m.inBatch(func(b *batch) {
		b.sectionInserts = append(b.sectionInserts, indices...)
		b.animate(anim)
	})
}

// InsertRows implements listsync.Widget.
func (m *Model) InsertRows(positions []listsync.Position, anim listsync.Animation) {
	m.inBatch(func(b *batch) {
		b.inserts = append(b.inserts, positions...)
		b.animate(anim)
	})
}

// DeleteRows implements listsync.Widget.
func (m *Model) DeleteRows(positions []listsync.Position, anim listsync.Animation) {
	m.inBatch(func(b *batch) {
		b.deletes = append(b.deletes, positions...)
		b.animate(anim)
	})
}

// MoveRow implements listsync.Widget.
func (m *Model) MoveRow(from, to listsync.Position) {
	m.inBatch(func(b *batch) {
		b.moves = append(b.moves, move{from: from, to: to})
		b.animated = true
	})
}

func (m *Model) inBatch(f func(b *batch)) {
	if m.batchDepth > 0 {
		f(m.batch)
		return
	}
	m.BeginBatch()
	f(m.batch)
	m.EndBatch(nil)
}

// commit applies b and schedules its completions.
func (m *Model) commit(b *batch) {
	m.lastBatch++
	id := m.lastBatch

	removed, err := m.apply(b, id)
	if err == nil {
		err = m.checkAgainstDataSource()
	}
	if err != nil {
		m.logger.Warn("listview: batch inconsistent with data source; reloading", "err", err)
		m.ReloadAll()
		removed = 0
	}
	m.removed = removed
	m.layout()

	completions := b.completions
	m.settling[id] = func() {
		for _, f := range completions {
			if f != nil {
				f()
			}
		}
	}

	if !b.animated || m.duration <= 0 {
		m.cmds = append(m.cmds, func() tea.Msg { return settledMsg{id: id} })
		return
	}
	m.cmds = append(m.cmds, tea.Tick(m.duration, func(time.Time) tea.Msg { return settledMsg{id: id} }))
}

// apply rearranges sections per b: deletes and move origins in pre-batch coordinates, section inserts, row inserts, and move destinations in post-batch coordinates. It
// returns the number of deleted rows. On error the widget is left unchanged.
func (m *Model) apply(b *batch, id uint64) (int, error) {
	oldCount := len(m.sections)
	newCount := oldCount + len(b.sectionInserts)

	insertedSection := make([]bool, newCount)
	for _, si := range b.sectionInserts {
		if si < 0 || si >= newCount || insertedSection[si] {
			return 0, fmt.Errorf("bad section insert %d", si)
		}
		insertedSection[si] = true
	}
	oldToNew := make([]int, oldCount)
	oi := 0
	for ni := 0; ni < newCount; ni++ {
		if !insertedSection[ni] {
			oldToNew[oi] = ni
			oi++
		}
	}

	gone := make([][]bool, oldCount)
	for si, s := range m.sections {
		gone[si] = make([]bool, len(s.rows))
	}
	take := func(p listsync.Position) (*slot, error) {
		sl := m.slotAt(p)
		if sl == nil {
			return nil, fmt.Errorf("row %v out of range", p)
		}
		if gone[p.Section][p.Row] {
			return nil, fmt.Errorf("row %v deleted or moved twice", p)
		}
		gone[p.Section][p.Row] = true
		return sl, nil
	}

	var deleted []*slot
	for _, p := range b.deletes {
		sl, err := take(p)
		if err != nil {
			return 0, err
		}
		deleted = append(deleted, sl)
	}

	// Rows arriving at explicit destinations, per new section.
	arriving := make([]map[int]*slot, newCount)
	for i := range arriving {
		arriving[i] = map[int]*slot{}
	}
	place := func(p listsync.Position, sl *slot) error {
		if p.Section < 0 || p.Section >= newCount || p.Row < 0 {
			return fmt.Errorf("destination %v out of range", p)
		}
		if _, dup := arriving[p.Section][p.Row]; dup {
			return fmt.Errorf("destination %v used twice", p)
		}
		arriving[p.Section][p.Row] = sl
		return nil
	}
	for _, mv := range b.moves {
		sl, err := take(mv.from)
		if err != nil {
			return 0, err
		}
		if err := place(mv.to, sl); err != nil {
			return 0, err
		}
	}
	for _, p := range b.inserts {
		if err := place(p, &slot{}); err != nil {
			return 0, err
		}
	}

	// Survivors, in order, per new section.
	survivors := make([][]*slot, newCount)
	for si, s := range m.sections {
		ni := oldToNew[si]
		for ri, sl := range s.rows {
			if !gone[si][ri] {
				survivors[ni] = append(survivors[ni], sl)
			}
		}
	}

	next := make([]*section, newCount)
	for ni := range next {
		size := len(survivors[ni]) + len(arriving[ni])
		rows := make([]*slot, size)
		for ri, sl := range arriving[ni] {
			if ri >= size {
				return 0, fmt.Errorf("destination (%d,%d) out of range", ni, ri)
			}
			rows[ri] = sl
		}
		k := 0
		for ri := range rows {
			if rows[ri] == nil {
				rows[ri] = survivors[ni][k]
				k++
			}
		}
		next[ni] = &section{rows: rows}
	}

	// Commit.
	for _, sl := range deleted {
		if sl.cell != nil {
			m.pool = append(m.pool, sl.cell)
			sl.cell = nil
		}
	}
	for _, mv := range b.moves {
		sl := next[mv.to.Section].rows[mv.to.Row]
		m.mark(sl, rowMoved, id, b.animated)
	}
	for _, p := range b.inserts {
		m.mark(next[p.Section].rows[p.Row], rowInserted, id, b.animated)
	}
	m.sections = next
	return len(deleted), nil
}

func (m *Model) mark(sl *slot, state rowState, id uint64, animated bool) {
	if !animated {
		return
	}
	sl.state = state
	sl.batch = id
}

func (m *Model) checkAgainstDataSource() error {
	if m.ds == nil {
		return nil
	}
	if got, want := len(m.sections), m.ds.SectionCount(); got != want {
		return fmt.Errorf("widget has %d sections, data source %d", got, want)
	}
	for si, s := range m.sections {
		if got, want := len(s.rows), m.ds.RowCount(si); got != want {
			return fmt.Errorf("section %d has %d rows, data source %d", si, got, want)
		}
	}
	return nil
}
