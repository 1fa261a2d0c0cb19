package listview

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/codalotl/listsync/internal/listsync"
)

// Cell is the view of one row.
type Cell struct {
	Title  string
	Detail string
}

// PlaceholderQuery asks the DataSource (through listsync.Querier) for the text shown when there are no rows. The answer must be a string.
type PlaceholderQuery struct{}

const defaultPlaceholder = "(no rows)"

// Options configures a Model.
type Options struct {
	Width    int
	Height   int
	Duration time.Duration // How long inserted and moved rows stay highlighted.
	Logger   *slog.Logger
}

type rowState int

const (
	rowSteady rowState = iota
	rowInserted
	rowMoved
)

type slot struct {
	cell  *Cell // Realized view; nil while off screen.
	state rowState
	batch uint64 // Batch that set state.
}

type section struct {
	rows []*slot
}

type lineKind int

const (
	lineHeader lineKind = iota
	lineRow
	lineFooter
)

type line struct {
	kind lineKind
	pos  listsync.Position
	text string // Label text for headers and footers.
}

// settledMsg is delivered when the animation of batch id is over.
type settledMsg struct {
	id uint64
}

// Model is the widget. It implements tea.Model and listsync.Widget[*Cell].
type Model struct {
	ds     listsync.DataSource[*Cell]
	logger *slog.Logger

	sections []*section
	pool     []*Cell

	width, height int
	offset        int // First visible line.
	duration      time.Duration

	batch      *batch
	batchDepth int
	lastBatch  uint64
	settling   map[uint64]func()
	removed    int // Rows deleted by the most recent batch, while it settles.

	keys   keyMap
	styles styles
	cmds   []tea.Cmd
}

var _ listsync.Widget[*Cell] = (*Model)(nil)
var _ tea.Model = (*Model)(nil)

// New returns an empty widget. Call SetDataSource before the first batch or reload.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Model{
		logger:   logger,
		width:    max(opts.Width, 0),
		height:   max(opts.Height, 0),
		duration: opts.Duration,
		settling: map[uint64]func(){},
		keys:     defaultKeyMap(),
		styles:   defaultStyles(),
	}
}

// SetDataSource sets the DataSource the widget queries.
func (m *Model) SetDataSource(ds listsync.DataSource[*Cell]) {
	m.ds = ds
}

// SetSize sets the size of the widget in cells. The last line is a status line.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.layout()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.scroll(-1)
		case key.Matches(msg, m.keys.Down):
			m.scroll(1)
		case key.Matches(msg, m.keys.PageUp):
			m.scroll(-max(1, m.listHeight()-1))
		case key.Matches(msg, m.keys.PageDown):
			m.scroll(max(1, m.listHeight()-1))
		case key.Matches(msg, m.keys.Home):
			m.scroll(-len(m.lines()))
		case key.Matches(msg, m.keys.End):
			m.scroll(len(m.lines()))
		}
	case settledMsg:
		m.settle(msg.id)
	}
	return m, m.TakeCmd()
}

// TakeCmd returns the commands queued by widget calls since the last call, batched.
func (m *Model) TakeCmd() tea.Cmd {
	if len(m.cmds) == 0 {
		return nil
	}
	cmds := m.cmds
	m.cmds = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.height == 0 {
		return ""
	}
	lines := m.lines()
	out := make([]string, 0, m.height)

	if len(lines) == 0 {
		out = append(out, m.styles.placeholder.Render(m.clip(m.placeholder())))
	}
	end := min(len(lines), m.offset+m.listHeight())
	for _, ln := range lines[min(m.offset, end):end] {
		out = append(out, m.renderLine(ln))
	}
	for len(out) < m.listHeight() {
		out = append(out, "")
	}
	out = append(out, m.styles.status.Render(m.clip(m.status())))
	return strings.Join(out, "\n")
}

func (m *Model) renderLine(ln line) string {
	switch ln.kind {
	case lineHeader:
		return m.styles.header.Render(m.clip(ln.text))
	case lineFooter:
		return m.styles.footer.Render(m.clip(ln.text))
	}
	sl := m.slotAt(ln.pos)
	if sl == nil || sl.cell == nil {
		return ""
	}
	text := "  " + sl.cell.Title
	if sl.cell.Detail != "" {
		text += "  " + sl.cell.Detail
	}
	text = m.clip(text)
	switch sl.state {
	case rowInserted:
		return m.styles.inserted.Render(text)
	case rowMoved:
		return m.styles.moved.Render(text)
	}
	return m.styles.row.Render(text)
}

func (m *Model) clip(s string) string {
	if m.width <= 0 || runewidth.StringWidth(s) <= m.width {
		return s
	}
	return runewidth.Truncate(s, m.width, "…")
}

func (m *Model) placeholder() string {
	if q, ok := m.ds.(listsync.Querier); ok {
		if ans, ok := q.Query(PlaceholderQuery{}); ok {
			if s, ok := ans.(string); ok {
				return s
			}
		}
	}
	return defaultPlaceholder
}

func (m *Model) status() string {
	rows := 0
	for _, s := range m.sections {
		rows += len(s.rows)
	}
	st := fmt.Sprintf("%d sections · %d rows", len(m.sections), rows)
	if m.removed > 0 {
		st += fmt.Sprintf(" · %d removed", m.removed)
	}
	return st
}

// listHeight is the number of lines available for the list (the status line takes one).
func (m *Model) listHeight() int {
	return max(m.height-1, 0)
}

// lines flattens sections into display lines.
func (m *Model) lines() []line {
	var out []line
	for si, s := range m.sections {
		if h, ok := m.label(si, true); ok {
			out = append(out, line{kind: lineHeader, pos: listsync.Position{Section: si, Row: -1}, text: h})
		}
		for ri := range s.rows {
			out = append(out, line{kind: lineRow, pos: listsync.Position{Section: si, Row: ri}})
		}
		if f, ok := m.label(si, false); ok {
			out = append(out, line{kind: lineFooter, pos: listsync.Position{Section: si, Row: -1}, text: f})
		}
	}
	return out
}

func (m *Model) label(section int, header bool) (string, bool) {
	if m.ds == nil || section >= m.ds.SectionCount() {
		return "", false
	}
	if header {
		return m.ds.SectionHeader(section)
	}
	return m.ds.SectionFooter(section)
}

func (m *Model) slotAt(p listsync.Position) *slot {
	if p.Section < 0 || p.Section >= len(m.sections) {
		return nil
	}
	rows := m.sections[p.Section].rows
	if p.Row < 0 || p.Row >= len(rows) {
		return nil
	}
	return rows[p.Row]
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	m.layout()
}

// layout clamps the offset and realizes cells for exactly the visible rows.
func (m *Model) layout() {
	lines := m.lines()
	m.offset = min(m.offset, max(len(lines)-m.listHeight(), 0))
	m.offset = max(m.offset, 0)

	visible := map[listsync.Position]bool{}
	for _, p := range m.visibleRows(lines) {
		visible[p] = true
	}

	// Recycle first so newly visible rows can reuse cells.
	for si, s := range m.sections {
		for ri, sl := range s.rows {
			if sl.cell != nil && !visible[listsync.Position{Section: si, Row: ri}] {
				m.pool = append(m.pool, sl.cell)
				sl.cell = nil
			}
		}
	}
	for si, s := range m.sections {
		for ri, sl := range s.rows {
			p := listsync.Position{Section: si, Row: ri}
			if sl.cell == nil && visible[p] && m.ds != nil {
				sl.cell = m.ds.RenderRow(p, m.reuse())
			}
		}
	}
}

func (m *Model) reuse() *Cell {
	n := len(m.pool)
	if n == 0 {
		return nil
	}
	c := m.pool[n-1]
	m.pool = m.pool[:n-1]
	return c
}

func (m *Model) visibleRows(lines []line) []listsync.Position {
	var out []listsync.Position
	end := min(len(lines), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		if lines[i].kind == lineRow {
			out = append(out, lines[i].pos)
		}
	}
	return out
}

// SectionCount implements listsync.Widget: the number of sections displayed.
func (m *Model) SectionCount() int {
	return len(m.sections)
}

// VisiblePositions implements listsync.Widget.
func (m *Model) VisiblePositions() []listsync.Position {
	return m.visibleRows(m.lines())
}

// ViewAt implements listsync.Widget. Only on-screen rows have a view.
func (m *Model) ViewAt(p listsync.Position) (*Cell, bool) {
	sl := m.slotAt(p)
	if sl == nil || sl.cell == nil {
		return nil, false
	}
	return sl.cell, true
}

// ReloadAll implements listsync.Widget. Highlights are dropped; pending completions still fire when their batch settles.
func (m *Model) ReloadAll() {
	m.recycleAll()
	m.sections = nil
	m.removed = 0
	if m.ds != nil {
		m.sections = make([]*section, m.ds.SectionCount())
		for si := range m.sections {
			s := &section{rows: make([]*slot, m.ds.RowCount(si))}
			for ri := range s.rows {
				s.rows[ri] = &slot{}
			}
			m.sections[si] = s
		}
	}
	m.layout()
}

func (m *Model) recycleAll() {
	for _, s := range m.sections {
		for _, sl := range s.rows {
			if sl.cell != nil {
				m.pool = append(m.pool, sl.cell)
				sl.cell = nil
			}
		}
	}
}

func (m *Model) settle(id uint64) {
	for _, s := range m.sections {
		for _, sl := range s.rows {
			if sl.state != rowSteady && sl.batch <= id {
				sl.state = rowSteady
			}
		}
	}
	if id == m.lastBatch {
		m.removed = 0
	}
	if f, ok := m.settling[id]; ok {
		delete(m.settling, id)
		if f != nil {
			f()
		}
	}
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "bottom")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type styles struct {
	header      lipgloss.Style
	footer      lipgloss.Style
	row         lipgloss.Style
	inserted    lipgloss.Style
	moved       lipgloss.Style
	placeholder lipgloss.Style
	status      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		footer:      lipgloss.NewStyle().Faint(true),
		row:         lipgloss.NewStyle(),
		inserted:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		moved:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		placeholder: lipgloss.NewStyle().Faint(true).Italic(true),
		status:      lipgloss.NewStyle().Reverse(true),
	}
}
