package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codalotl/listsync/internal/config"
	"github.com/codalotl/listsync/internal/listsync"
	"github.com/codalotl/listsync/internal/listview"
	"github.com/codalotl/listsync/internal/reconcile"
	"github.com/codalotl/listsync/internal/snapshotfile"
)

type snapshotMsg struct{ snap reconcile.Snapshot[snapshotfile.Item] }

type loadErrMsg struct{ err error }

// app is the watch command's root model: the list widget plus a line for the most recent load error.
type app struct {
	name   string
	list   *listview.Model
	ctl    *listsync.Controller[snapshotfile.Item, string, *listview.Cell]
	logger *slog.Logger

	loaded  bool
	lastErr error
	width   int

	errStyle lipgloss.Style
}

func newApp(path string, cfg config.Config, logger *slog.Logger, metrics *listsync.Metrics) *app {
	anim, _ := listsync.ParseAnimation(cfg.Animation)
	duration := time.Duration(cfg.AnimationMS) * time.Millisecond
	if !cfg.Animate {
		duration = 0
	}

	a := &app{
		name:     filepath.Base(path),
		logger:   logger,
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	a.list = listview.New(listview.Options{Duration: duration, Logger: logger})
	a.ctl = listsync.New[snapshotfile.Item, string, *listview.Cell](a.list, snapshotfile.ItemEquality, listsync.Options[snapshotfile.Item, *listview.Cell]{
		Animated:  cfg.Animate,
		Animation: anim,
		Configure: renderItem,
		Fallback:  fallbackLabels{a},
		Logger:    logger,
		Metrics:   metrics,
	})
	a.list.SetDataSource(a.ctl)
	return a
}

func renderItem(_ listsync.Position, it snapshotfile.Item, reuse *listview.Cell) *listview.Cell {
	if reuse == nil {
		reuse = &listview.Cell{}
	}
	reuse.Title = it.Title
	reuse.Detail = it.Detail
	return reuse
}

func (a *app) Init() tea.Cmd {
	return a.list.Init()
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		a.loaded = true
		a.lastErr = nil
		strategy := a.ctl.Update(msg.snap)
		a.logger.Debug("snapshot applied", "strategy", strategy.String())
		return a, a.list.TakeCmd()
	case loadErrMsg:
		a.lastErr = msg.err
		return a, nil
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.list.SetSize(msg.Width, max(msg.Height-1, 0))
		return a, a.list.TakeCmd()
	}
	_, cmd := a.list.Update(msg)
	return a, cmd
}

func (a *app) View() string {
	line := ""
	if a.lastErr != nil {
		line = a.errStyle.MaxWidth(a.width).Render(a.lastErr.Error())
	}
	return a.list.View() + "\n" + line
}

// fallbackLabels numbers unlabeled sections and supplies the empty-list text.
type fallbackLabels struct{ a *app }

func (f fallbackLabels) SectionHeader(section int) (string, bool) {
	return fmt.Sprintf("Section %d", section+1), true
}

func (f fallbackLabels) SectionFooter(int) (string, bool) {
	return "", false
}

func (f fallbackLabels) Query(q any) (any, bool) {
	if _, ok := q.(listview.PlaceholderQuery); !ok {
		return nil, false
	}
	switch {
	case !f.a.loaded && f.a.lastErr != nil:
		return fmt.Sprintf("Could not load %s", f.a.name), true
	case !f.a.loaded:
		return fmt.Sprintf("Loading %s...", f.a.name), true
	default:
		return fmt.Sprintf("%s has no rows", f.a.name), true
	}
}
