package cli

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codalotl/listsync/internal/reconcile"
	"github.com/codalotl/listsync/internal/snapshotfile"
)

func newDiffCommand(std stdio) *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the edits that turn snapshot file OLD into NEW",
		Long: `Print the edits that turn snapshot file OLD into NEW, in the order a list widget would apply them:
removals (old positions), insertions and moves (new positions), then the rows whose content would be refreshed.
Positions are (section,row). If the files have different section counts, the list would be fully reloaded.`,
		Args: exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			old, err := snapshotfile.Load(args[0])
			if err != nil {
				return err
			}
			next, err := snapshotfile.Load(args[1])
			if err != nil {
				return err
			}
			return printDiff(std.out, old, next, newPalette(std.out))
		},
	}
}

type palette struct {
	remove, insert, move, update, note *color.Color
}

// newPalette colors output only when w is a terminal.
func newPalette(w io.Writer) palette {
	p := palette{
		remove: color.New(color.FgRed),
		insert: color.New(color.FgGreen),
		move:   color.New(color.FgCyan),
		update: color.New(color.FgYellow),
		note:   color.New(color.Faint),
	}
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		for _, c := range []*color.Color{p.remove, p.insert, p.move, p.update, p.note} {
			c.DisableColor()
		}
	}
	return p
}

func printDiff(w io.Writer, old, next reconcile.Snapshot[snapshotfile.Item], p palette) error {
	res, err := reconcile.Reconcile(old, next, snapshotfile.ItemEquality)
	if errors.Is(err, reconcile.ErrSectionCountMismatch) {
		_, err := p.update.Fprintf(w, "full reload: %d -> %d sections\n", old.SectionCount(), next.SectionCount())
		return err
	}
	if err != nil {
		return err
	}

	moved := reconcile.NewPositionSet()
	for _, m := range res.Moves {
		moved.Add(m.To)
	}
	inserted := reconcile.NewPositionSet(res.Insertions...)

	var updates []reconcile.Position
	for _, pos := range next.Positions() {
		if !res.Unchanged.Contains(pos) && !inserted.Contains(pos) && !moved.Contains(pos) {
			updates = append(updates, pos)
		}
	}

	if !res.HasStructuralChanges() && len(updates) == 0 {
		_, err := p.note.Fprintln(w, "no changes")
		return err
	}

	row := func(s reconcile.Snapshot[snapshotfile.Item], pos reconcile.Position) string {
		it, _ := s.Row(pos)
		return it.ID
	}
	for _, pos := range res.Removals {
		if _, err := p.remove.Fprintf(w, "- %s %s\n", pos, row(old, pos)); err != nil {
			return err
		}
	}
	for _, pos := range res.Insertions {
		if _, err := p.insert.Fprintf(w, "+ %s %s\n", pos, row(next, pos)); err != nil {
			return err
		}
	}
	for _, m := range res.Moves {
		if _, err := p.move.Fprintf(w, "> %s -> %s %s\n", m.From, m.To, row(next, m.To)); err != nil {
			return err
		}
	}
	for _, pos := range updates {
		if _, err := p.update.Fprintf(w, "~ %s %s\n", pos, row(next, pos)); err != nil {
			return err
		}
	}
	return nil
}
