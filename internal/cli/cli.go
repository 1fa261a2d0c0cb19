// Package cli implements the listsync command line: watching a snapshot file in a live terminal list, and printing the reconciliation between two snapshot files.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is the listsync version. It is a var so build tooling can override it (ex: `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// RunOptions overrides standard I/O. Nil fields use the process's own. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// usageError marks errors caused by malformed arguments or flags.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code and the error, if any:
//   - 0 -> err == nil
//   - 1 -> the command failed
//   - 2 -> args or flags were malformed
//
// On error, Run has already printed a message to the error writer.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	std := stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if opts != nil {
		if opts.In != nil {
			std.in = opts.In
		}
		if opts.Out != nil {
			std.out = opts.Out
		}
		if opts.Err != nil {
			std.err = opts.Err
		}
	}

	root := newRootCommand(std)
	root.SetArgs(argv)
	root.SetIn(std.in)
	root.SetOut(std.out)
	root.SetErr(std.err)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0, nil
	}
	fmt.Fprintf(std.err, "listsync: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(std.err, "Run 'listsync --help' for usage.")
		return 2, err
	}
	return 1, err
}

type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newRootCommand(std stdio) *cobra.Command {
	root := &cobra.Command{
		Use:           "listsync",
		Short:         "Keep a live list view in sync with a changing snapshot file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(newWatchCommand(std), newDiffCommand(std), newVersionCommand(std))
	return root
}

func newVersionCommand(std stdio) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(std.out, Version)
			return err
		},
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
