package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/codalotl/listsync/internal/config"
	"github.com/codalotl/listsync/internal/listsync"
	"github.com/codalotl/listsync/internal/reconcile"
	"github.com/codalotl/listsync/internal/simplelogger"
	"github.com/codalotl/listsync/internal/snapshotfile"
)

var errNotTerminal = errors.New("watch needs a terminal")

func newWatchCommand(std stdio) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Show snapshot file FILE as a live list, animating changes as the file is edited",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, os.LookupEnv)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), std, args[0], cfg)
		},
	}
	cmd.Flags().String("config", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().Bool("no-animate", false, "apply every change as a full reload")
	cmd.Flags().String("animation", "", "row animation: automatic, fade, or none")
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics at this address (ex: :9090)")
	return cmd
}

// resolveConfig layers the flags set on cmd over the loaded config, and validates the result.
func resolveConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, lookup)
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("no-animate") {
		noAnimate, _ := flags.GetBool("no-animate")
		cfg.Animate = !noAnimate
	}
	if flags.Changed("animation") {
		cfg.Animation, _ = flags.GetString("animation")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, usageError{err}
	}
	return cfg, nil
}

func runWatch(ctx context.Context, std stdio, path string, cfg config.Config) error {
	if f, ok := std.out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return errNotTerminal
	}

	level, _ := simplelogger.ParseLevel(cfg.LogLevel)
	logger, closer, err := simplelogger.New(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	metrics, err := listsync.NewMetrics(reg)
	if err != nil {
		return err
	}

	a := newApp(path, cfg, logger, metrics)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	prog := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(std.in), tea.WithOutput(std.out))
	g.Go(func() error {
		defer cancel()
		_, err := prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	watcher := &snapshotfile.Watcher{Path: path, Logger: logger}
	g.Go(func() error {
		return watcher.Watch(ctx,
			func(s reconcile.Snapshot[snapshotfile.Item]) { prog.Send(snapshotMsg{s}) },
			func(err error) {
				logger.Warn("snapshot load failed", "err", err)
				prog.Send(loadErrMsg{err})
			},
		)
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
