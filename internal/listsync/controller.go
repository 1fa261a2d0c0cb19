package listsync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/codalotl/listsync/internal/reconcile"
)

// Strategy is how an Update was (or will be) applied.
type Strategy int

const (
	StrategyInitial     Strategy = iota // Animated insertion of everything.
	StrategyReload                      // Full, unanimated redraw.
	StrategyIncremental                 // Animated batch of structural edits, then a content refresh.
	StrategyDeferred                    // A batch was in flight; the snapshot is applied when it settles.
)

func (s Strategy) String() string {
	switch s {
	case StrategyInitial:
		return "initial"
	case StrategyReload:
		return "reload"
	case StrategyIncremental:
		return "incremental"
	case StrategyDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Options configures a Controller.
type Options[R, V any] struct {
	Animated  bool          // If false, every Update is a full reload.
	Animation Animation     // Animation for inserted and deleted rows.
	Configure RowFunc[R, V] // Required.
	Fallback  LabelSource   // Optional. Labels for unlabeled sections; Query target if it implements Querier.
	Logger    *slog.Logger  // Optional.
	Metrics   *Metrics      // Optional.
}

// Controller owns the live snapshot and keeps a Widget in sync with it. See the package doc.
type Controller[R any, K comparable, V any] struct {
	widget Widget[V]
	eq     reconcile.Equality[R, K]
	opts   Options[R, V]
	logger *slog.Logger

	snapshot  reconcile.Snapshot[R]
	populated bool // A snapshot is held (the widget was populated at least once).

	inFlight bool                   // A batch was issued and its completion has not fired.
	txn      uint64                 // Identifies the in-flight batch.
	pending  *reconcile.Snapshot[R] // Latest snapshot deferred while in flight.
}

// New returns a controller that drives widget. It holds no snapshot until the first Update. New panics if opts.Configure is nil.
func New[R any, K comparable, V any](widget Widget[V], eq reconcile.Equality[R, K], opts Options[R, V]) *Controller[R, K, V] {
	if opts.Configure == nil {
		panic("listsync: Options.Configure is required")
	}
	if eq.Identity == nil {
		panic("listsync: Equality.Identity is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[R, K, V]{widget: widget, eq: eq, opts: opts, logger: logger}
}

// Snapshot returns the held snapshot. ok is false until the first Update.
func (c *Controller[R, K, V]) Snapshot() (s reconcile.Snapshot[R], ok bool) {
	return c.snapshot, c.populated
}

// InFlight reports whether a batch has been issued and has not completed yet.
func (c *Controller[R, K, V]) InFlight() bool {
	return c.inFlight
}

// Update makes next the live snapshot and brings the widget in line with it, returning the strategy used. next must not be mutated afterwards.
func (c *Controller[R, K, V]) Update(next reconcile.Snapshot[R]) Strategy {
	if c.inFlight {
		if c.pending != nil {
			c.logger.Debug("listsync: superseding deferred snapshot", "txn", c.txn)
		}
		c.pending = &next
		c.opts.Metrics.observeUpdate(StrategyDeferred)
		return StrategyDeferred
	}

	strategy := c.choose(next)
	c.logger.Debug("listsync: update", "strategy", strategy, "sections", next.SectionCount())

	switch strategy {
	case StrategyInitial:
		c.populate(next)
	case StrategyIncremental:
		strategy = c.incremental(next)
	default:
		c.reload(next)
	}
	c.opts.Metrics.observeUpdate(strategy)
	return strategy
}

func (c *Controller[R, K, V]) choose(next reconcile.Snapshot[R]) Strategy {
	if !c.opts.Animated {
		return StrategyReload
	}
	if !c.populated {
		if n := c.widget.SectionCount(); n != 0 {
			c.logger.Warn("listsync: widget is not empty before initial population; reloading", "widget_sections", n)
			return StrategyReload
		}
		return StrategyInitial
	}
	if c.snapshot.SectionCount() != next.SectionCount() {
		return StrategyReload
	}
	return StrategyIncremental
}

func (c *Controller[R, K, V]) reload(next reconcile.Snapshot[R]) {
	c.snapshot = next
	c.populated = true
	c.widget.ReloadAll()
}

func (c *Controller[R, K, V]) populate(next reconcile.Snapshot[R]) {
	c.snapshot = next
	c.populated = true

	txn := c.begin()
	c.widget.BeginBatch()
	if n := next.SectionCount(); n > 0 {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		c.widget.InsertSections(indices, c.opts.Animation)
	}
	if positions := next.Positions(); len(positions) > 0 {
		c.widget.InsertRows(positions, c.opts.Animation)
		c.opts.Metrics.observeRowOps("insert", len(positions))
	}
	c.widget.EndBatch(func() { c.complete(txn, nil) })
}

func (c *Controller[R, K, V]) incremental(next reconcile.Snapshot[R]) Strategy {
	start := time.Now()
	res, err := reconcile.Reconcile(c.snapshot, next, c.eq)
	if err != nil {
		// choose only picks incremental for matching section counts.
		c.logger.Error("listsync: reconcile failed; reloading", "err", err)
		c.reload(next)
		return StrategyReload
	}
	c.opts.Metrics.observeReconcile(time.Since(start))

	c.snapshot = next

	txn := c.begin()
	c.widget.BeginBatch()
	if len(res.Removals) > 0 {
		c.widget.DeleteRows(res.Removals, c.opts.Animation)
	}
	if len(res.Insertions) > 0 {
		c.widget.InsertRows(res.Insertions, c.opts.Animation)
	}
	for _, m := range res.Moves {
		c.widget.MoveRow(m.From, m.To)
	}
	c.opts.Metrics.observeRowOps("delete", len(res.Removals))
	c.opts.Metrics.observeRowOps("insert", len(res.Insertions))
	c.opts.Metrics.observeRowOps("move", len(res.Moves))
	c.logger.Debug("listsync: batch", "txn", txn, "removals", len(res.Removals), "insertions", len(res.Insertions), "moves", len(res.Moves))

	unchanged := res.Unchanged
	c.widget.EndBatch(func() { c.complete(txn, unchanged) })
	return StrategyIncremental
}

func (c *Controller[R, K, V]) begin() uint64 {
	c.txn++
	c.inFlight = true
	return c.txn
}

// complete runs when batch txn has settled. unchanged is nil for batches that need no refresh pass.
func (c *Controller[R, K, V]) complete(txn uint64, unchanged reconcile.PositionSet) {
	if !c.inFlight || txn != c.txn {
		c.logger.Warn("listsync: ignoring stale batch completion", "txn", txn, "current", c.txn)
		return
	}
	if unchanged != nil {
		c.refresh(unchanged)
	}
	c.inFlight = false

	if p := c.pending; p != nil {
		c.pending = nil
		c.Update(*p)
	}
}

// refresh reconfigures visible rows that are not in unchanged, without animation.
func (c *Controller[R, K, V]) refresh(unchanged reconcile.PositionSet) {
	n := 0
	for _, p := range c.widget.VisiblePositions() {
		if unchanged.Contains(p) {
			continue
		}
		row, ok := c.snapshot.Row(p)
		if !ok {
			// Visibility may lag the model by a frame.
			c.logger.Debug("listsync: skipping out-of-bounds visible row", "pos", p)
			continue
		}
		view, ok := c.widget.ViewAt(p)
		if !ok {
			continue
		}
		c.opts.Configure(p, row, view)
		n++
	}
	c.opts.Metrics.observeRefreshes(n)
}
