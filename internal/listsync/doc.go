// Package listsync keeps a list widget in sync with a changing snapshot of sections and rows, using animated batch edits instead of full redraws.
//
// A Controller owns the live snapshot. Each call to Update picks one strategy:
//   - Initial population: no snapshot is held yet and animation is enabled. Every section and every row is inserted with animation. If the widget already shows sections
//     (it disagrees with "nothing held"), the controller reloads instead.
//   - Full reload: animation is disabled, or the section count changed. The widget redraws everything.
//   - Incremental: animation is enabled and section counts match. The snapshots are reconciled (see package reconcile) and one batch is issued holding all removals, then
//     all insertions, then all moves. Once the widget reports the batch as settled, visible rows that are not Unchanged are reconfigured in place, without animation.
//
// The held snapshot is replaced in one assignment before any widget call of the update, so the widget only ever queries a consistent model.
//
// Overlapping updates: an Update while a batch is in flight is deferred (StrategyDeferred). Only the most recent deferred snapshot is kept; it is applied right after the
// in-flight batch's refresh pass. Intermediate deferred snapshots are never shown.
//
// The Controller is also the widget's DataSource: it reports counts and rows from the held snapshot, and section labels from the snapshot or, when a section carries none,
// from a fallback LabelSource. Queries outside the DataSource contract are forwarded to the fallback if it implements Querier.
//
// Threading: a Controller is not safe for concurrent use. Drive Update and the batch completion callback from the widget's event loop.
package listsync
