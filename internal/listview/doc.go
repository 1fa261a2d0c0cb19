// Package listview is a terminal list widget, built on Bubble Tea, that a listsync.Controller can drive.
//
// A Model displays sections of rows queried from a listsync.DataSource. It keeps one slot per row but only realizes a *Cell for rows on screen: a row scrolled out of view
// gives its cell back to a pool, and a row scrolled in gets one from DataSource.RenderRow. ViewAt therefore only finds on-screen rows.
//
// Batches are applied at EndBatch. Inserted and moved rows are highlighted until the batch settles (after Options.Duration, or right away for AnimationNone); the completion
// then runs from Update when the settle message arrives, on the Bubble Tea program loop. Widget calls outside a batch are applied as a batch of one.
//
// If an applied batch leaves the widget disagreeing with the DataSource's counts, the widget logs the mismatch and reloads.
//
// Commands produced by widget calls made outside Update (for example by a controller reacting to a message the parent model received) are picked up by TakeCmd.
package listview
