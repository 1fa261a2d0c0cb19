// Package reconcile diffs two snapshots of a sectioned list (sections of rows) and classifies what a list widget must do to go from one to the other.
//
// Rows have two equality facets, supplied by the caller as an Equality:
//   - Identity: a stable key, unique within its section, that survives content edits.
//   - Content: whether two rows with the same identity render identically.
//
// Reconcile runs two passes per section. The identity pass yields the structural edits (removals, insertions, moves) that a widget animates. The content pass compares
// rows by full equality (identity and content); a new row that this pass matches in place is Unchanged. A row whose identity stayed put but whose content changed is therefore
// neither a structural edit nor Unchanged: it is what a second, unanimated refresh pass must reconfigure.
//
// Coordinates: Removals and move origins are positions in the old snapshot; Insertions, move destinations, and Unchanged are positions in the new snapshot.
//
// Preconditions (not checked): row identities are unique within a section. Violations yield an unspecified (but internally consistent) result. Reconcile does check that both
// snapshots have the same number of sections, and returns ErrSectionCountMismatch otherwise; section insertion and removal are not diffed.
package reconcile
