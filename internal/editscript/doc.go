// Package editscript computes minimal edit scripts between two ordered sequences, with move inference.
//
// Representation: A Script is an ordered slice of Edits. Each Edit has a Kind:
//   - Remove: the element at old index From is removed.
//   - Insert: Value is inserted at new index To.
//   - Move: the element at old index From ends up at new index To.
//
// Coordinates: From always refers to the old sequence and To always refers to the new sequence. This is the batch convention used by list widgets: removals and move origins
// are addressed before any edit is applied, insertions and move destinations after all edits are applied.
//
// Ordering: Scripts list all removals (ascending From), then all insertions (ascending To), then all moves (in pairing order).
//
// Computing a script: Use Diff for comparable elements, or DiffFunc to supply an identity key plus an optional finer equality:
//
//	s := editscript.Diff([]string{"a", "b", "c"}, []string{"a", "c", "b"})
//	// s is a single Move (either b: 1->2, or c: 2->1).
//
// The raw insert/remove script is a shortest edit script (Myers). A second pass collapses a removal and an insertion of equal elements into one Move. Each removal, in
// ascending old index order, pairs with the first unpaired insertion (ascending new index) of an equal element. When several elements are equal under the comparison, which
// ones pair up is decided by this emission order (first match wins); consumers comparing by a coarse equality will observe that choice.
//
// Invariants:
//   - Apply(old, Diff(old, new)) reproduces new (elementwise equal under the comparison used).
//   - No old index is both removed and moved; no new index is both inserted and a move destination.
//   - Inputs are never mutated.
package editscript
