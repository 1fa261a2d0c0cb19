package editscript

import "fmt"

// slot describes where a new-sequence element comes from: an edit of the script (Insert or Move), or a surviving old element.
type slot struct {
	old  int // Old index for moves and survivors; -1 for inserts.
	edit int // Index into the script for inserts and moves; -1 for survivors.
}

// layout resolves s against an old sequence of length oldLen, returning one slot per element of the new sequence. It returns an error if s is inconsistent (out of range
// or duplicate indexes).
func layout[T any](oldLen int, s Script[T]) ([]slot, error) {
	gone := make([]bool, oldLen)
	size := oldLen
	for i, e := range s {
		switch e.Kind {
		case Remove, Move:
			if e.From < 0 || e.From >= oldLen {
				return nil, fmt.Errorf("edit[%d]: %v: from out of range [0, %d)", i, e, oldLen)
			}
			if gone[e.From] {
				return nil, fmt.Errorf("edit[%d]: %v: old index %d already removed or moved", i, e, e.From)
			}
			gone[e.From] = true
			if e.Kind == Remove {
				size--
			}
		case Insert:
			size++
		default:
			return nil, fmt.Errorf("edit[%d]: unknown kind %v", i, e.Kind)
		}
	}

	slots := make([]slot, size)
	filled := make([]bool, size)
	for i, e := range s {
		if e.Kind == Remove {
			continue
		}
		if e.To < 0 || e.To >= size {
			return nil, fmt.Errorf("edit[%d]: %v: to out of range [0, %d)", i, e, size)
		}
		if filled[e.To] {
			return nil, fmt.Errorf("edit[%d]: %v: new index %d already filled", i, e, e.To)
		}
		filled[e.To] = true
		old := -1
		if e.Kind == Move {
			old = e.From
		}
		slots[e.To] = slot{old: old, edit: i}
	}

	next := 0
	for oi := 0; oi < oldLen; oi++ {
		if gone[oi] {
			continue
		}
		for next < size && filled[next] {
			next++
		}
		// Counts guarantee a free slot exists for every survivor.
		slots[next] = slot{old: oi, edit: -1}
		filled[next] = true
	}

	return slots, nil
}

// Apply applies s to old, returning the new sequence. Survivors keep their old values; inserted and moved elements take Value from their edit (the element as it appears
// in the new sequence).
func Apply[T any](old []T, s Script[T]) ([]T, error) {
	slots, err := layout(len(old), s)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(slots))
	for i, sl := range slots {
		if sl.edit >= 0 {
			out[i] = s[sl.edit].Value
		} else {
			out[i] = old[sl.old]
		}
	}
	return out, nil
}

// validate checks that s transforms the class sequence rOld into rNew, and that the script is in canonical order.
func validate[T any](rOld, rNew []rune, s Script[T]) error {
	lastKind := Remove
	for i, e := range s {
		if e.Kind < lastKind {
			return fmt.Errorf("edit[%d]: %v after %v", i, e.Kind, lastKind)
		}
		lastKind = e.Kind
	}

	slots, err := layout(len(rOld), s)
	if err != nil {
		return err
	}
	if len(slots) != len(rNew) {
		return fmt.Errorf("script produces %d elements, want %d", len(slots), len(rNew))
	}
	for i, sl := range slots {
		if sl.old >= 0 && rOld[sl.old] != rNew[i] {
			return fmt.Errorf("new[%d] is filled from old[%d] but they are not equal", i, sl.old)
		}
	}
	return nil
}
