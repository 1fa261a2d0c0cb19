package editscript

import "fmt"

// Kind is the kind of an Edit.
type Kind int

// Edit kinds.
const (
	Remove Kind = iota
	Insert
	Move
)

func (k Kind) String() string {
	switch k {
	case Remove:
		return "remove"
	case Insert:
		return "insert"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Edit is one operation of a Script.
type Edit[T any] struct {
	Kind  Kind // Remove, Insert, or Move.
	From  int  // Old index. Set for Remove and Move; -1 for Insert.
	To    int  // New index. Set for Insert and Move; -1 for Remove.
	Value T    // Inserted or moved element for Insert/Move; the removed element for Remove.
}

func (e Edit[T]) String() string {
	switch e.Kind {
	case Remove:
		return fmt.Sprintf("remove(%d)", e.From)
	case Insert:
		return fmt.Sprintf("insert(%d, %v)", e.To, e.Value)
	case Move:
		return fmt.Sprintf("move(%d->%d)", e.From, e.To)
	}
	return e.Kind.String()
}

// Script is an ordered sequence of edits transforming an old sequence into a new one. See the package doc for ordering and coordinates.
type Script[T any] []Edit[T]

// Removes returns the Remove edits of s.
func (s Script[T]) Removes() []Edit[T] {
	return s.filter(Remove)
}

// Inserts returns the Insert edits of s.
func (s Script[T]) Inserts() []Edit[T] {
	return s.filter(Insert)
}

// Moves returns the Move edits of s.
func (s Script[T]) Moves() []Edit[T] {
	return s.filter(Move)
}

// Empty reports whether s has no edits.
func (s Script[T]) Empty() bool {
	return len(s) == 0
}

func (s Script[T]) filter(k Kind) []Edit[T] {
	var out []Edit[T]
	for _, e := range s {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
