package editscript

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff computes the edit script transforming old into new, comparing elements with ==.
func Diff[T comparable](old, new []T) Script[T] {
	return DiffFunc(old, new, func(v T) T { return v }, nil)
}

// DiffFunc computes the edit script transforming old into new. Two elements are equal iff key reports the same value for both and, when eq is non-nil, eq(a, b) is true.
//
// eq is only consulted for elements sharing a key. eq is assumed to be an equivalence within a key; if it is not, each element is classified against the first element
// of its key that eq accepts.
//
// DiffFunc panics if the inputs contain more than ~1.1M distinct equivalence classes.
func DiffFunc[T any, K comparable](old, new []T, key func(T) K, eq func(a, b T) bool) Script[T] {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}

	cls := newClassifier(key, eq)
	rOld := cls.runes(old)
	rNew := cls.runes(new)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // No deadline: never trade optimality for speed.
	diffs := dmp.DiffMainRunes(rOld, rNew, false)

	var removes, inserts []Edit[T]
	oi, ni := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oi += n
			ni += n
		case diffmatchpatch.DiffDelete:
			for i := 0; i < n; i++ {
				removes = append(removes, Edit[T]{Kind: Remove, From: oi, To: -1, Value: old[oi]})
				oi++
			}
		case diffmatchpatch.DiffInsert:
			for i := 0; i < n; i++ {
				inserts = append(inserts, Edit[T]{Kind: Insert, From: -1, To: ni, Value: new[ni]})
				ni++
			}
		}
	}
	if oi != len(old) || ni != len(new) {
		panic(fmt.Errorf("DiffFunc: diff covered %d/%d old and %d/%d new elements", oi, len(old), ni, len(new)))
	}

	script := inferMoves(removes, inserts, rOld, rNew)

	if err := validate(rOld, rNew, script); err != nil {
		panic(fmt.Errorf("DiffFunc: validate failed with %v", err))
	}

	return script
}

// inferMoves collapses removals and insertions of the same class into moves. Each removal (ascending From) takes the first unpaired insertion (ascending To) of its class.
func inferMoves[T any](removes, inserts []Edit[T], rOld, rNew []rune) Script[T] {
	// Per-class queue of insertion indexes, in ascending To order.
	queues := make(map[rune][]int, len(inserts))
	for i, ins := range inserts {
		r := rNew[ins.To]
		queues[r] = append(queues[r], i)
	}

	paired := make([]bool, len(inserts))
	var kept, moves []Edit[T]
	for _, rm := range removes {
		r := rOld[rm.From]
		q := queues[r]
		if len(q) == 0 {
			kept = append(kept, rm)
			continue
		}
		i := q[0]
		queues[r] = q[1:]
		paired[i] = true
		moves = append(moves, Edit[T]{Kind: Move, From: rm.From, To: inserts[i].To, Value: inserts[i].Value})
	}

	script := make(Script[T], 0, len(kept)+len(inserts)+len(moves))
	script = append(script, kept...)
	for i, ins := range inserts {
		if !paired[i] {
			script = append(script, ins)
		}
	}
	script = append(script, moves...)
	if len(script) == 0 {
		return nil
	}
	return script
}

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// classifier maps elements to runes so that equal elements share a rune. Surrogates are skipped so every rune survives a round trip through a Go string.
type classifier[T any, K comparable] struct {
	key   func(T) K
	eq    func(a, b T) bool
	byKey map[K][]class[T]
	next  rune
}

type class[T any] struct {
	rep T
	r   rune
}

func newClassifier[T any, K comparable](key func(T) K, eq func(a, b T) bool) *classifier[T, K] {
	return &classifier[T, K]{key: key, eq: eq, byKey: make(map[K][]class[T]), next: 1}
}

func (c *classifier[T, K]) runes(vs []T) []rune {
	out := make([]rune, len(vs))
	for i, v := range vs {
		out[i] = c.classOf(v)
	}
	return out
}

func (c *classifier[T, K]) classOf(v T) rune {
	k := c.key(v)
	classes := c.byKey[k]
	if c.eq == nil {
		if len(classes) > 0 {
			return classes[0].r
		}
	} else {
		for _, cl := range classes {
			if c.eq(cl.rep, v) {
				return cl.r
			}
		}
	}
	r := c.alloc()
	c.byKey[k] = append(classes, class[T]{rep: v, r: r})
	return r
}

func (c *classifier[T, K]) alloc() rune {
	r := c.next
	if r > unicode.MaxRune {
		panic("editscript: too many distinct elements")
	}
	c.next++
	if c.next == surrogateMin {
		c.next = surrogateMax + 1
	}
	return r
}
