// Package pqueue provides an indexed binary min-heap with decrease-key.
//
// Ordering is defined by a caller-supplied lessOrEqual predicate, so the same
// queue serves numeric distances, inverted orderings, or composite keys. Every
// pushed item gets a [Handle] that stays valid while the item is queued and
// lets [Queue.ReduceKey] reposition the item in O(log n).
//
//	q := pqueue.New(func(a, b float64) bool { return a <= b })
//	h := q.Push(42)
//	q.Push(5, 23)
//	q.ReduceKey(h, 1)
//	v, _ := q.Pop() // 1
package pqueue

import (
	"fmt"
	"strings"
)

// Handle references a queued item. The zero value is not usable; handles are
// created by [Queue.Push].
type Handle[T any] struct {
	value T
	index int // position in the heap, -1 once popped
}

// Value returns the item's current value.
func (h *Handle[T]) Value() T { return h.value }

// Queued reports whether the item is still in its queue.
func (h *Handle[T]) Queued() bool { return h.index >= 0 }

// Queue is a binary min-heap ordered by lessOrEqual.
// It is not safe for concurrent use.
type Queue[T any] struct {
	items       []*Handle[T]
	lessOrEqual func(a, b T) bool
}

// New returns an empty queue ordered by lessOrEqual.
func New[T any](lessOrEqual func(a, b T) bool) *Queue[T] {
	return &Queue[T]{lessOrEqual: lessOrEqual}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Empty reports whether the queue has no items.
func (q *Queue[T]) Empty() bool { return len(q.items) == 0 }

// Push adds values to the queue and returns the handle of the last one.
// Push with no values returns nil.
func (q *Queue[T]) Push(values ...T) *Handle[T] {
	var h *Handle[T]
	for _, v := range values {
		h = &Handle[T]{value: v, index: len(q.items)}
		q.items = append(q.items, h)
		q.siftUp(h.index)
	}
	return h
}

// Top returns the minimum value without removing it.
func (q *Queue[T]) Top() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0].value, true
}

// Pop removes and returns the minimum value.
func (q *Queue[T]) Pop() (T, bool) {
	n := len(q.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	top := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	if n > 1 {
		q.items[0] = last
		last.index = 0
		q.siftDown(0)
	}
	top.index = -1
	return top.value, true
}

// ReduceKey replaces the value of a queued item with v, which must order
// before or equal to the current value, and restores the heap property.
// It panics if h is no longer queued.
func (q *Queue[T]) ReduceKey(h *Handle[T], v T) {
	if h.index < 0 || h.index >= len(q.items) || q.items[h.index] != h {
		panic("pqueue: ReduceKey on an item that is not queued")
	}
	h.value = v
	q.siftUp(h.index)
}

// Values returns the queued values in heap order.
func (q *Queue[T]) Values() []T {
	out := make([]T, len(q.items))
	for i, h := range q.items {
		out[i] = h.value
	}
	return out
}

// String renders the heap as an indented tree, one item per line.
func (q *Queue[T]) String() string {
	var b strings.Builder
	var walk func(i, depth int)
	walk = func(i, depth int) {
		if i >= len(q.items) {
			return
		}
		fmt.Fprintf(&b, "%s%v\n", strings.Repeat("  ", depth), q.items[i].value)
		walk(2*i+1, depth+1)
		walk(2*i+2, depth+1)
	}
	walk(0, 0)
	return b.String()
}

func (q *Queue[T]) siftUp(i int) {
	h := q.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if q.lessOrEqual(q.items[parent].value, h.value) {
			break
		}
		q.items[i] = q.items[parent]
		q.items[i].index = i
		i = parent
	}
	q.items[i] = h
	h.index = i
}

func (q *Queue[T]) siftDown(i int) {
	n := len(q.items)
	h := q.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if r := child + 1; r < n && !q.lessOrEqual(q.items[child].value, q.items[r].value) {
			child = r
		}
		if q.lessOrEqual(h.value, q.items[child].value) {
			break
		}
		q.items[i] = q.items[child]
		q.items[i].index = i
		i = child
	}
	q.items[i] = h
	h.index = i
}
