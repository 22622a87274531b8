package queue

import (
	"iter"

	arena "github.com/pavanmanishd/firstfit"
)

// Iterator walks a queue from head to tail. The typical use is:
//
//	it := q.NewIterator()
//	for it.Next() {
//		v := it.Value()
//		// ...
//	}
//
// Next returns false once it has moved past the tail, so every element is
// visited. Popping the node an iterator stands on invalidates the iterator;
// using it afterwards panics.
type Iterator[T any] struct {
	q       *Queue[T]
	current arena.Ptr
	started bool
}

// NewIterator creates an iterator positioned before the first element.
// A call to Next() is required to advance to the first element.
func (q *Queue[T]) NewIterator() *Iterator[T] {
	return &Iterator[T]{q: q}
}

// Next moves the iterator to the next element and returns true if there is one.
func (it *Iterator[T]) Next() bool {
	switch {
	case !it.started:
		it.started = true
		it.current = it.q.head
	case !it.current.IsNil():
		it.current = it.q.alloc.At(it.current).next
	}
	return !it.current.IsNil()
}

// Value returns a pointer to the element at the current position.
// It should only be called after a call to Next() has returned true.
func (it *Iterator[T]) Value() *T {
	if it.current.IsNil() {
		panic("queue: Value called without a current element")
	}
	return &it.q.alloc.At(it.current).value
}

// Reset moves the iterator back before the first element.
func (it *Iterator[T]) Reset() {
	it.started = false
	it.current = arena.Ptr{}
}

// All returns a sequence of the queue's elements from head to tail.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for p := q.head; !p.IsNil(); {
			n := q.alloc.At(p)
			if !yield(n.value) {
				return
			}
			p = n.next
		}
	}
}

// Pointers returns a sequence of pointers to the queue's elements, head to
// tail, for in-place updates.
func (q *Queue[T]) Pointers() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for p := q.head; !p.IsNil(); {
			n := q.alloc.At(p)
			if !yield(&n.value) {
				return
			}
			p = n.next
		}
	}
}
