// Package queue implements a singly linked FIFO queue whose nodes are
// allocated from an arena.
package queue

import (
	"github.com/cockroachdb/errors"

	arena "github.com/pavanmanishd/firstfit"
)

// node links hold arena handles rather than Go pointers, so a freed node can
// never be reached through a stale link without a panic.
type node[T any] struct {
	value T
	next  arena.Ptr
}

// Queue is a FIFO of T values stored in arena nodes. Not goroutine-safe.
//
// The zero Queue is unusable; create queues with New. The arena behind the
// allocator must outlive the queue.
type Queue[T any] struct {
	alloc arena.Allocator[node[T]]
	head  arena.Ptr
	tail  arena.Ptr
	count int
}

// New creates an empty queue allocating its nodes through alloc.
func New[T any](alloc arena.Allocator[T]) *Queue[T] {
	return &Queue[T]{alloc: arena.Rebind[node[T]](alloc)}
}

// Allocator returns an element allocator bound to the queue's arena.
func (q *Queue[T]) Allocator() arena.Allocator[T] {
	return arena.Rebind[T](q.alloc)
}

// Push appends v at the tail. It fails only when the arena cannot hold
// another node, returning the arena's ErrOutOfMemory error unchanged; the
// queue is not modified in that case.
func (q *Queue[T]) Push(v T) error {
	p, err := q.alloc.AllocateRaw(1)
	if err != nil {
		return err
	}
	q.alloc.Construct(p, node[T]{value: v})
	if q.tail.IsNil() {
		q.head = p
	} else {
		q.alloc.At(q.tail).next = p
	}
	q.tail = p
	q.count++
	return nil
}

// Pop removes the head element and releases its node.
// Pop on an empty queue does nothing. It panics if the head node is no
// longer live in the arena, which means the arena was reset or the node was
// freed behind the queue's back.
func (q *Queue[T]) Pop() {
	if q.head.IsNil() {
		return
	}
	if err := q.pop(); err != nil {
		panic(err)
	}
}

func (q *Queue[T]) pop() error {
	old := q.head
	if !q.alloc.Arena().Contains(old) {
		return errors.AssertionFailedf("queue: head node %s is not live", old)
	}
	q.head = q.alloc.At(old).next
	if q.head.IsNil() {
		q.tail = arena.Ptr{}
	}
	q.count--
	q.alloc.Destroy(old)
	if err := q.alloc.DeallocateRaw(old, 1); err != nil {
		return errors.NewAssertionErrorWithWrappedErrf(err, "queue: release node %s", old)
	}
	return nil
}

// Dequeue removes and returns the head element.
// Returns (zero, false) if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.head.IsNil() {
		var zero T
		return zero, false
	}
	v := q.alloc.At(q.head).value
	q.Pop()
	return v, true
}

// Front returns a pointer to the head element, valid until it is popped.
// It panics if the queue is empty.
func (q *Queue[T]) Front() *T {
	if q.head.IsNil() {
		panic("queue: Front of empty queue")
	}
	return &q.alloc.At(q.head).value
}

// Back returns a pointer to the tail element, valid until it is popped.
// It panics if the queue is empty.
func (q *Queue[T]) Back() *T {
	if q.tail.IsNil() {
		panic("queue: Back of empty queue")
	}
	return &q.alloc.At(q.tail).value
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int {
	return q.count
}

// IsEmpty reports whether the queue has no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.count == 0
}

// Clear pops every element, returning all nodes to the arena.
func (q *Queue[T]) Clear() {
	for !q.IsEmpty() {
		q.Pop()
	}
}

// Close releases every remaining node. The queue stays usable and empty.
//
// If a node cannot be released, the rest of the chain is abandoned to the
// arena and the assertion error is returned.
func (q *Queue[T]) Close() error {
	for !q.head.IsNil() {
		if err := q.pop(); err != nil {
			q.head, q.tail, q.count = arena.Ptr{}, arena.Ptr{}, 0
			return err
		}
	}
	return nil
}
