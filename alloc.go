package arena

import (
	"reflect"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Allocator is a typed handle that binds a container to one Arena. It is
// cheap to copy and every copy refers to the same Arena, which must outlive
// all handles and containers built on it. The zero Allocator is unbound and
// fails every allocation with ErrUnbound.
type Allocator[T any] struct {
	arena    *Arena
	pointers bool // T holds Go pointers and is boxed on the heap
}

// NewAllocator returns a handle allocating T values from a.
func NewAllocator[T any](a *Arena) Allocator[T] {
	return Allocator[T]{arena: a, pointers: hasPointers(reflect.TypeFor[T]())}
}

// Rebind returns a handle for U bound to the same arena as h. Containers use
// it to turn an element allocator into a node allocator.
func Rebind[U, T any](h Allocator[T]) Allocator[U] {
	return NewAllocator[U](h.arena)
}

// Arena returns the arena h is bound to, or nil.
func (h Allocator[T]) Arena() *Arena {
	return h.arena
}

// Equal reports whether h and o allocate from the same arena instance.
func (h Allocator[T]) Equal(o Allocator[T]) bool {
	return h.arena == o.arena
}

// AllocateRaw reserves uninitialized storage for n values of T, aligned for T.
func (h Allocator[T]) AllocateRaw(n int) (Ptr, error) {
	if h.arena == nil {
		return Ptr{}, misuse(ErrUnbound)
	}
	h.arena.panicIfReleased()
	if n < 0 {
		return Ptr{}, h.arena.misuse(errors.Wrapf(ErrInvalidSize, "allocate %d values", n))
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if sz > 0 && n > MaxCapacity/sz {
		return Ptr{}, h.arena.outOfMemory(errors.Wrapf(ErrOutOfMemory, "allocate %d values of %d bytes", n, sz))
	}
	return h.arena.Allocate(n*sz, int(unsafe.Alignof(zero)))
}

// DeallocateRaw returns storage for n values of T obtained from AllocateRaw.
// Values constructed in it should be destroyed first.
func (h Allocator[T]) DeallocateRaw(p Ptr, n int) error {
	if h.arena == nil {
		return misuse(ErrUnbound)
	}
	h.arena.panicIfReleased()
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if n < 0 || (sz > 0 && n > MaxCapacity/sz) {
		return h.arena.misuse(errors.Wrapf(ErrSizeMismatch, "free %s: %d values of %d bytes", p, n, sz))
	}
	return h.arena.Deallocate(p, n*sz, int(unsafe.Alignof(zero)))
}

// Construct stores v in the storage at p and returns a pointer to it.
// It does not allocate from the arena.
//
// Values of a type holding Go pointers cannot live in the untyped buffer
// without hiding their referents from the garbage collector, so they are kept
// in a heap box owned by the arena for as long as the region stays live. The
// region still accounts for their size.
func (h Allocator[T]) Construct(p Ptr, v T) *T {
	t := h.at(p)
	*t = v
	return t
}

// Destroy zeroes the value at p. The storage stays allocated.
func (h Allocator[T]) Destroy(p Ptr) {
	t := h.at(p)
	var zero T
	*t = zero
	if h.pointers {
		h.arena.dropBox(p)
	}
}

// At returns a pointer to the value at p. It panics if p is nil or its
// storage has been freed.
func (h Allocator[T]) At(p Ptr) *T {
	return h.at(p)
}

func (h Allocator[T]) at(p Ptr) *T {
	if h.arena == nil {
		panic("arena: allocator is not bound to an arena")
	}
	ptr, n := h.arena.addr(p)
	var zero T
	if uintptr(n) < unsafe.Sizeof(zero) {
		panic("arena: region too small for value")
	}
	if !h.pointers {
		return (*T)(ptr)
	}
	if v, ok := h.arena.box(p); ok {
		if t, ok := v.(*T); ok {
			return t
		}
	}
	t := new(T)
	h.arena.setBox(p, t)
	return t
}

// hasPointers reports whether values of t contain pointers the garbage
// collector needs to see.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
