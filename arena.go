package arena

import (
	"cmp"
	"log/slog"
	"slices"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// DefaultCapacity is the buffer size of arenas created with a capacity <= 0.
const DefaultCapacity = 1 << 10

// MaxCapacity is the largest buffer an arena can manage.
const MaxCapacity = 1 << 30

// Arena is a fixed-size byte buffer with first-fit allocation tracking.
// It never grows, never compacts, and is not goroutine-safe.
type Arena struct {
	buf     []byte
	regions []region    // sorted by offset
	boxes   map[Ptr]any // heap homes of values that hold Go pointers
	logger  *slog.Logger

	allocs int
	frees  int
	failed int
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger used to report failed allocations (Debug) and
// misuse (Warn). Arenas are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewArena creates a new Arena with the specified capacity in bytes.
// If capacity <= 0, DefaultCapacity is used.
func NewArena(capacity int, opts ...Option) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity > MaxCapacity {
		panic("arena: capacity exceeds MaxCapacity")
	}
	a := &Arena{
		buf:    alignedBuffer(capacity),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Allocate reserves size bytes aligned to alignment and returns a handle to
// them. The first gap between live regions, in offset order, that can hold
// the request wins. An alignment <= 0 means byte granular.
//
// Allocate fails with ErrOutOfMemory when no gap is large enough, whether the
// arena is full or merely fragmented.
func (a *Arena) Allocate(size, alignment int) (Ptr, error) {
	a.panicIfReleased()
	if size < 0 {
		return Ptr{}, a.misuse(errors.Wrapf(ErrInvalidSize, "allocate %d bytes", size))
	}
	if alignment <= 0 {
		alignment = 1
	}
	if alignment&(alignment-1) != 0 {
		return Ptr{}, a.misuse(errors.Wrapf(ErrBadAlignment, "alignment %d", alignment))
	}

	if size > len(a.buf) {
		return Ptr{}, a.outOfMemory(errors.Wrapf(ErrOutOfMemory, "allocate %d bytes aligned to %d", size, alignment))
	}

	off, idx, ok := a.firstFit(size, alignment)
	if !ok {
		return Ptr{}, a.outOfMemory(errors.Wrapf(ErrOutOfMemory, "allocate %d bytes aligned to %d", size, alignment))
	}

	p := Ptr{off: uint32(off), gen: nextGeneration()}
	a.regions = slices.Insert(a.regions, idx, region{Extent: Extent{Offset: off, Length: size}, gen: p.gen})
	a.allocs++
	return p, nil
}

// firstFit returns the offset for a new region and the index it must be
// inserted at to keep regions sorted. Comparisons subtract rather than add so
// that no size can wrap around.
func (a *Arena) firstFit(size, alignment int) (off, idx int, ok bool) {
	cursor := 0
	for i, r := range a.regions {
		start := a.alignOffset(cursor, alignment)
		if start <= r.Offset && size <= r.Offset-start {
			return start, i, true
		}
		cursor = max(cursor, r.End())
	}
	start := a.alignOffset(cursor, alignment)
	if start > len(a.buf) || size > len(a.buf)-start {
		return 0, 0, false
	}
	return start, len(a.regions), true
}

// outOfMemory records a failed allocation and attaches the free space
// summary to err.
func (a *Arena) outOfMemory(err error) error {
	a.failed++
	a.logger.Debug("arena: allocation failed", "error", err, "free", a.FreeBytes(), "largest_gap", a.LargestFreeGap())
	return errors.WithHintf(err, "%d of %d bytes free, largest gap is %d bytes", a.FreeBytes(), a.Capacity(), a.LargestFreeGap())
}

// Deallocate frees the region p refers to. size must equal the size it was
// allocated with; alignment is accepted for symmetry with Allocate.
//
// Freeing a Ptr that names no live region (double free, stale or foreign
// Ptr) fails with ErrInvalidFree, and a wrong size fails with ErrSizeMismatch.
// Both are marked ErrMisuse and leave the arena unchanged.
func (a *Arena) Deallocate(p Ptr, size, alignment int) error {
	a.panicIfReleased()
	i := a.find(p)
	if i < 0 {
		return a.misuse(errors.Wrapf(ErrInvalidFree, "free %s", p))
	}
	if r := a.regions[i]; r.Length != size {
		return a.misuse(errors.Wrapf(ErrSizeMismatch, "free %s: allocated %d bytes, freeing %d", p, r.Length, size))
	}
	a.regions = slices.Delete(a.regions, i, i+1)
	delete(a.boxes, p)
	a.frees++
	return nil
}

// Contains reports whether p refers to a live region of a.
func (a *Arena) Contains(p Ptr) bool {
	return a.buf != nil && a.find(p) >= 0
}

// Bytes returns the bytes of the live region p refers to. The slice aliases
// the arena buffer and must not be used after the region is freed.
func (a *Arena) Bytes(p Ptr) []byte {
	r := a.lookup(p)
	return a.buf[r.Offset:r.End():r.End()]
}

// Regions returns the live extents sorted by offset.
func (a *Arena) Regions() []Extent {
	out := make([]Extent, len(a.regions))
	for i, r := range a.regions {
		out[i] = r.Extent
	}
	return out
}

// Reset frees every live region at once. Outstanding Ptrs become stale.
func (a *Arena) Reset() {
	a.panicIfReleased()
	a.regions = a.regions[:0]
	clear(a.boxes)
}

// Release drops the buffer and makes the arena unusable.
// Any subsequent operations will panic.
func (a *Arena) Release() {
	a.buf = nil
	a.regions = nil
	a.boxes = nil
}

func (a *Arena) find(p Ptr) int {
	if p.IsNil() {
		return -1
	}
	i, _ := slices.BinarySearchFunc(a.regions, int(p.off), func(r region, off int) int {
		return cmp.Compare(r.Offset, off)
	})
	// zero-length regions may share an offset with their neighbour
	for ; i < len(a.regions) && a.regions[i].Offset == int(p.off); i++ {
		if a.regions[i].gen == p.gen {
			return i
		}
	}
	return -1
}

// lookup returns the live region p refers to, panicking on nil or dangling Ptrs.
func (a *Arena) lookup(p Ptr) region {
	a.panicIfReleased()
	if p.IsNil() {
		panic("arena: nil Ptr dereference")
	}
	i := a.find(p)
	if i < 0 {
		panic("arena: dangling Ptr " + p.String())
	}
	return a.regions[i]
}

// addr returns the address of the region p refers to.
func (a *Arena) addr(p Ptr) (unsafe.Pointer, int) {
	r := a.lookup(p)
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(a.buf)), r.Offset), r.Length
}

// box returns the heap value associated with p, if any.
func (a *Arena) box(p Ptr) (any, bool) {
	v, ok := a.boxes[p]
	return v, ok
}

func (a *Arena) setBox(p Ptr, v any) {
	if a.boxes == nil {
		a.boxes = make(map[Ptr]any)
	}
	a.boxes[p] = v
}

func (a *Arena) dropBox(p Ptr) {
	delete(a.boxes, p)
}

func (a *Arena) misuse(err error) error {
	err = misuse(err)
	a.logger.Warn("arena: misuse", "error", err)
	return err
}

// bufferAlign is the alignment of every arena buffer. Placement of requests
// aligned to at most bufferAlign does not depend on where the buffer landed.
const bufferAlign = 64

// alignedBuffer returns a zeroed capacity byte buffer whose base is a
// multiple of bufferAlign. It is carved out of a word slice, so the slack
// before the base is at most bufferAlign-8 bytes.
func alignedBuffer(capacity int) []byte {
	words := make([]uint64, (capacity+bufferAlign-1)/8+1)
	base := unsafe.Pointer(unsafe.SliceData(words))
	pad := -uintptr(base) & (bufferAlign - 1)
	return unsafe.Slice((*byte)(unsafe.Add(base, pad)), capacity)
}

// alignOffset rounds off up so that the absolute address is a multiple of
// alignment, which must be a power of two.
func (a *Arena) alignOffset(off, alignment int) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	mask := uintptr(alignment) - 1
	return int((base+uintptr(off)+mask)&^mask - base)
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.buf == nil {
		panic("arena: use after Release()")
	}
}
