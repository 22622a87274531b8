package arena

import (
	"fmt"
	"sync/atomic"
)

// Extent is the byte range of one live allocation inside an arena buffer.
type Extent struct {
	Offset int
	Length int
}

// End returns the offset one past the last byte of the extent.
func (e Extent) End() int {
	return e.Offset + e.Length
}

func (e Extent) String() string {
	return fmt.Sprintf("[%d, %d)", e.Offset, e.End())
}

// Ptr is a handle to an allocation: its offset in the buffer plus the
// generation it was issued with. A Ptr stays comparable after its allocation
// is freed, but it never resolves again, even if a new allocation lands at the
// same offset. The zero Ptr is nil.
type Ptr struct {
	off uint32
	gen uint64
}

// generations are shared by all arenas, so a Ptr from one arena never names a
// region in another.
var generation atomic.Uint64

func nextGeneration() uint64 {
	return generation.Add(1)
}

// IsNil reports whether p is the zero Ptr.
func (p Ptr) IsNil() bool {
	return p.gen == 0
}

// Offset returns the byte offset of the allocation within its arena.
func (p Ptr) Offset() int {
	return int(p.off)
}

func (p Ptr) String() string {
	if p.IsNil() {
		return "ptr(nil)"
	}
	return fmt.Sprintf("ptr(%d#%d)", p.off, p.gen)
}

// region is the bookkeeping record for one live allocation.
type region struct {
	Extent
	gen uint64
}
