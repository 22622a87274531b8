// Package arena implements a fixed-capacity first-fit allocator for Go.
//
// # Overview
//
// An Arena owns one byte buffer whose size is fixed when the arena is created
// (DefaultCapacity is 1 KiB). Every allocation is recorded as an extent, an
// offset and a length, and stays recorded until it is freed. Allocation scans
// the gaps between live extents in offset order and takes the first one large
// enough; there is no growth, no coalescing beyond what the gap scan sees, and
// no compaction. This makes the arena useful for:
//
//   - Containers that must stay within a hard memory budget
//   - Deterministic placement in tests and simulations
//   - Exercising allocate/construct/destroy/deallocate protocols
//
// # Basic Usage
//
//	a := arena.NewArena(0) // DefaultCapacity
//	defer a.Release()
//
//	// Raw bytes
//	p, err := a.Allocate(64, 8)
//	if err != nil {
//		return err
//	}
//	buf := a.Bytes(p)
//	...
//	err = a.Deallocate(p, 64, 8)
//
//	// Typed values through an allocator handle
//	h := arena.NewAllocator[Point](a)
//	p, err = h.AllocateRaw(1)
//	pt := h.Construct(p, Point{X: 1, Y: 2})
//	h.Destroy(p)
//	err = h.DeallocateRaw(p, 1)
//
// # Handles
//
// Allocations are named by Ptr values instead of Go pointers. A Ptr carries
// the offset of its region and a generation number; freeing or resetting
// makes it stale, and a stale Ptr never resolves again even when a new region
// is placed at the same offset. Dereferencing a stale Ptr panics.
//
// # Errors
//
// Allocate returns an error matching ErrOutOfMemory when no gap fits; the
// caller may free something and retry. Every other failure is a defect in the
// caller and matches ErrMisuse: freeing a Ptr twice, freeing a Ptr from
// another arena, freeing with the wrong size, or passing a bad alignment.
// ErrMisuse is attached as an error mark, so test for it with errors.Is from
// github.com/cockroachdb/errors; the specific sentinels also match with the
// standard library.
//
//	if errors.Is(err, arena.ErrOutOfMemory) { ... }
//	if errors.Is(err, arena.ErrMisuse) { ... }
//
// # Thread Safety
//
// Arena and Allocator are not goroutine-safe. Several containers may share one
// arena as long as they are used from one goroutine at a time.
//
// # Metrics and Monitoring
//
// The arena reports usage and fragmentation:
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Largest gap: %d bytes\n", m.LargestFreeGap)
//	slog.Info("arena", "metrics", m)
//
// Verify rebuilds the occupancy of the buffer from scratch and reports
// overlapping or out-of-bounds regions.
package arena
