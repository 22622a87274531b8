package arena

import "log/slog"

// SizeInUse returns the total number of bytes held by live regions.
// Alignment padding between regions is not counted.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, r := range a.regions {
		sum += r.Length
	}
	return sum
}

// NumRegions returns the number of live regions.
func (a *Arena) NumRegions() int {
	return len(a.regions)
}

// Capacity returns the size of the arena buffer in bytes.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// FreeBytes returns the number of bytes not held by any live region.
func (a *Arena) FreeBytes() int {
	return a.Capacity() - a.SizeInUse()
}

// LargestFreeGap returns the size of the largest run of free bytes, including
// the gap after the last region. It bounds the largest byte-aligned
// allocation that can currently succeed.
func (a *Arena) LargestFreeGap() int {
	if a.buf == nil {
		return 0
	}
	largest, cursor := 0, 0
	for _, r := range a.regions {
		largest = max(largest, r.Offset-cursor)
		cursor = max(cursor, r.End())
	}
	return max(largest, len(a.buf)-cursor)
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Fragmentation returns 1 - LargestFreeGap/FreeBytes: 0 when all free space
// is contiguous, approaching 1 as it splinters. Returns 0 when nothing is free.
func (a *Arena) Fragmentation() float64 {
	free := a.FreeBytes()
	if free == 0 {
		return 0
	}
	return 1 - float64(a.LargestFreeGap())/float64(free)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:         a.SizeInUse(),
		Capacity:          a.Capacity(),
		NumRegions:        a.NumRegions(),
		FreeBytes:         a.FreeBytes(),
		LargestFreeGap:    a.LargestFreeGap(),
		Utilization:       a.Utilization(),
		Fragmentation:     a.Fragmentation(),
		Allocations:       a.allocs,
		Deallocations:     a.frees,
		FailedAllocations: a.failed,
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse         int     // Bytes held by live regions
	Capacity          int     // Buffer size in bytes
	NumRegions        int     // Live regions
	FreeBytes         int     // Capacity - SizeInUse
	LargestFreeGap    int     // Largest contiguous free run
	Utilization       float64 // Ratio of used to total capacity (0.0-1.0)
	Fragmentation     float64 // 1 - LargestFreeGap/FreeBytes
	Allocations       int     // Successful Allocate calls
	Deallocations     int     // Successful Deallocate calls
	FailedAllocations int     // Allocate calls that ran out of memory
}

// LogValue implements slog.LogValuer.
func (m ArenaMetrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("in_use", m.SizeInUse),
		slog.Int("capacity", m.Capacity),
		slog.Int("regions", m.NumRegions),
		slog.Int("free", m.FreeBytes),
		slog.Int("largest_gap", m.LargestFreeGap),
		slog.Float64("utilization", m.Utilization),
		slog.Float64("fragmentation", m.Fragmentation),
		slog.Int("allocs", m.Allocations),
		slog.Int("frees", m.Deallocations),
		slog.Int("failed", m.FailedAllocations),
	)
}
