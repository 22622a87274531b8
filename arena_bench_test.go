package arena

import (
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage compares arena allocation with the Go heap for
// request-scoped workloads.
func BenchmarkRealisticUsage(b *testing.B) {

	// Many small allocations with periodic cleanup
	b.Run("ManySmallAllocs/Arena", func(b *testing.B) {
		a := NewArena(64 * 1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				if _, err := a.Allocate(64, 8); err != nil {
					b.Fatal(err)
				}
			}
			a.Reset()
		}
	})

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 100)
			for j := 0; j < 100; j++ {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	type testStruct struct {
		ID   int64
		Data [56]byte
	}

	b.Run("StructAllocs/Arena", func(b *testing.B) {
		a := NewArena(64 * 1024)
		h := NewAllocator[testStruct](a)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 50; j++ {
				p, err := h.AllocateRaw(1)
				if err != nil {
					b.Fatal(err)
				}
				h.Construct(p, testStruct{ID: int64(j)})
			}
			a.Reset()
		}
	})

	b.Run("StructAllocs/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			structs := make([]*testStruct, 50)
			for j := 0; j < 50; j++ {
				structs[j] = &testStruct{ID: int64(j)}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Temporary buffers freed in allocation order
	b.Run("BufferReuse/Arena", func(b *testing.B) {
		a := NewArena(1024 * 1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				p1, _ := a.Allocate(1024, 8)
				p2, _ := a.Allocate(2048, 8)
				p3, _ := a.Allocate(512, 8)

				a.Bytes(p1)[0] = byte(j)
				a.Bytes(p2)[0] = byte(j)
				a.Bytes(p3)[0] = byte(j)

				_ = a.Deallocate(p1, 1024, 8)
				_ = a.Deallocate(p2, 2048, 8)
				_ = a.Deallocate(p3, 512, 8)
			}
		}
	})

	b.Run("BufferReuse/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buffers := make([][]byte, 30)
			for j := 0; j < 10; j++ {
				buffers[j*3] = make([]byte, 1024)
				buffers[j*3+1] = make([]byte, 2048)
				buffers[j*3+2] = make([]byte, 512)

				buffers[j*3][0] = byte(j)
				buffers[j*3+1][0] = byte(j)
				buffers[j*3+2][0] = byte(j)
			}
			if i%5 == 0 {
				runtime.GC()
			}
		}
	})
}

// BenchmarkFirstFitScan measures how allocation cost grows with the number
// of live regions the scan has to walk past.
func BenchmarkFirstFitScan(b *testing.B) {
	for _, live := range []int{16, 256, 4096} {
		b.Run(fmt.Sprintf("Live_%d", live), func(b *testing.B) {
			a := NewArena(live*64 + 64)
			for i := 0; i < live; i++ {
				if _, err := a.Allocate(64, 8); err != nil {
					b.Fatal(err)
				}
			}
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				p, err := a.Allocate(64, 8)
				if err != nil {
					b.Fatal(err)
				}
				_ = a.Deallocate(p, 64, 8)
			}
		})
	}
}

// BenchmarkFragmented allocates into an arena whose free space is split into
// gaps too small for the request, so every call fails after a full scan.
func BenchmarkFragmented(b *testing.B) {
	a := NewArena(64 * 1024)
	var ps []Ptr
	for {
		p, err := a.Allocate(32, 8)
		if err != nil {
			break
		}
		ps = append(ps, p)
	}
	for i := 0; i < len(ps); i += 2 {
		_ = a.Deallocate(ps[i], 32, 8)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := a.Allocate(64, 8); err == nil {
			b.Fatal("expected allocation to fail")
		}
	}
}

// BenchmarkPerGoroutine runs one arena per goroutine.
func BenchmarkPerGoroutine(b *testing.B) {
	b.Run("Arena", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			a := NewArena(1024 * 1024)
			defer a.Release()

			i := 0
			for pb.Next() {
				if _, err := a.Allocate(64, 8); err != nil {
					a.Reset()
				}
				i++
				if i%1000 == 999 {
					a.Reset()
				}
			}
		})
	})

	b.Run("Builtin", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = make([]byte, 64)
			}
		})
	})
}

func BenchmarkMetrics(b *testing.B) {
	a := NewArena(64 * 1024)
	for i := 0; i < 512; i++ {
		p, _ := a.Allocate(64, 8)
		if i%3 == 0 {
			_ = a.Deallocate(p, 64, 8)
		}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = a.Metrics()
	}
}

func BenchmarkVerify(b *testing.B) {
	a := NewArena(64 * 1024)
	for i := 0; i < 512; i++ {
		_, _ = a.Allocate(64, 8)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := a.Verify(); err != nil {
			b.Fatal(err)
		}
	}
}
