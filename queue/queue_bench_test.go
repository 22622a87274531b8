package queue

import (
	"container/list"
	"runtime"
	"testing"

	arena "github.com/pavanmanishd/firstfit"
)

type message struct {
	ID      int64
	Payload [48]byte
}

// BenchmarkPushPop compares the arena queue with heap-backed FIFOs under a
// steady producer/consumer load.
func BenchmarkPushPop(b *testing.B) {
	const depth = 64

	b.Run("Arena", func(b *testing.B) {
		a := arena.NewArena(depth * 128)
		defer a.Release()
		q := New(arena.NewAllocator[message](a))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < depth; j++ {
				if err := q.Push(message{ID: int64(j)}); err != nil {
					b.Fatal(err)
				}
			}
			for !q.IsEmpty() {
				q.Pop()
			}
		}
	})

	b.Run("ContainerList", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			l := list.New()
			for j := 0; j < depth; j++ {
				l.PushBack(message{ID: int64(j)})
			}
			for l.Len() > 0 {
				l.Remove(l.Front())
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	b.Run("Slice", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			var s []message
			for j := 0; j < depth; j++ {
				s = append(s, message{ID: int64(j)})
			}
			for len(s) > 0 {
				s = s[1:]
			}
		}
	})
}

func BenchmarkIterate(b *testing.B) {
	a := arena.NewArena(1 << 16)
	defer a.Release()
	q := New(arena.NewAllocator[int64](a))
	for i := 0; i < 1000; i++ {
		if err := q.Push(int64(i)); err != nil {
			b.Fatal(err)
		}
	}

	b.Run("Iterator", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			for it := q.NewIterator(); it.Next(); {
				sum += *it.Value()
			}
			_ = sum
		}
	})

	b.Run("All", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			for v := range q.All() {
				sum += v
			}
			_ = sum
		}
	})
}
