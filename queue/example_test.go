package queue_test

import (
	"fmt"

	arena "github.com/pavanmanishd/firstfit"
	"github.com/pavanmanishd/firstfit/queue"
)

func Example() {
	a := arena.NewArena(1024)
	defer a.Release()

	q := queue.New(arena.NewAllocator[int](a))
	for _, v := range []int{1, 2, 3} {
		if err := q.Push(v); err != nil {
			panic(err)
		}
	}
	fmt.Println("front:", *q.Front(), "back:", *q.Back(), "len:", q.Len())

	q.Pop()
	for v := range q.All() {
		fmt.Println(v)
	}

	q.Clear()
	fmt.Println("empty:", q.IsEmpty(), "regions:", a.NumRegions())

	// Output:
	// front: 1 back: 3 len: 3
	// 2
	// 3
	// empty: true regions: 0
}

func ExampleIterator() {
	a := arena.NewArena(1024)
	defer a.Release()

	q := queue.New(arena.NewAllocator[string](a))
	_ = q.Push("Ivanov")
	_ = q.Push("Petrov")

	for it := q.NewIterator(); it.Next(); {
		fmt.Println(*it.Value())
	}

	// Output:
	// Ivanov
	// Petrov
}
