// Command queuedemo walks a queue of students waiting for lab review through
// a fixed-size arena and prints the review order.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	arena "github.com/pavanmanishd/firstfit"
	"github.com/pavanmanishd/firstfit/internal/flagx"
	"github.com/pavanmanishd/firstfit/queue"
)

var (
	EnvPrefix = "QUEUEDEMO_"
	Capacity  = pflag.IntP("capacity", "c", arena.DefaultCapacity, "arena capacity in bytes")
	Fill      = pflag.BoolP("fill", "f", false, "keep enqueueing students until the arena is full")
	LogLevel  = flagx.LevelP("log-level", "L", slog.LevelInfo, "log level")
	LogJSON   = pflag.Bool("log-json", false, "use json logs")
	Help      = pflag.BoolP("help", "h", false, "show this help text")
)

func main() {
	if err := flagx.ParseEnv(EnvPrefix); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	pflag.Parse()

	if *Help || pflag.NArg() != 0 {
		fmt.Printf("usage: %s [options]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if *Help {
			return
		}
		os.Exit(2)
	}

	if *LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: LogLevel,
		})))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level: LogLevel,
		})))
	}
	slog.SetLogLoggerLevel(LogLevel.Level())

	if err := run(os.Stdout, *Capacity, *Fill); err != nil {
		slog.Error("failed to run demo", "error", err)
		os.Exit(1)
	}
}

func run(w io.Writer, capacity int, fill bool) error {
	if capacity > arena.MaxCapacity {
		return errors.Newf("capacity %d exceeds the maximum of %d bytes", capacity, arena.MaxCapacity)
	}
	a := arena.NewArena(capacity, arena.WithLogger(slog.Default()))
	defer a.Release()

	students := queue.New(arena.NewAllocator[Student](a))
	defer func() {
		if err := students.Close(); err != nil {
			slog.Error("failed to release queue", "error", err)
		}
	}()

	for _, s := range []Student{
		{ID: 1, Surname: "Ivanov", Labs: 5},
		{ID: 2, Surname: "Petrov", Labs: 3},
		{ID: 3, Surname: "Sidorov", Labs: 7},
	} {
		if err := students.Push(s); err != nil {
			return errors.Wrapf(err, "enqueue %s", s.Surname)
		}
	}

	if fill {
		for id := students.Len() + 1; ; id++ {
			err := students.Push(Student{ID: id, Surname: fmt.Sprintf("Student%d", id), Labs: id % 8})
			if errors.Is(err, arena.ErrOutOfMemory) {
				slog.Warn("arena full", "students", students.Len(), "error", err)
				break
			}
			if err != nil {
				return errors.Wrapf(err, "enqueue student %d", id)
			}
		}
	}
	slog.Info("students enqueued", "count", students.Len(), "arena", a.Metrics())

	review(w, students)

	slog.Info("review finished", "arena", a.Metrics())
	if err := a.Verify(); err != nil {
		return errors.Wrap(err, "arena bookkeeping")
	}
	if n := a.NumRegions(); n != 0 {
		return errors.AssertionFailedf("arena still holds %d regions after review", n)
	}
	return nil
}

// review prints the queue, then pops every student in order.
func review(w io.Writer, students *queue.Queue[Student]) {
	fmt.Fprintf(w, "Students waiting for lab review:\n")
	fmt.Fprintf(w, "In queue: %d students\n\n", students.Len())
	if students.IsEmpty() {
		fmt.Fprintf(w, "All students reviewed.\n")
		return
	}
	fmt.Fprintf(w, "First in queue: %s\n", students.Front())
	fmt.Fprintf(w, "Last in queue: %s\n", students.Back())

	fmt.Fprintf(w, "\nQueue by iterator:\n")
	position := 1
	for s := range students.All() {
		fmt.Fprintf(w, "%d. %s\n", position, s)
		position++
	}

	for !students.IsEmpty() {
		current := *students.Front()
		fmt.Fprintf(w, "Reviewing: %s\n", current)
		students.Pop()
		fmt.Fprintf(w, "Left in queue: %d students\n", students.Len())
		if !students.IsEmpty() {
			fmt.Fprintf(w, "Next: %s\n\n", students.Front())
		}
	}
	fmt.Fprintf(w, "All students reviewed.\n")
}
