package arena

import "github.com/cockroachdb/errors"

// ErrOutOfMemory is returned when no gap in the buffer can hold a request.
// It is recoverable: free other allocations and retry.
var ErrOutOfMemory = errors.New("arena: out of memory")

// ErrMisuse marks every error caused by a defect in the caller rather than by
// resource exhaustion. Test with errors.Is(err, ErrMisuse).
var ErrMisuse = errors.New("arena: misuse")

var (
	ErrInvalidFree  = errors.New("arena: free of pointer with no live region")
	ErrSizeMismatch = errors.New("arena: free size does not match allocation")
	ErrBadAlignment = errors.New("arena: alignment is not a power of two")
	ErrInvalidSize  = errors.New("arena: negative allocation size")
	ErrUnbound      = errors.New("arena: allocator is not bound to an arena")
)

func misuse(err error) error {
	return errors.Mark(err, ErrMisuse)
}
