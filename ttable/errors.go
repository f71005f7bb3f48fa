package ttable

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("transposition table index out of range")
	ErrInvalidCapacity = errors.New("transposition table capacity must be positive")
)

// IndexError is the panic value for Store and Retrieve when called with an
// index outside [0, capacity).
type IndexError struct {
	Index    uint32
	Capacity int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, capacity %d", ErrIndexOutOfRange, e.Index, e.Capacity)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
