package ttable

import (
	"math/bits"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// MinCapacity is the smallest table CapacityForMemoryFraction will choose.
const MinCapacity = 1 << 16

// CapacityForBytes returns the largest power of two n such that n entries fit
// in the given number of bytes. It never returns less than 1.
func CapacityForBytes(bytes uint64) int {
	n := bytes / EntrySize
	if n == 0 {
		return 1
	}
	if n > MaxCapacity {
		n = MaxCapacity
	}
	// biggest power of 2 not above n.
	return 1 << (bits.Len64(n) - 1)
}

// CapacityForMegabytes sizes a table to fit in mb MiB, rounded down to a
// power of two and capped at DefaultCapacity. A non-positive size gets
// DefaultCapacity.
func CapacityForMegabytes(mb int) int {
	if mb <= 0 || uint64(mb) >= DefaultMemory>>20 {
		return DefaultCapacity
	}
	return CapacityForBytes(uint64(mb) << 20)
}

// CapacityForMemoryFraction sizes a table to use roughly the given fraction
// of total system memory, rounded down to a power of two and clamped to
// [MinCapacity, DefaultCapacity].
func CapacityForMemoryFraction(fraction float64) int {
	totalMem := memory.TotalMemory()
	desired := uint64(fraction * float64(totalMem))
	capacity := CapacityForBytes(desired)
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	if capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}
	log.Debug().Float64("fraction", fraction).
		Uint64("total-system-memory-bytes", totalMem).
		Int("capacity", capacity).
		Msg("sized-from-system-memory")
	return capacity
}
