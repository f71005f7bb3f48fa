package search

import (
	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/ttable"
)

// Bound flags stored in the table's flag byte. The table itself treats
// them as opaque.
const (
	// FlagMoveOnly entries carry a move hint but no usable score.
	FlagMoveOnly uint8 = iota
	FlagExact
	FlagLower
	FlagUpper
)

const (
	// MaxStoredScore is the largest magnitude that fits in a table entry's
	// score byte.
	MaxStoredScore = 127
	scoreOffset    = 128
)

// encodeScore maps a signed search score and its bound flag onto the table's
// unsigned score byte. Scores beyond ±MaxStoredScore are clamped only when
// the clamped value is still a valid bound; otherwise only the move is kept.
func encodeScore(v int, flag uint8) (uint8, uint8) {
	switch {
	case v > MaxStoredScore:
		if flag == FlagExact || flag == FlagLower {
			return MaxStoredScore + scoreOffset, FlagLower
		}
		return scoreOffset, FlagMoveOnly
	case v < -MaxStoredScore:
		if flag == FlagExact || flag == FlagUpper {
			return scoreOffset - MaxStoredScore, FlagUpper
		}
		return scoreOffset, FlagMoveOnly
	}
	return uint8(v + scoreOffset), flag
}

func decodeScore(s uint8) int {
	return int(s) - scoreOffset
}

// indexFor maps a hash onto a slot of a table with the given capacity:
// a mask for power-of-two capacities, a modulus otherwise.
func indexFor(hash uint64, capacity int) uint32 {
	c := uint64(capacity)
	if c&(c-1) == 0 {
		return uint32(hash & (c - 1))
	}
	return uint32(hash % c)
}

// ttEntry is a decoded copy of a table entry. Copying matters: the pointer
// returned by Retrieve is invalidated by the next store to the same slot.
type ttEntry struct {
	m     board.Move
	flag  uint8
	score int
	depth int
}

func decodeEntry(e *ttable.Entry) ttEntry {
	sr, sc, er, ec := e.Move()
	return ttEntry{
		m:     board.Move{FromRow: sr, FromCol: sc, ToRow: er, ToCol: ec},
		flag:  e.Flag(),
		score: decodeScore(e.Score()),
		depth: int(e.Depth()),
	}
}

func (s *Solver) lookup(key uint64) (ttEntry, bool) {
	e := s.table.Retrieve(indexFor(key, s.table.Capacity()), key)
	if e == nil {
		return ttEntry{}, false
	}
	return decodeEntry(e), true
}

func (s *Solver) store(key uint64, m board.Move, score int, flag uint8, depth int) {
	stored, flag := encodeScore(score, flag)
	s.table.Store(indexFor(key, s.table.Capacity()), key,
		m.FromRow, m.FromCol, m.ToRow, m.ToCol, flag, stored, uint8(depth))
}
