package zobrist

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/domino14/fianco/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a Fianco position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	blackToMove uint64
	// indexed by square, then by side (white = 0, black = 1)
	posTable [board.Dim * board.Dim][2]uint64
}

type source interface {
	Uint64n(n uint64) uint64
}

type globalSource struct{}

func (globalSource) Uint64n(n uint64) uint64 { return frand.Uint64n(n) }

// Initialize draws fresh keys from the system CSPRNG.
func (z *Zobrist) Initialize() {
	z.fill(globalSource{})
}

// InitializeSeeded draws keys deterministically from seed, so that two
// processes started with the same seed hash positions identically.
func (z *Zobrist) InitializeSeeded(seed uint64) {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	z.fill(frand.NewCustom(s[:], 1024, 12))
}

func (z *Zobrist) fill(rng source) {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = rng.Uint64n(bignum) + 1
		}
	}
	z.blackToMove = rng.Uint64n(bignum) + 1
}

func sideIdx(p board.Player) int {
	if p == board.Black {
		return 1
	}
	return 0
}

func (z *Zobrist) square(row, col int, p board.Player) uint64 {
	return z.posTable[row*board.Dim+col][sideIdx(p)]
}

// Hash computes the key of b with onTurn to move.
func (z *Zobrist) Hash(b *board.Board, onTurn board.Player) uint64 {
	key := uint64(0)
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim; c++ {
			if p := b.At(r, c); p != board.NoPlayer {
				key ^= z.square(r, c, p)
			}
		}
	}
	if onTurn == board.Black {
		key ^= z.blackToMove
	}
	return key
}

// AddMove updates key for mover playing m. Since every term is an XOR,
// applying the same move again undoes it.
func (z *Zobrist) AddMove(key uint64, m board.Move, mover board.Player) uint64 {
	key ^= z.square(int(m.FromRow), int(m.FromCol), mover)
	key ^= z.square(int(m.ToRow), int(m.ToCol), mover)
	if m.IsCapture() {
		r, c := m.CapturedSquare()
		key ^= z.square(r, c, mover.Opponent())
	}
	// we always alternate
	key ^= z.blackToMove
	return key
}

// Pass flips the side to move in key without changing the position.
func (z *Zobrist) Pass(key uint64) uint64 {
	return key ^ z.blackToMove
}
