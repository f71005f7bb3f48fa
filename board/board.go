// Package board implements the Fianco board: a 9x9 grid where each side
// races to reach the opposite edge, moving forward or sideways and capturing
// by jumping diagonally forward. Captures are mandatory.
package board

import (
	"errors"
)

// Dim is the width and height of the board.
const Dim = 9

var ErrBadMove = errors.New("badly formatted move")

// Player doubles as the contents of a square; NoPlayer is an empty square.
type Player uint8

const (
	NoPlayer Player = iota
	White
	Black
)

func (p Player) String() string {
	switch p {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Opponent returns the other side. The opponent of NoPlayer is NoPlayer.
func (p Player) Opponent() Player {
	switch p {
	case White:
		return Black
	case Black:
		return White
	}
	return NoPlayer
}

// Forward is the row direction p advances in.
func (p Player) Forward() int {
	if p == White {
		return 1
	}
	return -1
}

// GoalRow is the row p wins by reaching.
func (p Player) GoalRow() int {
	if p == White {
		return Dim - 1
	}
	return 0
}

type Board struct {
	squares [Dim * Dim]Player
	count   [3]int
}

// StartingPosition returns a board with both sides in their opening
// formation: a full back row plus a V of six pieces pointing at the centre.
func StartingPosition() *Board {
	b := &Board{}
	for c := 0; c < Dim; c++ {
		b.set(0, c, White)
		b.set(Dim-1, c, Black)
	}
	for _, sq := range [][2]int{{1, 1}, {1, 7}, {2, 2}, {2, 6}, {3, 3}, {3, 5}} {
		b.set(sq[0], sq[1], White)
		b.set(Dim-1-sq[0], sq[1], Black)
	}
	return b
}

// Empty returns a board with no pieces.
func Empty() *Board {
	return &Board{}
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Dim && col >= 0 && col < Dim
}

func (b *Board) set(row, col int, p Player) {
	cur := b.squares[row*Dim+col]
	if cur != NoPlayer {
		b.count[cur]--
	}
	b.squares[row*Dim+col] = p
	if p != NoPlayer {
		b.count[p]++
	}
}

// Set places p (or NoPlayer to clear) at the given square.
func (b *Board) Set(row, col int, p Player) {
	b.set(row, col, p)
}

// At returns the owner of the piece at the given square, or NoPlayer.
func (b *Board) At(row, col int) Player {
	return b.squares[row*Dim+col]
}

// Count returns the number of pieces p has on the board.
func (b *Board) Count(p Player) int {
	if p == NoPlayer {
		return 0
	}
	return b.count[p]
}

// CountOnRow returns the number of pieces p has on the given row.
func (b *Board) CountOnRow(p Player, row int) int {
	n := 0
	for c := 0; c < Dim; c++ {
		if b.At(row, c) == p {
			n++
		}
	}
	return n
}

// Threatening reports whether p has a piece one step from its goal row.
func (b *Board) Threatening(p Player) bool {
	return b.CountOnRow(p, p.GoalRow()-p.Forward()) > 0
}

func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// Play makes m for p. The move is assumed to be legal. It returns whether
// an opposing piece was captured.
func (b *Board) Play(m Move, p Player) bool {
	b.set(int(m.FromRow), int(m.FromCol), NoPlayer)
	b.set(int(m.ToRow), int(m.ToCol), p)
	if m.IsCapture() {
		r, c := m.CapturedSquare()
		b.set(r, c, NoPlayer)
		return true
	}
	return false
}

// Unplay reverts Play(m, p).
func (b *Board) Unplay(m Move, p Player) {
	b.set(int(m.ToRow), int(m.ToCol), NoPlayer)
	b.set(int(m.FromRow), int(m.FromCol), p)
	if m.IsCapture() {
		r, c := m.CapturedSquare()
		b.set(r, c, p.Opponent())
	}
}

// Winner returns the side that has a piece on its goal row, or NoPlayer.
// Both sides cannot reach their goal rows at once since only one piece
// moves per turn and the game ends on arrival.
func (b *Board) Winner() Player {
	for c := 0; c < Dim; c++ {
		if b.At(White.GoalRow(), c) == White {
			return White
		}
		if b.At(Black.GoalRow(), c) == Black {
			return Black
		}
	}
	return NoPlayer
}
