// Package game encapsulates the mechanics of a Fianco game in progress:
// whose turn it is, which moves are legal, and how the game ended.
// A Game doesn't care how it is played; engines and humans play it from
// outside this package.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/fianco/board"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("the game is over")
	ErrNothingToUndo = errors.New("no moves to undo")
)

type PlayState int

const (
	Playing PlayState = iota
	GameOver
)

type turn struct {
	m      board.Move
	player board.Player
}

type Game struct {
	board   *board.Board
	onturn  board.Player
	history []turn
}

// New starts a game from the standard opening position with White to move.
func New() *Game {
	return FromBoard(board.StartingPosition(), board.White)
}

// FromBoard starts a game from an arbitrary position. The board is copied.
func FromBoard(b *board.Board, onturn board.Player) *Game {
	return &Game{board: b.Copy(), onturn: onturn}
}

func (g *Game) Copy() *Game {
	return &Game{
		board:   g.board.Copy(),
		onturn:  g.onturn,
		history: append([]turn(nil), g.history...),
	}
}

// Board returns the live board. Callers must not modify it directly.
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Player {
	return g.onturn
}

// Turn is the number of moves played so far.
func (g *Game) Turn() int {
	return len(g.history)
}

// LegalMoves returns the moves available to the player on turn, or nothing
// if the game is over.
func (g *Game) LegalMoves() []board.Move {
	if g.board.Winner() != board.NoPlayer {
		return nil
	}
	return g.board.GenerateMoves(g.onturn)
}

// Winner returns the winning side, or NoPlayer while the game is still on.
// A player who reaches the far row wins; a player with no legal move loses.
func (g *Game) Winner() board.Player {
	if w := g.board.Winner(); w != board.NoPlayer {
		return w
	}
	if len(g.board.GenerateMoves(g.onturn)) == 0 {
		return g.onturn.Opponent()
	}
	return board.NoPlayer
}

func (g *Game) Playing() PlayState {
	if g.Winner() != board.NoPlayer {
		return GameOver
	}
	return Playing
}

// PlayMove validates m and plays it for the player on turn.
func (g *Game) PlayMove(m board.Move) error {
	if g.Playing() == GameOver {
		return ErrGameOver
	}
	if !g.board.IsLegal(m, g.onturn) {
		return fmt.Errorf("%w: %v for %v", ErrIllegalMove, m, g.onturn)
	}
	g.board.Play(m, g.onturn)
	g.history = append(g.history, turn{m: m, player: g.onturn})
	g.onturn = g.onturn.Opponent()
	return nil
}

// UnplayLastMove takes back the most recent move.
func (g *Game) UnplayLastMove() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	last := g.history[len(g.history)-1]
	g.board.Unplay(last.m, last.player)
	g.history = g.history[:len(g.history)-1]
	g.onturn = last.player
	return nil
}

// History returns the moves played so far, in order.
func (g *Game) History() []board.Move {
	return lo.Map(g.history, func(t turn, _ int) board.Move {
		return t.m
	})
}

// Transcript is the space-separated move list.
func (g *Game) Transcript() string {
	return strings.Join(lo.Map(g.History(), func(m board.Move, _ int) string {
		return m.String()
	}), " ")
}

func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText())
	switch w := g.Winner(); w {
	case board.NoPlayer:
		fmt.Fprintf(&sb, "Turn %d, %v to move\n", g.Turn()+1, g.onturn)
	default:
		fmt.Fprintf(&sb, "Game over after %d moves, %v wins\n", g.Turn(), w)
	}
	if len(g.history) > 0 {
		fmt.Fprintf(&sb, "Last move: %v\n", g.history[len(g.history)-1].m)
	}
	return sb.String()
}
