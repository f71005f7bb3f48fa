package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/fianco/board"
)

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := New()
	is.Equal(g.PlayerOnTurn(), board.White)
	is.Equal(g.Turn(), 0)
	is.Equal(g.Playing(), Playing)
	is.Equal(g.Winner(), board.NoPlayer)
	is.Equal(len(g.LegalMoves()), 25)
}

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	g := New()
	start := g.Board().Copy()

	m1, _ := board.ParseMove("D4-D5")
	m2, _ := board.ParseMove("D6-D5")
	is.NoErr(g.PlayMove(m1))
	is.Equal(g.PlayerOnTurn(), board.Black)
	// D5 is now occupied.
	err := g.PlayMove(m2)
	is.True(errors.Is(err, ErrIllegalMove))

	m2, _ = board.ParseMove("F6-F5")
	is.NoErr(g.PlayMove(m2))
	is.Equal(g.History(), []board.Move{m1, m2})
	is.Equal(g.Transcript(), "D4-D5 F6-F5")

	is.NoErr(g.UnplayLastMove())
	is.NoErr(g.UnplayLastMove())
	is.Equal(g.Board(), start)
	is.Equal(g.PlayerOnTurn(), board.White)
	is.True(errors.Is(g.UnplayLastMove(), ErrNothingToUndo))
}

func TestMandatoryCaptureEnforced(t *testing.T) {
	is := is.New(t)
	b := board.Empty()
	b.Set(3, 3, board.White)
	b.Set(4, 4, board.Black)
	b.Set(8, 8, board.Black)
	g := FromBoard(b, board.White)

	quiet := board.NewMove(3, 3, 4, 3)
	is.True(errors.Is(g.PlayMove(quiet), ErrIllegalMove))
	is.NoErr(g.PlayMove(board.NewMove(3, 3, 5, 5)))
	is.Equal(g.Board().Count(board.Black), 1)
}

func TestWinByReachingGoal(t *testing.T) {
	is := is.New(t)
	b := board.Empty()
	b.Set(7, 4, board.White)
	b.Set(5, 0, board.Black)
	g := FromBoard(b, board.White)
	is.NoErr(g.PlayMove(board.NewMove(7, 4, 8, 4)))
	is.Equal(g.Winner(), board.White)
	is.Equal(g.Playing(), GameOver)
	is.Equal(len(g.LegalMoves()), 0)
	is.True(errors.Is(g.PlayMove(board.NewMove(5, 0, 4, 0)), ErrGameOver))
	is.True(strings.Contains(g.ToDisplayText(), "white wins"))
}

func TestNoMovesLoses(t *testing.T) {
	is := is.New(t)
	b := board.Empty()
	b.Set(4, 4, board.White)
	g := FromBoard(b, board.Black)
	is.Equal(g.Winner(), board.White)
	is.Equal(g.Playing(), GameOver)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := New()
	c := g.Copy()
	m, _ := board.ParseMove("E1-E2")
	is.NoErr(c.PlayMove(m))
	is.Equal(g.Turn(), 0)
	is.Equal(c.Turn(), 1)
	is.Equal(g.Board().At(1, 4), board.NoPlayer)
}
