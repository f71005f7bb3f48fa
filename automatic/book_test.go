package automatic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/game"
)

func bookGames() []*GameRecord {
	return []*GameRecord{
		{ID: 1, Moves: []string{"D4-D5", "F6-F5"}},
		{ID: 2, Moves: []string{"D4-D5", "D6-C6"}},
		{ID: 3, Moves: []string{"F4-F5"}},
		// the first move was random and does not count.
		{ID: 4, Moves: []string{"F4-F5", "D6-D5"}, OpeningPlies: 1},
	}
}

func TestOpeningBook(t *testing.T) {
	is := is.New(t)
	b := NewOpeningBook(11, 20)
	for _, rec := range bookGames() {
		is.NoErr(b.Add(rec))
	}
	is.Equal(b.Games(), 4)
	is.Equal(b.Len(), 3)

	g := game.New()
	is.Equal(b.Lookup(g), []BookMove{{"D4-D5", 2}, {"F4-F5", 1}})

	m, _ := board.ParseMove("D4-D5")
	is.NoErr(g.PlayMove(m))
	is.Equal(b.Lookup(g), []BookMove{{"F6-F5", 1}, {"D6-C6", 1}})

	g = game.New()
	m, _ = board.ParseMove("F4-F5")
	is.NoErr(g.PlayMove(m))
	is.Equal(b.Lookup(g), []BookMove{{"D6-D5", 1}})

	m, _ = board.ParseMove("D6-D5")
	is.NoErr(g.PlayMove(m))
	is.Equal(b.Lookup(g), nil)
}

func TestOpeningBookPlies(t *testing.T) {
	is := is.New(t)
	b := NewOpeningBook(0, 1)
	for _, rec := range bookGames() {
		is.NoErr(b.Add(rec))
	}
	// only the starting position.
	is.Equal(b.Len(), 1)
}

func TestOpeningBookBadGame(t *testing.T) {
	is := is.New(t)
	b := NewOpeningBook(11, 20)
	err := b.Add(&GameRecord{ID: 9, Moves: []string{"A1-A3"}})
	is.True(errors.Is(err, game.ErrIllegalMove))
	err = b.Add(&GameRecord{ID: 9, Moves: []string{"what"}})
	is.True(errors.Is(err, board.ErrBadMove))
	is.Equal(b.Games(), 0)
}

func TestOpeningBookRoundTrip(t *testing.T) {
	is := is.New(t)
	b := NewOpeningBook(0, 20)
	for _, rec := range bookGames() {
		is.NoErr(b.Add(rec))
	}
	var buf bytes.Buffer
	is.NoErr(b.Write(&buf))
	is.True(strings.Contains(buf.String(), "zobrist-seed:"))

	loaded, err := LoadOpeningBook(&buf)
	is.NoErr(err)
	is.Equal(loaded.Games(), 4)
	is.Equal(loaded.Len(), 3)
	is.Equal(loaded.Lookup(game.New()), b.Lookup(game.New()))
}

func TestLoadOpeningBookErrors(t *testing.T) {
	is := is.New(t)
	_, err := LoadOpeningBook(strings.NewReader("positions: ["))
	is.True(errors.Is(err, ErrBadBook))
	_, err = LoadOpeningBook(strings.NewReader("plies: 3\n"))
	is.True(errors.Is(err, ErrBadBook))
}
