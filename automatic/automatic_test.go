package automatic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash"
	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/config"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/ttable"
	"github.com/domino14/fianco/zobrist"
)

func testConfig(t *testing.T, extra ...string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	err := cfg.Load(append([]string{"--tt-memory-mb", "1", "--search-depth", "2",
		"--search-time", "5s", "--zobrist-seed", "5"}, extra...))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func seededZobrist() *zobrist.Zobrist {
	z := &zobrist.Zobrist{}
	z.InitializeSeeded(5)
	return z
}

func TestPlayGameIsReplayable(t *testing.T) {
	is := is.New(t)
	tt, err := ttable.New(1 << 12)
	is.NoErr(err)
	r := NewGameRunner(tt, seededZobrist(), 2, 0)
	rec, err := r.PlayGame(context.Background(), 1)
	is.NoErr(err)
	is.True(rec.Plies > 0)
	is.True(rec.Plies <= MaxGamePlies)
	is.Equal(len(rec.Moves), rec.Plies)
	is.True(rec.Nodes > 0)
	is.Equal(rec.Fingerprint, xxhash.Sum64String(r.Game().Transcript()))

	g := game.New()
	for _, s := range rec.Moves {
		m, err := board.ParseMove(s)
		is.NoErr(err)
		is.NoErr(g.PlayMove(m))
	}
	is.Equal(g.Winner().String(), rec.Winner)
}

func TestFixedDepthGamesAreDeterministic(t *testing.T) {
	is := is.New(t)
	play := func() *GameRecord {
		r := NewGameRunner(nil, seededZobrist(), 2, 0)
		r.SetOpeningPlies(0)
		rec, err := r.PlayGame(context.Background(), 1)
		is.NoErr(err)
		return rec
	}
	a, b := play(), play()
	is.Equal(a.Fingerprint, b.Fingerprint)
	is.Equal(a.Moves, b.Moves)
	is.Equal(a.TableHits, uint64(0))
}

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	summary, err := PlayGames(context.Background(), testConfig(t), 4, 2, &buf)
	is.NoErr(err)
	is.Equal(summary.Games, 4)
	is.Equal(summary.WhiteWins+summary.BlackWins+summary.Draws, 4)
	is.True(summary.Distinct() >= 1)
	is.True(summary.Distinct() <= 4)
	is.Equal(CVCCounter.Value(), int64(4))
	is.Equal(IsPlaying.Value(), int64(0))

	dec := yaml.NewDecoder(&buf)
	ids := map[int]bool{}
	for {
		var rec GameRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		is.NoErr(err)
		is.Equal(len(rec.Moves), rec.Plies)
		ids[rec.ID] = true
	}
	is.Equal(len(ids), 4)
}

func TestPlayGamesCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	summary, err := PlayGames(ctx, testConfig(t), 10, 2, &buf)
	is.NoErr(err)
	is.Equal(summary.Games, 0)
	is.Equal(buf.Len(), 0)
}

func TestPlayNoGames(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	summary, err := PlayGames(context.Background(), testConfig(t), 0, 1, &buf)
	is.NoErr(err)
	is.Equal(summary.Games, 0)
	is.Equal(summary.Distinct(), 0)
	is.True(strings.Contains(summary.String(), "Games played: 0"))
}

func TestPlayGamesAlreadyPlaying(t *testing.T) {
	is := is.New(t)
	playing.Store(true)
	defer playing.Store(false)
	_, err := PlayGames(context.Background(), testConfig(t), 1, 1, io.Discard)
	is.True(errors.Is(err, ErrAlreadyPlaying))
}

func TestPlayGamesWritesBook(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "book.yaml")
	cfg := testConfig(t, "--opening-book", path, "--book-plies", "6", "--null-move")
	summary, err := PlayGames(context.Background(), cfg, 2, 1, io.Discard)
	is.NoErr(err)
	is.True(summary.Book != nil)
	is.Equal(summary.Book.Games(), 2)
	is.True(summary.Book.Len() > 0)

	f, err := os.Open(path)
	is.NoErr(err)
	defer f.Close()
	book, err := LoadOpeningBook(f)
	is.NoErr(err)
	is.Equal(book.Games(), 2)
	is.Equal(book.Len(), summary.Book.Len())
}

func TestSummary(t *testing.T) {
	is := is.New(t)
	s := &Summary{}
	s.add(&GameRecord{Winner: "white", Plies: 10, Fingerprint: 1})
	s.add(&GameRecord{Winner: "black", Plies: 20, Fingerprint: 2})
	s.add(&GameRecord{Winner: "none", Plies: 200, Fingerprint: 2})
	is.Equal(s.Games, 3)
	is.Equal(s.WhiteWins, 1)
	is.Equal(s.BlackWins, 1)
	is.Equal(s.Draws, 1)
	is.Equal(s.Distinct(), 2)
	is.Equal(s.WhiteScore.Mean(), 0.5)
	is.Equal(s.Plies.Max(), 200.0)
	is.Equal(s.Plies.Min(), 10.0)
	is.True(bytes.Contains([]byte(s.String()), []byte("Games played: 3 (2 distinct)")))
}
