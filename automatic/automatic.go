package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/fianco/config"
	"github.com/domino14/fianco/stats"
	"github.com/domino14/fianco/ttable"
	"github.com/domino14/fianco/zobrist"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// playing guards PlayGames; IsPlaying only counts busy workers.
var playing atomic.Bool

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Summary aggregates the results of a batch of games.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Draws      int
	// WhiteScore counts a white win as 1, a draw as 0.5 and a loss as 0.
	WhiteScore stats.Statistic
	Plies      stats.Statistic
	// Book is the opening book built from the games, if one was asked for.
	Book *OpeningBook

	fingerprints map[uint64]struct{}
}

func (s *Summary) add(rec *GameRecord) {
	s.Games++
	s.Plies.Push(float64(rec.Plies))
	switch rec.Winner {
	case "white":
		s.WhiteWins++
		s.WhiteScore.Push(1)
	case "black":
		s.BlackWins++
		s.WhiteScore.Push(0)
	default:
		s.Draws++
		s.WhiteScore.Push(0.5)
	}
	if s.fingerprints == nil {
		s.fingerprints = map[uint64]struct{}{}
	}
	s.fingerprints[rec.Fingerprint] = struct{}{}
}

// Distinct is the number of games that differ in at least one move.
func (s *Summary) Distinct() int {
	return len(s.fingerprints)
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d (%d distinct)\n", s.Games, s.Distinct())
	fmt.Fprintf(&sb, "White wins:   %d\n", s.WhiteWins)
	fmt.Fprintf(&sb, "Black wins:   %d\n", s.BlackWins)
	fmt.Fprintf(&sb, "Draws:        %d\n", s.Draws)
	if s.Games > 0 {
		lo, hi := s.WhiteScore.Interval(95)
		fmt.Fprintf(&sb, "White score:  %.3f (95%% CI %.3f to %.3f)\n", s.WhiteScore.Mean(), lo, hi)
		fmt.Fprintf(&sb, "Plies:        %.1f avg, %.1f stdev, %.0f to %.0f\n",
			s.Plies.Mean(), s.Plies.Stdev(), s.Plies.Min(), s.Plies.Max())
	}
	return sb.String()
}

// newZobrist returns the keys shared by all workers. They are only read
// once initialized.
func newZobrist(cfg *config.Config) *zobrist.Zobrist {
	z := &zobrist.Zobrist{}
	if seed := cfg.GetUint64(config.ConfigZobristSeed); seed != 0 {
		z.InitializeSeeded(seed)
	} else {
		z.Initialize()
	}
	return z
}

// PlayGames plays numGames computer vs computer games on the given number of
// threads and writes one YAML document per finished game to w. Every worker
// owns its own transposition table. If ctx is cancelled, games in progress
// are abandoned and the summary covers the games that finished.
// If the config names an opening book file, a book built from the finished
// games is written there.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads int, w io.Writer) (*Summary, error) {
	if !playing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer playing.Store(false)
	if threads < 1 {
		threads = 1
	}
	capacity := cfg.TableCapacity()
	depth := cfg.GetInt(config.ConfigSearchDepth)
	moveTime := cfg.GetDuration(config.ConfigSearchTime)
	z := newZobrist(cfg)
	quiescence := cfg.GetBool(config.ConfigQuiescence)
	nullMove := cfg.GetBool(config.ConfigNullMove)
	bookPath := cfg.GetString(config.ConfigOpeningBook)

	log.Info().Int("games", numGames).Int("threads", threads).
		Int("depth", depth).Dur("move-time", moveTime).
		Int("tt-capacity-per-thread", capacity).Msg("starting-autoplay")

	CVCCounter.Set(0)
	jobs := make(chan int, 100)
	records := make(chan *GameRecord, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got stop signal, exiting soon...")
				return nil
			}
		}
		log.Debug().Msg("finished queueing all jobs")
		return nil
	})

	for t := 0; t < threads; t++ {
		g.Go(func() error {
			tt, err := ttable.New(capacity)
			if err != nil {
				return err
			}
			r := NewGameRunner(tt, z, depth, moveTime)
			r.Solver().SetQuiescence(quiescence)
			r.Solver().SetNullMove(nullMove)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				rec, err := r.PlayGame(gctx, id)
				if err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("game %d: %w", id, err)
				}
				CVCCounter.Add(1)
				select {
				case records <- rec:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	var werr error
	go func() {
		werr = g.Wait()
		close(records)
	}()

	summary := &Summary{}
	if bookPath != "" {
		summary.Book = NewOpeningBook(cfg.GetUint64(config.ConfigZobristSeed),
			cfg.GetInt(config.ConfigBookPlies))
	}
	enc := yaml.NewEncoder(w)
	var encErr error
	for rec := range records {
		summary.add(rec)
		if summary.Book != nil {
			if err := summary.Book.Add(rec); err != nil {
				log.Warn().Err(err).Msg("skipping-game-for-book")
			}
		}
		if encErr == nil {
			encErr = enc.Encode(rec)
		}
	}
	// closing an encoder that never wrote a document is an error.
	if encErr == nil && summary.Games > 0 {
		encErr = enc.Close()
	}
	if werr != nil {
		return summary, werr
	}
	if encErr != nil {
		return summary, fmt.Errorf("writing game log: %w", encErr)
	}
	if summary.Book != nil {
		if err := summary.Book.WriteFile(bookPath); err != nil {
			return summary, fmt.Errorf("writing opening book: %w", err)
		}
		log.Info().Str("file", bookPath).Int("positions", summary.Book.Len()).
			Msg("wrote-opening-book")
	}
	log.Info().Int("games", summary.Games).Int("white-wins", summary.WhiteWins).
		Int("black-wins", summary.BlackWins).Int("draws", summary.Draws).
		Msg("autoplay-finished")
	return summary, nil
}
