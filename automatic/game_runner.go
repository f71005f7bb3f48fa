// Package automatic plays computer vs computer games of Fianco, for
// testing the engine and collecting statistics.
package automatic

import (
	"context"
	"errors"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/search"
	"github.com/domino14/fianco/ttable"
	"github.com/domino14/fianco/zobrist"
)

const (
	// MaxGamePlies ends a game as a draw. Sideways moves let both sides
	// shuffle forever.
	MaxGamePlies = 200
	// DefaultOpeningPlies random moves are played at the start of every game
	// so that repeated games differ.
	DefaultOpeningPlies = 2
)

// GameRecord is what gets logged for every finished game.
type GameRecord struct {
	ID           int      `yaml:"id"`
	Winner       string   `yaml:"winner"`
	Plies        int      `yaml:"plies"`
	OpeningPlies int      `yaml:"opening-plies"`
	Moves        []string `yaml:"moves"`
	Fingerprint  uint64   `yaml:"fingerprint"`
	Nodes        uint64   `yaml:"nodes"`
	TableHits    uint64   `yaml:"table-hits"`
}

// GameRunner is the master struct here for the automatic game logic. It
// owns a solver and its transposition table, so a runner must only be used
// from one goroutine at a time.
type GameRunner struct {
	game   *game.Game
	solver *search.Solver

	depth        int
	moveTime     time.Duration
	openingPlies int
	rng          *frand.RNG
}

// NewGameRunner makes a runner that searches each move to at most depth
// plies, and for at most moveTime.
func NewGameRunner(tt *ttable.Table, z *zobrist.Zobrist, depth int, moveTime time.Duration) *GameRunner {
	return &GameRunner{
		solver:       search.NewSolver(tt, z),
		depth:        depth,
		moveTime:     moveTime,
		openingPlies: DefaultOpeningPlies,
		rng:          frand.New(),
	}
}

// SetOpeningPlies sets how many random moves start every game.
func (r *GameRunner) SetOpeningPlies(n int) {
	r.openingPlies = n
}

// Solver is the solver used for every searched move.
func (r *GameRunner) Solver() *search.Solver {
	return r.solver
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// StartGame resets the runner to the starting position.
func (r *GameRunner) StartGame() {
	r.game = game.New()
}

func (r *GameRunner) bestMove(ctx context.Context) (board.Move, *search.Result, error) {
	if r.game.Turn() < r.openingPlies {
		moves := r.game.LegalMoves()
		return moves[r.rng.Intn(len(moves))], nil, nil
	}
	mctx := ctx
	if r.moveTime > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, r.moveTime)
		defer cancel()
	}
	res, err := r.solver.Solve(mctx, r.game, r.depth)
	if err != nil {
		if ctx.Err() != nil {
			return board.Move{}, nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			// Not even one ply finished in time.
			log.Warn().Dur("move-time", r.moveTime).Msg("no-search-result-playing-first-move")
			return r.game.LegalMoves()[0], nil, nil
		}
		return board.Move{}, nil, err
	}
	return res.BestMove, res, nil
}

// PlayGame plays one game to the end and returns its record.
func (r *GameRunner) PlayGame(ctx context.Context, id int) (*GameRecord, error) {
	r.StartGame()
	if t := r.solver.Table(); t != nil {
		t.ResetStats()
	}
	rec := &GameRecord{ID: id}
	for r.game.Playing() == game.Playing && r.game.Turn() < MaxGamePlies {
		m, res, err := r.bestMove(ctx)
		if err != nil {
			return nil, err
		}
		if res != nil {
			rec.Nodes += res.Nodes
		}
		if err := r.game.PlayMove(m); err != nil {
			return nil, err
		}
	}
	rec.Plies = r.game.Turn()
	rec.OpeningPlies = min(r.openingPlies, rec.Plies)
	rec.Winner = r.game.Winner().String()
	rec.Moves = lo.Map(r.game.History(), func(m board.Move, _ int) string {
		return m.String()
	})
	rec.Fingerprint = xxhash.Sum64String(r.game.Transcript())
	if t := r.solver.Table(); t != nil {
		rec.TableHits = t.Stats().Hits
	}
	log.Debug().Int("game-id", id).Str("winner", rec.Winner).
		Int("plies", rec.Plies).Msg("game-over")
	return rec, nil
}
