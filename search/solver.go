// Package search implements a negamax alpha-beta solver for Fianco with
// iterative deepening, backed by a transposition table.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/ttable"
	"github.com/domino14/fianco/zobrist"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

const (
	Infinity = 1 << 20
	// MaxDepth is the deepest search the solver accepts; depths are stored
	// in a byte.
	MaxDepth = 64
	// QuiescenceDepth bounds how many captures past the horizon are
	// followed.
	QuiescenceDepth = 2
	// NullMoveReduction is how much shallower the null-move search is than
	// the full one.
	NullMoveReduction = 2
	// nullMoveMinPieces is the piece count below which either side is in
	// the endgame, where passing is never safe.
	nullMoveMinPieces = 5
)

var ErrNoMoves = errors.New("no moves to search; the game is over")

// Result is the outcome of the deepest fully completed iteration.
type Result struct {
	BestMove   board.Move
	Score      int
	Depth      int
	Nodes      uint64
	PV         []board.Move
	Elapsed    time.Duration
	TableStats ttable.Stats
}

// Decided reports whether the score is a forced win or loss.
func (r *Result) Decided() bool {
	return isDecided(r.Score)
}

func isDecided(score int) bool {
	return score >= board.WinScore/2 || score <= -board.WinScore/2
}

type Solver struct {
	table   *ttable.Table
	zobrist *zobrist.Zobrist

	board  *board.Board
	onTurn board.Player
	nodes  uint64

	transpositionTableOptim bool
	quiescence              bool
	nullMove                bool
	nullAllowed             bool
	currentIDDepth          int
	principalVariation      PVLine
	logStream               io.Writer
}

// NewSolver returns a solver that caches results in t. A nil table disables
// the transposition table.
func NewSolver(t *ttable.Table, z *zobrist.Zobrist) *Solver {
	return &Solver{
		table:                   t,
		zobrist:                 z,
		transpositionTableOptim: t != nil,
		quiescence:              true,
	}
}

func (s *Solver) SetTranspositionTableOptim(on bool) {
	s.transpositionTableOptim = on && s.table != nil
}

// SetQuiescence turns the capture search at the horizon on or off. It is on
// by default.
func (s *Solver) SetQuiescence(on bool) {
	s.quiescence = on
}

// SetNullMove turns null-move pruning on or off. It is off by default, since
// the pruned search is no longer exact.
func (s *Solver) SetNullMove(on bool) {
	s.nullMove = on
}

// SetLogStream makes the solver write a YAML-like trace of every node it
// visits. Only useful for tiny searches.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) Table() *ttable.Table {
	return s.table
}

type moveSorter struct {
	estimates []int
	moves     []board.Move
}

func (p moveSorter) Len() int { return len(p.moves) }
func (p moveSorter) Swap(i, j int) {
	p.estimates[i], p.estimates[j] = p.estimates[j], p.estimates[i]
	p.moves[i], p.moves[j] = p.moves[j], p.moves[i]
}
func (p moveSorter) Less(i, j int) bool {
	return p.estimates[j] < p.estimates[i]
}

// orderMoves puts the table move first, then the rest by how far they take
// the piece towards its goal row.
func (s *Solver) orderMoves(moves []board.Move, onTurn board.Player, ttMove board.Move, haveTTMove bool) {
	estimates := make([]int, len(moves))
	for i, m := range moves {
		row := int(m.ToRow)
		if onTurn == board.Black {
			row = board.Dim - 1 - row
		}
		estimates[i] = row * 2
		if int(m.ToRow) != int(m.FromRow) {
			estimates[i]++
		}
	}
	sort.Stable(moveSorter{estimates: estimates, moves: moves})
	if haveTTMove {
		if idx := lo.IndexOf(moves, ttMove); idx > 0 {
			copy(moves[1:idx+1], moves[:idx])
			moves[0] = ttMove
		}
	}
}

// Solve searches the position in g to at most maxDepth plies with iterative
// deepening. If ctx is cancelled or times out, the result of the deepest
// completed iteration is returned; an error is returned only if not even
// the first iteration finished.
func (s *Solver) Solve(ctx context.Context, g *game.Game, maxDepth int) (*Result, error) {
	if g.Playing() == game.GameOver {
		return nil, ErrNoMoves
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}
	tstart := time.Now()
	s.board = g.Board().Copy()
	s.onTurn = g.PlayerOnTurn()
	s.nodes = 0
	s.nullAllowed = true
	s.principalVariation = PVLine{}

	rootKey := s.zobrist.Hash(s.board, s.onTurn)
	moves := s.board.GenerateMoves(s.onTurn)
	var ttMove board.Move
	var haveTTMove bool
	if s.transpositionTableOptim {
		var e ttEntry
		e, haveTTMove = s.lookup(rootKey)
		ttMove = e.m
	}
	s.orderMoves(moves, s.onTurn, ttMove, haveTTMove)

	log.Debug().Uint64("root-key", rootKey).Int("max-depth", maxDepth).
		Bool("quiescence", s.quiescence).Bool("null-move", s.nullMove).
		Str("on-turn", s.onTurn.String()).Msg("solve-config")

	var result *Result
	for d := 1; d <= maxDepth; d++ {
		s.currentIDDepth = d
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "- ply: %d\n", d)
		}
		var score int
		var err error
		moves, score, err = s.searchMoves(ctx, rootKey, moves, d)
		if err != nil {
			if result != nil && ctx.Err() != nil {
				log.Debug().Int("depth", d).Err(err).Msg("iteration-interrupted")
				break
			}
			return nil, err
		}
		result = &Result{
			BestMove: s.principalVariation.Moves[0],
			Score:    score,
			Depth:    d,
			PV:       s.principalVariation.copy().Moves,
		}
		log.Debug().Int("depth", d).Int("score", score).
			Str("pv", s.principalVariation.String()).
			Uint64("nodes", s.nodes).Msg("iteration-complete")
		if isDecided(score) {
			break
		}
	}
	result.Nodes = s.nodes
	result.Elapsed = time.Since(tstart)
	if s.table != nil {
		result.TableStats = s.table.Stats()
	}
	log.Info().
		Str("best-move", result.BestMove.String()).
		Int("score", result.Score).
		Int("depth", result.Depth).
		Uint64("nodes", result.Nodes).
		Object("ttable", result.TableStats).
		Float64("time-elapsed-sec", result.Elapsed.Seconds()).
		Msg("solve-returning")
	return result, nil
}
