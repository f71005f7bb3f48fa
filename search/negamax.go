package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/domino14/fianco/board"
)

func (s *Solver) searchMoves(ctx context.Context, rootKey uint64, moves []board.Move, depth int) ([]board.Move, int, error) {
	α := -Infinity
	β := Infinity
	bestValue := -Infinity
	var bestMove board.Move
	scores := make([]int, len(moves))
	if s.logStream != nil {
		fmt.Fprint(s.logStream, "  plays:\n")
	}
	pv := PVLine{}
	childPV := PVLine{}
	for idx, m := range moves {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  - play: %v\n", m)
		}
		s.board.Play(m, s.onTurn)
		childKey := s.zobrist.AddMove(rootKey, m, s.onTurn)
		value, err := s.negamax(ctx, childKey, depth-1, 1, -β, -α, s.onTurn.Opponent(), &childPV)
		s.board.Unplay(m, s.onTurn)
		if err != nil {
			return nil, 0, err
		}
		scores[idx] = -value
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "    value: %v\n", -value)
		}
		if -value > bestValue {
			bestValue = -value
			bestMove = m
			pv.Update(m, childPV, bestValue)
		}
		α = max(α, bestValue)
		childPV.Clear()
	}
	s.principalVariation = pv
	if s.transpositionTableOptim {
		s.store(rootKey, bestMove, bestValue, FlagExact, depth)
	}

	// biggest to smallest, for the next iteration.
	sorted := append([]board.Move(nil), moves...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return scoreOf(moves, scores, sorted[j]) < scoreOf(moves, scores, sorted[i])
	})
	return sorted, bestValue, nil
}

func scoreOf(moves []board.Move, scores []int, m board.Move) int {
	for i := range moves {
		if moves[i] == m {
			return scores[i]
		}
	}
	return -Infinity
}

func (s *Solver) negamax(ctx context.Context, nodeKey uint64, depth, ply int, α, β int,
	onTurn board.Player, pv *PVLine) (int, error) {

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	s.nodes++

	// A side whose opponent just reached the goal row has lost. The fewer
	// plies it took, the better for the winner.
	if s.board.Winner() != board.NoPlayer {
		return -(board.WinScore - ply), nil
	}

	// Note: if we return early here, the PV might not be complete.
	// The value is still correct.
	alphaOrig := α
	var ttMove board.Move
	var haveTTMove bool
	if s.transpositionTableOptim {
		if e, ok := s.lookup(nodeKey); ok {
			ttMove, haveTTMove = e.m, true
			if e.flag != FlagMoveOnly && e.depth >= depth {
				switch e.flag {
				case FlagExact:
					return e.score, nil
				case FlagLower:
					α = max(α, e.score)
				case FlagUpper:
					β = min(β, e.score)
				}
				if α >= β {
					return e.score, nil
				}
			}
		}
	}

	moves := s.board.GenerateMoves(onTurn)
	if len(moves) == 0 {
		return -(board.WinScore - ply), nil
	}
	if depth == 0 {
		if !s.quiescence {
			return s.board.Evaluate(onTurn), nil
		}
		value, m, err := s.quiesce(ctx, ply, α, β, onTurn, moves, QuiescenceDepth)
		if err != nil {
			return 0, err
		}
		if s.transpositionTableOptim {
			s.store(nodeKey, m, value, boundFlag(value, alphaOrig, β), 0)
		}
		return value, nil
	}

	if s.nullMoveAllowed(depth, moves) {
		// Let the opponent move twice. If we are still above β, a real
		// move would be too.
		s.nullAllowed = false
		value, err := s.negamax(ctx, s.zobrist.Pass(nodeKey), depth-1-NullMoveReduction, ply+1,
			-β, -β+1, onTurn.Opponent(), &PVLine{})
		s.nullAllowed = true
		if err != nil {
			return 0, err
		}
		if -value >= β {
			return β, nil
		}
	}
	s.orderMoves(moves, onTurn, ttMove, haveTTMove)

	childPV := PVLine{}
	bestValue := -Infinity
	bestMove := moves[0]
	indent := strings.Repeat(" ", 2*(s.currentIDDepth-depth))
	if s.logStream != nil {
		fmt.Fprintf(s.logStream, "  %vplays:\n", indent)
	}
	for _, child := range moves {
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v- play: %v\n", indent, child)
		}
		s.board.Play(child, onTurn)
		childKey := s.zobrist.AddMove(nodeKey, child, onTurn)
		value, err := s.negamax(ctx, childKey, depth-1, ply+1, -β, -α, onTurn.Opponent(), &childPV)
		s.board.Unplay(child, onTurn)
		if err != nil {
			return 0, err
		}
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v  value: %v\n", indent, -value)
		}
		if -value > bestValue {
			bestValue = -value
			bestMove = child
			pv.Update(child, childPV, bestValue)
		}
		α = max(α, bestValue)
		if bestValue >= β {
			break // beta cut-off
		}
		childPV.Clear() // clear the child node's pv for the next child node
	}

	if s.transpositionTableOptim {
		s.store(nodeKey, bestMove, bestValue, boundFlag(bestValue, alphaOrig, β), depth)
	}
	return bestValue, nil
}

func boundFlag(value, alphaOrig, β int) uint8 {
	if value <= alphaOrig {
		return FlagUpper
	} else if value >= β {
		return FlagLower
	}
	return FlagExact
}

// quiesce follows capture sequences for at most qdepth plies past the
// horizon, so that a position is never evaluated halfway through an
// exchange. The side to move may stand pat on the static evaluation.
// moves must be onTurn's legal moves; since captures are mandatory they are
// either all captures or none.
func (s *Solver) quiesce(ctx context.Context, ply, α, β int, onTurn board.Player,
	moves []board.Move, qdepth int) (int, board.Move, error) {

	standPat := s.board.Evaluate(onTurn)
	if qdepth == 0 || !moves[0].IsCapture() || standPat >= β {
		return standPat, board.Move{}, nil
	}
	α = max(α, standPat)
	best := standPat
	var bestMove board.Move
	opp := onTurn.Opponent()
	for _, m := range moves {
		if ctx.Err() != nil {
			return 0, board.Move{}, ctx.Err()
		}
		s.nodes++
		s.board.Play(m, onTurn)
		var value int
		if s.board.Winner() != board.NoPlayer {
			value = board.WinScore - (ply + 1)
		} else if replies := s.board.GenerateMoves(opp); len(replies) == 0 {
			value = board.WinScore - (ply + 1)
		} else {
			v, _, err := s.quiesce(ctx, ply+1, -β, -α, opp, replies, qdepth-1)
			if err != nil {
				s.board.Unplay(m, onTurn)
				return 0, board.Move{}, err
			}
			value = -v
		}
		s.board.Unplay(m, onTurn)
		if value > best {
			best = value
			bestMove = m
		}
		α = max(α, best)
		if best >= β {
			break
		}
	}
	return best, bestMove, nil
}

// nullMoveAllowed reports whether passing is worth trying at this node.
// Passing is not a legal Fianco move, so it is never tried when a capture
// is forced, in the endgame, or when a piece of either side is one step
// from winning.
func (s *Solver) nullMoveAllowed(depth int, moves []board.Move) bool {
	if !s.nullMove || !s.nullAllowed || depth <= NullMoveReduction {
		return false
	}
	if moves[0].IsCapture() {
		return false
	}
	if s.board.Count(board.White) < nullMoveMinPieces || s.board.Count(board.Black) < nullMoveMinPieces {
		return false
	}
	return !s.board.Threatening(board.White) && !s.board.Threatening(board.Black)
}
