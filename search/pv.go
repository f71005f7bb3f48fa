package search

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/fianco/board"
)

// PVLine is a principal variation: the line of best play found by the search.
type PVLine struct {
	Moves []board.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m board.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

func (pvLine PVLine) copy() PVLine {
	return PVLine{Moves: append([]board.Move(nil), pvLine.Moves...), score: pvLine.score}
}

func (pvLine PVLine) String() string {
	return fmt.Sprintf("PV; val %d: %s", pvLine.score,
		strings.Join(lo.Map(pvLine.Moves, func(m board.Move, _ int) string {
			return m.String()
		}), " "))
}
