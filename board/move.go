package board

import (
	"fmt"
	"strings"
)

// Move is a single piece movement, from one square to another. Row 0 is
// White's home row.
type Move struct {
	FromRow, FromCol, ToRow, ToCol uint8
}

func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{uint8(fromRow), uint8(fromCol), uint8(toRow), uint8(toCol)}
}

// IsCapture is true for two-row diagonal jumps.
func (m Move) IsCapture() bool {
	return m.FromRow+2 == m.ToRow || m.ToRow+2 == m.FromRow
}

// CapturedSquare is the square jumped over by a capture.
func (m Move) CapturedSquare() (int, int) {
	return (int(m.FromRow) + int(m.ToRow)) / 2, (int(m.FromCol) + int(m.ToCol)) / 2
}

func squareName(row, col uint8) string {
	return fmt.Sprintf("%c%d", 'A'+col, row+1)
}

// String renders the move as e.g. E4-E5, or D4xF6 for a capture.
func (m Move) String() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return squareName(m.FromRow, m.FromCol) + sep + squareName(m.ToRow, m.ToCol)
}

func parseSquare(s string) (uint8, uint8, error) {
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("%w: square %q", ErrBadMove, s)
	}
	col := int(s[0] - 'A')
	row := int(s[1] - '1')
	if !onBoard(row, col) {
		return 0, 0, fmt.Errorf("%w: square %q", ErrBadMove, s)
	}
	return uint8(row), uint8(col), nil
}

// ParseMove parses the notation produced by Move.String. Either separator is
// accepted for any move, and case does not matter.
func ParseMove(s string) (Move, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	from, to, found := strings.Cut(s, "-")
	if !found {
		from, to, found = strings.Cut(s, "X")
	}
	if !found {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	fr, fc, err := parseSquare(from)
	if err != nil {
		return Move{}, err
	}
	tr, tc, err := parseSquare(to)
	if err != nil {
		return Move{}, err
	}
	return Move{fr, fc, tr, tc}, nil
}
