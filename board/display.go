package board

import (
	"fmt"
	"regexp"
	"strings"
)

var boardPlaintextRegex = regexp.MustCompile(`\|(.+)\|`)

func (p Player) symbol() string {
	switch p {
	case White:
		return "W"
	case Black:
		return "B"
	}
	return "."
}

func (b *Board) ToDisplayText() string {
	var str strings.Builder
	row := "   "
	for i := 0; i < Dim; i++ {
		row = row + fmt.Sprintf("%c", 'A'+i) + " "
	}
	str.WriteString(row + "\n")
	str.WriteString("   " + strings.Repeat("-", Dim*2) + "\n")
	for i := 0; i < Dim; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < Dim; j++ {
			row = row + b.At(i, j).symbol() + " "
		}
		row = row + "|"
		str.WriteString(row + "\n")
	}
	str.WriteString("   " + strings.Repeat("-", Dim*2) + "\n")
	return str.String()
}

func (b *Board) String() string {
	return b.ToDisplayText()
}

// FromDisplayText parses the output of ToDisplayText.
func FromDisplayText(text string) (*Board, error) {
	result := boardPlaintextRegex.FindAllStringSubmatch(text, -1)
	if len(result) != Dim {
		return nil, fmt.Errorf("expected %d board rows, got %d", Dim, len(result))
	}
	b := Empty()
	for i := range result {
		cells := strings.Fields(result[i][1])
		if len(cells) != Dim {
			return nil, fmt.Errorf("row %d: expected %d squares, got %d", i+1, Dim, len(cells))
		}
		for j, cell := range cells {
			switch cell {
			case "W":
				b.set(i, j, White)
			case "B":
				b.set(i, j, Black)
			case ".":
			default:
				return nil, fmt.Errorf("row %d: unexpected square %q", i+1, cell)
			}
		}
	}
	return b, nil
}
