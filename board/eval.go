package board

const (
	// WinScore is the evaluation of a decided position.
	WinScore = 1000
	// PieceValue weighs material against advancement.
	PieceValue = 10
)

// Evaluate scores the position from p's point of view: material difference
// plus how far each side's pieces have advanced. A won position is worth
// WinScore.
func (b *Board) Evaluate(p Player) int {
	switch b.Winner() {
	case p:
		return WinScore
	case p.Opponent():
		return -WinScore
	}
	score := PieceValue * (b.Count(White) - b.Count(Black))
	for sq, owner := range b.squares {
		switch owner {
		case White:
			score += sq / Dim
		case Black:
			score -= Dim - 1 - sq/Dim
		}
	}
	if p == Black {
		return -score
	}
	return score
}
