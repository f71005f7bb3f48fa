package board

var lateral = [2]int{-1, 1}

// GenerateMoves returns every legal move for p. If any capture is available
// only captures are returned. Moves are ordered by origin square.
func (b *Board) GenerateMoves(p Player) []Move {
	if caps := b.captures(p, nil); len(caps) > 0 {
		return caps
	}
	return b.quietMoves(p, nil)
}

// HasCapture reports whether p has at least one capture available.
func (b *Board) HasCapture(p Player) bool {
	fwd := p.Forward()
	opp := p.Opponent()
	for sq, owner := range b.squares {
		if owner != p {
			continue
		}
		r, c := sq/Dim, sq%Dim
		for _, dc := range lateral {
			if b.canCapture(r, c, fwd, dc, opp) {
				return true
			}
		}
	}
	return false
}

func (b *Board) canCapture(r, c, fwd, dc int, opp Player) bool {
	mr, mc := r+fwd, c+dc
	tr, tc := r+2*fwd, c+2*dc
	return onBoard(tr, tc) && b.At(mr, mc) == opp && b.At(tr, tc) == NoPlayer
}

func (b *Board) captures(p Player, moves []Move) []Move {
	fwd := p.Forward()
	opp := p.Opponent()
	for sq, owner := range b.squares {
		if owner != p {
			continue
		}
		r, c := sq/Dim, sq%Dim
		for _, dc := range lateral {
			if b.canCapture(r, c, fwd, dc, opp) {
				moves = append(moves, NewMove(r, c, r+2*fwd, c+2*dc))
			}
		}
	}
	return moves
}

func (b *Board) quietMoves(p Player, moves []Move) []Move {
	fwd := p.Forward()
	for sq, owner := range b.squares {
		if owner != p {
			continue
		}
		r, c := sq/Dim, sq%Dim
		if onBoard(r+fwd, c) && b.At(r+fwd, c) == NoPlayer {
			moves = append(moves, NewMove(r, c, r+fwd, c))
		}
		for _, dc := range lateral {
			if onBoard(r, c+dc) && b.At(r, c+dc) == NoPlayer {
				moves = append(moves, NewMove(r, c, r, c+dc))
			}
		}
	}
	return moves
}

// IsLegal reports whether m is among p's legal moves.
func (b *Board) IsLegal(m Move, p Player) bool {
	for _, lm := range b.GenerateMoves(p) {
		if lm == m {
			return true
		}
	}
	return false
}
