package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestStartingPosition(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	is.Equal(b.Count(White), 15)
	is.Equal(b.Count(Black), 15)
	is.Equal(b.At(0, 4), White)
	is.Equal(b.At(8, 4), Black)
	is.Equal(b.At(3, 3), White)
	is.Equal(b.At(5, 5), Black)
	is.Equal(b.At(4, 4), NoPlayer)
	is.Equal(b.Winner(), NoPlayer)
	is.Equal(b.Evaluate(White), 0)
	is.Equal(b.Evaluate(Black), 0)
}

func TestStartingMoves(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	is.Equal(len(b.GenerateMoves(White)), 25)
	is.Equal(len(b.GenerateMoves(Black)), 25)
	is.True(!b.HasCapture(White))
	is.True(b.IsLegal(NewMove(3, 3, 4, 3), White))
	is.True(!b.IsLegal(NewMove(3, 3, 2, 3), White)) // backwards
	is.True(!b.IsLegal(NewMove(0, 0, 0, 1), White)) // occupied
}

func TestCaptureIsMandatory(t *testing.T) {
	is := is.New(t)
	b := Empty()
	b.Set(3, 3, White)
	b.Set(0, 0, White)
	b.Set(4, 4, Black)

	moves := b.GenerateMoves(White)
	is.Equal(moves, []Move{NewMove(3, 3, 5, 5)})
	is.True(b.HasCapture(White))

	// black can capture back the other way.
	is.Equal(b.GenerateMoves(Black), []Move{NewMove(4, 4, 2, 2)})
}

func TestCaptureBlockedByEdgeAndPieces(t *testing.T) {
	is := is.New(t)
	b := Empty()
	b.Set(3, 7, White)
	b.Set(4, 8, Black) // landing square would be off the board
	b.Set(4, 6, Black)
	b.Set(5, 5, White) // landing square is occupied
	is.True(!b.HasCapture(White))
	for _, m := range b.GenerateMoves(White) {
		is.True(!m.IsCapture())
	}
}

func TestPlayUnplay(t *testing.T) {
	is := is.New(t)
	b := Empty()
	b.Set(3, 3, White)
	b.Set(4, 4, Black)
	orig := b.Copy()

	m := NewMove(3, 3, 5, 5)
	is.True(b.Play(m, White))
	is.Equal(b.At(5, 5), White)
	is.Equal(b.At(4, 4), NoPlayer)
	is.Equal(b.At(3, 3), NoPlayer)
	is.Equal(b.Count(Black), 0)

	b.Unplay(m, White)
	is.Equal(b, orig)

	q := NewMove(4, 4, 3, 4)
	is.True(!b.Play(q, Black))
	b.Unplay(q, Black)
	is.Equal(b, orig)
}

func TestWinner(t *testing.T) {
	is := is.New(t)
	b := Empty()
	b.Set(7, 2, White)
	b.Set(5, 6, Black)
	is.Equal(b.Winner(), NoPlayer)
	b.Play(NewMove(7, 2, 8, 2), White)
	is.Equal(b.Winner(), White)
	is.Equal(b.Evaluate(White), WinScore)
	is.Equal(b.Evaluate(Black), -WinScore)

	b = Empty()
	b.Set(0, 8, Black)
	is.Equal(b.Winner(), Black)
}

func TestEvaluate(t *testing.T) {
	is := is.New(t)
	b := Empty()
	b.Set(4, 0, White) // advanced 4
	b.Set(2, 0, White) // advanced 2
	b.Set(6, 8, Black) // advanced 2
	// 10 for the extra piece, 6 - 2 for advancement.
	is.Equal(b.Evaluate(White), 14)
	is.Equal(b.Evaluate(Black), -14)
}

func TestMoveNotation(t *testing.T) {
	is := is.New(t)
	is.Equal(NewMove(3, 4, 4, 4).String(), "E4-E5")
	is.Equal(NewMove(3, 3, 5, 5).String(), "D4xF6")
	is.Equal(NewMove(8, 0, 8, 1).String(), "A9-B9")

	m, err := ParseMove("e4-e5")
	is.NoErr(err)
	is.Equal(m, NewMove(3, 4, 4, 4))
	m, err = ParseMove(" D4xF6 ")
	is.NoErr(err)
	is.Equal(m, NewMove(3, 3, 5, 5))
	m, err = ParseMove("d4-f6")
	is.NoErr(err)
	is.True(m.IsCapture())
	r, c := m.CapturedSquare()
	is.Equal([]int{r, c}, []int{4, 4})

	for _, bad := range []string{"", "E4E5", "J1-A1", "A0-A1", "A1-A10", "E4-"} {
		_, err := ParseMove(bad)
		is.True(errors.Is(err, ErrBadMove))
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	b.Play(NewMove(3, 3, 4, 3), White)
	text := b.ToDisplayText()
	parsed, err := FromDisplayText(text)
	is.NoErr(err)
	is.Equal(parsed, b)
	is.Equal(parsed.ToDisplayText(), text)
}

func TestFromDisplayTextErrors(t *testing.T) {
	is := is.New(t)
	_, err := FromDisplayText("|W W|")
	is.True(err != nil)

	text := StartingPosition().ToDisplayText()
	_, err = FromDisplayText(text[:len(text)-30])
	is.True(err != nil)
}

func TestThreatening(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	is.Equal(b.CountOnRow(White, 0), 9)
	is.Equal(b.CountOnRow(Black, 0), 0)
	is.True(!b.Threatening(White))
	is.True(!b.Threatening(Black))

	b = Empty()
	b.Set(7, 2, White)
	b.Set(1, 2, Black)
	is.True(b.Threatening(White))
	is.True(b.Threatening(Black))
	b.Set(7, 2, NoPlayer)
	b.Set(6, 2, White)
	is.True(!b.Threatening(White))
}

func BenchmarkGenerateMoves(b *testing.B) {
	bd := StartingPosition()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.GenerateMoves(White)
	}
}
