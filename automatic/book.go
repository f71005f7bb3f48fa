package automatic

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/zobrist"
)

var ErrBadBook = errors.New("not an opening book")

type BookMove struct {
	Move  string `yaml:"move"`
	Count int    `yaml:"count"`
}

// BookPosition lists the moves played from one position, most frequent
// first.
type BookPosition struct {
	Key    uint64     `yaml:"key"`
	ToMove string     `yaml:"to-move"`
	Moves  []BookMove `yaml:"moves"`
}

type bookFile struct {
	Seed      uint64          `yaml:"zobrist-seed"`
	Plies     int             `yaml:"plies"`
	Games     int             `yaml:"games"`
	Positions []*BookPosition `yaml:"positions"`
}

// OpeningBook collects the moves the engine chose in the first plies of
// its games, keyed by the Zobrist hash of the position. The book carries
// its own seeded keys so that it can be read back by another process.
type OpeningBook struct {
	seed      uint64
	plies     int
	games     int
	z         *zobrist.Zobrist
	positions map[uint64]*BookPosition
}

// NewOpeningBook returns an empty book recording up to plies moves of
// every game. A zero seed picks a random one.
func NewOpeningBook(seed uint64, plies int) *OpeningBook {
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	z := &zobrist.Zobrist{}
	z.InitializeSeeded(seed)
	return &OpeningBook{
		seed:      seed,
		plies:     plies,
		z:         z,
		positions: map[uint64]*BookPosition{},
	}
}

func (b *OpeningBook) Len() int {
	return len(b.positions)
}

func (b *OpeningBook) Games() int {
	return b.games
}

// Add replays rec and records the moves made within the book's ply limit.
// The random opening moves are replayed but not recorded.
func (b *OpeningBook) Add(rec *GameRecord) error {
	g := game.New()
	for i, s := range rec.Moves {
		if i >= b.plies {
			break
		}
		m, err := board.ParseMove(s)
		if err != nil {
			return fmt.Errorf("game %d, move %d: %w", rec.ID, i+1, err)
		}
		onTurn := g.PlayerOnTurn()
		key := b.z.Hash(g.Board(), onTurn)
		if err := g.PlayMove(m); err != nil {
			return fmt.Errorf("game %d, move %d: %w", rec.ID, i+1, err)
		}
		if i < rec.OpeningPlies {
			continue
		}
		pos, ok := b.positions[key]
		if !ok {
			pos = &BookPosition{Key: key, ToMove: onTurn.String()}
			b.positions[key] = pos
		}
		pos.add(m.String())
	}
	b.games++
	return nil
}

func (p *BookPosition) add(move string) {
	for i := range p.Moves {
		if p.Moves[i].Move == move {
			p.Moves[i].Count++
			return
		}
	}
	p.Moves = append(p.Moves, BookMove{Move: move, Count: 1})
}

func (p *BookPosition) sortMoves() {
	sort.SliceStable(p.Moves, func(i, j int) bool {
		return p.Moves[i].Count > p.Moves[j].Count
	})
}

// Lookup returns the book moves for the position in g, most frequent first,
// or nil if the position is not in the book.
func (b *OpeningBook) Lookup(g *game.Game) []BookMove {
	pos, ok := b.positions[b.z.Hash(g.Board(), g.PlayerOnTurn())]
	if !ok {
		return nil
	}
	pos.sortMoves()
	return append([]BookMove(nil), pos.Moves...)
}

// Write writes the book as a single YAML document.
func (b *OpeningBook) Write(w io.Writer) error {
	f := bookFile{Seed: b.seed, Plies: b.plies, Games: b.games}
	for _, pos := range b.positions {
		pos.sortMoves()
		f.Positions = append(f.Positions, pos)
	}
	sort.Slice(f.Positions, func(i, j int) bool {
		return f.Positions[i].Key < f.Positions[j].Key
	})
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes the book to path.
func (b *OpeningBook) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadOpeningBook reads a book written by Write.
func LoadOpeningBook(r io.Reader) (*OpeningBook, error) {
	var f bookFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBook, err)
	}
	if f.Seed == 0 {
		return nil, fmt.Errorf("%w: missing zobrist-seed", ErrBadBook)
	}
	b := NewOpeningBook(f.Seed, f.Plies)
	b.games = f.Games
	for _, pos := range f.Positions {
		b.positions[pos.Key] = pos
	}
	return b, nil
}
