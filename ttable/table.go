// Package ttable implements a fixed-capacity, direct-mapped transposition
// table for game-tree search.
//
// The table is addressed by a caller-supplied index. Deriving that index from
// a position hash (modulus, mask, or anything else) is the caller's job; the
// table only verifies the full hash on retrieval. Every store unconditionally
// replaces whatever occupied the slot before.
//
// A Table is not safe for concurrent use. Searches running in parallel should
// each own a table.
package ttable

import (
	"math"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMemory is the reference sizing of the table, 512 MiB.
	DefaultMemory = 512 * 1024 * 1024
	// DefaultCapacity is the number of entries that fit in DefaultMemory.
	DefaultCapacity = DefaultMemory / EntrySize
	// MaxCapacity is the largest capacity addressable with a uint32 index.
	MaxCapacity = math.MaxUint32 + 1
)

// Policy names the replacement policy applied by Store.
type Policy int

const (
	// AlwaysReplace overwrites the slot regardless of its previous occupant's
	// depth, hash or flag.
	AlwaysReplace Policy = iota
)

func (p Policy) String() string {
	switch p {
	case AlwaysReplace:
		return "always-replace"
	}
	return "unknown"
}

type Table struct {
	entries []Entry

	stores     atomic.Uint64
	lookups    atomic.Uint64
	hits       atomic.Uint64
	collisions atomic.Uint64
}

// New allocates a table holding exactly capacity entries. The storage is
// never resized.
func New(capacity int) (*Table, error) {
	if capacity <= 0 || uint64(capacity) > MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	t := &Table{entries: make([]Entry, capacity)}
	log.Debug().Int("num-elems", capacity).
		Int("estimated-total-memory-bytes", capacity*EntrySize).
		Str("policy", t.ReplacementPolicy().String()).
		Msg("transposition-table-size")
	return t, nil
}

// NewWithMemory allocates the largest power-of-two table whose storage fits
// in the given number of bytes.
func NewWithMemory(bytes uint64) (*Table, error) {
	return New(CapacityForBytes(bytes))
}

// Capacity returns the fixed number of slots.
func (t *Table) Capacity() int {
	return len(t.entries)
}

func (t *Table) ReplacementPolicy() Policy {
	return AlwaysReplace
}

// CheckIndex reports whether index addresses a slot of this table, returning
// an error wrapping ErrIndexOutOfRange if it does not.
func (t *Table) CheckIndex(index uint32) error {
	if uint64(index) >= uint64(len(t.entries)) {
		return &IndexError{Index: index, Capacity: len(t.entries)}
	}
	return nil
}

func (t *Table) mustIndex(index uint32) {
	if err := t.CheckIndex(index); err != nil {
		panic(err)
	}
}

// Store overwrites the slot at index with the given fields. The previous
// occupant, if any, is lost. Store panics with an *IndexError if index is out
// of range.
func (t *Table) Store(index uint32, hash uint64, startRow, startCol, endRow, endCol,
	flag, score, depth uint8) {

	t.mustIndex(index)
	t.entries[index] = Entry{
		hash:     hash,
		startRow: startRow,
		startCol: startCol,
		endRow:   endRow,
		endCol:   endCol,
		flag:     flag,
		score:    score,
		depth:    depth,
		used:     true,
	}
	t.stores.Add(1)
}

// Retrieve returns the entry at index if it was stored under hash, and nil
// otherwise. A nil result is an ordinary miss, not an error.
//
// The returned pointer aliases the table's storage: a later Store to the same
// index changes what it points at. Callers must read what they need before
// storing to that index again. Retrieve panics with an *IndexError if index
// is out of range.
func (t *Table) Retrieve(index uint32, hash uint64) *Entry {
	t.mustIndex(index)
	t.lookups.Add(1)
	e := &t.entries[index]
	if !e.used {
		return nil
	}
	if e.hash != hash {
		// Another position owns this slot.
		t.collisions.Add(1)
		return nil
	}
	t.hits.Add(1)
	return e
}
