package ttable

import (
	"github.com/rs/zerolog"
)

// Stats is a snapshot of a table's counters.
type Stats struct {
	Capacity   int
	Stores     uint64
	Lookups    uint64
	Hits       uint64
	Collisions uint64
}

// HitRate is the fraction of lookups that returned an entry.
func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("capacity", s.Capacity).
		Uint64("stores", s.Stores).
		Uint64("lookups", s.Lookups).
		Uint64("hits", s.Hits).
		Uint64("collisions", s.Collisions).
		Float64("hit-rate", s.HitRate())
}

func (t *Table) Stats() Stats {
	return Stats{
		Capacity:   len(t.entries),
		Stores:     t.stores.Load(),
		Lookups:    t.lookups.Load(),
		Hits:       t.hits.Load(),
		Collisions: t.collisions.Load(),
	}
}

// ResetStats zeroes the counters. The entries are untouched.
func (t *Table) ResetStats() {
	t.stores.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
}
