package search

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestScoreRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(-MaxStoredScore, MaxStoredScore).Draw(t, "v")
		flag := rapid.SampledFrom([]uint8{FlagExact, FlagLower, FlagUpper}).Draw(t, "flag")
		stored, storedFlag := encodeScore(v, flag)
		assert.Equal(t, v, decodeScore(stored))
		assert.Equal(t, flag, storedFlag)
	})
}

// A clamped score must still be a true bound on the real value.
func TestScoreClampingIsSound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.OneOf(
			rapid.IntRange(MaxStoredScore+1, 100000),
			rapid.IntRange(-100000, -MaxStoredScore-1),
		).Draw(t, "v")
		flag := rapid.SampledFrom([]uint8{FlagExact, FlagLower, FlagUpper}).Draw(t, "flag")
		stored, storedFlag := encodeScore(v, flag)
		s := decodeScore(stored)
		switch storedFlag {
		case FlagLower:
			// real value >= v > s
			assert.True(t, flag == FlagExact || flag == FlagLower)
			assert.True(t, s <= v)
		case FlagUpper:
			assert.True(t, flag == FlagExact || flag == FlagUpper)
			assert.True(t, s >= v)
		case FlagMoveOnly:
		default:
			t.Fatalf("clamped score kept flag %d", storedFlag)
		}
	})
}

func TestScoreClamping(t *testing.T) {
	is := is.New(t)
	s, f := encodeScore(500, FlagExact)
	is.Equal(decodeScore(s), MaxStoredScore)
	is.Equal(f, FlagLower)
	_, f = encodeScore(500, FlagUpper)
	is.Equal(f, FlagMoveOnly)
	s, f = encodeScore(-999, FlagExact)
	is.Equal(decodeScore(s), -MaxStoredScore)
	is.Equal(f, FlagUpper)
	_, f = encodeScore(-999, FlagLower)
	is.Equal(f, FlagMoveOnly)
	s, f = encodeScore(127, FlagExact)
	is.Equal(s, uint8(255))
	is.Equal(f, FlagExact)
	s, _ = encodeScore(-127, FlagExact)
	is.Equal(s, uint8(1))
}

func TestIndexFor(t *testing.T) {
	is := is.New(t)
	is.Equal(indexFor(0xABCD, 16), uint32(0xD))
	is.Equal(indexFor(0xABCD, 10), uint32(0xABCD%10))
	is.Equal(indexFor(12345, 1), uint32(0))

	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 1<<20).Draw(t, "capacity")
		hash := rapid.Uint64().Draw(t, "hash")
		assert.Less(t, int(indexFor(hash, capacity)), capacity)
	})
}
