// Package seedrand provides the deterministic pseudo-random primitives used by
// the derived-metric generators. Every function here is a pure function of its
// seed: the same seed and call sequence produce bit-identical output on every
// platform, because all arithmetic is 32-bit unsigned with wraparound.
package seedrand

import "math"

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// HashSeed maps a string to a 32-bit seed using an FNV-1a rolling hash.
// Equal strings always produce equal seeds.
func HashSeed(s string) uint32 {
	h := fnvOffsetBasis
	for _, r := range s {
		h = (h ^ uint32(r)) * fnvPrime
	}
	return h
}

// Source is a deterministic generator of floats in [0, 1).
type Source func() float64

// New returns a Mulberry32 generator seeded with seed. Each call advances the
// internal state by a fixed odd constant and runs an XOR/multiply avalanche.
// No wall-clock or external entropy is ever mixed in.
func New(seed uint32) Source {
	state := seed
	return func() float64 {
		state += 0x6D2B79F5
		t := state
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		return float64(t^(t>>14)) / 4294967296.0
	}
}

// Shuffle returns a Fisher-Yates permuted copy of items driven by a generator
// seeded with seed. The input slice is never mutated.
func Shuffle[T any](items []T, seed uint32) []T {
	rng := New(seed)
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rng() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IntBetween draws an integer in [lo, hi] (inclusive bounds, rounded) from rng.
func IntBetween(rng Source, lo, hi int) int {
	if lo == hi {
		return lo
	}
	return int(math.Round(float64(lo) + rng()*float64(hi-lo)))
}
