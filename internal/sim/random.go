package sim

import (
	"hash/fnv"
	"math/rand"
)

// rngState separates gameplay randomness, which is replayed bit-exactly,
// from cosmetic randomness, which is not. Gameplay draws are counted so the
// per-turn consistency check can detect desyncs. Cosmetic draws go to an
// isolated stream entered via pushCosmeticRNG and never touch the counter.
type rngState struct {
	gameplay *rand.Rand
	cosmetic *rand.Rand

	// depth of nested pushCosmeticRNG calls; >0 routes draws cosmetically.
	cosmeticDepth int

	draws uint64
}

func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}

func newRNGState(seed string) rngState {
	return rngState{
		gameplay: newDeterministicRNG(seed, "gameplay"),
		cosmetic: newDeterministicRNG(seed, "cosmetic"),
	}
}

func (r *rngState) intn(n int) int {
	if n <= 0 {
		return 0
	}
	if r.cosmeticDepth > 0 {
		return r.cosmetic.Intn(n)
	}
	r.draws++
	return r.gameplay.Intn(n)
}

// pushCosmeticRNG routes subsequent draws to the visual-only stream.
// Every push must be paired with a popCosmeticRNG.
func (w *World) pushCosmeticRNG() {
	if w == nil {
		return
	}
	w.rand.cosmeticDepth++
}

func (w *World) popCosmeticRNG() {
	if w == nil || w.rand.cosmeticDepth == 0 {
		return
	}
	w.rand.cosmeticDepth--
}

// RNGDraws reports how many gameplay draws have been consumed. Replays of
// the same seed and inputs must land on identical values every turn.
func (w *World) RNGDraws() uint64 {
	if w == nil {
		return 0
	}
	return w.rand.draws
}

// randRange returns a uniform integer in [lo, hi].
func (w *World) randRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + w.rand.intn(hi-lo+1)
}

// randPercent reports true chance% of the time.
func (w *World) randPercent(chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return w.rand.intn(100) < chance
}

// randClumped sums two half-range dice so results cluster toward the middle
// of [lo, hi]; fall damage always rolls through here.
func (w *World) randClumped(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := hi - lo
	half := span / 2
	roll := w.rand.intn(half+1) + w.rand.intn(span-half+1)
	return lo + roll
}
