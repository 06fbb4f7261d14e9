package sim

import (
	"hash/fnv"
	"math/rand"
)

// SubsystemPressure names the RNG stream feeding the optional jitter
// added to pressure delays.
const SubsystemPressure = "pressure"

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem. Each subsystem draws from its own stream seeded by
// masterSeed XOR fnv1a64(name), so adding draws in one subsystem never
// perturbs another and the same seed always reproduces the same run.
//
// Not safe for concurrent use; the tick loop is single-threaded.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the deterministically-seeded RNG for the named
// subsystem. The same name always returns the same cached *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
