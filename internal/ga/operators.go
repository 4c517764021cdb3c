// Package ga implements the genetic search: path-weighted mutation and
// crossover operators (this file) and the generation-loop driver
// (driver.go).
package ga

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tombrewsviews/genprog-code/internal/cast"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

// OperatorConfig holds the relative weights used to pick a mutation kind once
// a path position has been selected to mutate. The mutation probability
// multiplier applied against each step's own probability is not part of it;
// it is Mutate's p argument.
type OperatorConfig struct {
	SwapChance float64
	DelChance  float64
	InsChance  float64
}

type mutationKind int

const (
	mutSwap mutationKind = iota
	mutDelete
	mutAppend
)

func pickMutationKind(rng *rand.Rand, cfg OperatorConfig) mutationKind {
	total := cfg.SwapChance + cfg.DelChance + cfg.InsChance
	if total <= 0 {
		return mutSwap
	}
	r := rng.Float64() * total
	switch {
	case r < cfg.SwapChance:
		return mutSwap
	case r < cfg.SwapChance+cfg.DelChance:
		return mutDelete
	default:
		return mutAppend
	}
}

// Mutate clones v and, for each (step_prob, sid) on its weighted path, with
// independent probability step_prob*p attempts a mutation at sid: a uniform
// replacement sid is drawn from the full statement population (count
// statements, identifiers 1..count since sid 0 is the "not indexed"
// sentinel), and if neither sid has already been reserved this round, both
// are reserved and one of swap/delete/append is applied according to cfg's
// weights. The reservation table is local to a single Mutate call.
func Mutate(v *variant.Variant, p float64, count int, rng *rand.Rand, cfg OperatorConfig) *variant.Variant {
	child := v.Clone()
	if count <= 0 {
		return child
	}

	reserved := make(map[cast.SID]bool)
	for _, step := range v.Path {
		if rng.Float64() >= step.Prob*p {
			continue
		}
		replaceWith := cast.SID(rng.Intn(count) + 1)
		if reserved[step.SID] || reserved[replaceWith] {
			continue
		}
		reserved[step.SID] = true
		reserved[replaceWith] = true

		switch pickMutationKind(rng, cfg) {
		case mutSwap:
			child.Swap(step.SID, replaceWith)
		case mutDelete:
			child.Delete(step.SID)
		case mutAppend:
			child.Append(step.SID, replaceWith)
		}
	}
	return child
}

// Crossover produces two children from parents a and b, which must share a
// path of equal length (the spec's only stated precondition; in this
// single-program repair loop every variant inherits the same underlying
// path, so positions line up by sid). A single cut point k in [1, len-1] is
// chosen; for each path position at or past the cut, with probability
// max(p_a, p_b) at that position, the two children exchange which parent's
// current content they show at that sid — child1 takes on b's content there,
// child2 takes on a's — recorded as a Put edit carrying the other parent's
// resolved kind, which is equivalent to the paired-swap exchange the spec
// describes without requiring a's and b's editing histories to be merged
// atom-for-atom.
func Crossover(a, b *variant.Variant, rng *rand.Rand) (*variant.Variant, *variant.Variant, error) {
	if len(a.Path) != len(b.Path) {
		return nil, nil, fmt.Errorf("ga: crossover requires equal-length paths, got %d and %d", len(a.Path), len(b.Path))
	}
	n := len(a.Path)
	child1 := a.Clone()
	child2 := b.Clone()
	if n < 2 {
		return child1, child2, nil
	}

	cut := 1 + rng.Intn(n-1)
	for i := cut; i < n; i++ {
		sid := a.Path[i].SID
		prob := math.Max(a.Path[i].Prob, b.Path[i].Prob)
		if rng.Float64() >= prob {
			continue
		}

		kindA, err := a.Get(sid)
		if err != nil {
			return nil, nil, err
		}
		kindB, err := b.Get(sid)
		if err != nil {
			return nil, nil, err
		}
		child1.Put(sid, kindB)
		child2.Put(sid, kindA)
	}
	return child1, child2, nil
}
