package sampler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleReturnsExactlyKEntries(t *testing.T) {
	pop := []Scored[string]{
		{Value: "a", Fitness: 1},
		{Value: "b", Fitness: 3},
	}
	got, err := Sample(pop, 10, func() float64 { return 0.5 })
	require.NoError(t, err)
	require.Len(t, got, 10)
}

func TestSampleRejectsNonPositiveTotalFitness(t *testing.T) {
	pop := []Scored[string]{{Value: "a", Fitness: 0}, {Value: "b", Fitness: 0}}
	_, err := Sample(pop, 4, func() float64 { return 0 })
	require.Error(t, err)
}

func TestSampleRejectsEmptyPopulation(t *testing.T) {
	_, err := Sample([]Scored[string](nil), 4, func() float64 { return 0 })
	require.Error(t, err)
}

func TestSampleRejectsNegativeFitness(t *testing.T) {
	pop := []Scored[string]{{Value: "a", Fitness: -1}, {Value: "b", Fitness: 5}}
	_, err := Sample(pop, 4, func() float64 { return 0 })
	require.Error(t, err)
}

// TestSampler_FairnessApproachesRatio exercises spec Property 9: over many
// draws from a two-individual population with fitnesses 1 and 3, the
// higher-fitness individual's selection rate approaches 3/4.
func TestSampler_FairnessApproachesRatio(t *testing.T) {
	pop := []Scored[string]{
		{Value: "low", Fitness: 1},
		{Value: "high", Fitness: 3},
	}
	rng := rand.New(rand.NewSource(42))

	const rounds = 20000
	highCount := 0
	total := 0
	for i := 0; i < rounds; i++ {
		got, err := Sample(pop, 4, rng.Float64)
		require.NoError(t, err)
		for _, v := range got {
			total++
			if v == "high" {
				highCount++
			}
		}
	}

	ratio := float64(highCount) / float64(total)
	require.True(t, math.Abs(ratio-0.75) < 0.02, "got ratio %v, want close to 0.75", ratio)
}

func TestSampleZeroKReturnsNil(t *testing.T) {
	pop := []Scored[string]{{Value: "a", Fitness: 1}}
	got, err := Sample(pop, 0, func() float64 { return 0 })
	require.NoError(t, err)
	require.Nil(t, got)
}
