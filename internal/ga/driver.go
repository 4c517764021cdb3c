package ga

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	genprogerrors "github.com/tombrewsviews/genprog-code/internal/errors"
	"github.com/tombrewsviews/genprog-code/internal/logging"
	"github.com/tombrewsviews/genprog-code/internal/sampler"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

// Evaluator is the subset of internal/fitness.Evaluator the driver depends
// on, kept as an interface so the driver can be tested against a stub
// scoring function without spawning a compiler.
type Evaluator interface {
	Evaluate(ctx context.Context, v *variant.Variant) (float64, error)
}

// DriverConfig holds the GA parameters of spec.md §6: population size,
// generation count, mutation probability and operator weights, and the
// parallelism bound used when evaluating a generation.
type DriverConfig struct {
	PopSize        int
	Generations    int
	MutationChance float64
	Operators      OperatorConfig
	MaxParallel    int
}

// scored pairs a population member with its evaluated fitness, used
// internally between the evaluate and select/breed steps of a generation.
type scored struct {
	v       *variant.Variant
	fitness float64
}

// Run drives the genetic search from an initial variant v0 through
// cfg.Generations generations. It returns nil when the generation budget is
// spent, whether or not any candidate reached max_fitness ("no repair found"
// is a normal outcome, not an error here); the best-so-far record is kept by
// the evaluator, not returned by Run.
func Run(ctx context.Context, v0 *variant.Variant, count int, cfg DriverConfig, eval Evaluator, rng *rand.Rand) error {
	log := logging.GALogger

	population := make([]*variant.Variant, 0, cfg.PopSize)
	for len(population) < cfg.PopSize {
		population = append(population, Mutate(v0, 2*cfg.MutationChance, count, rng, cfg.Operators))
	}

	for gen := 0; gen < cfg.Generations; gen++ {
		scoredPop, err := evaluateGeneration(ctx, population, eval, cfg.MaxParallel)
		if err != nil {
			return err
		}

		survivors := make([]scored, 0, len(scoredPop))
		for _, s := range scoredPop {
			if s.fitness > 0 {
				survivors = append(survivors, s)
			}
		}
		if len(survivors) == 0 {
			return &genprogerrors.ExhaustionError{Generation: gen, PopSize: len(scoredPop)}
		}

		for len(survivors) < cfg.PopSize {
			log.Info("generation %d: doubling %d survivors to reach population size %d", gen, len(survivors), cfg.PopSize)
			survivors = append(survivors, survivors...)
		}

		breederPop := make([]sampler.Scored[*variant.Variant], len(survivors))
		for i, s := range survivors {
			breederPop[i] = sampler.Scored[*variant.Variant]{Value: s.v, Fitness: s.fitness}
		}
		breeders, err := sampler.Sample(breederPop, cfg.PopSize/2, rng.Float64)
		if err != nil {
			return err
		}
		rng.Shuffle(len(breeders), func(i, j int) { breeders[i], breeders[j] = breeders[j], breeders[i] })

		next := make([]*variant.Variant, 0, 4*cfg.PopSize)
		for i := 0; i+1 < len(breeders); i += 2 {
			mom, dad := breeders[i], breeders[i+1]
			child1, child2, err := Crossover(mom, dad, rng)
			if err != nil {
				return err
			}
			for _, cand := range []*variant.Variant{mom, dad, child1, child2} {
				next = append(next, cand, Mutate(cand, cfg.MutationChance, count, rng, cfg.Operators))
			}
		}

		population = truncate(next, cfg.PopSize)
		log.Info("generation %d complete: %d survivors, %d bred into next generation", gen, len(survivors), len(population))
	}

	return nil
}

func truncate(vs []*variant.Variant, n int) []*variant.Variant {
	if len(vs) <= n {
		return vs
	}
	return vs[:n]
}

func evaluateGeneration(ctx context.Context, population []*variant.Variant, eval Evaluator, maxParallel int) ([]scored, error) {
	results := make([]scored, len(population))

	g, gctx := errgroup.WithContext(ctx)
	if maxParallel > 0 {
		g.SetLimit(maxParallel)
	}

	for i, v := range population {
		i, v := i, v
		g.Go(func() error {
			fitness, err := eval.Evaluate(gctx, v)
			if err != nil {
				return err
			}
			results[i] = scored{v: v, fitness: fitness}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
