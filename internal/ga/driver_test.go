package ga

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tombrewsviews/genprog-code/internal/bank"
	"github.com/tombrewsviews/genprog-code/internal/cast"
	genprogerrors "github.com/tombrewsviews/genprog-code/internal/errors"
	"github.com/tombrewsviews/genprog-code/internal/index"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

// fitnessIfDeletedFirst scores a variant 2.0 if its first statement (sid 2,
// since sid 1 is the enclosing block) has been deleted, and 0 otherwise —
// standing in for spec scenario S4's "good script writes two lines iff the
// first statement is deleted" harness.
type fitnessIfDeletedFirst struct {
	mu      sync.Mutex
	maxSeen float64
}

func (e *fitnessIfDeletedFirst) Evaluate(_ context.Context, v *variant.Variant) (float64, error) {
	kind, err := v.Get(2)
	if err != nil {
		return 0, err
	}
	fitness := 0.0
	if _, isEmpty := kind.(cast.Empty); isEmpty {
		fitness = 2.0
	}
	e.mu.Lock()
	if fitness > e.maxSeen {
		e.maxSeen = fitness
	}
	e.mu.Unlock()
	return fitness, nil
}

func buildRootVariant() (*variant.Variant, int) {
	f := &cast.File{Root: &cast.Stmt{Kind: cast.Block{Stmts: []*cast.Stmt{
		{Kind: cast.InstrList{Instrs: []string{"a = 1"}}},
		{Kind: cast.InstrList{Instrs: []string{"b = 2"}}},
	}}}}
	idx := index.Build(f)
	bk := bank.New(idx)
	path := []variant.PathStep{{SID: 2, Prob: 1.0}, {SID: 3, Prob: 1.0}}
	return variant.New(f, idx, bk, path), idx.Len()
}

// TestRunFindsRepairWithinGenerations exercises spec scenario S4: a GA run
// with a harness that only rewards deleting the first statement finds a
// fitness >= 2 within a handful of generations.
func TestRunFindsRepairWithinGenerations(t *testing.T) {
	v0, count := buildRootVariant()
	cfg := DriverConfig{
		PopSize:        10,
		Generations:    5,
		MutationChance: 0.8,
		Operators:      OperatorConfig{SwapChance: 1, DelChance: 3, InsChance: 1},
		MaxParallel:    4,
	}
	rng := rand.New(rand.NewSource(42))

	eval := &fitnessIfDeletedFirst{}
	err := Run(context.Background(), v0, count, cfg, eval, rng)
	require.NoError(t, err)
	require.GreaterOrEqual(t, eval.maxSeen, 2.0)
}

type allZeroEvaluator struct{}

func (allZeroEvaluator) Evaluate(context.Context, *variant.Variant) (float64, error) {
	return 0, nil
}

func TestRunReturnsExhaustionErrorWhenNoSurvivors(t *testing.T) {
	v0, count := buildRootVariant()
	cfg := DriverConfig{
		PopSize:        4,
		Generations:    2,
		MutationChance: 0.5,
		Operators:      OperatorConfig{SwapChance: 1, DelChance: 1, InsChance: 1},
	}
	rng := rand.New(rand.NewSource(1))

	err := Run(context.Background(), v0, count, cfg, allZeroEvaluator{}, rng)
	require.Error(t, err)
	require.True(t, genprogerrors.IsExhaustionError(err))
}
