// Command genprog repairs a faulty C program by genetic search over a
// patch-based representation of its AST, guided by a fault-localisation
// weighted execution path and scored by compiling and running good/bad
// test harnesses.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/tombrewsviews/genprog-code/internal/bank"
	genprogerrors "github.com/tombrewsviews/genprog-code/internal/errors"
	"github.com/tombrewsviews/genprog-code/internal/fitness"
	"github.com/tombrewsviews/genprog-code/internal/ga"
	"github.com/tombrewsviews/genprog-code/internal/index"
	"github.com/tombrewsviews/genprog-code/internal/loaders"
	"github.com/tombrewsviews/genprog-code/internal/logging"
	"github.com/tombrewsviews/genprog-code/internal/metrics"
	"github.com/tombrewsviews/genprog-code/internal/procio"
	"github.com/tombrewsviews/genprog-code/internal/runconfig"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "genprog <stem>",
		Short: "Automatic C program repair by genetic search",
		Long: `genprog repairs a faulty C program by searching for a variant whose
source passes a test harness. It reads a parsed AST, a statement index, and
a fault-localisation weighted execution path derived from the input stem,
then evolves a population of edit histories against those inputs for a
fixed number of generations, keeping the best adequate repair it finds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runconfig.BindEnv(cmd); err != nil {
				return err
			}
			cfg, err := runconfig.Load(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	runconfig.RegisterFlags(rootCmd)
	return rootCmd
}

func run(ctx context.Context, cfg *runconfig.Config) error {
	log := logging.FrontendLogger
	paths := runconfig.DerivePaths(cfg.Stem)

	astFile, err := loaders.LoadAST(paths.AST)
	if err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to load %s", paths.AST))
	}
	htCount, err := loaders.LoadHT(paths.HT)
	if err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to load %s", paths.HT))
	}

	idx := index.Build(astFile)
	if idx.Len() != htCount {
		log.Warn("statement index has %d entries, %s recorded %d; proceeding with the freshly built index", idx.Len(), paths.HT, htCount)
	}
	if idx.Len() == 0 {
		return genprogerrors.NewConfigurationError(fmt.Errorf("empty AST"), "genprog: code bank is empty")
	}
	bk := bank.New(idx)

	path, err := loaders.LoadPath(paths.Path, paths.GoodPath, cfg.GoodPathFactor)
	if err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to load %s", paths.Path))
	}

	v0 := variant.New(astFile, idx, bk, path)

	baseline, err := v0.EmitSource()
	if err != nil {
		return genprogerrors.NewConfigurationError(err, "genprog: failed to render baseline source")
	}
	if err := os.WriteFile(paths.Baseline, []byte(baseline), 0o644); err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to write %s", paths.Baseline))
	}

	debugFile, err := os.Create(paths.Debug)
	if err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to create %s", paths.Debug))
	}
	defer debugFile.Close()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	workDir := filepath.Join(os.TempDir(), "genprog-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to create working directory %s", workDir))
	}
	log.Info("run %s: working directory %s, seed %d", cfg.Stem, workDir, seed)

	counters := procio.NewCounters(rng)
	evalCfg := fitness.Config{
		GCC:          cfg.GCC,
		LDFlags:      cfg.LDFlags,
		GoodCmd:      []string{cfg.Good},
		BadCmd:       []string{cfg.Bad},
		BadFactor:    cfg.BadFactor,
		MaxFitness:   float64(cfg.MaxGenSpan),
		WorkDir:      workDir,
		BaselinePath: paths.Baseline,
	}
	evaluator, err := fitness.New(evalCfg, counters, cfg.CacheSize)
	if err != nil {
		return err
	}

	m := metrics.New()
	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	defer cancelMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(metricsCtx, cfg.MetricsAddr); err != nil {
				log.Warn("metrics server stopped: %v", err)
			}
		}()
	}

	driverCfg := ga.DriverConfig{
		PopSize:        cfg.PopSize,
		Generations:    cfg.Generations,
		MutationChance: cfg.MutationChance,
		Operators: ga.OperatorConfig{
			SwapChance: cfg.SwapChance,
			DelChance:  cfg.DelChance,
			InsChance:  cfg.InsChance,
		},
		MaxParallel: cfg.MaxParallelEvals,
	}

	start := time.Now()
	runErr := ga.Run(ctx, v0, idx.Len(), driverCfg, meteringEvaluator{evaluator, m}, rng)

	if best, ok := evaluator.Best.Snapshot(); ok {
		if err := os.WriteFile(paths.Best, []byte(best.Source), 0o644); err != nil {
			return genprogerrors.NewConfigurationError(err, fmt.Sprintf("genprog: failed to write %s", paths.Best))
		}
		fmt.Fprintf(debugFile, "best repair found after %s: fitness=%.2f diff_size=%d evaluation=%d\n",
			time.Since(start), best.Fitness, best.DiffSize, best.EvalIndex)
		log.Info("best repair written to %s (fitness=%.2f, diff_size=%d)", paths.Best, best.Fitness, best.DiffSize)

		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(baseline, best.Source, false)
		fmt.Fprintf(debugFile, "%s\n", dmp.DiffPrettyText(diffs))
	} else {
		fmt.Fprintln(debugFile, "no adequate program found")
		log.Info("no adequate program found")
	}

	if runErr != nil {
		if genprogerrors.IsExhaustionError(runErr) {
			fmt.Fprintf(debugFile, "search exhausted: %v\n", runErr)
			log.Warn("search exhausted: %v", runErr)
			return nil
		}
		return runErr
	}
	return nil
}

// meteringEvaluator adapts fitness.Evaluator to ga.Evaluator, incrementing
// the run's evaluations counter on each call. It does not update the
// cache-hit, compile or generation-duration metrics.
type meteringEvaluator struct {
	eval *fitness.Evaluator
	m    *metrics.Metrics
}

func (m meteringEvaluator) Evaluate(ctx context.Context, v *variant.Variant) (float64, error) {
	m.m.Evaluations.Inc()
	return m.eval.Evaluate(ctx, v)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if genprogerrors.IsConfigurationError(err) {
			fmt.Fprintln(os.Stderr, "genprog:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "genprog:", err)
		os.Exit(1)
	}
}
