// Package runconfig parses and validates the CLI flags of spec.md §6:
// cobra local flags (cmd.Flags().String/Int/Float64) plus a viper env-var
// overlay, rather than the teacher's own LLM-provider config content, which
// this tool has no use for.
package runconfig

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	genprogerrors "github.com/tombrewsviews/genprog-code/internal/errors"
)

// Config is the fully resolved set of run parameters: the input stem and
// every optional flag from spec.md §6 plus SPEC_FULL.md's observability
// additions.
type Config struct {
	Stem string

	Seed           int64
	GCC            string
	LDFlags        string
	Good           string
	Bad            string
	Generations    int
	PopSize        int
	MaxGenSpan     int
	MutationChance float64
	InsChance      float64
	DelChance      float64
	SwapChance     float64
	BadFactor      float64
	GoodPathFactor float64

	MaxParallelEvals int
	CacheSize        int
	MetricsAddr      string
}

// RegisterFlags registers every spec.md §6 / SPEC_FULL.md §6 flag as a local
// flag on cmd.Flags(); values are read back by name in Load.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64("seed", 0, "PRNG seed (0 selects a seed derived from current time)")
	flags.String("gcc", "gcc", "compiler command")
	flags.String("ldflags", "", "linker flags passed to the compiler")
	flags.String("good", "./test-good.sh", "good (positive) test harness command")
	flags.String("bad", "./test-bad.sh", "bad (regression/exploit) test harness command")
	flags.Int("gen", 10, "number of generations")
	flags.Int("pop", 40, "population size")
	flags.Int("max", 15, "max_fitness: fitness threshold that triggers a best-so-far comparison")
	flags.Float64("mut", 0.2, "mutation_chance: per-step mutation probability multiplier")
	flags.Float64("ins", 1.0, "ins_chance: relative weight of the append mutation kind")
	flags.Float64("del", 1.0, "del_chance: relative weight of the delete mutation kind")
	flags.Float64("swap", 1.0, "swap_chance: relative weight of the swap mutation kind")
	flags.Float64("bad_factor", 10.0, "bad_factor: weight applied to bad-harness line count")
	flags.Float64("good_path_factor", 0.0, "good_path_factor: mutation probability for sids also on the good path")

	flags.Int("max-parallel-evals", runtime.NumCPU(), "bound on concurrent fitness evaluations per generation")
	flags.Int("cache-size", 4096, "bound on the fitness memoisation cache's entry count")
	flags.String("metrics-addr", "", "address to serve prometheus metrics on (disabled if empty)")
}

// BindEnv wires GENPROG_* environment variables as overrides for every
// registered flag, the same flags+env-override idiom the teacher's CLI uses
// via viper.
func BindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("GENPROG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = bindErr
		}
		if v.IsSet(f.Name) {
			_ = cmd.Flags().Set(f.Name, v.GetString(f.Name))
		}
	})
	return err
}

// Load resolves a Config from cmd's parsed flags and positional args. args
// must contain exactly one element: the input stem F.
func Load(cmd *cobra.Command, args []string) (*Config, error) {
	if len(args) != 1 {
		return nil, genprogerrors.NewConfigurationError(
			fmt.Errorf("expected exactly one positional argument, got %d", len(args)),
			"genprog: exactly one input stem is required",
		)
	}

	flags := cmd.Flags()
	cfg := &Config{Stem: args[0]}

	cfg.Seed, _ = flags.GetInt64("seed")
	cfg.GCC, _ = flags.GetString("gcc")
	cfg.LDFlags, _ = flags.GetString("ldflags")
	cfg.Good, _ = flags.GetString("good")
	cfg.Bad, _ = flags.GetString("bad")
	cfg.Generations, _ = flags.GetInt("gen")
	cfg.PopSize, _ = flags.GetInt("pop")
	cfg.MaxGenSpan, _ = flags.GetInt("max")
	cfg.MutationChance, _ = flags.GetFloat64("mut")
	cfg.InsChance, _ = flags.GetFloat64("ins")
	cfg.DelChance, _ = flags.GetFloat64("del")
	cfg.SwapChance, _ = flags.GetFloat64("swap")
	cfg.BadFactor, _ = flags.GetFloat64("bad_factor")
	cfg.GoodPathFactor, _ = flags.GetFloat64("good_path_factor")
	cfg.MaxParallelEvals, _ = flags.GetInt("max-parallel-evals")
	cfg.CacheSize, _ = flags.GetInt("cache-size")
	cfg.MetricsAddr, _ = flags.GetString("metrics-addr")

	if cfg.Stem == "" {
		return nil, genprogerrors.NewConfigurationError(fmt.Errorf("empty stem"), "genprog: input stem must not be empty")
	}
	if cfg.PopSize <= 0 {
		return nil, genprogerrors.NewConfigurationError(fmt.Errorf("pop=%d", cfg.PopSize), "genprog: --pop must be positive")
	}
	if cfg.Generations <= 0 {
		return nil, genprogerrors.NewConfigurationError(fmt.Errorf("gen=%d", cfg.Generations), "genprog: --gen must be positive")
	}

	return cfg, nil
}

// Paths holds the stem-derived I/O paths of spec.md §6: the four input
// files and the three output files.
type Paths struct {
	AST      string
	HT       string
	Path     string
	GoodPath string
	Baseline string
	Best     string
	Debug    string
}

// DerivePaths builds the stem-relative I/O paths for cfg.
func DerivePaths(stem string) Paths {
	return Paths{
		AST:      stem + ".ast",
		HT:       stem + ".ht",
		Path:     stem + ".path",
		GoodPath: stem + ".goodpath",
		Baseline: stem + "-baseline.c",
		Best:     stem + "-best.c",
		Debug:    stem + ".debug",
	}
}
