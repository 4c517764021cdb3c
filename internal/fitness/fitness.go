// Package fitness implements the single boundary that recovers candidate
// failures into a fitness of 0.0: it emits a variant's source, compiles it,
// runs the good/bad harnesses, and scores the result, memoised by a digest
// of the emitted source so that two variants producing identical text never
// pay for a second compile.
package fitness

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	genprogerrors "github.com/tombrewsviews/genprog-code/internal/errors"
	"github.com/tombrewsviews/genprog-code/internal/diffstat"
	"github.com/tombrewsviews/genprog-code/internal/logging"
	"github.com/tombrewsviews/genprog-code/internal/procio"
	"github.com/tombrewsviews/genprog-code/internal/variant"
)

// Config holds the external-collaborator commands and scoring parameters of
// spec.md §6: the compiler, its link flags, the good/bad harness commands,
// the bad-test weighting factor, and the fitness threshold that triggers a
// best-so-far comparison.
type Config struct {
	GCC        string
	LDFlags    string
	GoodCmd    []string
	BadCmd     []string
	BadFactor  float64
	MaxFitness float64
	WorkDir    string
	BaselinePath string
}

// Best is the best-so-far record: updated only when a candidate's
// (diff_size, fitness) pair dominates the current holder (smaller diff
// wins; fitness is the tie-breaker on equal diff size).
type Best struct {
	mu        sync.Mutex
	has       bool
	DiffSize  int
	Fitness   float64
	Source    string
	FoundAt   time.Time
	EvalIndex uint64
}

func (b *Best) consider(diffSize int, fitness float64, source string, evalIndex uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.has || diffSize < b.DiffSize || (diffSize == b.DiffSize && fitness >= b.Fitness) {
		b.has = true
		b.DiffSize = diffSize
		b.Fitness = fitness
		b.Source = source
		b.FoundAt = time.Now()
		b.EvalIndex = evalIndex
	}
}

// Snapshot returns a copy of the current best record and whether one exists
// yet.
func (b *Best) Snapshot() (Best, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Best{DiffSize: b.DiffSize, Fitness: b.Fitness, Source: b.Source, FoundAt: b.FoundAt, EvalIndex: b.EvalIndex}, b.has
}

// Evaluator is the fitness function of spec §4.F: stateful over the run's
// lifetime (counters, cache, best-so-far) but pure with respect to any
// single variant's content.
type Evaluator struct {
	cfg      Config
	counters *procio.Counters
	cache    *lru.Cache[string, float64]
	Best     *Best
	log      *logging.ComponentLogger
}

// New builds an Evaluator. cacheSize bounds the digest->fitness memoisation
// table (see SPEC_FULL.md §5 on why this is bounded rather than an
// unbounded map).
func New(cfg Config, counters *procio.Counters, cacheSize int) (*Evaluator, error) {
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, genprogerrors.NewConfigurationError(err, "fitness: failed to allocate memoisation cache")
	}
	return &Evaluator{
		cfg:      cfg,
		counters: counters,
		cache:    cache,
		Best:     &Best{},
		log:      logging.FitnessLogger,
	}, nil
}

// Evaluate scores v. It never returns a CandidateError: every candidate
// failure (serialization, compile, harness spawn) is logged and mapped to a
// fitness of 0.0 here, per SPEC_FULL.md §7. The only errors Evaluate
// propagates are genuine configuration problems (e.g. an unwritable working
// directory).
func (e *Evaluator) Evaluate(ctx context.Context, v *variant.Variant) (float64, error) {
	serial := e.counters.NextCompile()
	art := procio.Artefacts{Dir: e.cfg.WorkDir, Serial: serial}
	art.CleanStale()

	src, err := v.EmitSource()
	if err != nil {
		return e.recordZero(serial, src, err, "serialize")
	}

	digest := digestOf(src)
	if cached, ok := e.cache.Get(digest); ok {
		return cached, nil
	}

	if err := os.WriteFile(art.SourceFile(), []byte(src), 0o644); err != nil {
		return 0, genprogerrors.NewConfigurationError(err, fmt.Sprintf("fitness: cannot write %s", art.SourceFile()))
	}

	if err := e.compile(ctx, art); err != nil {
		return e.recordZero(serial, src, err, "compile")
	}

	port := e.counters.NextPort()
	evalIndex := e.counters.NextFitness()

	if err := e.runHarness(ctx, e.cfg.GoodCmd, art.Program(), art.GoodLog(), port, "good"); err != nil {
		return e.recordZero(serial, src, err, "good")
	}
	if err := e.runHarness(ctx, e.cfg.BadCmd, art.Program(), art.BadLog(), port, "bad"); err != nil {
		return e.recordZero(serial, src, err, "bad")
	}

	goodLines, _ := countLines(art.GoodLog())
	badLines, _ := countLines(art.BadLog())
	fitness := float64(goodLines) + e.cfg.BadFactor*float64(badLines)

	if fitness >= e.cfg.MaxFitness && e.cfg.BaselinePath != "" {
		diffSize, err := diffstat.Size(ctx, art.SourceFile(), e.cfg.BaselinePath)
		if err != nil {
			e.log.Warn("evaluation %d: diff_size failed: %v", serial, err)
		} else {
			e.Best.consider(diffSize, fitness, src, evalIndex)
		}
	}

	e.cache.Add(digest, fitness)
	return fitness, nil
}

// recordZero is the CandidateError recovery path named in SPEC_FULL.md §7:
// whatever went wrong at stage (serialize/compile/good/bad), it is logged
// here, the (possibly empty) digest is cached at 0.0 so an identical
// failure is not retried, and the fitness of 0.0 is returned normally —
// never as an error, since a CandidateError is never allowed past this
// boundary.
func (e *Evaluator) recordZero(serial uint64, src string, cause error, stage string) (float64, error) {
	candErr := genprogerrors.NewCandidateError(cause, stage)
	e.log.Debug("evaluation %d: %v", serial, candErr)
	e.cache.Add(digestOf(src), 0.0)
	return 0.0, nil
}

func (e *Evaluator) compile(ctx context.Context, art procio.Artefacts) error {
	args := []string{"-o", art.Program(), art.SourceFile()}
	if e.cfg.LDFlags != "" {
		args = append(args, strings.Fields(e.cfg.LDFlags)...)
	}
	cmd := exec.CommandContext(ctx, e.cfg.GCC, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return genprogerrors.NewCandidateError(fmt.Errorf("%w: %s", err, out), "compile")
	}
	return nil
}

func (e *Evaluator) runHarness(ctx context.Context, cmdParts []string, exePath, logPath string, port uint32, stage string) error {
	if len(cmdParts) == 0 {
		return genprogerrors.NewCandidateError(fmt.Errorf("no harness command configured"), stage)
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return genprogerrors.NewCandidateError(err, stage)
	}
	defer logFile.Close()

	args := append(append([]string{}, cmdParts[1:]...), exePath, logPath, strconv.FormatUint(uint64(port), 10))
	cmd := exec.CommandContext(ctx, cmdParts[0], args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Run(); err != nil {
		return genprogerrors.NewCandidateError(err, stage)
	}
	return nil
}

func digestOf(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
