// Package procio manages the per-evaluation working-directory artefacts and
// process-wide monotonic counters a fitness evaluation needs: the compile
// counter (also used as the artefact serial number), the port counter
// handed to harness scripts, and a fitness-evaluation counter used only for
// diagnostics and best-so-far bookkeeping.
//
// This is a short-lived-subprocess analogue of the teacher's
// internal/devops/process.Manager: that package tracks long-lived daemons
// by PID file, with graceful SIGTERM/SIGKILL shutdown; a fitness evaluation
// here is a single exec.Cmd.Run that has either finished or hasn't, so none
// of that lifecycle machinery applies. What carries over is the shape of the
// problem — unique naming and safe concurrent bookkeeping around spawning
// external processes — reworked for one-shot invocations instead of tracked
// services.
package procio

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Counters holds the process-wide atomic state shared by every concurrent
// fitness evaluation in a run.
type Counters struct {
	compile atomic.Uint64
	fitness atomic.Uint64
	port    atomic.Uint32
}

// NewCounters creates a Counters with the port counter seeded as the spec
// requires: 800 + a uniform draw in [0, 800), using rng supplied by the
// caller so the seed is reproducible under a fixed run seed.
func NewCounters(rng *rand.Rand) *Counters {
	c := &Counters{}
	c.port.Store(uint32(800 + rng.Intn(800)))
	return c
}

// NextCompile returns the next compile/artefact serial number.
func (c *Counters) NextCompile() uint64 {
	return c.compile.Add(1) - 1
}

// NextFitness returns the next fitness-evaluation serial number.
func (c *Counters) NextFitness() uint64 {
	return c.fitness.Add(1) - 1
}

// NextPort returns the next port number to hand to a harness invocation.
func (c *Counters) NextPort() uint32 {
	return c.port.Add(1) - 1
}

// Artefacts names the files one evaluation's worth of compile/run/diagnose
// cycle produces inside a run's working directory, in the %05d-suffix shape
// the spec names.
type Artefacts struct {
	Dir    string
	Serial uint64
}

func (a Artefacts) path(suffix string) string {
	return filepath.Join(a.Dir, fmt.Sprintf("%05d-%s", a.Serial, suffix))
}

func (a Artefacts) SourceFile() string  { return a.path("file.c") }
func (a Artefacts) Program() string     { return a.path("prog") }
func (a Artefacts) GoodLog() string     { return a.path("good") }
func (a Artefacts) BadLog() string      { return a.path("bad") }
func (a Artefacts) FitnessFile() string { return a.path("fitness") }
func (a Artefacts) SizeFile() string    { return a.path("size") }

// CleanStale best-effort removes every artefact file for this serial before
// a harness run, tolerating stale files left behind by a prior, unrelated
// run in the same working directory.
func (a Artefacts) CleanStale() {
	for _, p := range []string{a.SourceFile(), a.Program(), a.GoodLog(), a.BadLog(), a.FitnessFile(), a.SizeFile()} {
		_ = os.Remove(p)
	}
}
