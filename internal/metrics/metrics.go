// Package metrics exposes prometheus counters/histograms for the search
// loop over an optional gin HTTP server, bound to the --metrics-addr flag.
// This is pure observability: no SPEC_FULL.md Non-goal excludes it, and the
// teacher pack carries both prometheus and gin for exactly this shape of
// local-process metrics endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the run's counters/histograms, safe for concurrent use from
// every fitness-evaluation goroutine.
type Metrics struct {
	Evaluations  prometheus.Counter
	CacheHits    prometheus.Counter
	Compiles     prometheus.Counter
	GenerationDur prometheus.Histogram

	registry *prometheus.Registry
}

// New builds a Metrics instance registered against its own registry (not
// the global default registerer, so a run never collides with another
// package's metrics of the same name in-process).
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "genprog_evaluations_total",
			Help: "Total number of fitness evaluations performed.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "genprog_cache_hits_total",
			Help: "Total number of fitness evaluations served from the memoisation cache.",
		}),
		Compiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "genprog_compiles_total",
			Help: "Total number of compiler invocations.",
		}),
		GenerationDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "genprog_generation_seconds",
			Help:    "Wall-clock duration of one GA generation.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: reg,
	}

	reg.MustRegister(m.Evaluations, m.CacheHits, m.Compiles, m.GenerationDur)
	return m
}

// Serve starts a gin HTTP server exposing /metrics on addr and blocks until
// ctx is cancelled or the server fails. A no-op if addr is empty.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))

	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
