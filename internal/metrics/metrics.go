// Package metrics exposes optional Prometheus counters for a driver run:
// frames processed and events emitted, scraped over an opt-in HTTP
// endpoint enabled by --metrics-addr.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the counters one driver run increments.
type Registry struct {
	FramesProcessed prometheus.Counter
	FramesValid     prometheus.Counter
	EventsEmitted   prometheus.Counter
	reg             *prometheus.Registry
}

// NewRegistry builds a fresh, independent registry so concurrent batch
// runs (see internal/driver) don't collide on Prometheus's default
// global registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aadtok_frames_processed_total",
			Help: "Total number of frames read from the frame source.",
		}),
		FramesValid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aadtok_frames_valid_total",
			Help: "Total number of frames the validator marked as activity.",
		}),
		EventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aadtok_events_emitted_total",
			Help: "Total number of events the tokenizer emitted.",
		}),
		reg: reg,
	}
	reg.MustRegister(r.FramesProcessed, r.FramesValid, r.EventsEmitted)
	return r
}

// Server serves /metrics for a Registry until its context is canceled.
type Server struct {
	httpServer *http.Server
}

// NewServer builds an HTTP server exposing reg's counters at addr.
func NewServer(addr string, reg *Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.reg, promhttp.HandlerOpts{}))
	return &Server{httpServer: &http.Server{Addr: addr, Handler: mux}}
}

// Run starts serving and blocks until ctx is canceled or ListenAndServe
// fails for a reason other than graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics: serve: %w", err)
	}
}
