// Package sink implements the delivery sink component: consumers of
// finalized tokenizer events, in both batch (whole-slice) and streaming
// (per-event callback) modes, plus side-effects like persisting each event
// to its own WAV file or appending a human-readable log line.
package sink

import (
	"fmt"
	"strings"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
)

// Sink receives finalized events as they close. Multiple sinks are
// composed with Multi so one run can, e.g., write WAV files and log lines
// at once.
type Sink interface {
	Deliver(e tokenizer.Event[frame.Frame]) error
	Close() error
}

// Func adapts a plain function to Sink, with a no-op Close.
type Func func(tokenizer.Event[frame.Frame]) error

func (fn Func) Deliver(e tokenizer.Event[frame.Frame]) error { return fn(e) }
func (fn Func) Close() error                                 { return nil }

// Multi fans one event out to several sinks, in order, stopping (and
// reporting) at the first error.
type Multi []Sink

func (m Multi) Deliver(e tokenizer.Event[frame.Frame]) error {
	for _, s := range m {
		if err := s.Deliver(e); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []string
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sink: close errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
