// Package driver wires the four AAD components together: it pulls frames
// from a frame.Source, asks a validate.Validator whether each is activity,
// feeds the verdict into a tokenizer.Tokenizer, and forwards closed events
// to a sink.Sink.
package driver

import (
	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/metrics"
	"github.com/nupi-ai/aad-tokenizer/internal/sink"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
	"github.com/nupi-ai/aad-tokenizer/internal/validate"
)

// Options configures a single Run.
type Options struct {
	Source    frame.Source
	Validator validate.Validator
	Config    tokenizer.Config
	Sink      sink.Sink
	// Capture, if non-nil, receives every frame read regardless of
	// tokenizer event boundaries (whole-stream persistence).
	Capture *sink.StreamCapture
	// Metrics, if non-nil, is incremented as frames/events pass through.
	Metrics *metrics.Registry
}

// instrumentedReader adapts Options.Source to tokenizer.Reader[frame.Frame],
// tapping every frame for Capture/Metrics before it reaches the tokenizer.
type instrumentedReader struct {
	opts Options
}

func (r instrumentedReader) ReadFrame() (frame.Frame, error) {
	f, err := r.opts.Source.Read()
	if err != nil {
		return frame.Frame{}, err
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.FramesProcessed.Inc()
	}
	if r.opts.Capture != nil {
		if err := r.opts.Capture.Write(f); err != nil {
			return frame.Frame{}, err
		}
	}
	return f, nil
}

// Run drives Options.Source to completion (EOF), tokenizing and delivering
// events synchronously on the calling goroutine. Callers wanting
// callback-per-event semantics simply pass a sink.Func, callers wanting
// batch semantics collect into a slice themselves (see Collect).
func Run(opts Options) (int, error) {
	delivered := 0
	onEvent := func(e tokenizer.Event[frame.Frame]) {
		delivered++
		if opts.Metrics != nil {
			opts.Metrics.EventsEmitted.Inc()
		}
		if opts.Sink != nil {
			// A failed delivery does not stop the stream from continuing
			// to tokenize; the sink owns its own error reporting.
			_ = opts.Sink.Deliver(e)
		}
	}

	validFn := func(f frame.Frame) bool {
		valid := opts.Validator.Valid(f)
		if valid && opts.Metrics != nil {
			opts.Metrics.FramesValid.Inc()
		}
		return valid
	}

	err := tokenizer.Stream(opts.Config, instrumentedReader{opts: opts}, validFn, onEvent)
	return delivered, err
}

// Collect runs Options to completion and returns every emitted event,
// ignoring Options.Sink (a sink.Func is installed internally to gather
// the slice).
func Collect(opts Options) ([]tokenizer.Event[frame.Frame], error) {
	var events []tokenizer.Event[frame.Frame]
	opts.Sink = sink.Func(func(e tokenizer.Event[frame.Frame]) error {
		events = append(events, e)
		return nil
	})
	_, err := Run(opts)
	return events, err
}
