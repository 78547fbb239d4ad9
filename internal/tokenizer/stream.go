package tokenizer

import (
	"errors"
	"io"
)

// Reader yields successive frames, returning io.EOF once the underlying
// source is exhausted. Any other error is a source I/O failure: the
// driver treats the frame sequence as ended for flushing purposes, then
// re-raises the error to its own caller.
type Reader[F any] interface {
	ReadFrame() (F, error)
}

// Stream drives r through a fresh Tokenizer, invoking onEvent synchronously
// for every event as soon as it is finalized (the "streaming callback"
// delivery mode). onEvent must not itself call r.ReadFrame.
func Stream[F any](cfg Config, r Reader[F], valid func(F) bool, onEvent func(Event[F])) error {
	tok, err := New(cfg, onEvent)
	if err != nil {
		return err
	}
	i := 0
	for {
		frame, err := r.ReadFrame()
		if err != nil {
			tok.Flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		tok.Process(i, frame, valid(frame))
		i++
	}
}

// Collect drives r to completion and returns the ordered list of events
// accumulated in memory (the "batch" delivery mode). It shares Stream's
// core step function, differing only in how events are delivered.
func Collect[F any](cfg Config, r Reader[F], valid func(F) bool) ([]Event[F], error) {
	var events []Event[F]
	err := Stream(cfg, r, valid, func(e Event[F]) {
		events = append(events, e)
	})
	return events, err
}
