package driver

import (
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
	"github.com/nupi-ai/aad-tokenizer/internal/validate"
)

// FileResult is one input file's tokenization outcome in a batch run.
type FileResult struct {
	Path   string
	Events []tokenizer.Event[frame.Frame]
	Err    error
}

// BatchOptions configures a concurrent multi-file run. Events are collected
// in memory only, into each file's FileResult; no sink is invoked.
type BatchOptions struct {
	Paths       []string
	Validator   validate.Validator
	Config      tokenizer.Config
	BlockSize   int
	HopSize     int
	Concurrency int
	// Overlap, if > 0, re-windows each file's frames at this fraction of
	// BlockSize instead of using HopSize directly (frame.OverlappedWrapper).
	Overlap float64
}

// RunBatch tokenizes every file in opts.Paths concurrently, bounded by
// opts.Concurrency (0 means unbounded — errgroup.SetLimit is skipped).
// One file's decode/tokenize error does not cancel the others; it is
// reported on that file's FileResult.
func RunBatch(opts BatchOptions) ([]FileResult, error) {
	results := make([]FileResult, len(opts.Paths))

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, path := range opts.Paths {
		i, path := i, path
		g.Go(func() error {
			var source frame.Source
			var closer io.Closer
			if opts.Overlap > 0 {
				fs, err := frame.NewFileSource(path, opts.BlockSize, opts.BlockSize)
				if err != nil {
					results[i] = FileResult{Path: path, Err: fmt.Errorf("driver: %s: %w", path, err)}
					return nil
				}
				closer = fs
				source = frame.NewOverlappedWrapper(fs, opts.Overlap)
			} else {
				fs, err := frame.NewFileSource(path, opts.BlockSize, opts.HopSize)
				if err != nil {
					results[i] = FileResult{Path: path, Err: fmt.Errorf("driver: %s: %w", path, err)}
					return nil
				}
				closer = fs
				source = fs
			}
			defer closer.Close()

			events, err := Collect(Options{
				Source:    source,
				Validator: opts.Validator,
				Config:    opts.Config,
			})
			results[i] = FileResult{Path: path, Events: events, Err: err}
			return nil
		})
	}

	// g.Wait only ever returns an error from a Go func that itself
	// returns one; every path above swallows its own error into
	// FileResult instead, so this is always nil.
	_ = g.Wait()
	return results, nil
}
