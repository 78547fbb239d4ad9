// Package tokenizer implements the stream tokenizer: a bounded-memory,
// single-threaded state machine that turns a sequence of (frame, valid?)
// observations into contiguous "events" bounded by duration and
// silence-tolerance constraints.
//
// The frame type is a type parameter so the same engine tokenizes PCM
// analysis windows (see internal/validate) as readily as any other
// sequence with a binary validator, e.g. a symbolic stream in tests.
package tokenizer

import "math"

// Mode is a bitmask of tokenizer behavior switches.
type Mode uint8

const (
	// StrictMinLength causes any event shorter than MinLength to be
	// discarded outright, with no exception for the tail-of-a-forced-split
	// case that closeEvent otherwise lets through.
	StrictMinLength Mode = 1 << iota
	// DropTrailingSilence truncates an emitted event at its last valid
	// frame instead of retaining up to MaxContinuousSilence trailing
	// non-valid frames.
	DropTrailingSilence

	modeMax = DropTrailingSilence<<1 - 1
)

// Unbounded is the MaxLength/MaxContinuousSilence/InitMaxSilence value
// meaning "no limit". It collapses to math.MaxInt so length arithmetic
// never has to special-case it.
const Unbounded = math.MaxInt

// Config is the immutable configuration for one tokenization run.
type Config struct {
	// MinLength is the minimum number of frames an emitted event may have.
	MinLength int
	// MaxLength is the maximum number of frames before an event is
	// forcibly closed.
	MaxLength int
	// MaxContinuousSilence is the number of consecutive non-valid frames
	// tolerated inside a confirmed event before it is closed.
	MaxContinuousSilence int
	// InitMin is the number of valid frames required to confirm a
	// candidate event. Zero means a single valid frame confirms it.
	InitMin int
	// InitMaxSilence is the number of consecutive non-valid frames
	// tolerated while a candidate event is not yet confirmed.
	InitMaxSilence int
	// Mode is a bitmask over {StrictMinLength, DropTrailingSilence}.
	Mode Mode
}

// Validate checks the constraints from the data model: MinLength >= 1,
// MaxLength >= MinLength, MaxContinuousSilence >= 0, InitMin >= 0,
// InitMaxSilence >= 0, and no unknown Mode bits.
func (c Config) Validate() error {
	if c.MinLength < 1 {
		return configErr("MinLength", "must be >= 1")
	}
	if c.MaxLength < c.MinLength {
		return configErr("MaxLength", "must be >= MinLength")
	}
	if c.MaxContinuousSilence < 0 {
		return configErr("MaxContinuousSilence", "must be >= 0")
	}
	if c.InitMin < 0 {
		return configErr("InitMin", "must be >= 0")
	}
	if c.InitMaxSilence < 0 {
		return configErr("InitMaxSilence", "must be >= 0")
	}
	if c.Mode&^modeMax != 0 {
		return configErr("Mode", "unknown bit set")
	}
	return nil
}

// Event is a finalized detection: the frames that compose it (in original
// order, including any tolerated internal or trailing non-valid frames),
// and the first/last frame index (inclusive) it spans.
type Event[F any] struct {
	Frames []F
	Start  int
	End    int
}

// status is the tokenizer's private state-machine tag.
type status int

const (
	statusIdle status = iota
	statusPossibleStart
	statusPossibleEnd
)

// closeReason distinguishes why an in-progress event is being closed, since
// the emission rule treats a length-cap close differently from a
// silence-driven one.
type closeReason int

const (
	closeSilenceOverflow closeReason = iota
	closeMaxLength
	closeEndOfStream
)

// Tokenizer is the stream tokenizer state machine over frames of type F.
// A Tokenizer instance is owned by exactly one driver; concurrent Process
// calls on the same instance are not supported.
type Tokenizer[F any] struct {
	cfg Config

	status          status
	current         []F
	startIndex      int
	lastValidIndex  int
	trailingSilence int
	validCount      int

	// Tracks whether the last *emitted* event was itself forced closed by
	// MaxLength and ended immediately before the current candidate, so the
	// StrictMinLength-less min-length exemption can apply.
	prevWasForcedMaxLength bool
	prevEmittedEnd         int

	onEvent func(Event[F])
}

// New validates cfg and constructs a Tokenizer that delivers finalized
// events to onEvent as soon as they are closed. onEvent must not itself
// drive the frame source.
func New[F any](cfg Config, onEvent func(Event[F])) (*Tokenizer[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if onEvent == nil {
		onEvent = func(Event[F]) {}
	}
	return &Tokenizer[F]{
		cfg:            cfg,
		status:         statusIdle,
		prevEmittedEnd: -2, // never matches startIndex-1 for any startIndex >= 0
		onEvent:        onEvent,
	}, nil
}

// Process feeds one (frame, valid) observation at index i (monotonically
// increasing, assigned by the driver) into the state machine. It may
// synchronously invoke onEvent zero or one time.
func (t *Tokenizer[F]) Process(i int, frame F, valid bool) {
	switch t.status {
	case statusIdle:
		if !valid {
			return
		}
		t.startCandidate(i, frame)
		t.maybeConfirm()
		if len(t.current) >= t.cfg.MaxLength {
			// MaxLength == 1: the opening frame already fills the event.
			if t.status == statusPossibleEnd {
				t.closeEvent(closeMaxLength)
			}
			t.resetIdle()
		}
	case statusPossibleStart:
		t.appendFrame(frame, valid)
		if valid {
			t.maybeConfirm()
		} else if t.trailingSilence > t.cfg.InitMaxSilence {
			t.resetIdle()
			return
		}
		if t.status == statusPossibleStart {
			if len(t.current) >= t.cfg.MaxLength {
				// Length cap reached before confirmation: abandon, no emission.
				t.resetIdle()
			}
			return
		}
		// This frame both confirmed the candidate and hit the length cap in
		// the same step: apply POSSIBLE_END's forced-close-with-emission
		// rule instead of silently abandoning it.
		if len(t.current) >= t.cfg.MaxLength {
			t.closeEvent(closeMaxLength)
			t.resetIdle()
		}
	case statusPossibleEnd:
		t.appendFrame(frame, valid)
		if len(t.current) >= t.cfg.MaxLength {
			t.closeEvent(closeMaxLength)
			t.resetIdle()
			return
		}
		if !valid && t.trailingSilence > t.cfg.MaxContinuousSilence {
			t.closeEvent(closeSilenceOverflow)
			t.resetIdle()
		}
	}
}

// Flush applies end-of-stream closing to any in-progress event. It is
// idempotent: calling it twice with no intervening Process call emits
// nothing the second time, since the first call already returns the
// tokenizer to IDLE.
func (t *Tokenizer[F]) Flush() {
	if t.status == statusIdle {
		return
	}
	t.closeEvent(closeEndOfStream)
	t.resetIdle()
}

func (t *Tokenizer[F]) startCandidate(i int, frame F) {
	t.current = append(t.current[:0:0], frame)
	t.startIndex = i
	t.lastValidIndex = i
	t.validCount = 1
	t.trailingSilence = 0
	t.status = statusPossibleStart
}

func (t *Tokenizer[F]) appendFrame(frame F, valid bool) {
	t.current = append(t.current, frame)
	if valid {
		t.lastValidIndex = t.startIndex + len(t.current) - 1
		t.trailingSilence = 0
		t.validCount++
	} else {
		t.trailingSilence++
	}
}

// maybeConfirm upgrades a candidate to POSSIBLE_END once InitMin valid
// frames have been seen. Any interleaved silence run that exceeded
// InitMaxSilence would already have aborted the candidate in the invalid
// branch, so there is nothing further to check here.
func (t *Tokenizer[F]) maybeConfirm() {
	if t.status == statusPossibleStart && t.validCount >= t.cfg.InitMin {
		t.status = statusPossibleEnd
	}
}

func (t *Tokenizer[F]) resetIdle() {
	t.status = statusIdle
	t.current = nil
	t.trailingSilence = 0
	t.validCount = 0
}

// closeEvent implements the emission rule: it computes the frames and End
// index to deliver (if any), and then applies the MinLength floor with
// its StrictMinLength / forced-split exemption.
func (t *Tokenizer[F]) closeEvent(reason closeReason) {
	var frames []F
	var end int

	switch reason {
	case closeMaxLength:
		frames = t.current
		end = t.startIndex + len(t.current) - 1
	default: // closeSilenceOverflow, closeEndOfStream
		if t.cfg.Mode&DropTrailingSilence != 0 {
			cut := t.lastValidIndex - t.startIndex + 1
			frames = t.current[:cut]
			end = t.lastValidIndex
		} else {
			overflow := t.trailingSilence - t.cfg.MaxContinuousSilence
			if overflow < 0 {
				overflow = 0
			}
			cut := len(t.current) - overflow
			frames = t.current[:cut]
			end = t.startIndex + cut - 1
		}
	}

	length := end - t.startIndex + 1
	ok := length >= t.cfg.MinLength
	if !ok {
		if t.cfg.Mode&StrictMinLength == 0 &&
			t.prevWasForcedMaxLength && t.prevEmittedEnd == t.startIndex-1 {
			ok = true
		}
	}
	if !ok {
		return
	}

	out := make([]F, len(frames))
	copy(out, frames)
	t.onEvent(Event[F]{Frames: out, Start: t.startIndex, End: end})

	t.prevEmittedEnd = end
	t.prevWasForcedMaxLength = reason == closeMaxLength
}
