// Package validate implements the validator component: the pluggable
// predicate the tokenizer consults to decide whether a frame counts as
// activity. EnergyValidator is the reference implementation.
package validate

import "github.com/nupi-ai/aad-tokenizer/internal/frame"

// Validator decides whether a frame represents activity.
type Validator interface {
	Valid(f frame.Frame) bool
}

// Func adapts a plain function to the Validator interface.
type Func func(frame.Frame) bool

func (fn Func) Valid(f frame.Frame) bool { return fn(f) }

// ChannelMode selects how a multi-channel frame is reduced to the single
// sample sequence the energy formula operates on. Channel reduction is a
// concern between Source and Validator, not the tokenizer.
type ChannelMode int

const (
	// ChannelMix averages all channels into one (arithmetic mean per
	// sample frame).
	ChannelMix ChannelMode = iota
	// ChannelIndex isolates a single channel, given by ChannelIndexValue.
	ChannelIndex
	// ChannelAny treats the frame as valid if any one channel,
	// independently reduced, is valid ("per-channel OR").
	ChannelAny
)

// Reduce collapses a frame's interleaved samples to a single-channel slice
// according to mode. For ChannelAny, the caller should instead validate
// each channel independently; Reduce on ChannelAny falls back to ChannelMix
// since there is no single slice to return for "any channel passes".
func Reduce(f frame.Frame, mode ChannelMode, index int) []int16 {
	if f.Channels <= 1 {
		return f.Samples
	}
	n := f.SampleCount()
	out := make([]int16, n)
	switch mode {
	case ChannelIndex:
		for i := 0; i < n; i++ {
			out[i] = f.Samples[i*f.Channels+index]
		}
	default: // ChannelMix, ChannelAny
		for i := 0; i < n; i++ {
			var sum int32
			for c := 0; c < f.Channels; c++ {
				sum += int32(f.Samples[i*f.Channels+c])
			}
			out[i] = int16(sum / int32(f.Channels))
		}
	}
	return out
}

// channelSlice extracts channel c from a frame without averaging, used by
// ChannelAny to validate each channel on its own.
func channelSlice(f frame.Frame, c int) []int16 {
	n := f.SampleCount()
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = f.Samples[i*f.Channels+c]
	}
	return out
}
