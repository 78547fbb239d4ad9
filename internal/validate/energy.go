package validate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
)

// epsilon floors the mean-square term so log10 never sees zero, matching
// the reference validator's handling of a silent (all-zero) frame.
const epsilon = 1e-10

// EnergyValidator marks a frame valid when its log-energy is at or above
// Threshold: energy = 10*log10(max(mean(x_i^2), epsilon)).
type EnergyValidator struct {
	Threshold float64
	Channels  ChannelMode
	// ChannelIndexValue selects the channel when Channels == ChannelIndex.
	ChannelIndexValue int
}

// NewEnergyValidator constructs an EnergyValidator at the given dB
// threshold that averages multi-channel frames into one channel (ChannelMix).
func NewEnergyValidator(thresholdDB float64) *EnergyValidator {
	return &EnergyValidator{Threshold: thresholdDB, Channels: ChannelMix}
}

func (v *EnergyValidator) Valid(f frame.Frame) bool {
	if f.Channels > 1 && v.Channels == ChannelAny {
		for c := 0; c < f.Channels; c++ {
			if energyDB(channelSlice(f, c)) >= v.Threshold {
				return true
			}
		}
		return false
	}
	samples := Reduce(f, v.Channels, v.ChannelIndexValue)
	return energyDB(samples) >= v.Threshold
}

// Energy returns the log-energy of a frame in dB, reduced per v.Channels.
// Exposed for callers (e.g. the driver's metrics) that want the raw value
// rather than just the pass/fail verdict.
func (v *EnergyValidator) Energy(f frame.Frame) float64 {
	samples := Reduce(f, v.Channels, v.ChannelIndexValue)
	return energyDB(samples)
}

func energyDB(samples []int16) float64 {
	if len(samples) == 0 {
		return 10 * math.Log10(epsilon)
	}
	squares := make([]float64, len(samples))
	for i, s := range samples {
		x := float64(s)
		squares[i] = x * x
	}
	mean := stat.Mean(squares, nil)
	if mean < epsilon {
		mean = epsilon
	}
	return 10 * math.Log10(mean)
}
