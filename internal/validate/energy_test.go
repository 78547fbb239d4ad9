package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
)

func TestEnergyValidatorSilenceIsInvalid(t *testing.T) {
	v := NewEnergyValidator(-30)
	f := frame.Frame{Samples: make([]int16, 160), Channels: 1}
	require.False(t, v.Valid(f))
}

func TestEnergyValidatorLoudFrameIsValid(t *testing.T) {
	v := NewEnergyValidator(-30)
	samples := make([]int16, 160)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 20000
		} else {
			samples[i] = -20000
		}
	}
	f := frame.Frame{Samples: samples, Channels: 1}
	require.True(t, v.Valid(f))
}

func TestEnergyValidatorChannelMix(t *testing.T) {
	v := NewEnergyValidator(-30)
	v.Channels = ChannelMix
	// Left channel loud, right channel silent; mix should still pass.
	samples := make([]int16, 320) // 160 frames * 2 channels
	for i := 0; i < 160; i++ {
		samples[i*2] = 20000
		samples[i*2+1] = 0
	}
	f := frame.Frame{Samples: samples, Channels: 2}
	require.True(t, v.Valid(f))
}

func TestEnergyValidatorChannelIndex(t *testing.T) {
	v := NewEnergyValidator(-30)
	v.Channels = ChannelIndex
	v.ChannelIndexValue = 1
	samples := make([]int16, 320)
	for i := 0; i < 160; i++ {
		samples[i*2] = 20000 // channel 0 loud
		samples[i*2+1] = 0   // channel 1 silent
	}
	f := frame.Frame{Samples: samples, Channels: 2}
	require.False(t, v.Valid(f), "channel 1 alone is silent")
}

func TestEnergyValidatorThresholdBoundaryIsValid(t *testing.T) {
	samples := make([]int16, 160)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 20000
		} else {
			samples[i] = -20000
		}
	}
	f := frame.Frame{Samples: samples, Channels: 1}
	v := NewEnergyValidator(energyDB(samples))
	require.True(t, v.Valid(f), "a frame exactly at threshold must be valid")
}

func TestEnergyValidatorChannelAny(t *testing.T) {
	v := NewEnergyValidator(-30)
	v.Channels = ChannelAny
	samples := make([]int16, 320)
	for i := 0; i < 160; i++ {
		samples[i*2] = 0
		samples[i*2+1] = 20000 // only channel 1 loud
	}
	f := frame.Frame{Samples: samples, Channels: 2}
	require.True(t, v.Valid(f))
}
