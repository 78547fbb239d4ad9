package frame

// BufferSource slices a fixed in-memory PCM buffer into overlapping
// analysis windows: the k-th frame covers samples
// [k*HopSize, k*HopSize+BlockSize). Partial trailing windows are never
// exposed.
type BufferSource struct {
	samples    []int16 // interleaved, Channels() wide
	rate       int
	channels   int
	blockSize  int
	hopSize    int
	nextSample int
}

// NewBufferSource wraps an interleaved int16 PCM buffer. hopSize defaults
// to blockSize (no overlap) when <= 0.
func NewBufferSource(samples []int16, sampleRate, channels, blockSize, hopSize int) *BufferSource {
	if hopSize <= 0 {
		hopSize = blockSize
	}
	return &BufferSource{
		samples:   samples,
		rate:      sampleRate,
		channels:  channels,
		blockSize: blockSize,
		hopSize:   hopSize,
	}
}

// BlockSizeForDuration rounds a duration in seconds to a sample count:
// samples = round(sr * dur), the duration-based equivalent of BlockSize.
func BlockSizeForDuration(sampleRate int, seconds float64) int {
	return int(float64(sampleRate)*seconds + 0.5)
}

func (s *BufferSource) Read() (Frame, error) {
	start := s.nextSample
	end := start + s.blockSize
	framesAvailable := len(s.samples) / s.channels
	if end > framesAvailable {
		return Frame{}, ErrEndOfStream
	}
	window := make([]int16, s.blockSize*s.channels)
	copy(window, s.samples[start*s.channels:end*s.channels])
	s.nextSample += s.hopSize
	return Frame{Samples: window, Channels: s.channels}, nil
}

func (s *BufferSource) Rewind() error {
	s.nextSample = 0
	return nil
}

func (s *BufferSource) SamplingRate() int { return s.rate }
func (s *BufferSource) SampleWidth() int  { return 2 }
func (s *BufferSource) Channels() int     { return s.channels }
func (s *BufferSource) BlockSize() int    { return s.blockSize }
func (s *BufferSource) HopSize() int      { return s.hopSize }
