//go:build portaudio

package frame

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// DeviceAvailable reports that live-capture is compiled in.
func DeviceAvailable() bool { return true }

// deviceSource reads frames from the default input device via PortAudio.
// BlockSize and HopSize are always equal: live capture cannot replay
// samples, so overlap would require buffering this package leaves to
// OverlappedWrapper.
type deviceSource struct {
	stream     *portaudio.Stream
	buf        []int16
	rate       int
	channels   int
	blockSize  int
}

// NewDeviceSource opens the default input device. blockSize and hopSize
// are accepted for interface symmetry with BufferSource/FileSource; hopSize
// must equal blockSize since the stream cannot be rewound.
func NewDeviceSource(sampleRate, channels, blockSize, hopSize int) (Source, error) {
	if hopSize != blockSize {
		return nil, fmt.Errorf("frame: device source requires hopSize == blockSize, got %d != %d", hopSize, blockSize)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("frame: portaudio init: %w", err)
	}
	buf := make([]int16, blockSize*channels)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), blockSize, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("frame: open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("frame: start input stream: %w", err)
	}
	return &deviceSource{
		stream:    stream,
		buf:       buf,
		rate:      sampleRate,
		channels:  channels,
		blockSize: blockSize,
	}, nil
}

func (s *deviceSource) Read() (Frame, error) {
	if err := s.stream.Read(); err != nil {
		return Frame{}, fmt.Errorf("frame: device read: %w", err)
	}
	out := make([]int16, len(s.buf))
	copy(out, s.buf)
	return Frame{Samples: out, Channels: s.channels}, nil
}

func (s *deviceSource) Rewind() error { return ErrRewindUnsupported }

func (s *deviceSource) SamplingRate() int { return s.rate }
func (s *deviceSource) SampleWidth() int  { return 2 }
func (s *deviceSource) Channels() int     { return s.channels }
func (s *deviceSource) BlockSize() int    { return s.blockSize }
func (s *deviceSource) HopSize() int      { return s.blockSize }

// Close stops and releases the input stream.
func (s *deviceSource) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
