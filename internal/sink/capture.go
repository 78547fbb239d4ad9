package sink

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
)

// StreamCapture writes every frame the driver reads from the Frame Source
// to a single WAV file, independent of tokenizer event boundaries —
// useful for offline review of what the validator saw. It is tapped at
// the driver loop, not wired through Sink, since it needs every frame
// rather than only the ones inside an emitted event.
type StreamCapture struct {
	f   *os.File
	enc *wav.Encoder
}

// NewStreamCapture opens path and prepares a WAV encoder at sampleRate/channels.
func NewStreamCapture(path string, sampleRate, channels int) (*StreamCapture, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	return &StreamCapture{f: f, enc: enc}, nil
}

// Write appends one frame's samples to the capture file.
func (c *StreamCapture) Write(fr frame.Frame) error {
	data := make([]int, len(fr.Samples))
	for i, s := range fr.Samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: c.enc.SampleRate, NumChannels: c.enc.NumChans},
		Data:           data,
		SourceBitDepth: 16,
	}
	return c.enc.Write(buf)
}

// Close finalizes the WAV header and closes the underlying file.
func (c *StreamCapture) Close() error {
	if err := c.enc.Close(); err != nil {
		c.f.Close()
		return fmt.Errorf("sink: finalize capture: %w", err)
	}
	return c.f.Close()
}
