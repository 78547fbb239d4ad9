package sink

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
)

// WAVEventSink writes each delivered event to its own WAV file. PathTemplate
// may reference "{id}" (1-based emission order), "{start}", "{end}" (frame
// indices) and "{duration}" (seconds, as a float) — substituted per event.
type WAVEventSink struct {
	PathTemplate string
	SampleRate   int
	Channels     int
	HopSeconds   float64
	count        int
}

// NewWAVEventSink constructs a sink writing to PathTemplate-derived paths,
// encoding at sampleRate/channels (the Frame Source's own settings).
// hopSeconds converts a frame count into the "{duration}" template value,
// the same hop-to-seconds conversion LogLineSink uses for its timestamps.
func NewWAVEventSink(pathTemplate string, sampleRate, channels int, hopSeconds float64) *WAVEventSink {
	return &WAVEventSink{PathTemplate: pathTemplate, SampleRate: sampleRate, Channels: channels, HopSeconds: hopSeconds}
}

func (s *WAVEventSink) Deliver(e tokenizer.Event[frame.Frame]) error {
	s.count++
	duration := float64(e.End-e.Start+1) * s.HopSeconds
	path := expandTemplate(s.PathTemplate, s.count, e.Start, e.End, duration)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, s.SampleRate, 16, s.Channels, 1)
	data := make([]int, 0, len(e.Frames)*s.Channels)
	for _, fr := range e.Frames {
		for _, sample := range fr.Samples {
			data = append(data, int(sample))
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: s.SampleRate, NumChannels: s.Channels},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	return enc.Close()
}

func (s *WAVEventSink) Close() error { return nil }

func expandTemplate(tmpl string, id, start, end int, durationSeconds float64) string {
	r := strings.NewReplacer(
		"{id}", strconv.Itoa(id),
		"{start}", strconv.Itoa(start),
		"{end}", strconv.Itoa(end),
		"{duration}", strconv.FormatFloat(durationSeconds, 'f', 3, 64),
	)
	return r.Replace(tmpl)
}
