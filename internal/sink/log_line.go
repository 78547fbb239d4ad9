package sink

import (
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
)

// timestampSpec implements a custom directive set: %h hours, %m minutes,
// %s seconds, %i hundredths of a second, all zero-padded. These letters
// carry different meanings than strftime's POSIX ones, so every
// directive this sink uses is registered as a custom appender.
func timestampSpec() *strftime.SpecificationSet {
	set := strftime.NewSpecificationSet()
	set.Set('h', strftime.AppendFunc(func(b []byte, t time.Time) []byte {
		return append(b, fmt.Sprintf("%02d", t.Hour())...)
	}))
	set.Set('m', strftime.AppendFunc(func(b []byte, t time.Time) []byte {
		return append(b, fmt.Sprintf("%02d", t.Minute())...)
	}))
	set.Set('s', strftime.AppendFunc(func(b []byte, t time.Time) []byte {
		return append(b, fmt.Sprintf("%02d", t.Second())...)
	}))
	set.Set('i', strftime.AppendFunc(func(b []byte, t time.Time) []byte {
		return append(b, fmt.Sprintf("%02d", t.Nanosecond()/10_000_000)...)
	}))
	return set
}

// LogLineSink writes one human-readable line per event: timestamps for
// Start/End expressed as elapsed stream time, derived from the frame's
// hop duration.
type LogLineSink struct {
	w          io.Writer
	hopSeconds float64
	f          *strftime.Strftime
}

// NewLogLineSink builds a sink writing to w, converting frame indices to
// elapsed time using hopSeconds (HopSize / SamplingRate of the source).
func NewLogLineSink(w io.Writer, hopSeconds float64) (*LogLineSink, error) {
	f, err := strftime.New("%h:%m:%s.%i", strftime.WithSpecificationSet(timestampSpec()))
	if err != nil {
		return nil, fmt.Errorf("sink: build timestamp format: %w", err)
	}
	return &LogLineSink{w: w, hopSeconds: hopSeconds, f: f}, nil
}

func (s *LogLineSink) Deliver(e tokenizer.Event[frame.Frame]) error {
	start := s.elapsed(e.Start)
	end := s.elapsed(e.End)
	_, err := fmt.Fprintf(s.w, "event start=%s end=%s frames=%d\n",
		s.f.FormatString(start), s.f.FormatString(end), len(e.Frames))
	return err
}

func (s *LogLineSink) Close() error { return nil }

func (s *LogLineSink) elapsed(frameIndex int) time.Time {
	d := time.Duration(float64(frameIndex) * s.hopSeconds * float64(time.Second))
	return time.Unix(0, 0).UTC().Add(d)
}
