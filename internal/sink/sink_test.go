package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nupi-ai/aad-tokenizer/internal/frame"
	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
)

func testEvent() tokenizer.Event[frame.Frame] {
	return tokenizer.Event[frame.Frame]{
		Frames: []frame.Frame{
			{Samples: []int16{1, 2, 3, 4}, Channels: 1},
			{Samples: []int16{5, 6, 7, 8}, Channels: 1},
		},
		Start: 10,
		End:   11,
	}
}

func TestWAVEventSinkExpandsTemplate(t *testing.T) {
	dir := t.TempDir()
	s := NewWAVEventSink(filepath.Join(dir, "event-{id}-{start}-{end}-{duration}.wav"), 16000, 1, 0.01)
	require.NoError(t, s.Deliver(testEvent()))

	// testEvent spans frames 10..11 inclusive (2 frames) at a 10ms hop.
	_, err := os.Stat(filepath.Join(dir, "event-1-10-11-0.020.wav"))
	require.NoError(t, err)
}

func TestMultiStopsAtFirstError(t *testing.T) {
	calls := 0
	ok := Func(func(tokenizer.Event[frame.Frame]) error { calls++; return nil })
	bad := Func(func(tokenizer.Event[frame.Frame]) error { calls++; return os.ErrClosed })
	neverReached := Func(func(tokenizer.Event[frame.Frame]) error { calls++; return nil })

	m := Multi{ok, bad, neverReached}
	err := m.Deliver(testEvent())
	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestLogLineSinkFormatsTimestamp(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewLogLineSink(&buf, 0.01) // 10ms hop
	require.NoError(t, err)
	require.NoError(t, s.Deliver(testEvent()))
	require.Contains(t, buf.String(), "event start=00:00:00.10 end=00:00:00.11")
}

func TestStreamCaptureWritesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")
	c, err := NewStreamCapture(path, 16000, 1)
	require.NoError(t, err)
	require.NoError(t, c.Write(frame.Frame{Samples: []int16{1, 2, 3}, Channels: 1}))
	require.NoError(t, c.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
