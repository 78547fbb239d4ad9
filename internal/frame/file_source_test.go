package frame

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T, samples []int, sampleRate, channels int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		Data:           samples,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func TestFileSourceDecodesWAV(t *testing.T) {
	samples := make([]int, 20)
	for i := range samples {
		samples[i] = i
	}
	path := writeTestWAV(t, samples, 16000, 1)

	src, err := NewFileSource(path, 5, 0)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 16000, src.SamplingRate())
	require.Equal(t, 1, src.Channels())

	f, err := src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{0, 1, 2, 3, 4}, f.Samples)
}

func TestFileSourceEndOfStream(t *testing.T) {
	path := writeTestWAV(t, make([]int, 10), 16000, 1)
	src, err := NewFileSource(path, 5, 0)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Read()
	require.NoError(t, err)
	_, err = src.Read()
	require.NoError(t, err)
	_, err = src.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestNewFileSourceRejectsMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.wav"), 5, 0)
	require.Error(t, err)
}
