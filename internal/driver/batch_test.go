package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/nupi-ai/aad-tokenizer/internal/tokenizer"
)

func writeWAV(t *testing.T, path string, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{SampleRate: 16000, NumChannels: 1},
		Data:           samples,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestRunBatchProcessesEachFileIndependently(t *testing.T) {
	dir := t.TempDir()
	loud := make([]int, 40)
	for i := range loud {
		loud[i] = 30000
	}
	quiet := make([]int, 40)

	loudPath := filepath.Join(dir, "loud.wav")
	quietPath := filepath.Join(dir, "quiet.wav")
	writeWAV(t, loudPath, loud)
	writeWAV(t, quietPath, quiet)

	results, err := RunBatch(BatchOptions{
		Paths:       []string{loudPath, quietPath},
		Validator:   thresholdValidator{threshold: 100},
		Config:      tokenizer.Config{MinLength: 1, MaxLength: tokenizer.Unbounded, InitMin: 1},
		BlockSize:   10,
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Events, 1)
	require.NoError(t, results[1].Err)
	require.Empty(t, results[1].Events)
}

func TestRunBatchOverlapReWindowsFrames(t *testing.T) {
	dir := t.TempDir()
	loud := make([]int, 40)
	for i := range loud {
		loud[i] = 30000
	}
	path := filepath.Join(dir, "loud.wav")
	writeWAV(t, path, loud)

	results, err := RunBatch(BatchOptions{
		Paths:       []string{path},
		Validator:   thresholdValidator{threshold: 100},
		Config:      tokenizer.Config{MinLength: 1, MaxLength: tokenizer.Unbounded, InitMin: 1},
		BlockSize:   10,
		Overlap:     0.5,
		Concurrency: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	// 40 samples at block=10, hop=5 (50% overlap) yields 7 windows
	// ([0,10) .. [30,40)), all one continuous loud event.
	require.Len(t, results[0].Events, 1)
	require.Equal(t, 6, results[0].Events[0].End-results[0].Events[0].Start)
}

func TestRunBatchReportsPerFileErrorWithoutCancelingOthers(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.wav")
	present := filepath.Join(dir, "present.wav")
	writeWAV(t, present, make([]int, 20))

	results, err := RunBatch(BatchOptions{
		Paths:     []string{missing, present},
		Validator: thresholdValidator{threshold: 100},
		Config:    tokenizer.Config{MinLength: 1, MaxLength: tokenizer.Unbounded, InitMin: 1},
		BlockSize: 10,
	})
	require.NoError(t, err)
	require.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
}
