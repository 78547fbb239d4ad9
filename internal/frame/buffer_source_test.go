package frame

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferSourceNonOverlapping(t *testing.T) {
	samples := make([]int16, 20)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := NewBufferSource(samples, 16000, 1, 5, 0)

	f, err := src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{0, 1, 2, 3, 4}, f.Samples)

	f, err = src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{5, 6, 7, 8, 9}, f.Samples)

	f, err = src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{10, 11, 12, 13, 14}, f.Samples)

	f, err = src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{15, 16, 17, 18, 19}, f.Samples)

	_, err = src.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestBufferSourcePartialTrailingWindowDropped(t *testing.T) {
	samples := make([]int16, 12)
	src := NewBufferSource(samples, 16000, 1, 5, 0)
	_, err := src.Read()
	require.NoError(t, err)
	_, err = src.Read()
	require.NoError(t, err)
	_, err = src.Read() // only 2 samples remain, less than BlockSize
	require.ErrorIs(t, err, io.EOF)
}

func TestBufferSourceOverlap(t *testing.T) {
	samples := make([]int16, 10)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := NewBufferSource(samples, 16000, 1, 4, 2)

	f, err := src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{0, 1, 2, 3}, f.Samples)

	f, err = src.Read()
	require.NoError(t, err)
	require.Equal(t, []int16{2, 3, 4, 5}, f.Samples)
}

func TestBufferSourceRewind(t *testing.T) {
	samples := make([]int16, 10)
	src := NewBufferSource(samples, 16000, 1, 5, 0)
	_, err := src.Read()
	require.NoError(t, err)
	require.NoError(t, src.Rewind())
	f, err := src.Read()
	require.NoError(t, err)
	require.Len(t, f.Samples, 5)
}

func TestBlockSizeForDuration(t *testing.T) {
	require.Equal(t, 160, BlockSizeForDuration(16000, 0.01))
	require.Equal(t, 8000, BlockSizeForDuration(16000, 0.5))
}
