package frame

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// FileSource decodes a 16-bit PCM WAV file fully into memory and then
// serves it through the same block/hop windowing as BufferSource. WAV is
// the only container this package decodes; anything else is a config-time
// error surfaced by NewFileSource, not a Read-time one.
type FileSource struct {
	*BufferSource
	f *os.File
}

// NewFileSource opens and fully decodes path. The caller must call Close
// when done with the returned source.
func NewFileSource(path string, blockSize, hopSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("frame: open %s: %w", path, err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("frame: %s is not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("frame: decode %s: %w", path, err)
	}
	if buf.SourceBitDepth != 16 {
		f.Close()
		return nil, fmt.Errorf("frame: %s is %d-bit, only 16-bit PCM is supported", path, buf.SourceBitDepth)
	}

	samples := intBufferToInt16(buf)
	return &FileSource{
		BufferSource: NewBufferSource(samples, int(dec.SampleRate), int(dec.NumChans), blockSize, hopSize),
		f:            f,
	}, nil
}

func (s *FileSource) Close() error { return s.f.Close() }

func intBufferToInt16(buf *audio.IntBuffer) []int16 {
	out := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = int16(v)
	}
	return out
}
