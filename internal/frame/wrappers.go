package frame

// RecordingWrapper buffers every frame read from the underlying source so
// that Rewind becomes possible even over a non-seekable Source: once it
// starts recording, it can replay everything it has already produced.
type RecordingWrapper struct {
	Source
	recording bool
	buffered  []Frame
	replayPos int
}

func NewRecordingWrapper(src Source) *RecordingWrapper {
	return &RecordingWrapper{Source: src}
}

// StartRecording begins buffering subsequently read frames.
func (w *RecordingWrapper) StartRecording() { w.recording = true }

// StopRecording stops buffering; already-buffered frames are kept for replay.
func (w *RecordingWrapper) StopRecording() { w.recording = false }

func (w *RecordingWrapper) Read() (Frame, error) {
	if w.replayPos < len(w.buffered) {
		f := w.buffered[w.replayPos]
		w.replayPos++
		return f, nil
	}
	f, err := w.Source.Read()
	if err != nil {
		return Frame{}, err
	}
	if w.recording {
		w.buffered = append(w.buffered, f)
	}
	w.replayPos = len(w.buffered)
	return f, nil
}

func (w *RecordingWrapper) Rewind() error {
	if len(w.buffered) == 0 {
		return w.Source.Rewind()
	}
	w.replayPos = 0
	return nil
}

// OverlappedWrapper re-derives HopSize from a fractional overlap ratio
// instead of an absolute sample count, and re-windows the underlying
// source's samples at that hop itself rather than trusting the source to
// have been constructed with the right hop size. src must yield
// non-overlapping frames (its own HopSize == BlockSize); OverlappedWrapper
// buffers those frames and re-slices them so Read() actually produces the
// overlap HopSize() reports.
type OverlappedWrapper struct {
	Source
	blockSize int
	hopSize   int
	channels  int
	pending   []int16
}

// NewOverlappedWrapper wraps src so consecutive frames overlap by the given
// fraction of BlockSize (0 <= overlap < 1).
func NewOverlappedWrapper(src Source, overlap float64) *OverlappedWrapper {
	block := src.BlockSize()
	hop := int(float64(block) * (1 - overlap))
	if hop < 1 {
		hop = 1
	}
	return &OverlappedWrapper{Source: src, blockSize: block, hopSize: hop, channels: src.Channels()}
}

func (w *OverlappedWrapper) HopSize() int { return w.hopSize }

func (w *OverlappedWrapper) Read() (Frame, error) {
	need := w.blockSize * w.channels
	for len(w.pending) < need {
		f, err := w.Source.Read()
		if err != nil {
			return Frame{}, err
		}
		w.pending = append(w.pending, f.Samples...)
	}

	samples := make([]int16, need)
	copy(samples, w.pending[:need])

	advance := w.hopSize * w.channels
	if advance > len(w.pending) {
		advance = len(w.pending)
	}
	w.pending = w.pending[advance:]

	return Frame{Samples: samples, Channels: w.channels}, nil
}

func (w *OverlappedWrapper) Rewind() error {
	w.pending = nil
	return w.Source.Rewind()
}

// LimitedDurationWrapper caps the number of frames a source will yield
// before reporting ErrEndOfStream, independent of when the underlying
// source itself would otherwise end. Used by the CLI's --duration flag.
type LimitedDurationWrapper struct {
	Source
	maxFrames int
	seen      int
}

// NewLimitedDurationWrapper caps src at maxDurationSeconds worth of frames,
// measured in hops.
func NewLimitedDurationWrapper(src Source, maxDurationSeconds float64) *LimitedDurationWrapper {
	hop := src.HopSize()
	if hop <= 0 {
		hop = src.BlockSize()
	}
	maxFrames := int(maxDurationSeconds * float64(src.SamplingRate()) / float64(hop))
	return &LimitedDurationWrapper{Source: src, maxFrames: maxFrames}
}

func (w *LimitedDurationWrapper) Read() (Frame, error) {
	if w.seen >= w.maxFrames {
		return Frame{}, ErrEndOfStream
	}
	f, err := w.Source.Read()
	if err != nil {
		return Frame{}, err
	}
	w.seen++
	return f, nil
}

func (w *LimitedDurationWrapper) Rewind() error {
	w.seen = 0
	return w.Source.Rewind()
}
