package tokenizer

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// boolReader replays a fixed slice of validity verdicts; the frame payload
// is just the index, which is enough to check tokenizer invariants
// without depending on internal/validate.
type boolReader struct {
	verdicts []bool
	pos      int
}

func (r *boolReader) ReadFrame() (int, error) {
	if r.pos >= len(r.verdicts) {
		return 0, io.EOF
	}
	i := r.pos
	r.pos++
	return i, nil
}

func genConfig(t *rapid.T) Config {
	minLength := rapid.IntRange(1, 8).Draw(t, "minLength")
	maxLength := minLength + rapid.IntRange(0, 12).Draw(t, "maxLengthDelta")
	return Config{
		MinLength:            minLength,
		MaxLength:            maxLength,
		MaxContinuousSilence: rapid.IntRange(0, 5).Draw(t, "maxContinuousSilence"),
		InitMin:              rapid.IntRange(0, 4).Draw(t, "initMin"),
		InitMaxSilence:       rapid.IntRange(0, 5).Draw(t, "initMaxSilence"),
		Mode:                 Mode(rapid.IntRange(0, int(modeMax)).Draw(t, "mode")),
	}
}

// TestPropertyEventsAreWellFormed checks that every emitted event has
// End >= Start, length within [MinLength, MaxLength] (modulo the
// StrictMinLength-less exemption), and that events are pairwise
// non-overlapping in strictly increasing start order.
func TestPropertyEventsAreWellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig(t)
		verdicts := rapid.SliceOfN(rapid.Boolean(), 0, 60).Draw(t, "verdicts")

		events, err := Collect[int](cfg, &boolReader{verdicts: verdicts}, func(i int) bool {
			return verdicts[i]
		})
		require.NoError(t, err)

		prevEnd := -1
		for _, e := range events {
			require.GreaterOrEqual(t, e.End, e.Start)
			length := e.End - e.Start + 1
			require.LessOrEqual(t, length, cfg.MaxLength)
			if cfg.Mode&StrictMinLength != 0 {
				require.GreaterOrEqual(t, length, cfg.MinLength)
			}
			require.Greater(t, e.Start, prevEnd, "events must be in strictly increasing, non-overlapping order")
			prevEnd = e.End
		}
	})
}

// TestPropertyFirstFrameValid checks invariant 3: the first frame of every
// emitted event is valid.
func TestPropertyFirstFrameValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig(t)
		verdicts := rapid.SliceOfN(rapid.Boolean(), 1, 60).Draw(t, "verdicts")

		events, err := Collect[int](cfg, &boolReader{verdicts: verdicts}, func(i int) bool {
			return verdicts[i]
		})
		require.NoError(t, err)

		for _, e := range events {
			require.True(t, verdicts[e.Start], "event must start on a valid frame")
		}
	})
}

// TestPropertyDeterminism checks invariant 6: the same (verdict sequence,
// configuration) always yields the same event list.
func TestPropertyDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig(t)
		verdicts := rapid.SliceOfN(rapid.Boolean(), 0, 60).Draw(t, "verdicts")
		validFn := func(i int) bool { return verdicts[i] }

		first, err := Collect[int](cfg, &boolReader{verdicts: verdicts}, validFn)
		require.NoError(t, err)
		second, err := Collect[int](cfg, &boolReader{verdicts: verdicts}, validFn)
		require.NoError(t, err)

		require.Equal(t, first, second)
	})
}

// TestPropertyFlushIdempotent checks invariant 5.
func TestPropertyFlushIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig(t)
		verdicts := rapid.SliceOfN(rapid.Boolean(), 0, 60).Draw(t, "verdicts")

		var events []Event[int]
		tok, err := New[int](cfg, func(e Event[int]) { events = append(events, e) })
		require.NoError(t, err)
		for i, v := range verdicts {
			tok.Process(i, i, v)
		}
		tok.Flush()
		n := len(events)
		tok.Flush()
		require.Equal(t, n, len(events), "flush must be idempotent")
	})
}
