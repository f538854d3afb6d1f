package synth

import (
	"fmt"
	"io"

	"github.com/quanterra/framegen/internal/distribution"
	"github.com/quanterra/framegen/internal/genome"
)

// Rand supplies uniform random indices for ADC value selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Synthesizer produces output frames from an immutable distribution table
// and definition store. It reuses one frame buffer across calls; the buffer
// is fully rewritten (filler pass) on every call, and the slice returned by
// BuildFrame is only valid until the next call.
type Synthesizer struct {
	table  distribution.Table
	store  *genome.Store
	params Params
	rng    Rand
	frame  []byte
}

// NewSynthesizer returns a synthesizer over table and store. rng is the
// random source used for nucleotide sampling; tests may substitute a
// deterministic one.
func NewSynthesizer(table distribution.Table, store *genome.Store, p Params, rng Rand) *Synthesizer {
	return &Synthesizer{
		table:  table,
		store:  store,
		params: p,
		rng:    rng,
		frame:  make([]byte, p.CellsPerFrame),
	}
}

// BuildFrame materializes the frame at frameIndex. Every cell starts at the
// filler value; each record that still has data at this index paints its
// resolved value across its cell range, in table order, so later records
// win on overlapping cells.
func (s *Synthesizer) BuildFrame(frameIndex int) ([]byte, error) {
	for i := range s.frame {
		s.frame[i] = s.params.FillerValue
	}

	for _, record := range s.table {
		if frameIndex >= len(record.Values) {
			continue
		}
		value := record.Values[frameIndex]
		for cell := record.First - 1; cell < record.Last; cell += record.Step {
			b, err := s.selectADC(value)
			if err != nil {
				return nil, err
			}
			s.frame[cell] = b
		}
	}
	return s.frame, nil
}

// selectADC converts a symbolic value to a concrete output byte. Literals
// pass through truncated to byte width; placeholders get a fresh uniform
// draw from the nucleotide's candidate set on every call.
func (s *Synthesizer) selectADC(v genome.Value) (byte, error) {
	if v.IsLiteral() {
		return byte(v.Literal), nil
	}
	levels, ok := s.store.Nucleotide(v.Name)
	if !ok || len(levels) == 0 {
		return 0, fmt.Errorf("%w %q", ErrUnknownNucleotide, v.Name)
	}
	return byte(levels[s.rng.IntN(len(levels))]), nil
}

// WriteFrames synthesizes groupCount frame groups and writes them to w in
// strictly increasing frame order, one cells_per_frame sized frame at a
// time, with no framing metadata.
func (s *Synthesizer) WriteFrames(w io.Writer, groupCount int) error {
	frameIndex := 0
	for group := 0; group < groupCount; group++ {
		for i := 0; i < s.params.DataFrames; i++ {
			frame, err := s.BuildFrame(frameIndex)
			if err != nil {
				return err
			}
			if _, err := w.Write(frame); err != nil {
				return fmt.Errorf("writing frame %d: %w", frameIndex, err)
			}
			frameIndex++
		}
	}
	return nil
}
