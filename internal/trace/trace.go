// Package trace implements the read-back utilities: tracing one cell
// across every frame of an output file, and dumping the definition
// dictionary. Both write plain lines suitable for shell pipelines.
package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/quanterra/framegen/internal/distribution"
	"github.com/quanterra/framegen/internal/genome"
)

// ErrCellOutOfRange indicates a trace cell index outside the frame.
var ErrCellOutOfRange = errors.New("trace cell out of range")

// Cell reads cells_per_frame sized frames from r and writes the value of
// the cell at index cell (0-based) to w, one value per line, until the
// stream ends. A trailing partial frame is ignored, matching the flat
// output format's frame boundaries.
func Cell(r io.Reader, w io.Writer, cellsPerFrame, cell int) error {
	if cell < 0 || cell >= cellsPerFrame {
		return fmt.Errorf("%w: cell %d, frame holds %d cells", ErrCellOutOfRange, cell, cellsPerFrame)
	}

	frame := make([]byte, cellsPerFrame)
	for {
		if _, err := io.ReadFull(r, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%d\n", frame[cell]); err != nil {
			return err
		}
	}
}

// Dictionary writes the fragment and distribution tables to w: every
// fragment name with its expanded length in frames, then every
// distribution range with its sequence length.
func Dictionary(w io.Writer, store *genome.Store, table distribution.Table) error {
	fmt.Fprintf(w, "\n%30s    Size\n", "Fragment Name")
	fmt.Fprintln(w, "------------------------------------------")
	for _, name := range store.FragmentNames() {
		values, _ := store.Fragment(name)
		fmt.Fprintf(w, "%30s %7d\n", name, len(values))
	}

	fmt.Fprintf(w, "\n\n%30s    Size\n", "Distribution Name")
	fmt.Fprintln(w, "------------------------------------------")
	for _, record := range table {
		name := fmt.Sprintf("%d,%d,%d", record.First, record.Last, record.Step)
		if _, err := fmt.Fprintf(w, "%30s %7d\n", name, len(record.Values)); err != nil {
			return err
		}
	}
	return nil
}
