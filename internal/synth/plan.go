// Package synth turns a distribution table into concrete output frames:
// capacity planning against the ring buffer, per-frame overlay synthesis,
// and ADC value selection.
package synth

import (
	"errors"
	"fmt"

	"github.com/quanterra/framegen/internal/distribution"
)

// RowSize is the number of cells in a single data row on the chip.
// cells_per_frame must be a positive multiple of it.
const RowSize = 2048

// Errors returned by planning and synthesis.
var (
	// ErrFrameGeometry indicates cells_per_frame is not a positive
	// multiple of RowSize.
	ErrFrameGeometry = errors.New("invalid frame geometry")

	// ErrCapacity indicates the expanded sequences do not fit the
	// ring buffer.
	ErrCapacity = errors.New("distribution exceeds buffer capacity")

	// ErrUnknownNucleotide indicates a placeholder naming no known
	// nucleotide. Definition-time validation makes this unreachable,
	// but the selector checks anyway.
	ErrUnknownNucleotide = errors.New("unknown nucleotide")
)

// CapacityError reports a sequence too long for the target buffer.
type CapacityError struct {
	// RequiredFrames is the frame count implied by the longest sequence.
	RequiredFrames int
	// MaxFrames is how many frames fit in the ring buffer.
	MaxFrames int
	// RequiredBytes is the total output size that was requested.
	RequiredBytes int64
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("distribution needs %d frames (%d bytes) but only %d fit into the buffer",
		e.RequiredFrames, e.RequiredBytes, e.MaxFrames)
}

// Unwrap returns ErrCapacity.
func (e *CapacityError) Unwrap() error { return ErrCapacity }

// Params is the frame geometry the planner and synthesizer work against.
type Params struct {
	// CellsPerFrame is the frame size in cells (one byte per cell).
	CellsPerFrame int

	// RingBufferSize is the destination buffer capacity in bytes.
	RingBufferSize int64

	// DataFrames is the number of frames in one frame group.
	DataFrames int

	// FillerValue initializes every cell before overlay.
	FillerValue byte
}

// Stats summarizes a successful capacity plan.
type Stats struct {
	// LongestSequence is the longest value sequence over all records.
	LongestSequence int

	// FramesPerGroup echoes Params.DataFrames.
	FramesPerGroup int

	// FrameGroups is the number of frame groups the output will hold.
	FrameGroups int

	// MaxFrames is how many frames fit into the ring buffer.
	MaxFrames int

	// TotalFrames is FrameGroups * FramesPerGroup.
	TotalFrames int

	// TotalBytes is TotalFrames * CellsPerFrame.
	TotalBytes int64
}

// Plan verifies the distribution fits the configured buffer and returns the
// frame statistics for the run.
//
// The group count is longest/dataFrames + 1. The formula always allocates a
// full extra group, even when the longest sequence is an exact multiple of
// the group length; the trailing group absorbs any remainder.
func Plan(table distribution.Table, p Params) (Stats, error) {
	if p.CellsPerFrame <= 0 || p.CellsPerFrame%RowSize != 0 {
		return Stats{}, fmt.Errorf("%w: cells_per_frame %d must be a positive multiple of %d",
			ErrFrameGeometry, p.CellsPerFrame, RowSize)
	}
	if p.DataFrames <= 0 {
		return Stats{}, fmt.Errorf("%w: data_frames must be positive, got %d",
			ErrFrameGeometry, p.DataFrames)
	}

	stats := Stats{
		LongestSequence: table.LongestSequence(),
		FramesPerGroup:  p.DataFrames,
		MaxFrames:       int(p.RingBufferSize / int64(p.CellsPerFrame)),
	}
	stats.FrameGroups = stats.LongestSequence/p.DataFrames + 1
	stats.TotalFrames = stats.FrameGroups * p.DataFrames
	stats.TotalBytes = int64(stats.TotalFrames) * int64(p.CellsPerFrame)

	if stats.TotalFrames > stats.MaxFrames {
		return Stats{}, &CapacityError{
			RequiredFrames: stats.TotalFrames,
			MaxFrames:      stats.MaxFrames,
			RequiredBytes:  stats.TotalBytes,
		}
	}
	return stats, nil
}
