// Package distribution parses the fragment distribution definitions that
// map expanded value sequences onto cell ranges of the output frames.
package distribution

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quanterra/framegen/internal/genome"
	"github.com/quanterra/framegen/internal/scan"
)

// Errors returned while building the distribution table.
var (
	// ErrCellRange indicates a cell index outside the frame geometry.
	ErrCellRange = errors.New("invalid cell range")

	// ErrUnknownFragment indicates a distribution referencing an
	// undefined fragment name.
	ErrUnknownFragment = errors.New("undefined fragment name")
)

// RangeError describes an out-of-range cell index in a distribution line.
type RangeError struct {
	// Path is the distribution file.
	Path string
	// Line is the 1-based line number.
	Line int
	// Cell is the offending cell index.
	Cell int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s:%d: invalid cell number %d", e.Path, e.Line, e.Cell)
}

// Unwrap returns ErrCellRange.
func (e *RangeError) Unwrap() error { return ErrCellRange }

// Record describes one fragment distribution: a 1-based inclusive cell
// range with a stride, and the value consumed for each output frame index.
// A record whose Values are exhausted at a frame index contributes nothing
// to that frame.
type Record struct {
	First, Last, Step int
	Values            []genome.Value
}

// Table is the ordered distribution list. Order matters only in that later
// records overwrite earlier ones on overlapping cells during synthesis.
type Table []Record

// LongestSequence returns the maximum value-sequence length over all
// records, 0 for an empty table.
func (t Table) LongestSequence() int {
	longest := 0
	for _, r := range t {
		if len(r.Values) > longest {
			longest = len(r.Values)
		}
	}
	return longest
}

// Load builds the distribution table from the file at path. Each
// definition line has the form
//
//	first[,last[,step]] $ fragment[,fragment...]
//
// Lines without a '$' delimiter are ignored. Omitted last defaults to
// first, omitted step to 1, and first is range-checked against
// cellsPerFrame. Every referenced fragment must already be defined in
// store; their expansions are concatenated in list order.
func Load(path string, store *genome.Store, cellsPerFrame int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening distribution file: %w", err)
	}
	defer f.Close()

	var table Table
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if scan.IsSkippable(line) {
			continue
		}

		rangePart, fragPart, found := strings.Cut(line, "$")
		if !found {
			continue
		}

		record, err := parseRecord(rangePart, fragPart, store, cellsPerFrame, path, lineNo)
		if err != nil {
			return nil, err
		}
		table = append(table, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return table, nil
}

func parseRecord(rangePart, fragPart string, store *genome.Store, cellsPerFrame int, path string, lineNo int) (Record, error) {
	var record Record

	sc := scan.NewScanner(rangePart)
	first, _, err := sc.NextInt()
	if err != nil {
		return record, fmt.Errorf("%s:%d: %w", path, lineNo, err)
	}
	last, _, err := sc.NextInt()
	if err != nil {
		return record, fmt.Errorf("%s:%d: %w", path, lineNo, err)
	}
	step, _, err := sc.NextInt()
	if err != nil {
		return record, fmt.Errorf("%s:%d: %w", path, lineNo, err)
	}
	record.First, record.Last, record.Step = int(first), int(last), int(step)

	if record.First < 1 || record.First > cellsPerFrame {
		return record, &RangeError{Path: path, Line: lineNo, Cell: record.First}
	}
	if record.Last == 0 {
		record.Last = record.First
	}
	if record.Step == 0 {
		record.Step = 1
	}

	// A leading comma after the '$' is tolerated.
	fragPart = strings.TrimLeft(fragPart, " \t")
	fragPart = strings.TrimPrefix(fragPart, ",")

	fragScanner := scan.NewScanner(fragPart)
	for {
		name, ok := fragScanner.Next()
		if !ok {
			break
		}
		values, defined := store.Fragment(name)
		if !defined {
			return record, fmt.Errorf("%s:%d: %w %q", path, lineNo, ErrUnknownFragment, name)
		}
		record.Values = append(record.Values, values...)
	}
	return record, nil
}
