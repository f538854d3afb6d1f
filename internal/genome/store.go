// Package genome holds the symbolic pattern definitions: nucleotides
// (named sets of candidate ADC levels) and fragments (named, pre-expanded
// sequences of symbolic values). Definitions resolve in file order;
// forward references are an error, which is what lets fragments be
// flattened once at definition time.
package genome

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/quanterra/framegen/internal/scan"
)

// Store is the immutable-after-build definition dictionary. Build it with
// LoadNucleotides followed by LoadFragments; afterwards only the read
// accessors are used.
type Store struct {
	nucleotides map[string][]int
	fragments   map[string][]Value
}

// NewStore returns an empty definition store.
func NewStore() *Store {
	return &Store{
		nucleotides: make(map[string][]int),
		fragments:   make(map[string][]Value),
	}
}

// Nucleotide returns the candidate ADC levels for name.
func (s *Store) Nucleotide(name string) ([]int, bool) {
	levels, ok := s.nucleotides[name]
	return levels, ok
}

// Fragment returns the expanded value sequence for name.
func (s *Store) Fragment(name string) ([]Value, bool) {
	values, ok := s.fragments[name]
	return values, ok
}

// FragmentNames returns all fragment names in sorted order.
func (s *Store) FragmentNames() []string {
	names := make([]string, 0, len(s.fragments))
	for name := range s.fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadNucleotides reads nucleotide definitions from path. Each definition
// line holds a single-character name followed by comma-separated integer
// ADC levels. A later definition for the same name replaces the earlier one.
func (s *Store) LoadNucleotides(path string) error {
	return eachDefinitionLine(path, func(lineNo int, line string) error {
		sc := scan.NewScanner(line)
		name, ok := sc.Next()
		if !ok {
			return nil
		}
		if len(name) != 1 {
			return defErr(path, lineNo, name, "illegal nucleotide name")
		}

		var levels []int
		for {
			token, ok := sc.Next()
			if !ok {
				break
			}
			v, err := scan.ParseScaled(token)
			if err != nil {
				return defErr(path, lineNo, token, "bad nucleotide value")
			}
			levels = append(levels, int(v))
		}
		s.nucleotides[name] = levels
		return nil
	})
}

// LoadFragments reads fragment definitions from path. Each value token is
// expanded through the symbol resolver at definition time, so stored
// fragments are flat sequences with no remaining fragment references.
// Bare nucleotide references inside a token expand to adcPerNucleotide
// placeholder values.
func (s *Store) LoadFragments(path string, adcPerNucleotide int) error {
	return eachDefinitionLine(path, func(lineNo int, line string) error {
		sc := scan.NewScanner(line)
		name, ok := sc.Next()
		if !ok {
			return nil
		}
		if _, exists := s.nucleotides[name]; exists {
			return defErr(path, lineNo, name, "fragment shares name with nucleotide")
		}

		var values []Value
		for {
			token, ok := sc.Next()
			if !ok {
				break
			}
			expanded, err := s.resolveToken(token, adcPerNucleotide, path, lineNo)
			if err != nil {
				return err
			}
			values = append(values, expanded...)
		}
		s.fragments[name] = values
		return nil
	})
}

// eachDefinitionLine applies fn to every non-blank, non-comment line of the
// file at path, carrying 1-based line numbers for error context.
func eachDefinitionLine(path string, fn func(lineNo int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening definition file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if scan.IsSkippable(line) {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
