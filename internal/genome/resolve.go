package genome

import (
	"fmt"
	"os"

	"github.com/quanterra/framegen/internal/scan"
)

// resolveToken expands one raw definition token into symbolic values.
//
// A token starting with a digit is a single integer literal. A token
// starting with '@' names a binary file whose bytes become one literal
// each. Anything else is scanned character by character: a parenthesized
// span is one compound name, any other character is its own name, and
// every name must already be a defined nucleotide (appended as
// adcPerNucleotide placeholders) or fragment (inlined).
func (s *Store) resolveToken(token string, adcPerNucleotide int, path string, lineNo int) ([]Value, error) {
	if token == "" {
		return nil, nil
	}

	if token[0] >= '0' && token[0] <= '9' {
		v, err := scan.ParseScaled(token)
		if err != nil {
			return nil, defErr(path, lineNo, token, "bad literal value")
		}
		return []Value{Lit(int(v))}, nil
	}

	if token[0] == '@' {
		return readValuesFromFile(token[1:])
	}

	var values []Value
	for i := 0; i < len(token); {
		var name string
		if token[i] == '(' {
			end := i + 1
			for end < len(token) && token[end] != ')' {
				end++
			}
			if end >= len(token) {
				return nil, defErr(path, lineNo, token, "unbalanced parenthesis in")
			}
			name = token[i+1 : end]
			i = end + 1
		} else {
			name = token[i : i+1]
			i++
		}

		if _, ok := s.nucleotides[name]; ok {
			for n := 0; n < adcPerNucleotide; n++ {
				values = append(values, Placeholder(name))
			}
			continue
		}
		if expanded, ok := s.fragments[name]; ok {
			values = append(values, expanded...)
			continue
		}
		return nil, unresolvedErr(path, lineNo, name)
	}
	return values, nil
}

// readValuesFromFile reads a binary file and returns one literal value
// per byte, in file order.
func readValuesFromFile(path string) ([]Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragment data file: %w", err)
	}
	values := make([]Value, len(data))
	for i, b := range data {
		values[i] = Lit(int(b))
	}
	return values, nil
}
