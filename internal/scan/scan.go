// Package scan provides tokenization for the line-oriented pattern
// definition files: whitespace/comma/equals delimited tokens and
// scaled-integer parsing with Verilog-style underscores and K/M/G
// size suffixes.
package scan

import (
	"fmt"
	"strconv"
	"strings"
)

// Scanner walks a single line of text and hands out tokens one at a time.
// The zero value is not usable; construct with NewScanner.
type Scanner struct {
	line string
	pos  int
}

// NewScanner returns a scanner positioned at the start of line.
func NewScanner(line string) *Scanner {
	return &Scanner{line: line}
}

// isSpace reports whether c is a space or tab.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// isEOL reports whether c terminates a line. Carriage returns are treated
// as line endings so files with CRLF endings parse cleanly.
func isEOL(c byte) bool {
	return c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	return c == ',' || c == '='
}

// Next extracts the next token from the line. It skips leading whitespace,
// stops at whitespace, comma, equals, or end of line, then consumes any
// trailing whitespace plus at most one comma or equals separator. The
// second return value is false when no token remains; this is distinct
// from an empty token.
func (s *Scanner) Next() (string, bool) {
	for s.pos < len(s.line) && isSpace(s.line[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.line) || isEOL(s.line[s.pos]) {
		return "", false
	}

	start := s.pos
	for s.pos < len(s.line) {
		c := s.line[s.pos]
		if isSpace(c) || isEOL(c) || isDelim(c) {
			break
		}
		s.pos++
	}
	token := s.line[start:s.pos]

	for s.pos < len(s.line) && isSpace(s.line[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.line) && isDelim(s.line[s.pos]) {
		s.pos++
	}
	return token, true
}

// NextInt extracts the next token and converts it with ParseScaled.
// A missing token yields (0, false, nil), matching the convention that
// omitted trailing fields default to zero.
func (s *Scanner) NextInt() (int64, bool, error) {
	token, ok := s.Next()
	if !ok {
		return 0, false, nil
	}
	v, err := ParseScaled(token)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// IsSkippable reports whether line is blank or a full-line comment.
// Comments start with '#' or '//' after optional leading whitespace.
func IsSkippable(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || isEOL(trimmed[0]) {
		return true
	}
	if trimmed[0] == '#' {
		return true
	}
	return strings.HasPrefix(trimmed, "//")
}

// ParseScaled converts a numeric string to an int64. Underscore digit
// separators are stripped, a 0x/0X prefix selects hex, and a trailing
// K, M, or G suffix scales the value by 1024, 1024^2, or 1024^3.
// Any other trailing letter outside the number's digit set is an error.
func ParseScaled(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if cleaned == "" {
		return 0, nil
	}

	var multiplier int64
	last := cleaned[len(cleaned)-1]
	switch {
	case last >= '0' && last <= '9':
		multiplier = 1
	case last >= 'a' && last <= 'f', last >= 'A' && last <= 'F':
		multiplier = 1
	case last == 'K':
		multiplier = 1024
	case last == 'M':
		multiplier = 1024 * 1024
	case last == 'G':
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("invalid suffix on %q", s)
	}
	if multiplier > 1 {
		cleaned = cleaned[:len(cleaned)-1]
	}

	base := 10
	if strings.HasPrefix(cleaned, "0x") || strings.HasPrefix(cleaned, "0X") {
		base = 16
		cleaned = cleaned[2:]
	}
	value, err := strconv.ParseInt(cleaned, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return value * multiplier, nil
}
