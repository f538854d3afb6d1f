package genome

import (
	"errors"
	"fmt"
)

// Errors returned by definition loading and symbol resolution.
var (
	// ErrDefinition indicates a malformed or conflicting definition.
	ErrDefinition = errors.New("definition error")

	// ErrUnresolvedSymbol indicates a symbol that names no known
	// nucleotide or fragment.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
)

// DefinitionError describes a problem in a definition file with enough
// context to locate the offending line.
type DefinitionError struct {
	// Path is the definition file being loaded, if known.
	Path string
	// Line is the 1-based line number, 0 when not applicable.
	Line int
	// Name is the offending symbol or definition name.
	Name string
	// Message describes the problem.
	Message string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s %q", e.Path, e.Line, e.Message, e.Name)
	}
	return fmt.Sprintf("%s %q", e.Message, e.Name)
}

// Unwrap returns the underlying sentinel error.
func (e *DefinitionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDefinition
}

func defErr(path string, line int, name, message string) *DefinitionError {
	return &DefinitionError{Path: path, Line: line, Name: name, Message: message, Err: ErrDefinition}
}

func unresolvedErr(path string, line int, name string) *DefinitionError {
	return &DefinitionError{Path: path, Line: line, Name: name, Message: "unknown fragment/nucleotide", Err: ErrUnresolvedSymbol}
}
