package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration loading.
var (
	// ErrValidation indicates a configuration value that fails validation.
	ErrValidation = errors.New("config validation failed")

	// ErrTypeMismatch indicates a value whose TOML type doesn't match the
	// expected type.
	ErrTypeMismatch = errors.New("config type mismatch")
)

// ParseError represents an error while parsing the configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes a configuration value that fails validation.
type ValidationError struct {
	// Key is the configuration key.
	Key string
	// Message describes the problem.
	Message string
	// Value is the offending value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("config %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("config %s: %s (value: %v)", e.Key, e.Message, e.Value)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }
