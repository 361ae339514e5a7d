package main

import (
	"errors"
	"fmt"
)

// Exit codes for cfmt.
const (
	// ExitSuccess indicates that every file was formatted or already well
	// formatted.
	ExitSuccess = 0

	// ExitChanges indicates that --check found files needing formatting.
	ExitChanges = 1

	// ExitFormatErrors indicates that some files could not be formatted.
	ExitFormatErrors = 2

	// ExitUsage indicates invalid command-line usage.
	ExitUsage = 64

	// ExitConfigError indicates a broken cfmt.toml or style file.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// exitError carries the status a command wants the process to exit with. A
// nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withExit(code int, err error) error {
	return &exitError{code: code, err: err}
}

func usageErrorf(format string, args ...any) error {
	return withExit(ExitUsage, fmt.Errorf(format, args...))
}

// errChanges is returned by a --check run that found unformatted files.
var errChanges = errors.New("formatting changes required")
