package errors

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Sentinel errors shared by the transcript, store and agent packages. Callers
// compare with Is; the concrete errors carry location context via Wrapf.
var (
	ErrNotFound         = stderrors.New("file not found")
	ErrPermissionDenied = stderrors.New("permission denied")
	ErrIO               = stderrors.New("i/o failure")
	ErrInvalidFile      = stderrors.New("invalid conversation file")
	ErrInvalidName      = stderrors.New("invalid file name")
	ErrReachedBeginning = stderrors.New("reached the beginning of the conversation")
	ErrEmptyHistory     = stderrors.New("no conversation history")
)

// New creates a new error with file and line number information.
func New(format string, a ...interface{}) error {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}
	return fmt.Errorf("[%s:%d] %s", file, line, fmt.Sprintf(format, a...))
}

// Wrapf adds context (including file and line number) to an existing error.
// If the provided error is nil, Wrapf returns nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}
	return fmt.Errorf("[%s:%d] %s: %w", file, line, fmt.Sprintf(format, a...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }
