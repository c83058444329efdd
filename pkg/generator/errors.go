package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrWrite is matched by every *WriteError. A write failure aborts the run.
	ErrWrite = errors.New("write failed")
	// ErrSchema reports that the table list could not be loaded.
	ErrSchema = errors.New("schema unavailable")
)

// FileError is a per-file failure. It is recorded in the Report and the run
// continues with the next file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// WriteError is an unrecoverable output failure (disk full, permission denied).
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
