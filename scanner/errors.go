package scanner

import (
	"errors"
	"fmt"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrNotDirectory = errors.New("not a directory")
)

// RootPathError is returned when the scan root cannot be used. It is the only fatal scan error.
type RootPathError struct {
	Path string
	Err  error
}

func (e *RootPathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Path)
}

func (e *RootPathError) Unwrap() error {
	return e.Err
}
