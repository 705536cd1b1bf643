// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

const tempPattern = "pdf2md-*"

// TempFiles materializes in-memory bytes as a file for the duration of a
// callback.
type TempFiles interface {
	// With writes data to a new uniquely named file ending in suffix,
	// calls fn with its path and removes the file when fn returns or
	// panics. fn's error is returned unchanged.
	With(data []byte, suffix string, fn func(path string) error) error
}

// TempDir is the default TempFiles, creating files in Dir (os.TempDir when
// empty). Removal failures are logged to Logger and never returned.
type TempDir struct {
	Dir    string
	Logger *slog.Logger
}

// With implements TempFiles.
func (t TempDir) With(data []byte, suffix string, fn func(path string) error) error {
	path, err := t.create(data, suffix)
	if err != nil {
		return err
	}
	defer t.remove(path)

	return fn(path)
}

func (t TempDir) create(data []byte, suffix string) (string, error) {
	f, err := os.CreateTemp(t.Dir, tempPattern+suffix)
	if err != nil {
		return "", &ConversionError{Message: fmt.Sprintf("creating temporary file: %v", err), Err: err}
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		t.remove(path)
		return "", &ConversionError{Message: fmt.Sprintf("writing temporary file: %v", err), Err: err}
	}
	if err := f.Close(); err != nil {
		t.remove(path)
		return "", &ConversionError{Message: fmt.Sprintf("closing temporary file: %v", err), Err: err}
	}
	return path, nil
}

func (t TempDir) remove(path string) {
	if err := RemoveTemp(path); err != nil {
		logger := t.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("removing temporary file", "path", path, "error", err)
	}
}

// RemoveTemp deletes path. A path that is already gone is not an error.
func RemoveTemp(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
