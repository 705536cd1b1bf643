// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion failures.
var (
	ErrNotPDF      = errors.New("not a PDF document")
	ErrEmptyOutput = errors.New("conversion produced empty output")
)

// InitError reports that the engine could not be initialized. No
// conversion can run without an engine, so callers treat it as fatal.
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("creating %s converter: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
