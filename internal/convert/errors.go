// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

// ErrNoInput is returned when neither an upload nor a URL was given. It is
// a warning for the user, not a failure of the system.
var ErrNoInput = errors.New("no input provided")

// ConversionError reports a failed conversion attempt. Message is meant for
// the user; Err keeps the underlying cause for errors.Is and errors.As.
type ConversionError struct {
	Message string
	Err     error
}

func (e *ConversionError) Error() string { return e.Message }

func (e *ConversionError) Unwrap() error { return e.Err }
