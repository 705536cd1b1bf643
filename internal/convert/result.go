// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"time"
)

// Status is the terminal state of one conversion request.
type Status int

const (
	StatusSucceeded Status = iota + 1
	StatusFailed
	StatusWarned
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusWarned:
		return "warned"
	default:
		return "unknown"
	}
}

// Result is the outcome of one request, handed once to a presenter.
type Result struct {
	Status Status

	// Markdown and Filename are set when Status is StatusSucceeded.
	Markdown string
	Filename string

	Source Source

	// URLIgnored is set when both an upload and a URL were submitted.
	URLIgnored bool

	// Err is ErrNoInput for StatusWarned and the failure for StatusFailed.
	Err error

	Duration time.Duration
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSucceeded
}

// Message is the user-facing text for a warning or failure.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	var ce *ConversionError
	if errors.As(r.Err, &ce) {
		return ce.Message
	}
	return r.Err.Error()
}
