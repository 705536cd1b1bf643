// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the upload-or-URL conversion workflow: it
// resolves what the user submitted into a Source, materializes uploads as
// transient files, invokes the conversion engine and packages the outcome
// as a Result for a presenter (the web form or the CLI).
package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pdf2md/internal/engine"
)

// SourceKind tags a Source.
type SourceKind int

const (
	// SourceLocalPath is a PDF on the local filesystem. For uploads the
	// path is filled in once the transient file exists.
	SourceLocalPath SourceKind = iota + 1

	// SourceRemoteURL is a URL handed to the engine unchanged.
	SourceRemoteURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceLocalPath:
		return "local"
	case SourceRemoteURL:
		return "url"
	default:
		return "unknown"
	}
}

// Upload is a PDF received in memory, typically from a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// Source is the normalized answer to "what should be converted".
type Source struct {
	Kind SourceKind

	// Value is the filesystem path or the URL. It is empty for an upload
	// that has not been written to a transient file yet.
	Value string

	// Filename is the original upload name, used to name the output.
	Filename string

	data []byte
}

// FromUpload reports whether the source still needs a transient file.
func (s Source) FromUpload() bool {
	return s.Kind == SourceLocalPath && s.data != nil
}

// Display returns a short human-readable label for logs and front matter.
func (s Source) Display() string {
	if s.Filename != "" {
		return s.Filename
	}
	return s.Value
}

// Resolve turns a form submission into a Source. An upload always wins
// over a URL; with neither, it returns ErrNoInput.
func Resolve(upload *Upload, rawURL string) (Source, error) {
	if upload != nil {
		data := upload.Data
		if data == nil {
			data = []byte{}
		}
		return Source{Kind: SourceLocalPath, Filename: upload.Filename, data: data}, nil
	}

	if u := strings.TrimSpace(rawURL); u != "" {
		return Source{Kind: SourceRemoteURL, Value: u}, nil
	}

	return Source{}, ErrNoInput
}

// ResolveArg turns a command-line argument into a Source. http and https
// arguments are URLs; anything else must name an existing file, which is
// converted in place without a transient copy.
func ResolveArg(arg string) (Source, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Source{}, ErrNoInput
	}

	if engine.IsURL(arg) {
		return Source{Kind: SourceRemoteURL, Value: arg}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return Source{}, &ConversionError{Message: fmt.Sprintf("cannot read %s", arg), Err: err}
	}
	if info.IsDir() {
		return Source{}, &ConversionError{Message: fmt.Sprintf("%s is a directory", arg)}
	}
	return Source{Kind: SourceLocalPath, Value: arg}, nil
}
