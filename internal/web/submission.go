// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/pdf2md/internal/convert"
)

const (
	fieldFile = "file"
	fieldURL  = "url"

	// formOverhead is allowed on top of the upload limit for multipart
	// boundaries and the other fields.
	formOverhead = 1 << 20
	memoryLimit  = 32 << 20
)

var pdfName = regexp.MustCompile(`(?i)\.pdf$`)

// requestError is a problem with the submitted form itself, reported
// before the conversion workflow runs.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

type uploadForm struct {
	Filename string `json:"file"`
	Size     int64  `json:"size"`
	MaxBytes int64  `json:"-"`
}

func (f uploadForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Filename, validation.Required, validation.Match(pdfName).Error("must be a PDF (.pdf) file")),
		validation.Field(&f.Size, validation.Max(f.MaxBytes).Error(fmt.Sprintf("must be at most %d bytes", f.MaxBytes))),
	)
}

// readSubmission extracts the optional upload and URL from a multipart or
// urlencoded request. A file part with no name and no content (a browser
// form submitted without choosing a file) counts as no upload.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (*convert.Upload, string, error) {
	maxBytes := s.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)

	if err := r.ParseMultipartForm(memoryLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("upload exceeds %d bytes", maxBytes)}
		}
		return nil, "", &requestError{status: http.StatusBadRequest, msg: "could not read form: " + err.Error()}
	}
	rawURL := r.FormValue(fieldURL)

	if r.MultipartForm == nil {
		return nil, rawURL, nil
	}
	file, header, err := r.FormFile(fieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, rawURL, nil
	}
	if err != nil {
		return nil, "", &requestError{status: http.StatusBadRequest, msg: "could not read upload: " + err.Error()}
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, rawURL, nil
	}

	form := uploadForm{Filename: header.Filename, Size: header.Size, MaxBytes: maxBytes}
	if err := form.Validate(); err != nil {
		status := http.StatusBadRequest
		if header.Size > maxBytes {
			status = http.StatusRequestEntityTooLarge
		}
		return nil, "", &requestError{status: status, msg: err.Error()}
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", &requestError{status: http.StatusBadRequest, msg: "could not read upload: " + err.Error()}
	}
	if int64(len(data)) > maxBytes {
		return nil, "", &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("upload exceeds %d bytes", maxBytes)}
	}

	return &convert.Upload{Filename: header.Filename, Data: data}, rawURL, nil
}
