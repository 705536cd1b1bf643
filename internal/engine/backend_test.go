// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	imageErr error
	runErr   error
	stdout   string
	stdin    []byte
}

func (f *fakeRuntime) Name() string                     { return "fake" }
func (f *fakeRuntime) Available(_ context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, _ string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	f.stdin, _ = io.ReadAll(stdin)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.stdout)
	return err
}

func TestNewMarkitdownBackend_ImageMissing(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	_, err := NewMarkitdownBackend(context.Background(), rt, "markitdown:latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in fake")
}

func TestMarkitdownBackend_Convert(t *testing.T) {
	tests := []struct {
		name    string
		rt      *fakeRuntime
		want    string
		wantErr bool
	}{
		{"output", &fakeRuntime{stdout: "# Doc\n"}, "# Doc\n", false},
		{"run fails", &fakeRuntime{runErr: errors.New("exit status 1")}, "", true},
		{"no output", &fakeRuntime{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewMarkitdownBackend(context.Background(), tt.rt, "img")
			require.NoError(t, err)

			got, err := b.Convert(context.Background(), []byte("%PDF-1.4 data"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "%PDF-1.4 data", string(tt.rt.stdin))
		})
	}
}

// buildPDF writes a minimal PDF with one Helvetica text line per page and
// a correct classic xref table.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestPDFTextBackend_Convert(t *testing.T) {
	b := NewPDFTextBackend()
	md, err := b.Convert(context.Background(), buildPDF("Hello first", "", "Third page"))
	require.NoError(t, err)

	assert.Contains(t, md, "<!-- page 1 -->")
	assert.Contains(t, md, "Hello")
	assert.NotContains(t, md, "<!-- page 2 -->")
	assert.Contains(t, md, "<!-- page 3 -->")
	assert.Contains(t, md, "Third")
	assert.Less(t, strings.Index(md, "page 1"), strings.Index(md, "page 3"))
}

func TestPDFTextBackend_NoText(t *testing.T) {
	_, err := NewPDFTextBackend().Convert(context.Background(), buildPDF(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestPDFTextBackend_Malformed(t *testing.T) {
	_, err := NewPDFTextBackend().Convert(context.Background(), []byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

func TestPDFTextBackend_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFTextBackend().Convert(ctx, buildPDF("text"))
	assert.ErrorIs(t, err, context.Canceled)
}
