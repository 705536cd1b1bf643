// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/pdf2md/internal/container"
)

// MarkitdownBackend converts PDFs by piping them through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type MarkitdownBackend struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownBackend verifies that image exists in rt and returns a
// backend that runs it.
func NewMarkitdownBackend(ctx context.Context, rt container.Runtime, image string) (*MarkitdownBackend, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownBackend{runtime: rt, image: image}, nil
}

func (m *MarkitdownBackend) Name() string { return "markitdown" }

// Convert streams pdf into the container and returns its stdout.
func (m *MarkitdownBackend) Convert(ctx context.Context, pdf []byte) (string, error) {
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, bytes.NewReader(pdf), &out); err != nil {
		return "", err
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w from %s", ErrEmptyOutput, m.image)
	}
	return out.String(), nil
}
