// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

type frontmatter struct {
	Source      string `yaml:"source"`
	ConvertedAt string `yaml:"converted_at"`
}

// addFrontmatter prepends YAML front matter describing the conversion.
func addFrontmatter(src Source, body string, at time.Time) (string, error) {
	meta, err := yaml.Marshal(frontmatter{
		Source:      src.Display(),
		ConvertedAt: at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
