// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Outcome is the per-item result of a batch run.
type Outcome int

const (
	OutcomeConverted Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

// BatchOptions controls where batch output goes.
type BatchOptions struct {
	// OutDir receives one <name>.md per converted item.
	OutDir string

	// Stdout, when set, receives the Markdown instead of OutDir.
	Stdout io.Writer

	// SkipExisting leaves items alone whose output file already exists.
	SkipExisting bool
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of items processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any item failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertItem converts one command-line argument (a path or a URL) and
// writes the Markdown according to opts. Progress goes to log.
func ConvertItem(ctx context.Context, wf *Workflow, arg string, opts BatchOptions, log io.Writer) Outcome {
	src, err := ResolveArg(arg)
	if err != nil {
		fmt.Fprintf(log, "failed:  %s (%v)\n", arg, err)
		return OutcomeFailed
	}

	name := OutputFilename(src)
	mdPath := filepath.Join(opts.OutDir, name)

	if opts.Stdout == nil && opts.SkipExisting {
		if _, err := os.Stat(mdPath); err == nil {
			fmt.Fprintf(log, "skipped: %s (already exists)\n", name)
			return OutcomeSkipped
		}
	}

	res := wf.RunSource(ctx, src)
	if !res.OK() {
		fmt.Fprintf(log, "failed:  %s (%s)\n", arg, res.Message())
		return OutcomeFailed
	}

	if opts.Stdout != nil {
		if _, err := io.WriteString(opts.Stdout, res.Markdown); err != nil {
			fmt.Fprintf(log, "failed:  %s (%v)\n", arg, err)
			return OutcomeFailed
		}
		fmt.Fprintf(log, "converted: %s\n", arg)
		return OutcomeConverted
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			fmt.Fprintf(log, "failed:  %s (%v)\n", arg, err)
			return OutcomeFailed
		}
	}
	if err := os.WriteFile(mdPath, []byte(res.Markdown), 0o644); err != nil {
		fmt.Fprintf(log, "failed:  %s (%v)\n", arg, err)
		return OutcomeFailed
	}

	fmt.Fprintf(log, "converted: %s -> %s\n", arg, mdPath)
	return OutcomeConverted
}

// ConvertBatch converts each argument in order, printing per-item status
// to log and returning a summary. A failed item does not stop the batch.
func ConvertBatch(ctx context.Context, wf *Workflow, args []string, opts BatchOptions, log io.Writer) BatchResult {
	var result BatchResult
	for _, arg := range args {
		switch ConvertItem(ctx, wf, arg, opts, log) {
		case OutcomeConverted:
			result.Converted++
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(log, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
