// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/engine"
	"github.com/pdiddy/pdf2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or urls...]",
	Short: "Convert PDF files or URLs to Markdown",
	Long: `Convert runs each argument through the conversion engine. Arguments
starting with http:// or https:// are fetched by the engine; anything else
must be a PDF on disk. Each result is written to <out-dir>/<name>.md, where
name is the file name or last URL segment without its extension.

The engine is created on the first item that needs it, so a batch where
every item is skipped never starts a container. A failed item does not
stop the batch; the command exits non-zero if any item failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out-dir", ".", "directory for Markdown output")
	convertCmd.Flags().Bool("stdout", false, "write Markdown to stdout instead of files")
	convertCmd.Flags().Bool("skip-existing", false, "skip items whose output file already exists")
	convertCmd.Flags().Bool("frontmatter", false, "prepend YAML front matter (source, converted_at)")
	bindFlag("convert.frontmatter", convertCmd.Flags().Lookup("frontmatter"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	skip, _ := cmd.Flags().GetBool("skip-existing")

	opts := convert.BatchOptions{OutDir: outDir, SkipExisting: skip}
	if toStdout {
		opts.Stdout = cmd.OutOrStdout()
	}

	wf := convert.NewWorkflow(convert.NewSession(engineFactory(cfg.Engine)), cfg.Conversion)
	result := convert.ConvertBatch(cmd.Context(), wf, args, opts, os.Stderr)
	if result.HasFailures() {
		return fmt.Errorf("%d item(s) failed conversion", result.Failed)
	}
	return nil
}

// engineFactory defers engine.New until a conversion needs it.
func engineFactory(cfg types.EngineConfig) convert.Factory {
	return func(ctx context.Context) (convert.Engine, error) {
		eng, err := engine.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return eng, nil
	}
}
