// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/factor-engine/internal/convert"
	"github.com/pdiddy/factor-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [datasets...]",
	Short: "Convert tab-separated emission-factor files to JSON",
	Long: `Convert transforms tab-separated emission-factor files (four fields per
row: country of origin, material class, specific material, emission factor;
no header) into pretty-printed JSON arrays. Rows whose emission-factor field
is not numeric are skipped with a diagnostic on stderr; skipped rows never
fail the run.

With --output, converts a single input file to the given destination. Without
it, each input becomes [data-dir]/converted/[name].json. With --batch, all
.tsv files under [data-dir]/raw/ are converted.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := types.ConvertConfig{
		DataDir: stringSetting(cmd, "data-dir", "convert.data_dir"),
		Indent:  intSetting(cmd, "indent", "convert.indent"),
	}
	output, _ := cmd.Flags().GetString("output")
	batch, _ := cmd.Flags().GetBool("batch")

	if output != "" {
		if batch || len(args) != 1 {
			return fmt.Errorf("--output requires exactly one input file")
		}
		summary, err := convert.ConvertFile(args[0], output, cfg.Indent, os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("converted %s: %d rows, %d skipped\n", args[0], summary.Converted, summary.Skipped)
		return nil
	}

	paths := args
	if batch {
		if len(args) > 0 {
			return fmt.Errorf("--batch takes no file arguments")
		}
		matches, err := filepath.Glob(filepath.Join(cfg.DataDir, "raw", "*.tsv"))
		if err != nil {
			return err
		}
		paths = matches
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files: pass dataset paths or use --batch")
	}

	outDir := filepath.Join(cfg.DataDir, "converted")
	result := convert.ConvertBatch(paths, outDir, cfg.Indent, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "destination path for a single converted file")
	convertCmd.Flags().String("data-dir", "data", "base directory for datasets (contains raw/, converted/)")
	convertCmd.Flags().Int("indent", convert.DefaultIndent, "spaces per indentation level in JSON output")
	convertCmd.Flags().Bool("batch", false, "convert all .tsv files in [data-dir]/raw/")

	rootCmd.AddCommand(convertCmd)
}
