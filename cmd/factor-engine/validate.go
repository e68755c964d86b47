// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/factor-engine/internal/convert"
)

var validateCmd = &cobra.Command{
	Use:   "validate <datasets...>",
	Short: "Check tab-separated emission-factor files without converting",
	Long: `Validate parses tab-separated emission-factor files with the same rules
as convert but writes no output. Every unparseable row is reported. Unlike
convert, where skipped rows are informational, validate exits non-zero if
any row fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var bad int
	for _, path := range args {
		summary, err := convert.ValidateFile(path, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d rows, %d bad\n", path, summary.Total(), summary.Skipped)
		bad += summary.Skipped
	}
	if bad > 0 {
		return fmt.Errorf("%d bad row(s)", bad)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
