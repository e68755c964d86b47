// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert transforms tab-separated emission-factor files into JSON
// documents. Input rows carry four positional fields with no header line;
// rows whose emission-factor field is not numeric are skipped with a
// diagnostic rather than aborting the run.
package convert

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/factor-engine/pkg/types"
)

// DefaultIndent is the indentation width for converted JSON documents.
const DefaultIndent = 4

// Summary holds per-file row counts from a conversion or validation run.
type Summary struct {
	Converted int
	Skipped   int
}

// Total returns the number of non-blank input rows processed.
func (s Summary) Total() int {
	return s.Converted + s.Skipped
}

// HasSkips reports whether any rows failed to parse.
func (s Summary) HasSkips() bool {
	return s.Skipped > 0
}

// ReadFactors streams tab-separated rows from r, parsing each into a Factor.
// Unparseable rows are skipped whole: a diagnostic naming the row's original
// field values goes to w and the run continues. Blank lines are ignored.
// The returned slice preserves input order and is never nil, so an empty
// input serializes as [] rather than null.
func ReadFactors(r io.Reader, w io.Writer) ([]types.Factor, Summary, error) {
	factors := make([]types.Factor, 0)
	var summary Summary

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		factor, err := ParseRow(line, lineNum)
		if err != nil {
			fmt.Fprintf(w, "skipping %v\n", err)
			summary.Skipped++
			continue
		}

		factors = append(factors, factor)
		summary.Converted++
	}

	if err := scanner.Err(); err != nil {
		return nil, summary, fmt.Errorf("reading input: %w", err)
	}
	return factors, summary, nil
}

// ConvertFile converts the tab-separated file at inPath into a pretty-printed
// JSON array at outPath, overwriting any existing file. Row-level parse
// failures are diagnosed on w and never fail the run; an unreadable input or
// unwritable output is fatal and leaves any existing destination untouched.
// An indent of zero or less uses DefaultIndent.
func ConvertFile(inPath, outPath string, indent int, w io.Writer) (Summary, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}

	in, err := os.Open(inPath)
	if err != nil {
		return Summary{}, fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	factors, summary, err := ReadFactors(in, w)
	if err != nil {
		return summary, fmt.Errorf("reading %s: %w", inPath, err)
	}

	data, err := json.MarshalIndent(factors, "", strings.Repeat(" ", indent))
	if err != nil {
		return summary, fmt.Errorf("marshaling %s: %w", outPath, err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return summary, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return summary, nil
}

// ValidateFile parses the tab-separated file at inPath without writing any
// output, reporting each bad row on w. The caller decides whether skipped
// rows are an error; an unreadable input always is.
func ValidateFile(inPath string, w io.Writer) (Summary, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Summary{}, fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	_, summary, err := ReadFactors(in, w)
	if err != nil {
		return summary, fmt.Errorf("reading %s: %w", inPath, err)
	}
	return summary, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each tab-separated file in tsvPaths into
// outDir/[base].json, printing per-file status to w and returning a summary.
// Files whose JSON output already exists are skipped.
func ConvertBatch(tsvPaths []string, outDir string, indent int, w io.Writer) BatchResult {
	var result BatchResult

	for _, p := range tsvPaths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		outPath := filepath.Join(outDir, base+".json")

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
			result.Skipped++
			continue
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		summary, err := ConvertFile(p, outPath, indent, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "converted: %s (%d rows, %d skipped)\n", base, summary.Converted, summary.Skipped)
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
