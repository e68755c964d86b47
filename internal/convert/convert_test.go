// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/factor-engine/pkg/types"
)

func TestReadFactors(t *testing.T) {
	input := "USA\tsteel\tsheet\t1.23\n" +
		"USA\tsteel\tsheet\tN/A\n" +
		"\n" +
		"CHN\tconcrete\tprecast\t0.9\r\n"

	var diag bytes.Buffer
	factors, summary, err := ReadFactors(strings.NewReader(input), &diag)
	if err != nil {
		t.Fatalf("ReadFactors returned error: %v", err)
	}

	if summary.Converted != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 2 converted, 1 skipped", summary)
	}
	if summary.Total() != 3 {
		t.Errorf("total = %d, want 3", summary.Total())
	}
	if !summary.HasSkips() {
		t.Error("HasSkips should be true")
	}

	// Accepted rows keep their relative input order.
	want := []types.Factor{
		{CountryOfOrigin: "USA", MaterialClass: "steel", SpecificMaterial: "sheet", EmissionFactor: 1.23},
		{CountryOfOrigin: "CHN", MaterialClass: "concrete", SpecificMaterial: "precast", EmissionFactor: 0.9},
	}
	if len(factors) != len(want) {
		t.Fatalf("got %d factors, want %d", len(factors), len(want))
	}
	for i := range want {
		if factors[i] != want[i] {
			t.Errorf("factors[%d] = %+v, want %+v", i, factors[i], want[i])
		}
	}

	if !strings.Contains(diag.String(), "N/A") {
		t.Errorf("diagnostic %q should name the skipped row's fields", diag.String())
	}
	if strings.Contains(diag.String(), "CHN") {
		t.Errorf("diagnostic %q should not mention accepted rows", diag.String())
	}
}

func TestReadFactorsEmptyInput(t *testing.T) {
	var diag bytes.Buffer
	factors, summary, err := ReadFactors(strings.NewReader(""), &diag)
	if err != nil {
		t.Fatalf("ReadFactors returned error: %v", err)
	}
	if factors == nil {
		t.Fatal("factors should be an empty slice, not nil, so the document serializes as []")
	}
	if len(factors) != 0 || summary.Total() != 0 {
		t.Errorf("got %d factors, summary %+v; want none", len(factors), summary)
	}
}

func TestConvertFile(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "factors.tsv")
	outPath := filepath.Join(tmpDir, "factors.json")

	input := "USA\tsteel\tsheet\t1.23\n" +
		"USA\tsteel\tsheet\tN/A\n"
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	summary, err := ConvertFile(inPath, outPath, 0, &diag)
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if summary.Converted != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 converted, 1 skipped", summary)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)

	// Default indentation is four spaces.
	if !strings.Contains(content, "\n    {") {
		t.Errorf("output should be indented with 4 spaces:\n%s", content)
	}
	// Fixed key order, capitalized EmissionFactor, numeric value.
	for _, want := range []string{
		`"countryOfOrigin": "USA"`,
		`"materialClass": "steel"`,
		`"specificMaterial": "sheet"`,
		`"EmissionFactor": 1.23`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
	if strings.Index(content, "countryOfOrigin") > strings.Index(content, "EmissionFactor") {
		t.Error("countryOfOrigin should precede EmissionFactor in the output")
	}
	if strings.Contains(content, "N/A") {
		t.Error("skipped row leaked into the output")
	}

	// Round-trip: the numeric field decodes as a number, not a string.
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d objects, want 1", len(decoded))
	}
	if v, ok := decoded[0]["EmissionFactor"].(float64); !ok || v != 1.23 {
		t.Errorf("EmissionFactor = %#v, want float64 1.23", decoded[0]["EmissionFactor"])
	}
}

func TestConvertFileEmptyInput(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "empty.tsv")
	outPath := filepath.Join(tmpDir, "empty.json")
	if err := os.WriteFile(inPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	if _, err := ConvertFile(inPath, outPath, 0, &diag); err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("empty input should produce [], got %q", got)
	}
}

func TestConvertFileMissingInput(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "out.json")

	var diag bytes.Buffer
	_, err := ConvertFile(filepath.Join(tmpDir, "missing.tsv"), outPath, 0, &diag)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("no output file should be created when the input is unreadable")
	}
}

func TestConvertFileOverwritesDestination(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "in.tsv")
	outPath := filepath.Join(tmpDir, "out.json")
	if err := os.WriteFile(inPath, []byte("USA\tsteel\tsheet\t1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(outPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	if _, err := ConvertFile(inPath, outPath, 0, &diag); err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("destination should be overwritten")
	}
}

func TestValidateFile(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "factors.tsv")
	input := "USA\tsteel\tsheet\t1.23\n" +
		"USA\tsteel\tsheet\tN/A\n"
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	summary, err := ValidateFile(inPath, &diag)
	if err != nil {
		t.Fatalf("ValidateFile returned error: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}

	// Validation writes no output files.
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("validate should not create files, dir has %d entries", len(entries))
	}
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	rawDir := filepath.Join(tmpDir, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// a converts, b is pre-existing, c is missing on disk.
	if err := os.WriteFile(filepath.Join(rawDir, "a.tsv"), []byte("USA\tsteel\tsheet\t1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rawDir, "b.tsv"), []byte("CHN\tconcrete\tprecast\t0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(tmpDir, "converted")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "b.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths := []string{
		filepath.Join(rawDir, "a.tsv"),
		filepath.Join(rawDir, "b.tsv"),
		filepath.Join(rawDir, "c.tsv"),
	}

	var log bytes.Buffer
	result := ConvertBatch(paths, outDir, 0, &log)

	if result.Converted != 1 {
		t.Errorf("converted = %d, want 1", result.Converted)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}

	if _, err := os.Stat(filepath.Join(outDir, "a.json")); err != nil {
		t.Errorf("expected converted output for a: %v", err)
	}
	if !strings.Contains(log.String(), "Batch summary:") {
		t.Error("batch output should contain summary line")
	}
}
