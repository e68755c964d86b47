// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// DataDir is the base directory for datasets (contains raw/, converted/, index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Indent is the number of spaces per indentation level in converted
	// JSON output (default 4).
	Indent int `json:"indent" yaml:"indent"`
}

// StoreConfig holds settings for the factor store stage.
type StoreConfig struct {
	// DataDir is the base directory for datasets (contains converted/, index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExportFormat selects the export output format.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// DataDir is the base directory for datasets (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Format selects the export format: yaml or json.
	Format ExportFormat `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}
