// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Factor is one emission-factor record. The JSON key casing is uneven on
// purpose: the upstream datasets capitalize EmissionFactor while the three
// text keys are lowerCamel, and the converted documents must match them
// byte for byte.
type Factor struct {
	// CountryOfOrigin is an opaque country identifier (e.g. "USA").
	CountryOfOrigin string `json:"countryOfOrigin" yaml:"countryOfOrigin"`

	// MaterialClass is an opaque category label (e.g. "steel").
	MaterialClass string `json:"materialClass" yaml:"materialClass"`

	// SpecificMaterial is an opaque sub-category label (e.g. "sheet").
	SpecificMaterial string `json:"specificMaterial" yaml:"specificMaterial"`

	// EmissionFactor is the numeric emission factor parsed from the
	// source text. Always a JSON number in converted output, never a string.
	EmissionFactor float64 `json:"EmissionFactor" yaml:"EmissionFactor"`
}

// Dataset holds metadata for one converted dataset file tracked by the store.
type Dataset struct {
	// ID is a slug derived from the dataset filename (e.g. "ecoinvent-2024").
	ID string `json:"id" yaml:"id"`

	// SourceFile is the converted JSON file the factors were ingested from.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// ConvertedAt is the modification time of the source file at ingest.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
