// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factordb

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/factor-engine/pkg/types"
)

// QueryOptions holds parameters for factor queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string matched against the
	// country, material class, and specific material columns.
	Query string

	// Country filters by exact country-of-origin.
	Country string

	// MaterialClass filters by exact material class.
	MaterialClass string

	// SpecificMaterial filters by exact specific material.
	SpecificMaterial string

	// DatasetID filters by dataset.
	DatasetID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Country == "" && q.MaterialClass == "" &&
		q.SpecificMaterial == "" && q.DatasetID == ""
}

// QueryResult is a Factor with its dataset provenance.
type QueryResult struct {
	types.Factor `yaml:",inline"`
	DatasetID    string `json:"dataset_id" yaml:"dataset_id"`
	Seq          int    `json:"seq" yaml:"seq"`
}

// Retrieve queries the factor index with optional full-text search and
// structured filters. Full-text queries are ranked by relevance; structured
// queries are ordered by dataset and original row position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT f.dataset_id, f.seq, f.country_of_origin, f.material_class,
				f.specific_material, f.emission_factor
			FROM factors_fts
			JOIN factors f ON f.rowid = factors_fts.rowid
			WHERE factors_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT f.dataset_id, f.seq, f.country_of_origin, f.material_class,
				f.specific_material, f.emission_factor
			FROM factors f
			WHERE 1=1`)
	}

	if opts.Country != "" {
		qb.WriteString(` AND f.country_of_origin = ?`)
		args = append(args, opts.Country)
	}

	if opts.MaterialClass != "" {
		qb.WriteString(` AND f.material_class = ?`)
		args = append(args, opts.MaterialClass)
	}

	if opts.SpecificMaterial != "" {
		qb.WriteString(` AND f.specific_material = ?`)
		args = append(args, opts.SpecificMaterial)
	}

	if opts.DatasetID != "" {
		qb.WriteString(` AND f.dataset_id = ?`)
		args = append(args, opts.DatasetID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY factors_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY f.dataset_id, f.seq`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying factor index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var qr QueryResult
		if err := rows.Scan(
			&qr.DatasetID, &qr.Seq, &qr.CountryOfOrigin, &qr.MaterialClass,
			&qr.SpecificMaterial, &qr.EmissionFactor,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}
