// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/factor-engine/internal/factordb"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the factor store with full-text search and filters",
	Long: `Query searches the factor store using FTS5 full-text search over the
country, material class, and specific material columns, structured filters
(--country, --class, --material, --dataset), or a combination of both.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := factordb.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --country, --class, --material, or --dataset")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []factordb.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-16s  %-24s  %-20s  %s\n",
		"Rank", "Country", "Class", "Material", "Dataset", "Factor")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for i, r := range results {
		material := r.SpecificMaterial
		if len(material) > 24 {
			material = material[:21] + "..."
		}
		dataset := r.DatasetID
		if len(dataset) > 20 {
			dataset = dataset[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-16s  %-24s  %-20s  %g\n",
			i+1, r.CountryOfOrigin, r.MaterialClass, material, dataset, r.EmissionFactor)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	queryCmd.Flags().String("data-dir", "data", "base directory for datasets (contains index/)")
	queryCmd.Flags().Int("max-results", 20, "default maximum number of query results")
	queryCmd.Flags().String("query", "", "full-text search query")
	queryCmd.Flags().String("country", "", "filter by country of origin")
	queryCmd.Flags().String("class", "", "filter by material class")
	queryCmd.Flags().String("material", "", "filter by specific material")
	queryCmd.Flags().String("dataset", "", "filter by dataset ID")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}
