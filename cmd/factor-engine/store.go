// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/factor-engine/internal/factordb"
	"github.com/pdiddy/factor-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index converted datasets into the factor store",
	Long: `Store reads converted dataset JSON files from [data-dir]/converted/,
ingests them into a SQLite database with FTS5 indexing, and refreshes the
export file. Unchanged datasets are skipped on subsequent runs; changed
files replace their previous rows.

With --list, prints the datasets already indexed instead of ingesting.`,
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	store, err := factordb.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if list, _ := cmd.Flags().GetBool("list"); list {
		return listDatasets(store)
	}

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d dataset(s) failed indexing", summary.Failed)
	}
	return nil
}

func listDatasets(store *factordb.Store) error {
	datasets, err := store.Datasets(context.Background())
	if err != nil {
		return err
	}

	if len(datasets) == 0 {
		fmt.Println("No datasets indexed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-28s  %s\n", "Dataset", "Source", "Converted")
	for _, d := range datasets {
		fmt.Fprintf(os.Stdout, "%-24s  %-28s  %s\n",
			d.ID, d.SourceFile, d.ConvertedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(os.Stdout, "\n%d dataset(s)\n", len(datasets))
	return nil
}

// --- shared helpers ---

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dataDir := stringSetting(cmd, "data-dir", "store.data_dir")
	if dataDir == "" {
		dataDir = "data"
	}
	maxResults := intSetting(cmd, "max-results", "store.max_results")

	return types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) factordb.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	country, _ := cmd.Flags().GetString("country")
	class, _ := cmd.Flags().GetString("class")
	material, _ := cmd.Flags().GetString("material")
	dataset, _ := cmd.Flags().GetString("dataset")
	limit, _ := cmd.Flags().GetInt("limit")

	return factordb.QueryOptions{
		Query:            queryText,
		Country:          country,
		MaterialClass:    class,
		SpecificMaterial: material,
		DatasetID:        dataset,
		MaxResults:       limit,
	}
}

func init() {
	storeCmd.Flags().String("data-dir", "data", "base directory for datasets (contains converted/, index/)")
	storeCmd.Flags().Int("max-results", 20, "default maximum number of query results")
	storeCmd.Flags().Bool("list", false, "list indexed datasets instead of ingesting")

	rootCmd.AddCommand(storeCmd)
}
