// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/factor-engine/internal/factordb"
	"github.com/pdiddy/factor-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the factor store to YAML or JSON",
	Long: `Export writes the full factor store (or a filtered subset) to
[data-dir]/index/export.yaml or export.json. Supports the same filter flags
as query for partial exports.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	storeCfg := storeConfig(cmd)
	cfg := types.ExportConfig{
		DataDir: storeCfg.DataDir,
		Format:  types.ExportFormat(stringSetting(cmd, "format", "export.format")),
	}

	store, err := factordb.NewStore(storeCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch cfg.Format {
	case types.ExportYAML, "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", cfg.DataDir)
	case types.ExportJSON:
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", cfg.DataDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", cfg.Format)
	}

	return nil
}

func init() {
	exportCmd.Flags().String("data-dir", "data", "base directory for datasets (contains index/)")
	exportCmd.Flags().Int("max-results", 20, "default maximum number of query results")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("query", "", "full-text search filter for partial export")
	exportCmd.Flags().String("country", "", "filter by country of origin")
	exportCmd.Flags().String("class", "", "filter by material class")
	exportCmd.Flags().String("material", "", "filter by specific material")
	exportCmd.Flags().String("dataset", "", "filter by dataset ID")
	exportCmd.Flags().Int("limit", 0, "maximum factors to export (0 = all)")

	rootCmd.AddCommand(exportCmd)
}
