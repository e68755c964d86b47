// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the factor-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the factor-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "factor-engine",
	Short: "Emission-factor dataset tooling for LCA workflows",
	Long: `factor-engine manages emission-factor datasets for life-cycle-assessment
work. Raw datasets arrive as tab-separated files; the CLI converts them to
JSON documents, validates them, indexes them in a local SQLite store, and
serves filtered queries and exports over the index.

Each pipeline stage is a subcommand: convert, validate, store, query, and
export.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./factor-engine.yaml or ~/.config/factor-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("factor-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "factor-engine"))
		}
	}

	viper.SetEnvPrefix("FACTOR_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string setting: an explicitly set flag wins, then
// the config file / environment via viper, then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// intSetting resolves an int setting with the same precedence as stringSetting.
func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
