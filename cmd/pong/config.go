package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/config"
)

var flagFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the settings pong would run with, after applying the config
file found by the search order:

  1. --config <path>
  2. ~/.pong/pong.yaml or ~/.pong/pong.toml
  3. ./configs/pong.yaml or ./configs/pong.toml
  4. built-in defaults

The output is a complete config file; save it and edit to customize.

Examples:
  pong config
  pong config --format toml > pong.toml
  pong config --config ./pong.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format: yaml or toml")
}

func runConfig(_ *cobra.Command, _ []string) {
	format, err := config.ParseFormat(flagFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, source := mustLoadConfig()
	fmt.Printf("# source: %s\n", source)
	if err := config.Encode(os.Stdout, cfg, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
