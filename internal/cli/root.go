// Package cli implements the tempscore command line: scoring a portfolio,
// validating company data, unit utilities and configuration checks.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the tempscore CLI. It loads
// configuration, wires up logging and tracing, and registers the score,
// validate, units and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "tempscore",
		Short:         "Portfolio temperature scoring",
		Long:          "tempscore: Score companies and portfolios against emissions intensity benchmarks in °C",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a config file (default ~/.tempscore/config.yaml)")
	cmd.AddCommand(NewScoreCmd(), NewValidateCmd(), newUnitsCmd(), newConfigCmd())

	return cmd
}

// loadConfig installs the global configuration, from --config when given.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		config.InitGlobalConfig()
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Score a portfolio with the default weighting method
  tempscore score --portfolio portfolio.csv --companies companies.json --benchmarks benchmarks.yaml

  # Group by sector and write an Excel workbook
  tempscore score --portfolio portfolio.xlsx --companies companies.json --benchmarks benchmarks.yaml \
    --group-by sector --output xlsx --out scores.xlsx

  # Check company data without scoring
  tempscore validate --companies companies.json

  # Normalize a unit string
  tempscore units normalize "€ 1,000"

  # Convert a quantity
  tempscore units convert "150 kg CO2/(t Steel)" "t CO2/(t Steel)"

  # Check the configuration
  tempscore config validate`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cmd.AddCommand(NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
