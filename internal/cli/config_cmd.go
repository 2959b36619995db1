package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/tempscore/internal/config"
)

// NewConfigValidateCmd checks the effective configuration.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Validates the effective configuration: built-in defaults merged with
~/.tempscore/config.yaml (or --config) and TEMPSCORE_* environment overrides.`,
		Example: `  tempscore config validate
  tempscore --config ./ci.yaml config validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			source := cfg.Path()
			if source == "" {
				source = "built-in defaults"
			}
			cmd.Printf("Configuration is valid (%s)\n", source)
			return nil
		},
	}
}

// NewConfigShowCmd prints the effective configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(config.GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			cmd.Print(string(out))
			return nil
		},
	}
}
