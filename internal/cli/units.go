package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/tempscore/internal/quantity"
	"github.com/rshade/tempscore/internal/unitnorm"
)

// newUnitsCmd creates the units command group.
func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "units", Short: "Unit normalization and conversion"}
	cmd.AddCommand(NewUnitsNormalizeCmd(), NewUnitsConvertCmd(), NewUnitsListCmd())
	return cmd
}

// NewUnitsNormalizeCmd prints the canonical spelling of a unit string.
func NewUnitsNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>",
		Short: "Rewrite currency symbols and unit spellings to canonical form",
		Example: `  tempscore units normalize "€ 1,000"
  tempscore units normalize "passenger km"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(unitnorm.Normalize(args[0]))
			return nil
		},
	}
}

// NewUnitsConvertCmd converts a quantity to another unit.
func NewUnitsConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <quantity> <unit>",
		Short: "Convert a quantity to a compatible unit",
		Example: `  tempscore units convert "150 kg CO2/(t Steel)" "t CO2/(t Steel)"
  tempscore units convert "2 TWh" "GJ"`,
		Args: cobra.ExactArgs(2), //nolint:mnd // quantity and unit
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := quantity.Default()
			q, err := reg.Parse(args[0])
			if err != nil {
				return err
			}
			u, err := reg.ParseUnit(args[1])
			if err != nil {
				return err
			}
			converted, err := q.To(u)
			if err != nil {
				return fmt.Errorf("converting %s: %w", q, err)
			}
			cmd.Println(converted.String())
			return nil
		},
	}
}

// NewUnitsListCmd lists the unit tokens the registry recognises.
func NewUnitsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known unit names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, tok := range quantity.Default().Tokens() {
				cmd.Println(tok)
			}
			return nil
		},
	}
}
