package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/engine"
	"github.com/rshade/tempscore/internal/ingest"
	"github.com/rshade/tempscore/internal/model"
)

// NewValidateCmd creates the "validate" command, which constructs every
// company in the given files without projecting or scoring them.
func NewValidateCmd() *cobra.Command {
	var paths []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check company data files",
		Long: `Validate company records: identity, targets, units and the base-year
production and emissions derivation. Exits with code 2 when any record fails.`,
		Example: `  # Validate one file
  tempscore validate --companies companies.json

  # Validate several files
  tempscore validate --companies a.json --companies b.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, paths)
		},
	}

	cmd.Flags().StringSliceVar(&paths, "companies", nil, "Company data file; may be repeated")
	_ = cmd.MarkFlagRequired("companies")

	return cmd
}

func runValidate(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()
	if len(paths) == 0 {
		return ErrNoCompanyFiles
	}

	var inputs []model.CompanyInput
	for _, path := range paths {
		file, err := ingest.LoadCompanies(ctx, path)
		if err != nil {
			return fmt.Errorf("loading companies from %s: %w", path, err)
		}
		inputs = append(inputs, file.Companies...)
	}

	result, err := engine.NewPipeline(config.GetGlobalConfig(), nil).Validate(ctx, inputs)
	if err != nil {
		return err
	}

	cmd.Printf("%d companies valid, %d invalid\n", result.Scored(), len(result.Failures))
	if len(result.Failures) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCOMPANY\tFIELD\tERROR")
	for _, f := range result.Failures {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", f.CompanyID, f.Field(), f.Err)
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	return &ExitError{ExitCode: ExitInvalidData, Reason: fmt.Sprintf("%d invalid companies", len(result.Failures))}
}
