package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/report"
)

// outputParams select the report format and destination.
type outputParams struct {
	format        string
	out           string
	contributions bool
	precision     int
}

// writeReport renders rep to --out or the command's stdout.
func writeReport(cmd *cobra.Command, rep *report.Report, params outputParams) error {
	format := strings.ToLower(strings.TrimSpace(params.format))
	if format == config.FormatXLSX && params.out == "" {
		return ErrOutRequired
	}

	w := cmd.OutOrStdout()
	if params.out != "" {
		f, err := os.Create(params.out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := render(w, rep, format, params); err != nil {
		return err
	}
	if params.out != "" {
		cmd.PrintErrf("Wrote %s report to %s\n", format, params.out)
	}
	return nil
}

func render(w io.Writer, rep *report.Report, format string, params outputParams) error {
	switch format {
	case config.FormatTable:
		return report.RenderTable(w, rep, report.TableOptions{
			Styled:        isWriterTerminal(w),
			Precision:     params.precision,
			Contributions: params.contributions,
		})
	case config.FormatJSON:
		return report.WriteJSON(w, rep)
	case config.FormatCSV:
		return report.WriteCSV(w, rep)
	case config.FormatXLSX:
		return report.WriteXLSX(w, rep)
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownOutput, format)
	}
}
