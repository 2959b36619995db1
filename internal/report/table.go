package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// Temperature bands used to colour styled score rows.
const (
	parisAlignedMax = 1.5
	wellBelowTwoMax = 2.0
)

// TableOptions control terminal rendering.
type TableOptions struct {
	// Styled wraps the table in a bordered box and colours score rows; use it
	// only when writing to a terminal.
	Styled    bool
	Precision int
	// Contributions appends the per-company breakdown of the portfolio-wide rows.
	Contributions bool
}

func titleColor() lipgloss.Color  { return lipgloss.Color("39") }
func borderColor() lipgloss.Color { return lipgloss.Color("240") }
func coolColor() lipgloss.Color   { return lipgloss.Color("42") }
func warmColor() lipgloss.Color   { return lipgloss.Color("220") }
func hotColor() lipgloss.Color    { return lipgloss.Color("196") }

// scoreColor maps a temperature to its band colour.
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score <= parisAlignedMax:
		return coolColor()
	case score <= wellBelowTwoMax:
		return warmColor()
	default:
		return hotColor()
	}
}

// RenderTable writes the score rows, and optionally contributions, as an
// aligned text table.
func RenderTable(w io.Writer, r *Report, opts TableOptions) error {
	var buf bytes.Buffer
	if err := writeScoreTable(&buf, r, opts.Precision); err != nil {
		return err
	}
	scoreTable := buf.String()

	var contributions string
	if opts.Contributions {
		buf.Reset()
		if err := writeContributionTable(&buf, r, opts.Precision); err != nil {
			return err
		}
		contributions = buf.String()
	}

	if !opts.Styled {
		return renderPlain(w, r, scoreTable, contributions)
	}
	return renderStyled(w, r, scoreTable, contributions)
}

func renderPlain(w io.Writer, r *Report, scoreTable, contributions string) error {
	if _, err := fmt.Fprintf(w, "TEMPERATURE SCORES (%s)\n\n%s", r.Method, scoreTable); err != nil {
		return fmt.Errorf("writing scores: %w", err)
	}
	if contributions != "" {
		if _, err := fmt.Fprintf(w, "\nCONTRIBUTIONS\n\n%s", contributions); err != nil {
			return fmt.Errorf("writing contributions: %w", err)
		}
	}
	return writeMissing(w, r.Missing)
}

func renderStyled(w io.Writer, r *Report, scoreTable, contributions string) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(titleColor())
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor()).
		Padding(0, 1)

	// The first two lines are the header and separator; each later line is
	// one score record in order.
	lines := strings.Split(strings.TrimRight(scoreTable, "\n"), "\n")
	for i := range lines {
		rec := i - 2
		if rec < 0 || rec >= len(r.Scores) {
			continue
		}
		style := lipgloss.NewStyle().Foreground(scoreColor(r.Scores[rec].Score))
		if r.Scores[rec].Group == AllGroup {
			style = style.Bold(true)
		}
		lines[i] = style.Render(lines[i])
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("TEMPERATURE SCORES"))
	content.WriteString("  " + r.Method + "\n\n")
	content.WriteString(strings.Join(lines, "\n"))
	if contributions != "" {
		content.WriteString("\n\n")
		content.WriteString(titleStyle.Render("CONTRIBUTIONS"))
		content.WriteString("\n\n")
		content.WriteString(strings.TrimRight(contributions, "\n"))
	}

	if _, err := fmt.Fprintln(w, boxStyle.Render(content.String())); err != nil {
		return fmt.Errorf("writing scores: %w", err)
	}
	return writeMissing(w, r.Missing)
}

func writeScoreTable(w io.Writer, r *Report, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "TIME FRAME\tSCOPE\tGROUP\tSCORE\tPROPORTION\tINFLUENCE\tCOMPANIES\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----------\t-----\t-----\t-----\t----------\t---------\t---------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, s := range r.Scores {
		influence := ""
		if s.Group == AllGroup {
			influence = FormatPercent(s.Influence, 1)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.TimeFrame, s.Scope, s.Group,
			FormatTemperature(s.Score, precision),
			FormatPercent(s.Proportion*100, 1),
			influence,
			s.Companies,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func writeContributionTable(w io.Writer, r *Report, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "TIME FRAME\tSCOPE\tCOMPANY\tSCORE\tRESULT\tCONTRIBUTION\tSHARE\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----------\t-----\t-------\t-----\t------\t------------\t-----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, c := range r.Contributions {
		if c.Group != AllGroup {
			continue
		}
		name := c.CompanyName
		if name == "" {
			name = c.CompanyID
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.TimeFrame, c.Scope, name,
			FormatTemperature(c.TemperatureScore, precision),
			c.ScoreResultType,
			FormatFloat(c.Contribution, precision+1),
			FormatPercent(c.ContributionRelative, 1),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func writeMissing(w io.Writer, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nNot scored (%d): %s\n", len(missing), strings.Join(missing, ", ")); err != nil {
		return fmt.Errorf("writing missing companies: %w", err)
	}
	return nil
}

// RenderCompanies writes one line per company score, for the validate and
// score commands' detail output.
func RenderCompanies(w io.Writer, records []CompanyRecord, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "COMPANY\tSECTOR\tTIME FRAME\tSCOPE\tSCORE\tTRAJECTORY\tTARGET\tRESULT\tEXCEEDANCE\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range records {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.CompanyID, c.Sector, c.TimeFrame, c.Scope,
			FormatTemperature(c.TemperatureScore, precision),
			formatOptionalFloat(c.TrajectoryScore, precision),
			formatOptionalFloat(c.TargetScore, precision),
			c.ScoreResultType,
			formatOptionalYear(c.TrajectoryExceedanceYear),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}
