package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/engine"
	"github.com/rshade/tempscore/internal/engine/batch"
	"github.com/rshade/tempscore/internal/ingest"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/portfolio"
	"github.com/rshade/tempscore/internal/report"
)

// scoreParams holds the flags of the score command.
type scoreParams struct {
	portfolioPath  string
	companyPaths   []string
	benchmarksPath string
	method         string
	groupBy        []string
	scopes         string
	timeFrames     string
	fallbackScore  float64
	anonymize      bool
	workers        int
	output         outputParams
}

// NewScoreCmd creates the "score" command, which scores a portfolio.
//
// Registered flags:
//   - --portfolio: holdings file (csv, xlsx, json or yaml)
//   - --companies: company data file; repeat to query several sources in order
//   - --benchmarks: benchmark file (json or yaml)
//   - --method, --group-by, --scopes, --time-frames, --fallback-score, --anonymize
//   - --output, --out, --contributions: report format and destination
//   - --workers: concurrent company pipelines
func NewScoreCmd() *cobra.Command {
	var params scoreParams

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a portfolio against temperature benchmarks",
		Long: `Score every company held in a portfolio and aggregate the scores.

Each company's emissions intensity trajectory and target path are projected to
the target year, compared with the sector benchmark's carbon budget and mapped
to a temperature. Portfolio scores are weighted by the chosen method.`,
		Example: scoreExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.portfolioPath, "portfolio", "", "Portfolio holdings file (csv, xlsx, json, yaml)")
	cmd.Flags().StringSliceVar(&params.companyPaths, "companies", nil,
		"Company data file; repeat to query several sources in order")
	cmd.Flags().StringVar(&params.benchmarksPath, "benchmarks", "", "Benchmark file (json, yaml)")
	cmd.Flags().StringVar(&params.method, "method", "",
		"Weighting method: EQUAL, WATS, TETS, MOTS, EOTS, ECOTS, AOTS, ROTS (default from config)")
	cmd.Flags().StringSliceVar(&params.groupBy, "group-by", nil,
		"Company or portfolio fields to group by (e.g. sector,region)")
	cmd.Flags().StringVar(&params.scopes, "scopes", "", "Scopes to aggregate (e.g. S1S2,S1S2S3; default all scored)")
	cmd.Flags().StringVar(&params.timeFrames, "time-frames", "", "Time frames to aggregate (short, mid, long)")
	cmd.Flags().Float64Var(&params.fallbackScore, "fallback-score", 0,
		"Score for companies without a trajectory or target (default from config)")
	cmd.Flags().BoolVar(&params.anonymize, "anonymize", false, "Replace company names and ids in the output")
	cmd.Flags().IntVar(&params.workers, "workers", 0, "Concurrent company pipelines (default from config)")
	addOutputFlags(cmd, &params.output)

	_ = cmd.MarkFlagRequired("portfolio")
	_ = cmd.MarkFlagRequired("companies")
	_ = cmd.MarkFlagRequired("benchmarks")

	return cmd
}

const scoreExample = `  # Score a CSV portfolio
  tempscore score --portfolio portfolio.csv --companies companies.json --benchmarks benchmarks.yaml

  # Market-cap weighting, long horizon only
  tempscore score --portfolio portfolio.csv --companies companies.json --benchmarks benchmarks.yaml \
    --method MOTS --time-frames long

  # Query two company sources in order and write JSON
  tempscore score --portfolio portfolio.xlsx --companies primary.json --companies fallback.yaml \
    --benchmarks benchmarks.yaml --output json --out scores.json`

// addOutputFlags registers the report flags shared by score and validate.
func addOutputFlags(cmd *cobra.Command, params *outputParams) {
	cmd.Flags().StringVar(&params.format, "output", "", "Output format: table, json, csv or xlsx (default from config)")
	cmd.Flags().StringVar(&params.out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&params.contributions, "contributions", false,
		"Include per-company contributions in table output")
}

// runScore loads the inputs, runs the pipeline and aggregates the portfolio.
func runScore(cmd *cobra.Command, params scoreParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	opts, err := aggregationOptions(cmd, cfg, params)
	if err != nil {
		return err
	}

	holdings, err := ingest.LoadPortfolio(ctx, params.portfolioPath)
	if err != nil {
		return fmt.Errorf("loading portfolio: %w", err)
	}
	inputs, err := lookupCompanies(ctx, params.companyPaths, ingest.IDs(holdings))
	if err != nil {
		return err
	}
	benchmarks, err := ingest.NewFileBenchmarkProvider(params.benchmarksPath, cfg.Projection).Benchmarks(ctx)
	if err != nil {
		return fmt.Errorf("loading benchmarks: %w", err)
	}

	pipeline := engine.NewPipeline(cfg, benchmarks,
		engine.WithWorkers(params.workers),
		engine.WithProgress(logProgress(ctx)),
	)
	result, err := pipeline.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("scoring companies: %w", err)
	}
	printFailures(cmd, result.Failures)

	rows, unscored := portfolio.Join(holdings, result.Aggregates)
	if len(rows) == 0 {
		return ErrNothingToReport
	}
	aggregator, err := portfolio.NewAggregator(opts)
	if err != nil {
		return err
	}
	aggs, err := aggregator.Aggregate(ctx, rows)
	if err != nil {
		return fmt.Errorf("aggregating portfolio: %w", err)
	}

	var companies []*model.CompanyAggregates
	if !opts.Anonymize {
		for _, c := range result.Companies {
			companies = append(companies, result.Aggregates[c.ID]...)
		}
	}
	rep := report.New(string(opts.Method), aggs, companies, unscored)

	logger.Info().Ctx(ctx).
		Str("operation", "score").
		Int("holdings", len(holdings)).
		Int("scored", result.Scored()).
		Int("unscored", len(unscored)).
		Msg("portfolio scored")

	return writeReport(cmd, rep, resolveOutput(cfg, params.output))
}

// aggregationOptions starts from the configured defaults and applies flags.
func aggregationOptions(cmd *cobra.Command, cfg *config.Config, params scoreParams) (portfolio.Options, error) {
	opts, err := portfolio.DefaultOptions(cfg.Portfolio, cfg.Scoring)
	if err != nil {
		return portfolio.Options{}, err
	}
	if params.method != "" {
		if opts.Method, err = portfolio.ParseMethod(params.method); err != nil {
			return portfolio.Options{}, err
		}
	}
	if params.scopes != "" {
		if opts.Scopes, err = model.ParseScopes(params.scopes); err != nil {
			return portfolio.Options{}, err
		}
	}
	if params.timeFrames != "" {
		if opts.TimeFrames, err = model.ParseTimeFrames(params.timeFrames); err != nil {
			return portfolio.Options{}, err
		}
	}
	if cmd.Flags().Changed("fallback-score") {
		opts.FallbackScore = params.fallbackScore
	}
	opts.GroupBy = params.groupBy
	opts.Anonymize = params.anonymize
	return opts, nil
}

// lookupCompanies queries the company files in order for the given ids.
func lookupCompanies(ctx context.Context, paths, ids []string) ([]model.CompanyInput, error) {
	if len(paths) == 0 {
		return nil, ErrNoCompanyFiles
	}
	providers := make([]ingest.CompanyProvider, 0, len(paths))
	for _, path := range paths {
		p, err := ingest.NewFileProvider(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading companies from %s: %w", path, err)
		}
		providers = append(providers, p)
	}
	inputs, _, err := ingest.NewWaterfall(providers...).Companies(ctx, ids)
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// resolveOutput fills unset output options from the config.
func resolveOutput(cfg *config.Config, params outputParams) outputParams {
	if params.format == "" {
		params.format = cfg.Output.DefaultFormat
	}
	params.precision = cfg.Output.Precision
	return params
}

func logProgress(ctx context.Context) batch.ProgressFunc {
	return func(s batch.Snapshot) {
		logger.Debug().Ctx(ctx).
			Str("operation", "progress").
			Int("done", s.Done).
			Int("total", s.Total).
			Float64("percent", s.Percent()).
			Dur("elapsed", s.Elapsed).
			Msg("batch complete")
	}
}

func printFailures(cmd *cobra.Command, failures []engine.Failure) {
	for _, f := range failures {
		cmd.PrintErrf("Warning: %s could not be scored: %v\n", f.CompanyID, f.Err)
	}
}
