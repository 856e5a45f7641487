/*
Copyright © 2025 The seafront authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iocensus"
	"github.com/seafront/seafront/internal/iodb"
	"github.com/seafront/seafront/internal/ioobs"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/standardize"
	"github.com/seafront/seafront/pkg/throughput"
	"github.com/spf13/cobra"
)

// getSummarizeCmd returns the summarize command.
func getSummarizeCmd() *cobra.Command {
	var (
		obsPath   string
		output    string
		threshold float64
		export    bool
	)

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Filter census cells by throughput and summarize datasets",
		Long: `Summarize the census observation table per dataset.

This command:
  1. Loads census cells (meta/census_obs.parquet, downloaded if absent)
     or a TSV table given with --obs
  2. Keeps experiments whose median raw_sum reaches the threshold
  3. Writes per-dataset summaries (medians of counts, unique values of
     everything else) to meta/census_summary.tsv
  4. Normalizes developmental stages to integer ages and writes
     meta/census_obs_age.tsv
  5. With --export, replaces the summaries of these datasets in
     PostgreSQL

Examples:
  seafront summarize
  seafront summarize --threshold 5000 --export
  seafront summarize --obs cells.tsv -o summary.tsv`,
		Args: exactArgs(0, "seafront summarize"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Filter.MedianRawSum
			}
			if output == "" {
				output = cfg.CensusSummaryPath()
			}
			return runSummarize(cmd.Context(), obsPath, output, threshold, export)
		},
	}

	summarizeCmd.Flags().StringVar(&obsPath, "obs", "",
		"observation table in TSV format instead of census cells")
	summarizeCmd.Flags().StringVarP(&output, "output", "o", "",
		"summary TSV file (default meta/census_summary.tsv)")
	summarizeCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0,
		"minimal median raw_sum of an experiment (default from config)")
	summarizeCmd.Flags().BoolVarP(&export, "export", "e", false,
		"export summaries to PostgreSQL")

	return summarizeCmd
}

func runSummarize(
	ctx context.Context,
	obsPath, output string,
	threshold float64,
	export bool,
) error {
	t, err := loadObs(ctx, obsPath)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	filtered, summary, err := throughput.FilterByMedianCount(t, threshold)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Kept %s of %s cells with median raw_sum >= %s",
		humanize.Comma(int64(filtered.Len())),
		humanize.Comma(int64(t.Len())),
		humanize.Ftoa(threshold))

	err = ioobs.WriteTSV(output,
		summary.Drop(standardize.DatasetIDColumn), standardize.DatasetIDColumn)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Summaries of %d datasets saved to <em>%s</em>",
		summary.Len(), output)

	if filtered.HasColumn(standardize.StageColumn) {
		aged, err := standardize.NormalizeAge(filtered)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		if err = ioobs.WriteTSV(cfg.CensusAgePath(), aged, ""); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("%s cells with a known age saved to <em>%s</em>",
			humanize.Comma(int64(aged.Len())), cfg.CensusAgePath())
	}

	if export {
		return exportSummary(ctx, summary)
	}
	return nil
}

func loadObs(ctx context.Context, obsPath string) (*obs.Table, error) {
	if obsPath != "" {
		return ioobs.ReadTSV(obsPath)
	}
	client, err := iocensus.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ioobs.LoadCensusObs(ctx, client, cfg.Census.Organism, cfg.CensusObsPath())
}

func exportSummary(ctx context.Context, summary *obs.Table) error {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	e := iodb.NewExporter(op)
	if err := e.Migrate(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	n, err := e.Export(ctx, summary)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Exported %s summary records", humanize.Comma(n))
	return nil
}
