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
	"github.com/seafront/seafront/internal/iogenes"
	"github.com/seafront/seafront/internal/ioobs"
	"github.com/spf13/cobra"
)

// getGenesCmd returns the genes command.
func getGenesCmd() *cobra.Command {
	var (
		organism   string
		sampleSize int
	)

	genesCmd := &cobra.Command{
		Use:   "genes",
		Short: "Verify a shared gene axis across census datasets",
		Long: `Compare gene names of randomly sampled census datasets.

Dataset ids come from the cached census observation table. When all
sampled datasets list the same genes in the same order, the list is
saved as the canonical gene list (meta/census_var.txt). Otherwise the
diverging datasets are reported and nothing is written.

Examples:
  seafront genes
  seafront genes --sample-size 5`,
		Args: exactArgs(0, "seafront genes"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("sample-size") {
				sampleSize = cfg.Genes.SampleSize
			}
			return runGenes(cmd.Context(), organismOrDefault(organism), sampleSize)
		},
	}

	genesCmd.Flags().StringVarP(&organism, "organism", "o", "",
		"organism scientific name (default from config)")
	genesCmd.Flags().IntVarP(&sampleSize, "sample-size", "n", 0,
		"number of datasets to compare (default from config)")

	return genesCmd
}

func runGenes(ctx context.Context, organism string, sampleSize int) error {
	client, err := iocensus.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	t, err := ioobs.LoadCensusObs(ctx, client, organism, cfg.CensusObsPath())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	checker := iogenes.New(client, organism, cfg.CensusVarPath(),
		iogenes.OptSampleSize(sampleSize))
	report, err := checker.CheckAndCommit(ctx, iogenes.DatasetIDs(t))
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if !report.OK {
		err = iogenes.GeneMismatchError(report)
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Gene axis of %d datasets is consistent, %s genes saved to <em>%s</em>",
		len(report.Sampled), humanize.Comma(int64(report.Genes)), report.Path)
	return nil
}
