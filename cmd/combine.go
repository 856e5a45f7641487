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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iodatasets"
	"github.com/seafront/seafront/internal/ioobs"
	"github.com/seafront/seafront/internal/iosamples"
	"github.com/spf13/cobra"
)

// getCombineCmd returns the combine command.
func getCombineCmd() *cobra.Command {
	var metadataOut string

	combineCmd := &cobra.Command{
		Use:   "combine <dataset>",
		Short: "Combine the samples of a registered dataset",
		Long: `Combine per-sample matrices of a dataset from datasets.yaml.

This command:
  1. Unpacks the sample archive and decompresses metadata files
  2. Reads every sample matrix (10x MEX directory or .h5 file) and
     de-duplicates gene names
  3. Concatenates samples on the shared genes
  4. Joins cell annotations through the barcode/patient metadata key
  5. Adds patient ages and per-cell QC covariates
  6. Writes the combined artifact to the dataset output path

Nothing is written when any cell cannot be matched to metadata.

Examples:
  seafront combine ainciburu2023
  seafront combine ainciburu2023 --metadata meta/ainciburu2023.tsv`,
		Args: exactArgs(1, "seafront combine <dataset>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd.Context(), args[0], metadataOut)
		},
	}

	combineCmd.Flags().StringVarP(&metadataOut, "metadata", "m", "",
		"also save the concatenated metadata table as TSV")

	return combineCmd
}

func runCombine(ctx context.Context, name, metadataOut string) error {
	reg, err := iodatasets.New(cfg).Load()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	ds, err := reg.Get(name)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Combining samples of <em>%s</em> (%s)",
		ds.Name, strings.Join(ds.Samples(), ", "))

	meta, a, err := iosamples.New(cfg.Cache.DataDir).Combine(ctx, ds)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cells, genes := a.Shape()
	gn.Info("Combined <em>%s</em>: %s cells, %s genes",
		ds.Name, humanize.Comma(int64(cells)), humanize.Comma(int64(genes)))

	if metadataOut == "" {
		return nil
	}
	if err = ioobs.WriteTSV(metadataOut, meta, ""); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Metadata saved to <em>%s</em>", metadataOut)
	return nil
}
