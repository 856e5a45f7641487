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
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iocensus"
	"github.com/seafront/seafront/internal/iofetch"
	"github.com/seafront/seafront/pkg/census"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	var (
		organism string
		checksum string
		quiet    bool
	)

	fetchCmd := &cobra.Command{
		Use:   "fetch <dataset_id>",
		Short: "Download a census dataset into the local cache",
		Long: `Download a census dataset into the raw cache directory.

A cached file is reused. When --checksum is given the cached file is
verified first and downloaded again if it does not match. Fresh
downloads are recorded in the .checksums ledger of the cache directory.

Examples:
  seafront fetch 9f222629-9e39-47d0-b83f-e08d610c7479
  seafront fetch 9f222629 -o "Mus musculus"
  seafront fetch 9f222629 -c 5d41402abc4b2a76b9719d911017c592...`,
		Args: exactArgs(1, "seafront fetch <dataset_id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), args[0],
				organismOrDefault(organism), checksum, !quiet)
		},
	}

	fetchCmd.Flags().StringVarP(&organism, "organism", "o", "",
		"organism scientific name (default from config)")
	fetchCmd.Flags().StringVarP(&checksum, "checksum", "c", "",
		"expected SHA-256 of the dataset file")
	fetchCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"do not show download progress")

	return fetchCmd
}

func runFetch(
	ctx context.Context,
	datasetID, organism, checksum string,
	progress bool,
) error {
	client, err := iocensus.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	f := iofetch.New(client, iofetch.OptProgress(progress))
	a, err := f.Fetch(ctx, organism, datasetID, cfg.Cache.RawDir, checksum)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cells, genes := a.Shape()
	gn.Info("Dataset <em>%s</em>: %s cells, %s genes",
		datasetID, humanize.Comma(int64(cells)), humanize.Comma(int64(genes)))
	gn.Info("Cached at <em>%s</em>",
		filepath.Join(cfg.Cache.RawDir, census.CacheFileName(organism, datasetID)))
	return nil
}
