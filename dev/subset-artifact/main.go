// subset-artifact extracts a small artifact from a large one for use as
// a test fixture.
//
// The subset keeps:
//   - cells spread evenly across the matrix
//   - the cell with the largest and the smallest total count
//   - every gene, so the gene axis stays comparable with census_var.txt
//
// Usage:
//
//	go run . <source> <output> [cells]
//
// Examples:
//
//	go run . ../../raw_h5ad/adata_homo_sapiens_9f22.h5ad ../../testdata/small.h5ad
//	go run . raw/GSE180298/GSE180298_combined.h5ad testdata/ainciburu.h5ad 500
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/seafront/seafront/internal/ioartifact"
	"github.com/seafront/seafront/pkg/artifact"
)

// defaultCells is the number of cells in a subset.
const defaultCells = 200

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <source> <output> [cells]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source  artifact file (.h5ad written by seafront)\n")
		fmt.Fprintf(os.Stderr, "  output  path of the subset artifact\n")
		fmt.Fprintf(os.Stderr, "  cells   number of cells to keep (default %d)\n", defaultCells)
		os.Exit(1)
	}

	n := defaultCells
	if len(os.Args) == 4 {
		var err error
		if n, err = strconv.Atoi(os.Args[3]); err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "cells must be a positive number\n")
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(context.Background(), logger, os.Args[1], os.Args[2], n); err != nil {
		logger.Error("subset extraction failed", "error", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	src, out string,
	n int,
) error {
	a, err := ioartifact.Read(ctx, src)
	if err != nil {
		return err
	}
	cells, genes := a.Shape()
	logger.Info("source loaded", "cells", cells, "genes", genes)

	rows := pickRows(a.X, n)
	sub, err := subset(a, rows)
	if err != nil {
		return err
	}

	if err = ioartifact.Write(ctx, out, sub); err != nil {
		return err
	}
	logger.Info("subset written", "cells", len(rows), "output", out)
	return nil
}

// pickRows returns sorted row positions: n evenly spaced rows plus the
// rows with the largest and smallest total count.
func pickRows(m *artifact.Matrix, n int) []int {
	if m.Rows <= n {
		res := make([]int, m.Rows)
		for i := range res {
			res[i] = i
		}
		return res
	}

	set := make(map[int]struct{}, n+2)
	step := float64(m.Rows) / float64(n)
	for k := range n {
		set[int(float64(k)*step)] = struct{}{}
	}

	minRow, maxRow := 0, 0
	minSum, maxSum := rowSum(m, 0), rowSum(m, 0)
	for i := 1; i < m.Rows; i++ {
		s := rowSum(m, i)
		if s < minSum {
			minRow, minSum = i, s
		}
		if s > maxSum {
			maxRow, maxSum = i, s
		}
	}
	set[minRow] = struct{}{}
	set[maxRow] = struct{}{}

	res := make([]int, 0, len(set))
	for i := range set {
		res = append(res, i)
	}
	slices.Sort(res)
	return res
}

func rowSum(m *artifact.Matrix, i int) float64 {
	_, vals := m.Row(i)
	var res float64
	for _, v := range vals {
		res += v
	}
	return res
}

func subset(a *artifact.Artifact, rows []int) (*artifact.Artifact, error) {
	o, err := a.Obs.Select(rows)
	if err != nil {
		return nil, err
	}
	x := artifact.NewMatrix(a.X.Cols)
	for _, i := range rows {
		cols, vals := a.X.Row(i)
		if err = x.AppendRow(cols, vals); err != nil {
			return nil, err
		}
	}
	res := &artifact.Artifact{ID: a.ID, Obs: o, Var: a.Var, X: x}
	return res, res.Validate()
}
