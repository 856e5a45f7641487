// Package artifact defines the matrix artifact: a sparse cell-by-gene
// matrix bundled with its per-cell (obs) and per-gene (var) tables.
// This is a pure package, file encoding lives in internal/ioartifact.
package artifact

import (
	"fmt"
	"strconv"

	"github.com/seafront/seafront/pkg/obs"
	"gonum.org/v1/gonum/stat"
)

const (
	// FeatureNameColumn holds gene names in the var table.
	FeatureNameColumn = "feature_name"

	// GeneIDColumn holds stable gene identifiers in the var table.
	GeneIDColumn = "gene_ids"
)

// Artifact is a cell-by-gene matrix with observation and feature
// tables.
type Artifact struct {
	// ID identifies the dataset the artifact was built from.
	ID string

	// Obs has one row per cell, in matrix row order.
	Obs *obs.Table

	// Var has one row per gene, in matrix column order. Its index is the
	// gene axis.
	Var *obs.Table

	// X holds the counts.
	X *Matrix
}

// Shape returns the number of cells and genes.
func (a *Artifact) Shape() (int, int) {
	return a.X.Rows, a.X.Cols
}

// Genes returns the gene axis.
func (a *Artifact) Genes() []string {
	return a.Var.Index()
}

// Validate checks that obs and var agree with the matrix.
func (a *Artifact) Validate() error {
	if a.Obs == nil || a.Var == nil || a.X == nil {
		return ShapeError(a.ID, "artifact is incomplete")
	}
	if err := a.X.Validate(); err != nil {
		return ShapeError(a.ID, err.Error())
	}
	if a.Obs.Len() != a.X.Rows {
		return ShapeError(a.ID, fmt.Sprintf(
			"obs has %d rows, matrix has %d", a.Obs.Len(), a.X.Rows))
	}
	if a.Var.Len() != a.X.Cols {
		return ShapeError(a.ID, fmt.Sprintf(
			"var has %d rows, matrix has %d columns", a.Var.Len(), a.X.Cols))
	}
	return nil
}

// MakeUnique appends "-1", "-2", ... to repeated names. The first
// occurrence keeps its name, generated names never collide with names
// already present.
func MakeUnique(names []string) []string {
	res := make([]string, len(names))
	taken := make(map[string]struct{}, len(names))
	for _, n := range names {
		taken[n] = struct{}{}
	}
	seen := make(map[string]int, len(names))
	for i, n := range names {
		cnt, dup := seen[n]
		if !dup {
			seen[n] = 0
			res[i] = n
			continue
		}
		for {
			cnt++
			cand := n + "-" + strconv.Itoa(cnt)
			if _, ok := taken[cand]; ok {
				continue
			}
			taken[cand] = struct{}{}
			res[i] = cand
			break
		}
		seen[n] = cnt
	}
	return res
}

// IsUnique reports whether names has no repeats. The second result is
// the first repeated name.
func IsUnique(names []string) (bool, string) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return false, n
		}
		seen[n] = struct{}{}
	}
	return true, ""
}

// Concat stacks artifacts along cells. Only genes present in every
// artifact are kept, in the order of the first one. Obs tables are
// concatenated with a union of columns, so cell ids must be globally
// unique.
func Concat(id string, parts ...*Artifact) (*Artifact, error) {
	if len(parts) == 0 {
		return nil, ShapeError(id, "nothing to concatenate")
	}

	genes := parts[0].Genes()
	common := make(map[string]int, len(genes))
	for _, g := range genes {
		common[g] = 1
	}
	for _, p := range parts[1:] {
		for _, g := range p.Genes() {
			if _, ok := common[g]; ok {
				common[g]++
			}
		}
	}
	var shared []string
	for _, g := range genes {
		if common[g] == len(parts) {
			shared = append(shared, g)
		}
	}

	var mats []*Matrix
	var obsTables []*obs.Table
	for _, p := range parts {
		cols := make([]int, len(shared))
		for k, g := range shared {
			cols[k], _ = p.Var.Row(g)
		}
		mats = append(mats, p.X.SelectColumns(cols))
		obsTables = append(obsTables, p.Obs)
	}

	x, err := Stack(mats...)
	if err != nil {
		return nil, ShapeError(id, err.Error())
	}
	o, err := obs.Concat(obsTables...)
	if err != nil {
		return nil, err
	}

	first := parts[0]
	rows := make([]int, len(shared))
	for k, g := range shared {
		rows[k], _ = first.Var.Row(g)
	}
	v, err := first.Var.Select(rows)
	if err != nil {
		return nil, err
	}

	res := &Artifact{ID: id, Obs: o, Var: v, X: x}
	if err = res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// QC covariate column names.
const (
	RawSumColumn         = "raw_sum"
	NNZColumn            = "nnz"
	RawMeanNNZColumn     = "raw_mean_nnz"
	RawVarianceNNZColumn = "raw_variance_nnz"
)

// WithQC returns a copy of obs with per-cell raw_sum, nnz and the mean
// and variance of nonzero counts. Variance of a cell with fewer than
// two nonzero values is missing.
func (a *Artifact) WithQC() (*obs.Table, error) {
	n := a.X.Rows
	sums := make([]obs.Value, n)
	nnz := make([]obs.Value, n)
	means := make([]obs.Value, n)
	vars := make([]obs.Value, n)
	for i := range n {
		_, vals := a.X.Row(i)
		var sum float64
		for _, v := range vals {
			sum += v
		}
		sums[i] = obs.Number(sum)
		nnz[i] = obs.Int(len(vals))
		if len(vals) == 0 {
			continue
		}
		mean, variance := stat.MeanVariance(vals, nil)
		means[i] = obs.Number(mean)
		if len(vals) > 1 {
			vars[i] = obs.Number(variance)
		}
	}

	res := a.Obs
	var err error
	for _, c := range []struct {
		name string
		vals []obs.Value
	}{
		{RawSumColumn, sums},
		{NNZColumn, nnz},
		{RawMeanNNZColumn, means},
		{RawVarianceNNZColumn, vars},
	} {
		if res, err = res.WithColumn(c.name, c.vals); err != nil {
			return nil, err
		}
	}
	return res, nil
}
