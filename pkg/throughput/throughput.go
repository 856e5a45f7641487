// Package throughput removes low-depth experiments from observation
// tables. An experiment is a dataset combined with a simplified assay
// label.
package throughput

import (
	"strings"
	"unicode"

	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/standardize"
)

const (
	// ExperimentColumn holds the experiment key of every cell.
	ExperimentColumn = "experiment"

	// AssayColumn is the assay label experiments are derived from.
	AssayColumn = "assay"

	// CountColumn is the per-cell count used for the median.
	CountColumn = "raw_sum"

	// DefaultThreshold is the minimal median raw_sum of an experiment.
	DefaultThreshold = 3000
)

// SimplifyAssay lower-cases an assay label and keeps only letters and
// digits, so "10x 3' v3" becomes "10x3v3".
func SimplifyAssay(assay string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(assay) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WithExperiment returns a copy of t with an experiment column. An
// existing column is kept as is. Rows lacking a dataset id or assay get
// a missing experiment.
func WithExperiment(t *obs.Table) (*obs.Table, error) {
	if t.HasColumn(ExperimentColumn) {
		return t.Copy(), nil
	}
	ids, ok := t.Column(standardize.DatasetIDColumn)
	if !ok {
		return nil, obs.MissingColumnError(standardize.DatasetIDColumn)
	}
	assays, ok := t.Column(AssayColumn)
	if !ok {
		return nil, obs.MissingColumnError(AssayColumn)
	}

	exps := make([]obs.Value, len(ids))
	for i := range ids {
		if ids[i].IsMissing() || assays[i].IsMissing() {
			continue
		}
		exps[i] = obs.String(
			ids[i].String() + "_" + SimplifyAssay(assays[i].String()),
		)
	}
	return t.WithColumn(ExperimentColumn, exps)
}

// FilterByMedianCount keeps cells of experiments whose median raw_sum
// is at least threshold and summarizes the kept cells. The summary is
// always recomputed from the filtered rows.
func FilterByMedianCount(
	t *obs.Table,
	threshold float64,
) (*obs.Table, *obs.Table, error) {
	src, err := WithExperiment(t)
	if err != nil {
		return nil, nil, err
	}

	keys, groups, err := src.GroupBy(ExperimentColumn)
	if err != nil {
		return nil, nil, err
	}

	keep := make([]bool, src.Len())
	for _, k := range keys {
		rows := groups[k]
		counts, err := src.Numbers(CountColumn, rows)
		if err != nil {
			return nil, nil, err
		}
		if len(counts) == 0 || obs.Median(counts) < threshold {
			continue
		}
		for _, i := range rows {
			keep[i] = true
		}
	}

	filtered := src.Filter(func(i int) bool { return keep[i] })
	summary, err := standardize.Summarize(filtered)
	if err != nil {
		return nil, nil, err
	}
	return filtered, summary, nil
}
