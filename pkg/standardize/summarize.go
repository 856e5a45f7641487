// Package standardize turns raw per-cell observation tables into
// per-dataset summaries and normalizes developmental stages into ages.
// This is a pure package.
package standardize

import (
	"slices"
	"strings"

	"github.com/seafront/seafront/pkg/obs"
)

const (
	// DatasetIDColumn is the grouping key of summaries.
	DatasetIDColumn = "dataset_id"

	// CountPrefix marks count-like columns that are reduced by median.
	CountPrefix = "n_"
)

// Aggregation is the reduction applied to a column in a summary.
type Aggregation int

const (
	// AggMedian reduces a numeric column to its median.
	AggMedian Aggregation = iota
	// AggUnique reduces a column to a sorted, comma-joined list of its
	// distinct values.
	AggUnique
)

// JoinColumns are internal join identifiers never summarized.
var JoinColumns = []string{"observation_joinid", "soma_joinid"}

// QCColumns are numeric QC covariates reduced by median.
var QCColumns = []string{"raw_sum", "nnz", "raw_mean_nnz", "raw_variance_nnz"}

// Classify returns the aggregation used for a column.
//
// Columns starting with CountPrefix or listed in QCColumns are medians,
// every other column, known biological field, ontology term id or
// anything else, falls back to the unique-values list.
//
// TODO: unrecognized columns get the same treatment as categorical
// fields; decide whether they should be rejected instead.
func Classify(column string) Aggregation {
	if strings.HasPrefix(column, CountPrefix) ||
		slices.Contains(QCColumns, column) {
		return AggMedian
	}
	return AggUnique
}

// SummaryName returns the name of the summary column for a source
// column.
func SummaryName(column string) string {
	if Classify(column) == AggMedian {
		return "median_" + column
	}
	return "unique_" + column + "s_present"
}

// Summarize groups rows by dataset_id and reduces every other column
// to a single value per dataset. The result is indexed by dataset id,
// sorted, with a dataset_id column followed by summary columns in
// source order. Rows without a dataset id are ignored.
func Summarize(t *obs.Table) (*obs.Table, error) {
	if !t.HasColumn(DatasetIDColumn) {
		return nil, obs.MissingColumnError(DatasetIDColumn)
	}
	src := t.Drop(JoinColumns...)

	var columns []string
	for _, c := range src.Columns() {
		if c == DatasetIDColumn {
			continue
		}
		columns = append(columns, c)
	}

	names := make([]string, 0, len(columns)+1)
	names = append(names, DatasetIDColumn)
	for _, c := range columns {
		names = append(names, SummaryName(c))
	}
	res := obs.New(names...)

	keys, groups, err := src.GroupBy(DatasetIDColumn)
	if err != nil {
		return nil, err
	}

	for _, k := range keys {
		rows := groups[k]
		vals := make([]obs.Value, 0, len(names))
		vals = append(vals, obs.String(k))
		for _, c := range columns {
			v, err := aggregate(src, c, rows)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		if err = res.AppendRow(k, vals...); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func aggregate(t *obs.Table, column string, rows []int) (obs.Value, error) {
	switch Classify(column) {
	case AggMedian:
		nums, err := t.Numbers(column, rows)
		if err != nil {
			return obs.Missing, err
		}
		if len(nums) == 0 {
			return obs.Missing, nil
		}
		return obs.Number(obs.Median(nums)), nil
	default:
		return obs.String(uniqueJoined(t, column, rows)), nil
	}
}

func uniqueJoined(t *obs.Table, column string, rows []int) string {
	set := make(map[string]struct{})
	for _, i := range rows {
		v := t.Value(i, column)
		if v.IsMissing() {
			continue
		}
		set[v.String()] = struct{}{}
	}
	vals := make([]string, 0, len(set))
	for k := range set {
		vals = append(vals, k)
	}
	slices.Sort(vals)
	return strings.Join(vals, ", ")
}
