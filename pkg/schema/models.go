// Package schema holds the PostgreSQL model of exported dataset
// summaries. Tables are created with GORM AutoMigrate, rows are bulk
// inserted with pgx.
package schema

import (
	"strings"

	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/standardize"
)

// Aggregation names stored in the aggregation column.
const (
	AggMedian = "median"
	AggUnique = "unique"
)

// DatasetSummary is one summary field of one dataset. A summary table
// row becomes one record per summary column, so new census fields do
// not require migrations.
type DatasetSummary struct {
	// ID is a surrogate key.
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// DatasetID is the census dataset identifier.
	DatasetID string `gorm:"type:varchar(100);not null;index:idx_dataset_field,unique"`

	// Field is the source observation column, for example "raw_sum" or
	// "cell_type".
	Field string `gorm:"type:varchar(255);not null;index:idx_dataset_field,unique"`

	// Aggregation is AggMedian or AggUnique.
	Aggregation string `gorm:"type:varchar(20);not null"`

	// Value is the textual summary value.
	Value string `gorm:"type:text;not null;default:''"`

	// Number is set for medians.
	Number *float64
}

// TableName returns the PostgreSQL table name.
func (DatasetSummary) TableName() string {
	return "dataset_summaries"
}

// Columns lists the columns filled by bulk inserts, in the order of
// DatasetSummary.Row.
func (DatasetSummary) Columns() []string {
	return []string{"dataset_id", "field", "aggregation", "value", "number"}
}

// Row returns the values of Columns.
func (s DatasetSummary) Row() []any {
	return []any{s.DatasetID, s.Field, s.Aggregation, s.Value, s.Number}
}

// Records flattens a summary table produced by standardize.Summarize.
// Missing values are skipped.
func Records(t *obs.Table) ([]DatasetSummary, error) {
	ids, ok := t.Column(standardize.DatasetIDColumn)
	if !ok {
		return nil, obs.MissingColumnError(standardize.DatasetIDColumn)
	}

	var res []DatasetSummary
	for i, id := range ids {
		if id.IsMissing() {
			continue
		}
		for _, c := range t.Columns() {
			if c == standardize.DatasetIDColumn {
				continue
			}
			v := t.Value(i, c)
			if v.IsMissing() {
				continue
			}
			field, agg := parseSummaryName(c)
			rec := DatasetSummary{
				DatasetID:   id.String(),
				Field:       field,
				Aggregation: agg,
				Value:       v.String(),
			}
			if f, ok := v.Float(); ok && agg == AggMedian {
				rec.Number = &f
			}
			res = append(res, rec)
		}
	}
	return res, nil
}

// DatasetIDs returns distinct dataset ids of records in input order.
func DatasetIDs(recs []DatasetSummary) []string {
	seen := make(map[string]struct{})
	var res []string
	for _, r := range recs {
		if _, ok := seen[r.DatasetID]; ok {
			continue
		}
		seen[r.DatasetID] = struct{}{}
		res = append(res, r.DatasetID)
	}
	return res
}

func parseSummaryName(name string) (string, string) {
	if f, ok := strings.CutPrefix(name, "median_"); ok {
		return f, AggMedian
	}
	if f, ok := strings.CutPrefix(name, "unique_"); ok {
		f = strings.TrimSuffix(f, "s_present")
		return f, AggUnique
	}
	return name, AggUnique
}
