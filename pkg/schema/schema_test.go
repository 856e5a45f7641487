package schema_test

import (
	"testing"

	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetSummaryTable(t *testing.T) {
	s := schema.DatasetSummary{}
	assert.Equal(t, "dataset_summaries", s.TableName())
	assert.Len(t, s.Row(), len(s.Columns()))
	assert.Len(t, schema.AllModels(), 1)
}

func TestRecords(t *testing.T) {
	tbl := obs.New("dataset_id", "median_raw_sum", "unique_cell_types_present")
	require.NoError(t, tbl.AppendRow("d1",
		obs.String("d1"), obs.Number(2500), obs.String("B cell, T cell")))
	require.NoError(t, tbl.AppendRow("d2",
		obs.String("d2"), obs.Missing, obs.String("")))

	recs, err := schema.Records(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	r := recs[0]
	assert.Equal(t, "d1", r.DatasetID)
	assert.Equal(t, "raw_sum", r.Field)
	assert.Equal(t, schema.AggMedian, r.Aggregation)
	require.NotNil(t, r.Number)
	assert.Equal(t, 2500.0, *r.Number)

	r = recs[1]
	assert.Equal(t, "cell_type", r.Field)
	assert.Equal(t, schema.AggUnique, r.Aggregation)
	assert.Equal(t, "B cell, T cell", r.Value)
	assert.Nil(t, r.Number)

	r = recs[2]
	assert.Equal(t, "d2", r.DatasetID)
	assert.Equal(t, "cell_type", r.Field)
	assert.Equal(t, "", r.Value)

	assert.Equal(t, []string{"d1", "d2"}, schema.DatasetIDs(recs))
}

func TestRecordsNoDatasetID(t *testing.T) {
	_, err := schema.Records(obs.New("median_raw_sum"))
	assert.Error(t, err)
}
