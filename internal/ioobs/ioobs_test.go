package ioobs_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seafront/seafront/internal/ioobs"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/standardize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func censusRows() []ioobs.CensusObsRow {
	return []ioobs.CensusObsRow{
		{
			SomaJoinID:       0,
			DatasetID:        ptr("d1"),
			Assay:            ptr("10x 3' v3"),
			DevelopmentStage: ptr("25-year-old stage"),
			IsPrimaryData:    ptr(true),
			RawSum:           ptr(3500.0),
			NNZ:              ptr(int64(1200)),
		},
		{
			SomaJoinID: 7,
			DatasetID:  ptr("d2"),
			Assay:      ptr("Smart-seq2"),
			RawSum:     ptr(1500.5),
		},
	}
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.parquet")
	require.NoError(t, ioobs.WriteCensusObs(path, censusRows()))

	tbl, err := ioobs.ReadCensusObs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "7"}, tbl.Index())
	assert.Equal(t, "dataset_id", tbl.Columns()[1])

	assert.Equal(t, "d1", tbl.Value(0, "dataset_id").String())
	assert.Equal(t, "10x 3' v3", tbl.Value(0, "assay").String())
	assert.Equal(t, "True", tbl.Value(0, "is_primary_data").String())
	assert.Equal(t, "3500", tbl.Value(0, "raw_sum").String())
	assert.Equal(t, "1200", tbl.Value(0, "nnz").String())
	assert.Equal(t, "1500.5", tbl.Value(1, "raw_sum").String())
	assert.True(t, tbl.Value(1, "nnz").IsMissing())
	assert.True(t, tbl.Value(1, "development_stage").IsMissing())
}

type obsClient struct {
	body  []byte
	calls int
}

func (c *obsClient) DownloadArtifact(context.Context, string, string, io.Writer) (int64, error) {
	return 0, errors.New("not implemented")
}

func (c *obsClient) DownloadObs(_ context.Context, _ string, w io.Writer) (int64, error) {
	c.calls++
	n, err := w.Write(c.body)
	return int64(n), err
}

func (c *obsClient) GeneNames(context.Context, string, string) ([]string, error) {
	return nil, errors.New("not implemented")
}

func TestLoadCensusObs(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "src.parquet")
	require.NoError(t, ioobs.WriteCensusObs(src, censusRows()))
	body, err := os.ReadFile(src)
	require.NoError(t, err)

	cl := &obsClient{body: body}
	path := filepath.Join(t.TempDir(), "meta", "census_obs.parquet")
	tbl, err := ioobs.LoadCensusObs(ctx, cl, "Homo sapiens", path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 1, cl.calls)

	tbl, err = ioobs.LoadCensusObs(ctx, cl, "Homo sapiens", path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 1, cl.calls, "cached file is reused")
}

func TestDecodeTSV(t *testing.T) {
	tests := []struct {
		msg  string
		data string
	}{
		{"named index", "cell\tCellType\tnCount\nAAAA_mds1\tHSC\t10\nCCCC_mds1\t\t2.5\n"},
		{"unnamed index", "CellType\tnCount\nAAAA_mds1\tHSC\t10\nCCCC_mds1\tNA\t2.5\n"},
	}
	for _, v := range tests {
		tbl, err := ioobs.DecodeTSV(strings.NewReader(v.data))
		require.NoError(t, err, v.msg)
		assert.Equal(t, []string{"CellType", "nCount"}, tbl.Columns(), v.msg)
		assert.Equal(t, []string{"AAAA_mds1", "CCCC_mds1"}, tbl.Index(), v.msg)
		assert.Equal(t, "HSC", tbl.Value(0, "CellType").String(), v.msg)
		assert.True(t, tbl.Value(1, "CellType").IsMissing(), v.msg)
		f, ok := tbl.Value(1, "nCount").Float()
		require.True(t, ok, v.msg)
		assert.Equal(t, 2.5, f, v.msg)
	}
}

func TestDecodeTSVKeepsText(t *testing.T) {
	data := "cell\tdataset_id\tdonor_id\tcell_type\traw_sum\n" +
		"c1\td1\t007\t1e3\t10\n" +
		"c2\td1\t7\tT cell\t30\n"
	tbl, err := ioobs.DecodeTSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "007", tbl.Value(0, "donor_id").String())
	assert.Equal(t, "1e3", tbl.Value(0, "cell_type").String())

	sum, err := standardize.Summarize(tbl)
	require.NoError(t, err)
	i, ok := sum.Row("d1")
	require.True(t, ok)
	assert.Equal(t, "007, 7", sum.Value(i, "unique_donor_ids_present").String())
	assert.Equal(t, "1e3, T cell", sum.Value(i, "unique_cell_types_present").String())
	assert.Equal(t, "20", sum.Value(i, "median_raw_sum").String())
}

func TestDecodeTSVErrors(t *testing.T) {
	_, err := ioobs.DecodeTSV(strings.NewReader("a\tb\nx\t1\ny\t1\t2\t3\n"))
	assert.Error(t, err)

	_, err = ioobs.DecodeTSV(strings.NewReader("a\tb\nx\t1\nx\t2\n"))
	assert.Error(t, err)

	tbl, err := ioobs.DecodeTSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestWriteReadTSV(t *testing.T) {
	tbl := obs.New("dataset_id", "median_raw_sum")
	require.NoError(t, tbl.AppendRow("d1", obs.String("d1"), obs.Number(4500)))
	require.NoError(t, tbl.AppendRow("d2", obs.String("d2"), obs.Missing))

	var buf bytes.Buffer
	require.NoError(t, ioobs.EncodeTSV(&buf, tbl, "id"))
	assert.Equal(t, "id\tdataset_id\tmedian_raw_sum\nd1\td1\t4500\nd2\td2\t\n", buf.String())

	path := filepath.Join(t.TempDir(), "out", "summary.tsv")
	require.NoError(t, ioobs.WriteTSV(path, tbl, "id"))
	res, err := ioobs.ReadTSV(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Index(), res.Index())
	assert.Equal(t, tbl.Columns(), res.Columns())
	assert.True(t, res.Value(1, "median_raw_sum").IsMissing())
}
