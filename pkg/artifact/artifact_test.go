package artifact_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/artifact"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkArtifact(
	t *testing.T,
	id string,
	cells []string,
	genes []string,
	rows [][]float64,
) *artifact.Artifact {
	t.Helper()
	o := obs.New("sample_id")
	for _, c := range cells {
		require.NoError(t, o.AppendRow(c, obs.String(id)))
	}
	v := obs.New(artifact.FeatureNameColumn)
	for _, g := range genes {
		require.NoError(t, v.AppendRow(g, obs.String(g)))
	}
	x := artifact.NewMatrix(len(genes))
	for _, r := range rows {
		var cols []int
		for j := range r {
			cols = append(cols, j)
		}
		require.NoError(t, x.AppendRow(cols, r))
	}
	return &artifact.Artifact{ID: id, Obs: o, Var: v, X: x}
}

func TestMatrix(t *testing.T) {
	m := artifact.NewMatrix(3)
	require.NoError(t, m.AppendRow([]int{2, 0}, []float64{5, 1}))
	require.NoError(t, m.AppendRow(nil, nil))
	require.NoError(t, m.AppendRow([]int{1, 2}, []float64{0, 4}))

	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 3, m.NNZ())
	assert.Equal(t, []int{0, 2, 2, 3}, m.Indptr)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 5.0, m.At(0, 2))
	assert.Equal(t, 4.0, m.At(2, 2))
	require.NoError(t, m.Validate())

	assert.Error(t, m.AppendRow([]int{3}, []float64{1}))
	assert.Error(t, m.AppendRow([]int{1, 1}, []float64{1, 2}))
	assert.Error(t, m.AppendRow([]int{1}, []float64{1, 2}))
}

func TestSelectColumnsAndStack(t *testing.T) {
	m := artifact.NewMatrix(3)
	require.NoError(t, m.AppendRow([]int{0, 1, 2}, []float64{1, 2, 3}))
	sel := m.SelectColumns([]int{2, 0})
	assert.Equal(t, 2, sel.Cols)
	assert.Equal(t, 3.0, sel.At(0, 0))
	assert.Equal(t, 1.0, sel.At(0, 1))

	st, err := artifact.Stack(sel, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rows)
	assert.Equal(t, []int{0, 2, 4}, st.Indptr)
	assert.Equal(t, 1.0, st.At(1, 1))

	_, err = artifact.Stack(sel, m)
	assert.Error(t, err)
}

func TestMakeUnique(t *testing.T) {
	tests := []struct {
		msg string
		in  []string
		out []string
	}{
		{"no dups", []string{"a", "b"}, []string{"a", "b"}},
		{"dups", []string{"a", "a", "a"}, []string{"a", "a-1", "a-2"}},
		{
			"collision",
			[]string{"a", "a", "a-1"},
			[]string{"a", "a-2", "a-1"},
		},
		{"empty", nil, []string{}},
	}
	for _, v := range tests {
		res := artifact.MakeUnique(v.in)
		assert.Equal(t, v.out, res, v.msg)
		ok, _ := artifact.IsUnique(res)
		assert.True(t, ok, v.msg)
	}

	ok, dup := artifact.IsUnique([]string{"x", "y", "x"})
	assert.False(t, ok)
	assert.Equal(t, "x", dup)
}

func TestConcat(t *testing.T) {
	a := mkArtifact(t, "s1",
		[]string{"AAAA-1_s1", "CCCC-1_s1"},
		[]string{"G1", "G2", "G3"},
		[][]float64{{1, 2, 3}, {0, 5, 0}},
	)
	b := mkArtifact(t, "s2",
		[]string{"AAAA-1_s2"},
		[]string{"G3", "G4", "G1"},
		[][]float64{{7, 8, 9}},
	)

	res, err := artifact.Concat("combined", a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G3"}, res.Genes())
	n, g := res.Shape()
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, g)
	assert.Equal(t, []string{"AAAA-1_s1", "CCCC-1_s1", "AAAA-1_s2"}, res.Obs.Index())

	assert.Equal(t, 1.0, res.X.At(0, 0))
	assert.Equal(t, 3.0, res.X.At(0, 1))
	assert.Equal(t, 0.0, res.X.At(1, 0))
	assert.Equal(t, 9.0, res.X.At(2, 0))
	assert.Equal(t, 7.0, res.X.At(2, 1))
}

func TestConcatDuplicateCells(t *testing.T) {
	a := mkArtifact(t, "s1", []string{"AAAA-1"}, []string{"G1"}, [][]float64{{1}})
	b := mkArtifact(t, "s2", []string{"AAAA-1"}, []string{"G1"}, [][]float64{{2}})
	_, err := artifact.Concat("combined", a, b)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DuplicateIndexError, gnErr.Code)
}

func TestValidate(t *testing.T) {
	a := mkArtifact(t, "s1", []string{"c1"}, []string{"G1", "G2"}, [][]float64{{1, 2}})
	require.NoError(t, a.Validate())

	v := obs.New(artifact.FeatureNameColumn)
	require.NoError(t, v.AppendRow("G1", obs.String("G1")))
	a.Var = v
	err := a.Validate()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArtifactShapeError, gnErr.Code)
}

func TestWithQC(t *testing.T) {
	a := mkArtifact(t, "s1",
		[]string{"c1", "c2", "c3"},
		[]string{"G1", "G2", "G3"},
		[][]float64{{2, 0, 4}, {0, 0, 0}, {0, 6, 0}},
	)
	o, err := a.WithQC()
	require.NoError(t, err)
	assert.False(t, a.Obs.HasColumn(artifact.RawSumColumn))

	sums, ok := o.Column(artifact.RawSumColumn)
	require.True(t, ok)
	assert.Equal(t, "6", sums[0].String())
	assert.Equal(t, "0", sums[1].String())
	assert.Equal(t, "6", sums[2].String())

	nnz, _ := o.Column(artifact.NNZColumn)
	assert.Equal(t, "2", nnz[0].String())
	assert.Equal(t, "0", nnz[1].String())

	means, _ := o.Column(artifact.RawMeanNNZColumn)
	assert.Equal(t, "3", means[0].String())
	assert.True(t, means[1].IsMissing())

	vars, _ := o.Column(artifact.RawVarianceNNZColumn)
	f, ok := vars[0].Float()
	require.True(t, ok)
	assert.InDelta(t, 2.0, f, 1e-9)
	assert.True(t, vars[2].IsMissing())
}
