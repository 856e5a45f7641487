package obs_test

import (
	"math"
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *obs.Table {
	t.Helper()
	tbl := obs.New("dataset_id", "raw_sum", "sex")
	require.NoError(t, tbl.AppendRow("c1", obs.String("d1"), obs.Number(10), obs.String("male")))
	require.NoError(t, tbl.AppendRow("c2", obs.String("d2"), obs.Number(20), obs.Missing))
	require.NoError(t, tbl.AppendRow("c3", obs.String("d1"), obs.Number(30), obs.String("female")))
	return tbl
}

func TestParse(t *testing.T) {
	tests := []struct {
		msg  string
		in   string
		kind obs.Kind
		str  string
	}{
		{"empty", "", obs.KindMissing, ""},
		{"NA", "NA", obs.KindMissing, ""},
		{"int", "42", obs.KindString, "42"},
		{"leading zeros", "007", obs.KindString, "007"},
		{"exponent", "1e3", obs.KindString, "1e3"},
		{"float", "0.5", obs.KindString, "0.5"},
		{"text", "T cell", obs.KindString, "T cell"},
	}
	for _, v := range tests {
		res := obs.Parse(v.in)
		assert.Equal(t, v.kind, res.Kind(), v.msg)
		assert.Equal(t, v.str, res.String(), v.msg)
	}
}

func TestNumberNaNIsMissing(t *testing.T) {
	assert.True(t, obs.Number(math.NaN()).IsMissing())
}

func TestAppendDuplicate(t *testing.T) {
	tbl := sample(t)
	err := tbl.AppendRow("c1", obs.String("d3"), obs.Number(1), obs.Missing)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DuplicateIndexError, gnErr.Code)
	assert.Equal(t, 3, tbl.Len())
}

func TestAppendByName(t *testing.T) {
	tbl := obs.New("a", "b")
	require.NoError(t, tbl.Append("r1", map[string]obs.Value{"b": obs.Int(2)}))
	assert.True(t, tbl.Value(0, "a").IsMissing())
	assert.Equal(t, "2", tbl.Value(0, "b").String())

	err := tbl.Append("r2", map[string]obs.Value{"zzz": obs.Int(1)})
	assert.Error(t, err)
}

func TestFilterDoesNotMutate(t *testing.T) {
	tbl := sample(t)
	res := tbl.Filter(func(i int) bool {
		return tbl.Value(i, "dataset_id").String() == "d1"
	})
	assert.Equal(t, 2, res.Len())
	assert.Equal(t, []string{"c1", "c3"}, res.Index())
	assert.Equal(t, 3, tbl.Len())

	i, ok := res.Row("c3")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestWithColumnAndDrop(t *testing.T) {
	tbl := sample(t)
	res, err := tbl.WithColumn("age", []obs.Value{obs.Int(1), obs.Int(2), obs.Int(3)})
	require.NoError(t, err)
	assert.True(t, res.HasColumn("age"))
	assert.False(t, tbl.HasColumn("age"))

	_, err = tbl.WithColumn("age", []obs.Value{obs.Int(1)})
	assert.Error(t, err)

	dropped := res.Drop("sex", "unknown")
	assert.Equal(t, []string{"dataset_id", "raw_sum", "age"}, dropped.Columns())
	assert.True(t, res.HasColumn("sex"))
}

func TestGroupBy(t *testing.T) {
	tbl := sample(t)
	require.NoError(t, tbl.AppendRow("c4", obs.Missing, obs.Number(5), obs.Missing))
	keys, groups, err := tbl.GroupBy("dataset_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, keys)
	assert.Equal(t, []int{0, 2}, groups["d1"])

	_, _, err = tbl.GroupBy("nope")
	assert.Error(t, err)
}

func TestDistinct(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, []string{"d1", "d2"}, tbl.Distinct("dataset_id"))
	assert.Equal(t, []string{"male", "female"}, tbl.Distinct("sex"))
	assert.Nil(t, tbl.Distinct("nope"))
}

func TestConcat(t *testing.T) {
	a := obs.New("x")
	require.NoError(t, a.AppendRow("r1", obs.Int(1)))
	b := obs.New("y", "x")
	require.NoError(t, b.AppendRow("r2", obs.String("b"), obs.Int(2)))

	res, err := obs.Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, res.Columns())
	assert.Equal(t, []string{"r1", "r2"}, res.Index())
	assert.True(t, res.Value(0, "y").IsMissing())
	assert.Equal(t, "2", res.Value(1, "x").String())

	_, err = obs.Concat(a, a)
	assert.Error(t, err)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 20.0, obs.Median([]float64{30, 10, 20}))
	assert.Equal(t, 15.0, obs.Median([]float64{20, 10}))
	assert.True(t, math.IsNaN(obs.Median(nil)))

	xs := []float64{3, 1, 2}
	obs.Median(xs)
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestNumbers(t *testing.T) {
	tbl := obs.New("n")
	require.NoError(t, tbl.AppendRow("a", obs.Int(1)))
	require.NoError(t, tbl.AppendRow("b", obs.Missing))
	require.NoError(t, tbl.AppendRow("c", obs.String("3")))
	require.NoError(t, tbl.AppendRow("d", obs.String("x")))

	res, err := tbl.Numbers("n", []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, res)

	_, err = tbl.Numbers("n", []int{3})
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ColumnTypeError, gnErr.Code)
}

func TestTableShapeErrors(t *testing.T) {
	tbl := obs.New("a", "b")
	require.NoError(t, tbl.AppendRow("r1", obs.String("x"), obs.String("y")))

	tests := []struct {
		msg string
		err error
	}{
		{"short row", tbl.AppendRow("r2", obs.String("x"))},
		{"long column", func() error {
			_, err := tbl.WithColumn("c", []obs.Value{obs.Int(1), obs.Int(2)})
			return err
		}()},
	}
	for _, v := range tests {
		require.Error(t, v.err, v.msg)
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.TableShapeError, gnErr.Code, v.msg)
	}
	assert.Equal(t, 1, tbl.Len())
}
