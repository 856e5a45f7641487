package obs

import (
	"math"
	"slices"
)

// Median returns the median of xs, averaging the two middle values for
// even lengths. It returns NaN for an empty slice. xs is not modified.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Numbers collects numeric values of a column at the given rows,
// skipping missing ones. A value that is not a number is an error.
func (t *Table) Numbers(column string, rows []int) ([]float64, error) {
	vals, ok := t.data[column]
	if !ok {
		return nil, MissingColumnError(column)
	}
	res := make([]float64, 0, len(rows))
	for _, i := range rows {
		v := vals[i]
		if v.IsMissing() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return nil, ColumnTypeError(column, v)
		}
		res = append(res, f)
	}
	return res, nil
}
