package datasets_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/datasets"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	r := datasets.Registry{Datasets: []datasets.Dataset{
		{
			Name:          " gse1 ",
			Dir:           "gse1",
			Output:        "gse1.h5ad",
			MetadataFiles: []string{"a_metadata.txt.gz"},
			SampleAges:    map[string]int{"MDS1": 71},
		},
	}}
	require.NoError(t, r.Validate())
	d := r.Datasets[0]
	assert.Equal(t, "gse1", d.Name)
	assert.Equal(t, datasets.DefaultLabelColumn, d.LabelColumn)

	age, ok := d.Age("mds1")
	assert.True(t, ok)
	assert.Equal(t, 71, age)
	age, ok = d.Age("Mds1")
	assert.True(t, ok)
	assert.Equal(t, 71, age)
	_, ok = d.Age("mds2")
	assert.False(t, ok)
	assert.Equal(t, []string{"mds1"}, d.Samples())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		msg string
		ds  []datasets.Dataset
	}{
		{"empty", nil},
		{"no name", []datasets.Dataset{{Dir: "d", Output: "o"}}},
		{"no dir", []datasets.Dataset{{Name: "n", Output: "o"}}},
		{"no output", []datasets.Dataset{{Name: "n", Dir: "d"}}},
		{"plain metadata", []datasets.Dataset{
			{Name: "n", Dir: "d", Output: "o", MetadataFiles: []string{"m.txt"}},
		}},
		{"negative age", []datasets.Dataset{
			{Name: "n", Dir: "d", Output: "o", SampleAges: map[string]int{"s": -1}},
		}},
		{"repeated name", []datasets.Dataset{
			{Name: "n", Dir: "d", Output: "o"},
			{Name: "n", Dir: "d2", Output: "o2"},
		}},
	}
	for _, v := range tests {
		r := datasets.Registry{Datasets: v.ds}
		assert.Error(t, r.Validate(), v.msg)
	}
}

func TestGet(t *testing.T) {
	r := datasets.Registry{Datasets: []datasets.Dataset{
		{Name: "a", Dir: "a", Output: "a.h5ad"},
		{Name: "b", Dir: "b", Output: "b.h5ad"},
	}}
	d, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "b", d.Dir)

	_, err = r.Get("c")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.UnknownDatasetError, gnErr.Code)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}
