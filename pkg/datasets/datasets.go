// Package datasets describes multi-sample datasets assembled from local
// archives, as listed in datasets.yaml.
package datasets

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultLabelColumn is the metadata column joined into observations
// when a dataset does not name one.
const DefaultLabelColumn = "CellType"

// Loader reads the dataset registry.
type Loader interface {
	Load() (*Registry, error)
}

// Registry is the content of datasets.yaml.
type Registry struct {
	// Datasets is the list of known datasets.
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is one multi-sample dataset.
type Dataset struct {
	// Name identifies the dataset on the command line.
	Name string `yaml:"name"`

	// Dir contains sample matrices and metadata files. Relative paths are
	// resolved against the data cache directory.
	Dir string `yaml:"dir"`

	// Archive is an optional tar archive extracted into Dir.
	Archive string `yaml:"archive,omitempty"`

	// MetadataFiles are gzip-compressed metadata files (X.txt.gz) that
	// are decompressed next to themselves before reading.
	MetadataFiles []string `yaml:"metadata_files,omitempty"`

	// LabelColumn is the metadata column joined into observations.
	LabelColumn string `yaml:"label_column,omitempty"`

	// Output is the path of the combined artifact.
	Output string `yaml:"output"`

	// SampleAges maps sample ids to donor ages in years.
	SampleAges map[string]int `yaml:"sample_ages,omitempty"`
}

// Get returns the dataset with the given name.
func (r *Registry) Get(name string) (Dataset, error) {
	for _, d := range r.Datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return Dataset{}, UnknownDatasetError(name, r.Names())
}

// Names returns dataset names in registry order.
func (r *Registry) Names() []string {
	res := make([]string, len(r.Datasets))
	for i, d := range r.Datasets {
		res[i] = d.Name
	}
	return res
}

// Validate checks the registry and applies defaults.
func (r *Registry) Validate() error {
	if len(r.Datasets) == 0 {
		return fmt.Errorf("no datasets specified")
	}
	seen := make(map[string]struct{})
	for i := range r.Datasets {
		d := &r.Datasets[i]
		if err := d.Validate(); err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("dataset %d: name %q repeats", i+1, d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Validate checks a single dataset and fills in defaults. Directory
// existence is checked when the dataset is combined.
func (d *Dataset) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if d.Output == "" {
		return fmt.Errorf("output is required")
	}
	if d.LabelColumn == "" {
		d.LabelColumn = DefaultLabelColumn
	}
	for _, f := range d.MetadataFiles {
		if !strings.HasSuffix(f, ".gz") {
			return fmt.Errorf("metadata file %q is not gzip-compressed", f)
		}
	}
	ages := make(map[string]int, len(d.SampleAges))
	for k, v := range d.SampleAges {
		if v < 0 {
			return fmt.Errorf("sample %q has negative age %d", k, v)
		}
		ages[strings.ToLower(k)] = v
	}
	d.SampleAges = ages
	return nil
}

// Age returns the donor age of a sample. Sample ids are compared
// lower-cased.
func (d Dataset) Age(sampleID string) (int, bool) {
	age, ok := d.SampleAges[strings.ToLower(sampleID)]
	return age, ok
}

// Samples returns the sample ids with known ages, sorted.
func (d Dataset) Samples() []string {
	res := make([]string, 0, len(d.SampleAges))
	for k := range d.SampleAges {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
