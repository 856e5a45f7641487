// Package iodatasets loads the dataset registry from datasets.yaml.
package iodatasets

import (
	"errors"
	"io"
	"os"

	"github.com/seafront/seafront/pkg/config"
	"github.com/seafront/seafront/pkg/datasets"
	"gopkg.in/yaml.v3"
)

type iodatasets struct {
	path string
}

// New creates a loader reading datasets.yaml from the config directory.
func New(cfg *config.Config) datasets.Loader {
	return &iodatasets{path: config.DatasetsFilePath(cfg.HomeDir)}
}

// NewFromFile creates a loader reading the given file.
func NewFromFile(path string) datasets.Loader {
	return &iodatasets{path: path}
}

func (d *iodatasets) Load() (*datasets.Registry, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, DatasetsConfigError(d.path, err)
	}
	defer f.Close()

	res, err := Decode(f)
	if err != nil {
		return nil, DatasetsConfigError(d.path, err)
	}
	return res, nil
}

// Decode parses and validates a registry. Unknown fields are errors.
func Decode(r io.Reader) (*datasets.Registry, error) {
	var res datasets.Registry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&res); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}
