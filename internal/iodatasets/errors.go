package iodatasets

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

// DatasetsConfigError is returned when datasets.yaml cannot be loaded.
func DatasetsConfigError(path string, err error) error {
	msg := `Cannot load dataset registry

<em>Registry file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format or unknown fields
  - A dataset misses name, dir or output

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to restore the default registry`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.DatasetsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load dataset registry: %w", err),
	}
}
