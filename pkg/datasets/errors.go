package datasets

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

// UnknownDatasetError is returned when a dataset name is not in the
// registry.
func UnknownDatasetError(name string, known []string) error {
	msg := `Unknown dataset <em>%s</em>

<em>Known datasets:</em> %s

<em>How to fix:</em>
  Add the dataset to <em>datasets.yaml</em> or use one of the names above`

	vars := []any{name, strings.Join(known, ", ")}
	return &gn.Error{
		Code: errcode.UnknownDatasetError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown dataset %q", name),
	}
}
