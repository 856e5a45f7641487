package iogenes

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func NotEnoughDatasetsError(have, need int) error {
	msg := "Need at least %d datasets to sample from, got %d"
	vars := []any{need, have}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PreconditionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %d datasets, need %d", fn.Name(), have, need),
	}
}

func SampleSizeError(n int) error {
	msg := "Sample size must be at least 2, got %d"
	vars := []any{n}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PreconditionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: sample size %d", fn.Name(), n),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read gene list <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func WriteFileError(path string, err error) error {
	msg := "Cannot write gene list <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}

// GeneMismatchError reports datasets whose gene names differ from the
// reference dataset.
func GeneMismatchError(r *Report) error {
	msg := `Gene names differ between census datasets

<em>Reference dataset:</em> %s
<em>Diverged datasets:</em> %s

The canonical gene list was not written.`
	ref := ""
	if len(r.Sampled) > 0 {
		ref = r.Sampled[0]
	}
	diverged := strings.Join(r.Diverged, ", ")
	return &gn.Error{
		Code: errcode.AlignmentError,
		Msg:  msg,
		Vars: []any{ref, diverged},
		Err: fmt.Errorf("gene names of %s differ from %s",
			diverged, ref),
	}
}
