package artifact

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func ShapeError(id, reason string) error {
	msg := "Artifact <em>%s</em> has inconsistent shape: %s"
	vars := []any{id, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArtifactShapeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: artifact %s: %s", fn.Name(), id, reason),
	}
}

func DuplicateGenesError(id, gene string) error {
	msg := "Artifact <em>%s</em> has repeated gene <em>%s</em>"
	vars := []any{id, gene}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DuplicateGenesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: artifact %s: gene %q repeats", fn.Name(), id, gene),
	}
}

func DuplicateCellsError(id, cell string) error {
	msg := "Artifact <em>%s</em> has repeated cell id <em>%s</em>"
	vars := []any{id, cell}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DuplicateCellsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: artifact %s: cell %q repeats", fn.Name(), id, cell),
	}
}
