package iofetch

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func PreconditionError(reason string) error {
	msg := "Cannot fetch dataset: %s"
	vars := []any{reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PreconditionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s", fn.Name(), reason),
	}
}

// IntegrityError is returned when a downloaded file does not hash to
// the expected checksum. It is not retried.
func IntegrityError(path, expected, actual string) error {
	msg := `Downloaded file <em>%s</em> failed integrity check

<em>Expected:</em> %s
<em>Actual:</em>   %s`
	vars := []any{path, expected, actual}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IntegrityError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: checksum of %s is %s, expected %s",
			fn.Name(), path, actual, expected),
	}
}

func CreateDirError(dir string, err error) error {
	msg := "Cannot create cache directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot create directory: %w", fn.Name(), err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
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
	msg := "Cannot write <em>%s</em>"
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

func RemoveFileError(path string, err error) error {
	msg := "Cannot remove stale cached file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot remove %s: %w", fn.Name(), path, err),
	}
}
