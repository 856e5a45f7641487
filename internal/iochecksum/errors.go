package iochecksum

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func LedgerReadError(path string, err error) error {
	msg := "Cannot read checksum ledger <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read ledger: %w", fn.Name(), err),
	}
}

func LedgerWriteError(path string, err error) error {
	msg := "Cannot write checksum ledger <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write ledger: %w", fn.Name(), err),
	}
}

func ChecksumReadError(path string, err error) error {
	msg := "Cannot compute checksum of <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ChecksumError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot hash %s: %w", fn.Name(), path, err),
	}
}
