package iocensus

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func RemoteError(location, status string) error {
	msg := "Census request to <em>%s</em> failed: %s"
	vars := []any{location, status}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: GET %s: %s", fn.Name(), location, status),
	}
}
