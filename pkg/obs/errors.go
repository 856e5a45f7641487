package obs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

func DuplicateIndexError(id string) error {
	msg := "Row id <em>%s</em> is not unique"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DuplicateIndexError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: duplicate row id %q", fn.Name(), id),
	}
}

func MissingColumnError(column string) error {
	msg := "Column <em>%s</em> not found"
	vars := []any{column}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MissingColumnError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: missing column %q", fn.Name(), column),
	}
}

func ColumnTypeError(column string, v Value) error {
	msg := "Column <em>%s</em> must be numeric, got '%s'"
	vars := []any{column, v.String()}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ColumnTypeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: non-numeric value %q in column %q",
			fn.Name(), v.String(), column),
	}
}

func RowLengthError(id string, have, want int) error {
	msg := "Row <em>%s</em> has %d values, table has %d columns"
	vars := []any{id, have, want}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableShapeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: row %q has %d values, want %d",
			fn.Name(), id, have, want),
	}
}

func ColumnLengthError(column string, have, want int) error {
	msg := "Column <em>%s</em> has %d values, table has %d rows"
	vars := []any{column, have, want}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableShapeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: column %q has %d values, want %d",
			fn.Name(), column, have, want),
	}
}
