package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

// ConnectionError is returned when PostgreSQL cannot be reached.
func ConnectionError(host string, port int, database, user string,
	err error) error {
	msg := `Cannot connect to PostgreSQL

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database settings in config.yaml are wrong

<em>How to fix:</em>
  1. Check the server: <em>pg_isready -h %s -p %d</em>
  2. Check the database exists: <em>psql -h %s -U %s -l</em>
  3. Create it if needed: <em>createdb %s</em>`

	vars := []any{host, port, host, user, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
	}
}

// NotConnectedError is returned when the operator has no pool.
func NotConnectedError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("from %s: database is not connected", fn.Name()),
	}
}

// TableExistsCheckError is returned when table lookup fails.
func TableExistsCheckError(table string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  "Cannot check if table <em>%s</em> exists",
		Vars: []any{table},
		Err: fmt.Errorf("from %s: table check %s: %w",
			fn.Name(), table, err),
	}
}

// SchemaError is returned when AutoMigrate fails.
func SchemaError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  "Cannot create summary tables",
		Err:  fmt.Errorf("from %s: migrate: %w", fn.Name(), err),
	}
}

// ExportError is returned when summary rows cannot be written.
func ExportError(table string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBExportError,
		Msg:  "Cannot export summaries to <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("from %s: export %s: %w", fn.Name(), table, err),
	}
}
