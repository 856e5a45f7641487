package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("connection refused")
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars int
	}{
		{"connection", ConnectionError("localhost", 5432, "seafront",
			"postgres", orig), errcode.DBConnectionError, 5},
		{"table check", TableExistsCheckError("t", orig),
			errcode.DBSchemaError, 1},
		{"schema", SchemaError(orig), errcode.DBSchemaError, 0},
		{"export", ExportError("dataset_summaries", orig),
			errcode.DBExportError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, tt.err, &gnErr)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Len(t, gnErr.Vars, tt.vars)
			assert.ErrorIs(t, gnErr.Err, orig)
		})
	}
}

func TestNotConnected(t *testing.T) {
	var gnErr *gn.Error
	require.ErrorAs(t, NotConnectedError(), &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	op := NewPgxOperator()
	_, err := op.TableExists(t.Context(), "dataset_summaries")
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	e := NewExporter(op)
	require.ErrorAs(t, e.Migrate(t.Context()), &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
