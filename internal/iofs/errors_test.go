package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("permission denied")
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		path string
		text string
	}{
		{"dir", CreateDirError("/x/dir", orig), errcode.CreateDirError,
			"/x/dir", "cannot create directory"},
		{"copy", CopyFileError("/x/config.yaml", orig), errcode.CopyFileError,
			"/x/config.yaml", "cannot copy file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, tt.err, &gnErr)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "<em>%s</em>")
			assert.Equal(t, []any{tt.path}, gnErr.Vars)
			assert.ErrorIs(t, gnErr.Err, orig)
			assert.Contains(t, gnErr.Err.Error(), tt.text)
			assert.Contains(t, gnErr.Err.Error(), "TestErrors")
		})
	}
}
