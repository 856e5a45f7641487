package iosamples

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

// maxListed limits the number of offending keys shown to users.
const maxListed = 10

func PreconditionError(name, reason string) error {
	msg := "Cannot combine <em>%s</em>: %s"
	vars := []any{name, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PreconditionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %s", fn.Name(), name, reason),
	}
}

// AlignmentError is returned when cells cannot be matched with metadata
// rows. Keys lists the offending cell ids or keys.
func AlignmentError(name, reason string, keys []string) error {
	shown := keys
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	list := strings.Join(shown, ", ")
	if len(keys) > maxListed {
		list += fmt.Sprintf(" and %d more", len(keys)-maxListed)
	}
	msg := `Cannot align cells of <em>%s</em> with metadata: %s

<em>Offending keys (%d):</em> %s`
	vars := []any{name, reason, len(keys), list}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AlignmentError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s: %s: %d keys (%s)",
			fn.Name(), name, reason, len(keys), list),
	}
}

func UnsupportedFormatError(path, format string) error {
	msg := `Sample <em>%s</em> has unsupported format <em>%s</em>

<em>How to fix:</em>
  Convert the sample to a 10x matrix directory (barcodes, features, matrix.mtx)`
	vars := []any{path, format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnsupportedSampleFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no reader for %s format of %s", fn.Name(), format, path),
	}
}

func SampleReadError(path string, err error) error {
	msg := "Cannot read sample <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SampleReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func ArchiveError(path string, err error) error {
	msg := "Cannot unpack <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArchiveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot unpack %s: %w", fn.Name(), path, err),
	}
}
