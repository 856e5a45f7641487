package cmd

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/pkg/errcode"
)

// ConfigFileError is returned when config.yaml cannot be read.
func ConfigFileError(path string, err error) error {
	msg := `Cannot read configuration

<em>Config file:</em> %s

Fix the YAML or remove the file to restore defaults.`
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot read config %s: %w", path, err),
	}
}

// ArgsError is returned when a command gets wrong positional arguments.
func ArgsError(usage string, args []string) error {
	return &gn.Error{
		Code: errcode.PreconditionError,
		Msg:  "Usage: <em>%s</em>",
		Vars: []any{usage},
		Err: fmt.Errorf("wrong arguments [%s], usage: %s",
			strings.Join(args, " "), usage),
	}
}
