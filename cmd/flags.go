package cmd

import (
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// exactArgs checks positional arguments and prints a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		err := ArgsError(usage, args)
		gn.PrintErrorMessage(err)
		return err
	}
}

// organismOrDefault returns the organism flag or the configured one.
func organismOrDefault(organism string) string {
	if organism == "" {
		return cfg.Census.Organism
	}
	return organism
}
