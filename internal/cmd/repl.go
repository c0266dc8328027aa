package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/engine"
	"loom/repl"
)

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive loom session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := engine.New(append(opts.cfg.EngineOptions(), engine.WithOutput(out))...)

			fmt.Fprintf(out, "Welcome to the loom REPL %s\n", Version)
			return repl.Start(cmd.InOrStdin(), out, e)
		},
	}
}
