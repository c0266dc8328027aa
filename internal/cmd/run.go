package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/engine"
	"loom/internal/scope"
)

func newRunCmd(opts *options) *cobra.Command {
	var printResult bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a loom script",
		Long: `Run a loom script. Imports are resolved against the configured static
modules first, then against script files under the base directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			e := engine.New(append(opts.cfg.EngineOptions(), engine.WithOutput(cmd.OutOrStdout()))...)

			log.Infof("running %s", path)
			result, err := e.EvalFile(scope.New(), path)
			if err != nil {
				return scriptFailure(cmd.ErrOrStderr(), path, err)
			}
			if printResult && !result.IsUnit() {
				fmt.Fprintln(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printResult, "print", "p", false, "Print the value of the script's last statement")
	return cmd
}
