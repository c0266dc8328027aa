package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/engine"
	"loom/internal/scope"
	"loom/token"
)

func newModulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "modules <path>...",
		Short: "List what imported modules export",
		Long: `Resolve each import path the way a script's import statement would and
list the qualified variables and functions the module exports.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := engine.New(append(opts.cfg.EngineOptions(), engine.WithOutput(cmd.ErrOrStderr()))...)
			resolver := e.ModuleResolver()

			for _, path := range args {
				m, err := resolver.Resolve(e, scope.New(), path, token.None())
				if err != nil {
					return scriptFailure(cmd.ErrOrStderr(), path, err)
				}
				m.IndexAllSubModules()

				fmt.Fprintf(out, "%s %s\n", path, m)
				for _, name := range m.QualifiedVarNames() {
					fmt.Fprintf(out, "  let %s\n", name)
				}
				for _, name := range m.QualifiedFnNames() {
					fmt.Fprintf(out, "  fn  %s\n", name)
				}
			}
			return nil
		},
	}
}
