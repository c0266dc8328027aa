package cmd

import (
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loom/grammar"
	"loom/internal/engine"
	"loom/internal/errors"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse and compile scripts without running them",
		Long: `Parse and compile scripts, and verify that every top-level import names a
static module or an existing script file. Nothing is evaluated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				if !opts.check(cmd, path) {
					failed++
				}
			}

			duration := formatDuration(time.Since(startTime))
			if failed > 0 {
				color.New(color.FgRed).Fprintf(out, "%d of %d scripts failed after %s\n", failed, len(args), duration)
				return &ExitError{Code: ExitScriptError, Printed: true}
			}
			color.New(color.FgGreen).Fprintf(out, "Successfully checked %d scripts in %s\n", len(args), duration)
			return nil
		},
	}
}

// check reports every problem in the script at path and returns whether
// there were none.
func (o *options) check(cmd *cobra.Command, path string) bool {
	stderr := cmd.ErrOrStderr()

	script, err := grammar.ParseFile(path)
	if err != nil {
		reportError(stderr, path, parseFailure(err))
		return false
	}
	ok := true
	if _, err := engine.New().CompileParsed(path, script); err != nil {
		reportError(stderr, path, err)
		ok = false
	}

	baseDir := o.cfg.BaseDir
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(filepath.Dir(path), baseDir)
	}
	for _, s := range script.Statements {
		if imp := s.Import; imp != nil && !o.cfg.HasModule(baseDir, imp.Path) {
			reportError(stderr, path, errors.ModuleNotFound(imp.Path, grammar.ToPosition(imp.Pos)))
			ok = false
		}
	}
	return ok
}

func parseFailure(err error) error {
	if pos, msg, ok := grammar.ErrorPosition(err); ok {
		return errors.ParseError(msg, pos)
	}
	return err
}
