// Package cmd implements the loom command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"loom/internal/config"
)

var log = commonlog.GetLogger("loom.cmd")

// options are the global flags and the configuration resolved from them.
type options struct {
	configFile string
	baseDir    string
	extension  string
	verbose    int

	cfg *config.Config
}

// NewRootCmd creates the root command for the loom CLI.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "loom",
		Short:         "Run loom scripts and inspect their modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initialize(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config file (env: LOOM_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "Directory imports are resolved against (env: LOOM_BASE_DIR)")
	rootCmd.PersistentFlags().StringVar(&opts.extension, "ext", "", "Extension of script modules (env: LOOM_EXTENSION)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newModulesCmd(opts))
	rootCmd.AddCommand(newReplCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// initialize loads the configuration, applies flag overrides and sets up
// logging. Flags win over the file and the environment.
func (o *options) initialize(cmd *cobra.Command) error {
	configFile := o.configFile
	if configFile == "" {
		configFile = os.Getenv("LOOM_CONFIG")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	if cmd.Flags().Changed("base-dir") {
		cfg.BaseDir = o.baseDir
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extension = o.extension
	}
	if o.verbose > 0 {
		cfg.Verbosity = o.verbose
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	commonlog.Configure(cfg.Verbosity, nil)
	log.Debugf("base dir %q, extension %q, %d static modules", cfg.BaseDir, cfg.Extension, len(cfg.Static))

	o.cfg = cfg
	return nil
}
