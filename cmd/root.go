package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnolang/ppl/runner"
)

const defaultTimeout = 10 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "ppl [paths...]",
	Short:            "ppl - run probabilistic models and query their posteriors",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: ppl [path1 path2 ...] => behaves like the run subcommand
		runCmd.Run(runCmd, args)
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", runner.ConfigFileName, "Project configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for a run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log sampler diagnostics")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(prCmd)
}
