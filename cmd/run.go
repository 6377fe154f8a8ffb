package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/formatter"
	"github.com/gnolang/ppl/runner"
)

var (
	strategy      string
	samples       int
	burnIn        int
	seed          uint64
	runJsonOutput bool
	outPath       string
	watchMode     bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Infer the query posterior of each model file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide model files or directories")
			os.Exit(1)
		}

		r, err := runner.New(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize runner", zap.Error(err))
		}
		if err := r.Override(func(c *runner.Config) { applyRunFlags(cmd, c) }); err != nil {
			logger.Fatal("Invalid run flags", zap.Error(err))
		}

		if !interactive(os.Stderr) {
			runner.ProgressOutput = io.Discard
		} else if len(args) == 1 {
			if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
				r.ShowProgress(os.Stderr)
			}
		}

		if watchMode {
			watchModels(logger, r, args)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		runModels(ctx, logger, r, args, runJsonOutput, outPath)
	},
}

func init() {
	runCmd.Flags().StringVar(&strategy, "strategy", "", "Inference strategy: exact, forward or mcmc")
	runCmd.Flags().IntVar(&samples, "samples", 0, "Number of samples for sampling strategies")
	runCmd.Flags().IntVar(&burnIn, "burn-in", 0, "Samples discarded before collecting")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed (0 seeds from the clock)")
	runCmd.Flags().BoolVar(&runJsonOutput, "json", false, "Output reports in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run models when they change")
}

// interactive reports whether f is a terminal. Progress bars are drawn only
// there so redirected output stays clean.
func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// applyRunFlags overrides the project configuration with the flags the user
// set explicitly.
func applyRunFlags(cmd *cobra.Command, c *runner.Config) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		c.Strategy = strategy
	}
	if flags.Changed("samples") {
		c.Samples = samples
	}
	if flags.Changed("burn-in") {
		c.BurnIn = burnIn
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
}

func runModels(ctx context.Context, logger *zap.Logger, engine runner.Engine, paths []string, isJson bool, jsonOutput string) {
	reports, err := runner.ProcessFiles(ctx, logger, engine, paths, runner.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}
	if len(reports) == 0 {
		fmt.Println("error: no model could be run")
		os.Exit(1)
	}

	printReports(logger, reports, isJson, jsonOutput)
}

func printReports(logger *zap.Logger, reports []runner.Report, isJson bool, jsonOutput string) {
	if !isJson {
		fmt.Print(formatter.GenerateFormattedReports(reports))
		return
	}

	d, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		logger.Error("Error marshalling reports to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}

func watchModels(logger *zap.Logger, r *runner.Runner, paths []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	initial, err := runner.ProcessFiles(ctx, logger, r, paths, runner.ProcessFile)
	if err != nil {
		logger.Fatal("Error processing files", zap.Error(err))
	}
	printReports(logger, initial, runJsonOutput, outPath)

	logger.Info("watching for changes", zap.Strings("paths", paths))
	err = runner.Watch(ctx, logger, paths, func(path string) {
		rep, err := r.Run(path)
		if err != nil {
			logger.Error("Error running model", zap.String("file", path), zap.Error(err))
			return
		}
		printReports(logger, []runner.Report{rep}, runJsonOutput, outPath)
	})
	if err != nil {
		logger.Fatal("Error watching files", zap.Error(err))
	}
}
