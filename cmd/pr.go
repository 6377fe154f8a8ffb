package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/dist"
	"github.com/gnolang/ppl/formatter"
	"github.com/gnolang/ppl/runner"
)

var prFlags = dist.DefaultPrQuery(0.5)

var prCmd = &cobra.Command{
	Use:   "pr <model>",
	Short: "Decide whether P(query != 0) exceeds a threshold",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := runner.New(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize runner", zap.Error(err))
		}

		d, err := r.Decide(args[0], prFlags)
		if err != nil {
			logger.Error("Error deciding query", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
		fmt.Print(formatter.GenerateFormattedDecision(args[0], d))
	},
}

func init() {
	prCmd.Flags().Float64Var(&prFlags.Prob, "threshold", prFlags.Prob, "Probability threshold")
	prCmd.Flags().Float64Var(&prFlags.Alpha, "alpha", prFlags.Alpha, "Bound on both error rates")
	prCmd.Flags().Float64Var(&prFlags.Epsilon, "epsilon", prFlags.Epsilon, "Half-width of the indifference region")
	prCmd.Flags().IntVar(&prFlags.MaxSamples, "max-samples", prFlags.MaxSamples, "Samples drawn before giving up")
	prCmd.Flags().IntVar(&prFlags.InitSamples, "init-samples", prFlags.InitSamples, "Samples before the first check")
	prCmd.Flags().IntVar(&prFlags.Step, "step", prFlags.Step, "Samples between checks")
}
