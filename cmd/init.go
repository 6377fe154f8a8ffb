package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/model"
	"github.com/gnolang/ppl/runner"
)

var examplePath string

// initCmd: ppl init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a project configuration file and an example model",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)

		created, err := initExampleModel(examplePath)
		if err != nil {
			logger.Error("Error writing example model", zap.Error(err))
			return
		}
		if created {
			fmt.Printf("Example model created: %s\n", examplePath)
		}
	},
}

func init() {
	initCmd.Flags().StringVar(&examplePath, "example", "sprinkler.yaml", "Path of the example model (left alone if present)")
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = runner.ConfigFileName
	}

	d, err := runner.DefaultConfig().Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}

// initExampleModel writes the example model unless path already exists.
func initExampleModel(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := f.WriteString(model.Example); err != nil {
		return false, err
	}
	return true, nil
}
