package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/formatter"
	"github.com/gnolang/ppl/internal/vet"
)

var vetCmd = &cobra.Command{
	Use:   "vet [paths...]",
	Short: "Check Go code that builds dist graphs for graphs that cannot sample",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		files, err := goFiles(args)
		if err != nil {
			logger.Fatal("Error collecting files", zap.Error(err))
		}

		var diags []vet.Diagnostic
		for _, f := range files {
			found, err := vet.CheckFile(f)
			if err != nil {
				logger.Error("Error checking file", zap.String("file", f), zap.Error(err))
				continue
			}
			diags = append(diags, found...)
		}

		fmt.Print(formatter.GenerateFormattedDiagnostics(diags))
		if len(diags) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(vetCmd)
}

// goFiles expands paths into Go source files, skipping directories the go
// tool ignores.
func goFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if p != path && (name == "testdata" || name == "vendor" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == ".go" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
