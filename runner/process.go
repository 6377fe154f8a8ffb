package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressOutput receives the per-directory progress bar. Set it to
// io.Discard to silence it.
var ProgressOutput io.Writer = os.Stderr

func ProcessFile(engine Engine, path string) (Report, error) {
	return engine.Run(path)
}

// ProcessFiles runs every model file under paths. Directory entries are run
// concurrently; a file that fails is logged and skipped. Reports come back
// sorted by file.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) (Report, error),
) ([]Report, error) {
	var reports []Report
	for _, path := range paths {
		found, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		reports = append(reports, found...)
	}

	sort.SliceStable(reports, func(i, j int) bool { return reports[i].File < reports[j].File })
	return reports, nil
}

func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) (Report, error),
) ([]Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !IsModelFile(path) {
			return nil, nil
		}
		rep, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		return []Report{rep}, nil
	}

	files, err := modelFiles(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// slot i belongs to files[i]; failed or unstarted files stay nil
	done := make([]*Report, len(files))

	var g errgroup.Group
	g.SetLimit(max(engine.Workers(), 1))
	for i, fp := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer func() { _ = bar.Add(1) }()

			rep, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return nil
			}
			done[i] = &rep
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	var reports []Report
	for _, rep := range done {
		if rep != nil {
			reports = append(reports, *rep)
		}
	}

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}

var modelExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".ppl":  true,
}

// IsModelFile reports whether path looks like a model file. The project
// configuration is excluded.
func IsModelFile(path string) bool {
	return modelExtensions[filepath.Ext(path)] && filepath.Base(path) != ConfigFileName
}

func modelFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsModelFile(p) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
