package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/model"
	"github.com/gnolang/ppl/runner"
)

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), runner.ConfigFileName)

	require.NoError(t, initConfigurationFile(path))

	config, err := runner.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, runner.DefaultConfig(), config)
}

func TestInitExampleModel(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "example.yaml")

	created, err := initExampleModel(path)
	require.NoError(t, err)
	assert.True(t, created)

	f, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sprinkler", f.Name)

	require.NoError(t, os.WriteFile(path, []byte("kept"), 0o644))
	created, err = initExampleModel(path)
	require.NoError(t, err)
	assert.False(t, created)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(content))
}

func TestApplyRunFlags(t *testing.T) {
	t.Parallel()
	cmd := &cobra.Command{}
	var (
		s    string
		n    int
		seed uint64
	)
	cmd.Flags().StringVar(&s, "strategy", "", "")
	cmd.Flags().IntVar(&n, "samples", 0, "")
	cmd.Flags().IntVar(new(int), "burn-in", 0, "")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--samples", "123"}))

	config := runner.DefaultConfig()
	applyRunFlags(cmd, &config)

	assert.Equal(t, 123, config.Samples)
	assert.Equal(t, runner.DefaultConfig().Strategy, config.Strategy)
	assert.Zero(t, config.Seed)
}

func TestPrintReportsJSON(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "reports.json")
	reports := []runner.Report{{
		File:      "coins.yaml",
		Model:     "coins",
		Query:     "any",
		Strategy:  "exact",
		Distinct:  2,
		Posterior: []runner.Outcome{{Value: 1, Probability: 0.875}, {Value: 0, Probability: 0.125}},
	}}

	printReports(zap.NewNop(), reports, true, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded []runner.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, reports, decoded)
}

func TestGoFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, p := range []string{"a.go", "b.txt", "sub/c.go", "testdata/d.go", "_skip/e.go", ".hidden/f.go"} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("package x\n"), 0o644))
	}

	files, err := goFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "sub", "c.go")}, files)
}

func TestInteractive(t *testing.T) {
	t.Parallel()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, interactive(f))
}
