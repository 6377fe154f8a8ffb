package formatter

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/ppl/dist"
	"github.com/gnolang/ppl/runner"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatExactReport(t *testing.T) {
	t.Parallel()
	rep := runner.Report{
		File:     "models/sprinkler.yaml",
		Model:    "sprinkler",
		Query:    "rain",
		Strategy: "exact",
		Distinct: 2,
		Posterior: []runner.Outcome{
			{Value: 0, Probability: 0.75},
			{Value: 1, Probability: 0.25},
		},
		Estimate: dist.Estimate{Mean: 0.25, StdDev: 0.5},
		Decision: &runner.Decision{Query: "rain", Threshold: 0.3, Result: false, Exact: true},
	}

	expected := `model: sprinkler
 --> models/sprinkler.yaml (exact)
  |
  | rain
  | 0  0.7500  ##############################
  | 1  0.2500  ##########
  |
  = mean 0.25, sd 0.5
  = P(rain != 0) > 0.3: false (exact)
`
	assert.Equal(t, expected, GenerateFormattedReport(rep))
}

func TestFormatSampledReportWithoutTable(t *testing.T) {
	t.Parallel()
	rep := runner.Report{
		File:     "gauss.yaml",
		Model:    "gauss",
		Query:    "x",
		Strategy: "mcmc",
		Samples:  1000,
		Distinct: 1000,
		Estimate: dist.Estimate{Mean: 1.5, StdDev: 2, Confidence: 0.125, Samples: 1000},
	}

	expected := `model: gauss
 --> gauss.yaml (mcmc, 1000 samples)
  |
  = mean 1.5 ± 0.125, sd 2
Note: 1000 distinct outcomes, table omitted
`
	assert.Equal(t, expected, GenerateFormattedReport(rep))
}

func TestFormatAlignsValues(t *testing.T) {
	t.Parallel()
	out := posterior("n", []runner.Outcome{
		{Value: 10, Probability: 0.5},
		{Value: 2, Probability: 0.5},
	})
	assert.Contains(t, out, "  | 10  0.5000")
	assert.Contains(t, out, "  |  2  0.5000")
}

func TestFormatDecision(t *testing.T) {
	t.Parallel()
	out := GenerateFormattedDecision("coins.yaml", runner.Decision{Query: "any", Threshold: 0.8, Result: true})
	assert.Equal(t, " --> coins.yaml\n  = P(any != 0) > 0.8: true\n", out)
}

func TestFormatReports(t *testing.T) {
	t.Parallel()
	reps := []runner.Report{
		{File: "a.yaml", Model: "a", Query: "q", Strategy: "exact", Distinct: 1,
			Posterior: []runner.Outcome{{Value: 1, Probability: 1}}},
		{File: "b.yaml", Model: "b", Query: "q", Strategy: "exact", Distinct: 1,
			Posterior: []runner.Outcome{{Value: 0, Probability: 1}}},
	}
	out := GenerateFormattedReports(reps)
	assert.Contains(t, out, "model: a")
	assert.Contains(t, out, "model: b")
}
