// Package sprt holds the arithmetic of Wald's sequential probability ratio
// test for a Bernoulli proportion.
package sprt

import (
	"fmt"
	"math"
)

// Decision is the outcome of evaluating the test at a checkpoint.
type Decision int

const (
	Continue Decision = iota
	AcceptH0
	AcceptH1
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case AcceptH0:
		return "accept-h0"
	case AcceptH1:
		return "accept-h1"
	default:
		return "unknown"
	}
}

// proportions are kept strictly inside (0, 1) so the log ratios stay finite
const clampEps = 1e-9

// Test compares H0: p <= P0 against H1: p >= P1.
type Test struct {
	P0    float64
	P1    float64
	Alpha float64
	Beta  float64

	upper float64
	lower float64
}

// New builds a test around threshold prob with indifference region
// [prob-epsilon, prob+epsilon]. Beta is set equal to alpha.
func New(prob, alpha, epsilon float64) (*Test, error) {
	if alpha <= 0 || alpha >= 0.5 {
		return nil, fmt.Errorf("alpha must be in (0, 0.5), got %v", alpha)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %v", epsilon)
	}
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("threshold must be in [0, 1], got %v", prob)
	}

	t := &Test{
		P0:    clamp(prob - epsilon),
		P1:    clamp(prob + epsilon),
		Alpha: alpha,
		Beta:  alpha,
	}
	t.upper = math.Log((1 - t.Beta) / t.Alpha)
	t.lower = math.Log(t.Beta / (1 - t.Alpha))
	return t, nil
}

func clamp(p float64) float64 {
	return math.Min(math.Max(p, clampEps), 1-clampEps)
}

// LogLikelihoodRatio returns log(L(H1)/L(H0)) after observing successes
// out of trials. Both may be fractional when samples carry weights.
func (t *Test) LogLikelihoodRatio(successes, trials float64) float64 {
	failures := trials - successes
	return successes*math.Log(t.P1/t.P0) + failures*math.Log((1-t.P1)/(1-t.P0))
}

// Decide evaluates the statistic against Wald's boundaries.
func (t *Test) Decide(successes, trials float64) Decision {
	llr := t.LogLikelihoodRatio(successes, trials)
	switch {
	case llr >= t.upper:
		return AcceptH1
	case llr <= t.lower:
		return AcceptH0
	default:
		return Continue
	}
}

// Bounds returns the lower and upper decision boundaries.
func (t *Test) Bounds() (lower, upper float64) {
	return t.lower, t.upper
}
