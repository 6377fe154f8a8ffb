package dist

import (
	"fmt"
	"math"

	"github.com/gnolang/ppl/internal/sprt"
	"go.uber.org/zap"
)

// z-score of a two-sided 95% normal interval
const z95 = 1.96

// Estimate is a weighted sample mean with a normal-approximation 95%
// confidence half-width. No small-sample correction is applied.
type Estimate struct {
	Mean       float64
	StdDev     float64
	Confidence float64
	Samples    int
}

func (e Estimate) String() string {
	return fmt.Sprintf("%g ± %g (n=%d)", e.Mean, e.Confidence, e.Samples)
}

// ExpectedValue returns the weighted mean of n samples of d.
func ExpectedValue(d Dist[float64], n int, cfg Config) (float64, error) {
	e, err := ExpectedValueWithConfidence(d, n, cfg)
	if err != nil {
		return 0, err
	}
	return e.Mean, nil
}

func ExpectedValueWithConfidence(d Dist[float64], n int, cfg Config) (Estimate, error) {
	return ExpectedValueOf(d, func(x float64) float64 { return x }, n, cfg)
}

// ExpectedValueOf estimates the expectation of f(X) for X drawn from d.
func ExpectedValueOf[T any](d Dist[T], f func(T) float64, n int, cfg Config) (Estimate, error) {
	if n <= 0 {
		return Estimate{}, fmt.Errorf("%w: sample count %d", ErrNoSamples, n)
	}
	s, err := NewSampler(d, cfg)
	if err != nil {
		return Estimate{}, err
	}
	Skip(s, cfg.BurnIn)

	xs := make([]float64, n)
	ws := make([]float64, n)
	for i := range xs {
		w := s.Next()
		xs[i] = f(w.Value)
		ws[i] = w.Probability
	}
	return weightedMoments(xs, ws)
}

// Summarize computes the weighted moments of samples that were already drawn.
func Summarize(samples []Weighted[float64]) (Estimate, error) {
	if len(samples) == 0 {
		return Estimate{}, ErrNoSamples
	}
	xs := make([]float64, len(samples))
	ws := make([]float64, len(samples))
	for i, w := range samples {
		xs[i], ws[i] = w.Value, w.Probability
	}
	return weightedMoments(xs, ws)
}

func weightedMoments(xs, ws []float64) (Estimate, error) {
	var sumW, sumW2, sumWX float64
	for i, x := range xs {
		sumW += ws[i]
		sumW2 += ws[i] * ws[i]
		sumWX += ws[i] * x
	}
	if sumW == 0 {
		return Estimate{}, ErrZeroWeight
	}
	mean := sumWX / sumW

	var ss float64
	for i, x := range xs {
		d := x - mean
		ss += ws[i] * d * d
	}

	// reliability-weight correction; reduces to n-1 for unit weights
	variance := 0.0
	if denom := sumW - sumW2/sumW; denom > 0 {
		variance = ss / denom
	}
	sd := math.Sqrt(variance)

	n := len(xs)
	return Estimate{
		Mean:       mean,
		StdDev:     sd,
		Confidence: z95 * sd / math.Sqrt(float64(n)),
		Samples:    n,
	}, nil
}

// PrQuery parameterizes the sequential test behind Pr.
type PrQuery struct {
	// Prob is the threshold the probability of true is compared against.
	Prob float64
	// Alpha bounds both error rates.
	Alpha float64
	// Epsilon is the half-width of the indifference region around Prob.
	Epsilon     float64
	MaxSamples  int
	InitSamples int
	// Step is the number of samples between checkpoints after InitSamples.
	Step int
}

// DefaultPrQuery returns a query against prob with alpha 0.05, epsilon
// 0.01, at most 10000 samples, the first checkpoint after 100 and then every
// 10 samples.
func DefaultPrQuery(prob float64) PrQuery {
	return PrQuery{
		Prob:        prob,
		Alpha:       0.05,
		Epsilon:     0.01,
		MaxSamples:  10000,
		InitSamples: 100,
		Step:        10,
	}
}

// Pr decides with Wald's SPRT whether P(d is true) exceeds q.Prob. It
// returns true once H1 (p >= Prob+Epsilon) is accepted and false once H0
// (p <= Prob-Epsilon) is accepted. When MaxSamples runs out undecided it
// returns false.
func Pr(d Dist[bool], q PrQuery, cfg Config) (bool, error) {
	if q.MaxSamples <= 0 || q.Step <= 0 || q.InitSamples < 0 {
		return false, fmt.Errorf("%w: max samples %d, init samples %d, step %d",
			ErrInvalidArgument, q.MaxSamples, q.InitSamples, q.Step)
	}
	test, err := sprt.New(q.Prob, q.Alpha, q.Epsilon)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	s, err := NewSampler(d, cfg)
	if err != nil {
		return false, err
	}
	Skip(s, cfg.BurnIn)
	logger := cfg.logger()

	var trueWeight, totalWeight float64
	checkpoint := q.InitSamples
	for drawn := 1; drawn <= q.MaxSamples; drawn++ {
		w := s.Next()
		totalWeight += w.Probability
		if w.Value {
			trueWeight += w.Probability
		}
		if drawn < checkpoint || totalWeight == 0 {
			continue
		}
		checkpoint = drawn + q.Step

		// weights reshape the observed proportion, not the sample count
		successes := trueWeight / totalWeight * float64(drawn)
		switch test.Decide(successes, float64(drawn)) {
		case sprt.AcceptH1:
			logger.Debug("sprt decided", zap.Bool("result", true), zap.Int("samples", drawn))
			return true, nil
		case sprt.AcceptH0:
			logger.Debug("sprt decided", zap.Bool("result", false), zap.Int("samples", drawn))
			return false, nil
		}
	}

	logger.Debug("sprt undecided", zap.Int("samples", q.MaxSamples))
	return false, nil
}
