package dist

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Strategy selects the sampling interpreter.
type Strategy int

const (
	_ Strategy = iota
	// Forward draws independent ancestral samples with rejection for Filter.
	Forward
	// Metropolis runs single-site trace Metropolis-Hastings.
	Metropolis
)

func (s Strategy) String() string {
	switch s {
	case Forward:
		return "forward"
	case Metropolis:
		return "mcmc"
	default:
		return "unknown"
	}
}

// ParseStrategy accepts "forward" and "mcmc" (or "metropolis").
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "forward", "rejection":
		return Forward, nil
	case "mcmc", "metropolis", "mh":
		return Metropolis, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Config holds sampler settings. The zero value is usable: it samples
// forward from seed 0 without logging.
type Config struct {
	// Strategy defaults to Forward when zero.
	Strategy Strategy
	// Seed fixes the RNG stream; samplers restart from it on Reset.
	Seed uint64
	// BurnIn is the number of leading samples discarded by the estimators
	// and SampledInference.
	BurnIn int
	Logger *zap.Logger
}

// DefaultConfig returns a forward-sampling configuration seeded from the
// clock.
func DefaultConfig() Config {
	return Config{
		Strategy: Forward,
		Seed:     uint64(time.Now().UnixNano()),
		Logger:   zap.NewNop(),
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Sampler is a restartable, unbounded, pull-based stream of weighted
// samples. Consumers stop by no longer calling Next. A Sampler is not safe
// for concurrent use.
type Sampler[T any] interface {
	Next() Weighted[T]
	// Reset restarts the stream from its seed.
	Reset()
}

// NewSampler returns the sampler selected by cfg.Strategy.
func NewSampler[T any](d Dist[T], cfg Config) (Sampler[T], error) {
	switch cfg.Strategy {
	case 0, Forward:
		return NewForwardSampler(d, cfg), nil
	case Metropolis:
		return NewMetropolisSampler(d, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, cfg.Strategy)
	}
}

// Take pulls n samples.
func Take[T any](s Sampler[T], n int) []Weighted[T] {
	out := make([]Weighted[T], 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, s.Next())
	}
	return out
}

// Skip pulls and discards n samples.
func Skip[T any](s Sampler[T], n int) {
	for i := 0; i < n; i++ {
		s.Next()
	}
}

// Stream adapts s to a range-over-func sequence. The sequence never ends on
// its own; break out of the loop to stop.
func Stream[T any](s Sampler[T]) iter.Seq[Weighted[T]] {
	return func(yield func(Weighted[T]) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}
