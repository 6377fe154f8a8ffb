package dist

import (
	"math"

	"go.uber.org/zap"
)

// Stats counts Metropolis-Hastings steps since the last Reset.
type Stats struct {
	Steps    int
	Accepted int
	Rejected int
	// Retries counts proposals discarded because some choice had zero density.
	Retries int
}

// AcceptanceRate returns Accepted/Steps, or 0 before the first step.
func (s Stats) AcceptanceRate() float64 {
	if s.Steps == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Steps)
}

// MetropolisSampler is a single-site lightweight Metropolis-Hastings chain
// over execution traces. Each step regenerates one uniformly chosen random
// choice of the last accepted trace, re-runs the whole graph reusing every
// other choice whose address and primitive key still match, and accepts the
// candidate with the usual MH ratio corrected for traces of different
// length. A rejected step yields the previous sample again.
type MetropolisSampler[T any] struct {
	root   Dist[T]
	seed   uint64
	logger *zap.Logger

	w        *walker
	accepted []entry
	current  Weighted[T]
	started  bool
	stats    Stats

	fresh map[site]struct{}
}

func NewMetropolisSampler[T any](d Dist[T], cfg Config) *MetropolisSampler[T] {
	s := &MetropolisSampler[T]{
		root:   d,
		seed:   cfg.Seed,
		logger: cfg.logger(),
		fresh:  make(map[site]struct{}),
	}
	s.Reset()
	return s
}

func (s *MetropolisSampler[T]) Reset() {
	s.w = newWalker(newTraversal(newRand(s.seed)))
	s.accepted = nil
	s.current = Weighted[T]{}
	s.started = false
	s.stats = Stats{}
}

// Stats returns the chain counters.
func (s *MetropolisSampler[T]) Stats() Stats {
	return s.stats
}

// Next advances the chain by one step and returns the current sample.
// Candidates scoring -Inf are dropped and re-proposed without yielding.
func (s *MetropolisSampler[T]) Next() Weighted[T] {
	for {
		result := s.propose()
		candidate := s.w.trace

		if math.IsInf(traceScore(candidate), -1) {
			s.stats.Retries++
			if ce := s.logger.Check(zap.DebugLevel, "discarding zero-density proposal"); ce != nil {
				ce.Write(zap.Int("step", s.stats.Steps), zap.Int("choices", len(candidate)))
			}
			continue
		}

		accept := !s.started
		if !accept {
			accept = math.Log(s.w.rng.Float64()) < s.acceptance(candidate)
		}

		s.stats.Steps++
		if accept {
			s.stats.Accepted++
			s.current = result
			// the candidate becomes the prior; its old buffer is recycled
			s.w.trace, s.accepted = s.accepted[:0], candidate
		} else {
			s.stats.Rejected++
		}
		s.started = true
		return s.current
	}
}

func (s *MetropolisSampler[T]) propose() Weighted[T] {
	if !s.started || len(s.accepted) == 0 {
		s.w.begin(s.accepted, site{}, false)
		return s.root.walk(s.w, rootAddress, s.started)
	}
	regen := s.accepted[s.w.rng.Intn(len(s.accepted))].site
	s.w.begin(s.accepted, regen, true)
	return s.root.walk(s.w, rootAddress, true)
}

// acceptance returns log alpha for moving from the accepted trace to
// candidate.
func (s *MetropolisSampler[T]) acceptance(candidate []entry) float64 {
	delta := traceScore(candidate) - traceScore(s.accepted)

	clear(s.fresh)
	forward := -logLen(len(s.accepted))
	for _, e := range candidate {
		if !e.reused {
			forward += e.logScore
			s.fresh[e.site] = struct{}{}
		}
	}

	backward := -logLen(len(candidate))
	for _, e := range s.accepted {
		if _, ok := s.fresh[e.site]; ok {
			backward += e.logScore
		}
	}

	return math.Min(0, delta+backward-forward)
}

func logLen(n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Log(float64(n))
}
