// Package runner executes model files and collects their results.
package runner

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/ppl/dist"
	"github.com/gnolang/ppl/model"
)

// maxPosterior caps the outcomes kept in a report. Continuous models produce
// one outcome per sample and are summarized by their estimate instead.
const maxPosterior = 64

// progressThreshold is the sample count above which pulls show progress.
const progressThreshold = 50000

// Engine runs a single model file.
type Engine interface {
	Run(path string) (Report, error)
	Workers() int
}

type Outcome struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// Decision is the answer to a model's pr block.
type Decision struct {
	Query     string  `json:"query"`
	Threshold float64 `json:"threshold"`
	Result    bool    `json:"result"`
	// Exact is set when the answer was read off the enumerated posterior
	// instead of a sequential test.
	Exact bool `json:"exact"`
}

type Report struct {
	File     string `json:"file"`
	Model    string `json:"model"`
	Query    string `json:"query"`
	Strategy string `json:"strategy"`
	Samples  int    `json:"samples,omitempty"`
	// Distinct counts posterior outcomes; Posterior is empty when it
	// exceeds the display cap.
	Distinct  int           `json:"distinct"`
	Posterior []Outcome     `json:"posterior,omitempty"`
	Estimate  dist.Estimate `json:"estimate"`
	Decision  *Decision     `json:"decision,omitempty"`
	Stats     *dist.Stats   `json:"stats,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

type Runner struct {
	config   Config
	logger   *zap.Logger
	progress io.Writer
}

// New reads the project configuration at configPath.
func New(configPath string, logger *zap.Logger) (*Runner, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(config, logger)
}

func NewWithConfig(config Config, logger *zap.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: config, logger: logger}, nil
}

// Config returns the project configuration in use.
func (r *Runner) Config() Config { return r.config }

// Override replaces the project configuration, e.g. with command-line flags.
func (r *Runner) Override(f func(*Config)) error {
	c := r.config
	f(&c)
	if err := c.Validate(); err != nil {
		return err
	}
	r.config = c
	return nil
}

// ShowProgress makes long sample pulls draw a progress bar on w.
func (r *Runner) ShowProgress(w io.Writer) { r.progress = w }

func (r *Runner) Workers() int {
	if r.config.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.config.Workers
}

func (r *Runner) load(path string) (*model.File, *model.Program, Config, error) {
	f, err := model.Load(path)
	if err != nil {
		return nil, nil, Config{}, err
	}
	prog, err := model.Compile(f)
	if err != nil {
		return nil, nil, Config{}, fmt.Errorf("%s: %w", path, err)
	}
	config := r.config.merge(f.Inference)
	if err := config.Validate(); err != nil {
		return nil, nil, Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, prog, config, nil
}

func (r *Runner) samplerConfig(c Config) dist.Config {
	strategy, _ := c.strategy()
	if strategy == 0 {
		strategy = dist.Forward
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return dist.Config{Strategy: strategy, Seed: seed, BurnIn: c.BurnIn, Logger: r.logger}
}

// Run infers the query posterior of the model at path and, when the model
// has a pr block, decides it.
func (r *Runner) Run(path string) (Report, error) {
	start := time.Now()
	f, prog, config, err := r.load(path)
	if err != nil {
		return Report{}, err
	}

	rep := Report{File: path, Model: f.Name, Query: f.Query, Strategy: config.Strategy}
	var post *dist.Categorical[float64]
	if config.exact() {
		rep.Strategy = Exact
		post, err = dist.ExactInference(prog.Root)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", path, err)
		}
		rep.Estimate = moments(post)
	} else {
		post, err = r.sample(prog, config, &rep)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	rep.Distinct = post.Len()
	if rep.Distinct <= maxPosterior {
		rep.Posterior = outcomes(post)
	}

	if f.Pr != nil {
		d, err := r.decide(prog, config, query(f.Pr), post)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", path, err)
		}
		rep.Decision = &d
	}

	rep.Elapsed = time.Since(start)
	r.logger.Debug("model finished",
		zap.String("file", path),
		zap.String("strategy", rep.Strategy),
		zap.Int("distinct", rep.Distinct),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

// Decide answers q for the model at path, ignoring any pr block in the
// file.
func (r *Runner) Decide(path string, q dist.PrQuery) (Decision, error) {
	_, prog, config, err := r.load(path)
	if err != nil {
		return Decision{}, err
	}
	var post *dist.Categorical[float64]
	if config.exact() {
		if post, err = dist.ExactInference(prog.Root); err != nil {
			return Decision{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return r.decide(prog, config, q, post)
}

func (r *Runner) decide(prog *model.Program, config Config, q dist.PrQuery, post *dist.Categorical[float64]) (Decision, error) {
	if post != nil && config.exact() {
		p := 1 - post.Prob(0)
		return Decision{Query: prog.Query, Threshold: q.Prob, Result: p > q.Prob, Exact: true}, nil
	}
	ok, err := dist.Pr(prog.Bool(), q, r.samplerConfig(config))
	if err != nil {
		return Decision{}, err
	}
	return Decision{Query: prog.Query, Threshold: q.Prob, Result: ok}, nil
}

func (r *Runner) sample(prog *model.Program, config Config, rep *Report) (*dist.Categorical[float64], error) {
	cfg := r.samplerConfig(config)
	s, err := dist.NewSampler(prog.Root, cfg)
	if err != nil {
		return nil, err
	}
	dist.Skip(s, cfg.BurnIn)

	n := config.Samples
	var bar *progressbar.ProgressBar
	if r.progress != nil && n >= progressThreshold {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetWriter(r.progress),
			progressbar.OptionSetDescription(rep.Model),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish())
	}

	samples := make([]dist.Weighted[float64], 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, s.Next())
		if bar != nil && (i+1)%1000 == 0 {
			_ = bar.Add(1000)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	rep.Samples = n
	rep.Strategy = cfg.Strategy.String()
	if m, ok := s.(*dist.MetropolisSampler[float64]); ok {
		stats := m.Stats()
		rep.Stats = &stats
		r.logger.Debug("chain statistics",
			zap.String("model", rep.Model),
			zap.Int("steps", stats.Steps),
			zap.Float64("acceptance", stats.AcceptanceRate()),
			zap.Int("retries", stats.Retries))
	}

	est, err := dist.Summarize(samples)
	if err != nil {
		return nil, err
	}
	rep.Estimate = est
	return dist.Normalize(samples)
}

func query(d *model.Decision) dist.PrQuery {
	q := dist.DefaultPrQuery(d.Threshold)
	if d.Alpha > 0 {
		q.Alpha = d.Alpha
	}
	if d.Epsilon > 0 {
		q.Epsilon = d.Epsilon
	}
	if d.MaxSamples > 0 {
		q.MaxSamples = d.MaxSamples
	}
	if d.InitSamples > 0 {
		q.InitSamples = d.InitSamples
	}
	if d.Step > 0 {
		q.Step = d.Step
	}
	return q
}

// moments reads the exact mean and standard deviation off a posterior.
func moments(post *dist.Categorical[float64]) dist.Estimate {
	mean := post.Mean(func(x float64) float64 { return x })
	variance := post.Mean(func(x float64) float64 { return (x - mean) * (x - mean) })
	return dist.Estimate{Mean: mean, StdDev: math.Sqrt(variance)}
}

// outcomes lists the posterior by descending probability.
func outcomes(post *dist.Categorical[float64]) []Outcome {
	support := post.Support()
	out := make([]Outcome, len(support))
	for i, o := range support {
		out[i] = Outcome{Value: o.Value, Probability: o.Probability}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Value < out[j].Value
	})
	return out
}
