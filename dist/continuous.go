package dist

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// The primitives below have infinite support: they sample and score but
// Enumerate rejects them.

// Normal is a Gaussian with mean Mu and standard deviation Sigma.
type Normal struct {
	Mu    float64
	Sigma float64
}

func (n Normal) Density(x float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.Prob(x)
}

func (n Normal) Draw(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: rng}.Rand()
}

func (n Normal) Key() string {
	return fmt.Sprintf("normal(%g,%g)", n.Mu, n.Sigma)
}

// Gaussian returns a Normal leaf.
func Gaussian(mu, sigma float64) Dist[float64] {
	return Leaf[float64](Normal{Mu: mu, Sigma: sigma})
}

// Uniform is continuous on [Min, Max).
type Uniform struct {
	Min float64
	Max float64
}

func (u Uniform) Density(x float64) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max}.Prob(x)
}

func (u Uniform) Draw(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: u.Min, Max: u.Max, Src: rng}.Rand()
}

func (u Uniform) Key() string {
	return fmt.Sprintf("uniform(%g,%g)", u.Min, u.Max)
}

type Exponential struct {
	Rate float64
}

func (e Exponential) Density(x float64) float64 {
	return distuv.Exponential{Rate: e.Rate}.Prob(x)
}

func (e Exponential) Draw(rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: e.Rate, Src: rng}.Rand()
}

func (e Exponential) Key() string {
	return fmt.Sprintf("exponential(%g)", e.Rate)
}

type Beta struct {
	Alpha float64
	Beta  float64
}

func (b Beta) Density(x float64) float64 {
	return distuv.Beta{Alpha: b.Alpha, Beta: b.Beta}.Prob(x)
}

func (b Beta) Draw(rng *rand.Rand) float64 {
	return distuv.Beta{Alpha: b.Alpha, Beta: b.Beta, Src: rng}.Rand()
}

func (b Beta) Key() string {
	return fmt.Sprintf("beta(%g,%g)", b.Alpha, b.Beta)
}

// Gamma uses shape Alpha and rate Beta.
type Gamma struct {
	Alpha float64
	Beta  float64
}

func (g Gamma) Density(x float64) float64 {
	return distuv.Gamma{Alpha: g.Alpha, Beta: g.Beta}.Prob(x)
}

func (g Gamma) Draw(rng *rand.Rand) float64 {
	return distuv.Gamma{Alpha: g.Alpha, Beta: g.Beta, Src: rng}.Rand()
}

func (g Gamma) Key() string {
	return fmt.Sprintf("gamma(%g,%g)", g.Alpha, g.Beta)
}

type LogNormal struct {
	Mu    float64
	Sigma float64
}

func (l LogNormal) Density(x float64) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma}.Prob(x)
}

func (l LogNormal) Draw(rng *rand.Rand) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: rng}.Rand()
}

func (l LogNormal) Key() string {
	return fmt.Sprintf("lognormal(%g,%g)", l.Mu, l.Sigma)
}

// Weibull uses shape K and scale Lambda.
type Weibull struct {
	K      float64
	Lambda float64
}

func (w Weibull) Density(x float64) float64 {
	return distuv.Weibull{K: w.K, Lambda: w.Lambda}.Prob(x)
}

func (w Weibull) Draw(rng *rand.Rand) float64 {
	return distuv.Weibull{K: w.K, Lambda: w.Lambda, Src: rng}.Rand()
}

func (w Weibull) Key() string {
	return fmt.Sprintf("weibull(%g,%g)", w.K, w.Lambda)
}

// Rayleigh with scale Sigma, the radial error of an isotropic 2D Gaussian.
// It is a Weibull with K=2 and Lambda=Sigma*sqrt(2).
type Rayleigh struct {
	Sigma float64
}

func (r Rayleigh) weibull() Weibull {
	return Weibull{K: 2, Lambda: r.Sigma * math.Sqrt2}
}

func (r Rayleigh) Density(x float64) float64 {
	return r.weibull().Density(x)
}

func (r Rayleigh) Draw(rng *rand.Rand) float64 {
	return r.weibull().Draw(rng)
}

func (r Rayleigh) Key() string {
	return fmt.Sprintf("rayleigh(%g)", r.Sigma)
}
