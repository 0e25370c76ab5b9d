package fit

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-spectral/lineshape"
)

// Default sampler settings.
const (
	defaultChains    = 4
	defaultSteps     = 12000
	defaultThin      = 5
	defaultStepScale = 0.3
	defaultSeed      = 1

	// maxInitDraws bounds the search for a starting point with finite
	// posterior density.
	maxInitDraws = 1000

	// cancelCheckEvery is the step interval for context polling.
	cancelCheckEvery = 1024
)

// SamplerConfig holds Metropolis-Hastings settings. The zero value is
// replaced by defaults in [SamplerConfig.Normalize].
type SamplerConfig struct {
	Chains    int     // independent chains, >= 1
	Steps     int     // total steps per chain
	BurnIn    int     // discarded leading steps, < Steps
	Thin      int     // keep every Thin-th post-burn-in step, >= 1
	StepScale float64 // proposal width as a fraction of the prior scale
	Seed      int64   // chain c uses Seed + c
}

// Normalize fills zero fields with defaults.
func (cfg SamplerConfig) Normalize() SamplerConfig {
	if cfg.Chains == 0 {
		cfg.Chains = defaultChains
	}

	if cfg.Steps == 0 {
		cfg.Steps = defaultSteps
	}

	if cfg.BurnIn == 0 {
		// One sixth of the run, which matches the defaults.
		cfg.BurnIn = cfg.Steps / 6
	}

	if cfg.Thin == 0 {
		cfg.Thin = defaultThin
	}

	if cfg.StepScale == 0 {
		cfg.StepScale = defaultStepScale
	}

	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}

	return cfg
}

// Validate rejects inconsistent settings.
func (cfg SamplerConfig) Validate() error {
	if cfg.Chains < 1 {
		return fmt.Errorf("fit: sampler chains must be >= 1: %d", cfg.Chains)
	}

	if cfg.Steps < 2 {
		return fmt.Errorf("fit: sampler steps must be >= 2: %d", cfg.Steps)
	}

	if cfg.BurnIn < 0 || cfg.BurnIn >= cfg.Steps {
		return fmt.Errorf("fit: burn-in must be in [0, steps): %d", cfg.BurnIn)
	}

	if cfg.Thin < 1 {
		return fmt.Errorf("fit: thinning must be >= 1: %d", cfg.Thin)
	}

	if cfg.StepScale <= 0 {
		return fmt.Errorf("fit: step scale must be > 0: %f", cfg.StepScale)
	}

	return nil
}

// Result holds the output of one sampling run.
type Result struct {
	// Samples is the chain-ordered merge of all post-burn-in, thinned draws.
	Samples [][]float64

	// ChainSamples holds the same draws separated by chain.
	ChainSamples [][][]float64

	// Accept is the per-chain acceptance rate over all steps.
	Accept []float64

	// RHat is the split Gelman-Rubin statistic per parameter.
	RHat []float64

	// Summaries holds per-parameter posterior summaries in packed order.
	Summaries []Summary
}

// Sample runs Metropolis-Hastings with componentwise-scaled Gaussian
// proposals. Chains run concurrently with deterministic per-chain seeds, so
// identical configurations produce identical results. The warm start comes
// from [LeastSquares] when it succeeds and lies inside the prior support,
// otherwise chains start from prior draws.
func Sample(ctx context.Context, d Data, typ lineshape.Type, priors Priors, cfg SamplerConfig) (Result, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	if err := priors.Validate(typ); err != nil {
		return Result{}, err
	}

	norm, err := d.Normalize()
	if err != nil {
		return Result{}, err
	}

	logPost := func(theta []float64) float64 {
		lp := priors.LogPrior(theta)
		if math.IsInf(lp, -1) {
			return lp
		}

		return lp + LogLikelihood(norm, typ, theta)
	}

	center := warmStart(norm, typ, priors, cfg, logPost)

	scales := make([]float64, len(priors))
	for i, p := range priors {
		scales[i] = cfg.StepScale * p.Scale()
	}

	chains := make([][][]float64, cfg.Chains)
	accept := make([]float64, cfg.Chains)

	g, ctx := errgroup.WithContext(ctx)

	for c := range cfg.Chains {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(c)))

			samples, rate, err := runChain(ctx, rng, logPost, priors, center, scales, cfg)
			if err != nil {
				return err
			}

			chains[c] = samples
			accept[c] = rate

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		ChainSamples: chains,
		Accept:       accept,
		RHat:         GelmanRubin(chains),
	}

	for _, chain := range chains {
		res.Samples = append(res.Samples, chain...)
	}

	names := ParamNames(typ)
	res.Summaries = make([]Summary, len(names))

	for p, name := range names {
		column := make([]float64, len(res.Samples))
		for i, theta := range res.Samples {
			column[i] = theta[p]
		}

		res.Summaries[p] = Summarize(name, column)
	}

	return res, nil
}

// warmStart centers the chains on a least-squares fit when it is usable.
func warmStart(d Data, typ lineshape.Type, priors Priors, cfg SamplerConfig, logPost func([]float64) float64) []float64 {
	rng := rand.New(rand.NewSource(cfg.Seed))

	init := priors.Draw(rng)

	theta, err := LeastSquares(d, typ, init)
	if err == nil && !math.IsInf(logPost(theta), -1) {
		return theta
	}

	return init
}

// runChain executes one Metropolis-Hastings chain.
func runChain(ctx context.Context, rng *rand.Rand, logPost func([]float64) float64,
	priors Priors, center, scales []float64, cfg SamplerConfig) ([][]float64, float64, error) {
	dim := len(center)

	// Jitter the shared center; fall back to prior draws until the posterior
	// density is finite.
	theta := make([]float64, dim)
	for i := range theta {
		theta[i] = center[i] + 0.05*scales[i]*rng.NormFloat64()
	}

	lp := logPost(theta)
	for draws := 0; math.IsInf(lp, -1); draws++ {
		if draws == maxInitDraws {
			return nil, 0, fmt.Errorf("fit: no finite posterior density after %d starting draws", maxInitDraws)
		}

		theta = priors.Draw(rng)
		lp = logPost(theta)
	}

	kept := (cfg.Steps - cfg.BurnIn + cfg.Thin - 1) / cfg.Thin
	samples := make([][]float64, 0, kept)

	proposal := make([]float64, dim)

	var accepted int

	for step := range cfg.Steps {
		if step%cancelCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			default:
			}
		}

		for i := range proposal {
			proposal[i] = theta[i] + scales[i]*rng.NormFloat64()
		}

		lpNew := logPost(proposal)
		if lpNew >= lp || math.Log(rng.Float64()) < lpNew-lp {
			copy(theta, proposal)
			lp = lpNew
			accepted++
		}

		if step >= cfg.BurnIn && (step-cfg.BurnIn)%cfg.Thin == 0 {
			samples = append(samples, append([]float64(nil), theta...))
		}
	}

	return samples, float64(accepted) / float64(cfg.Steps), nil
}
