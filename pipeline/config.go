package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-spectral/fit"
	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/smooth"
)

// Config describes one end-to-end run. The zero value is not usable; start
// from [DefaultConfig] or [LoadConfig] and override what you need.
type Config struct {
	// Data is the path of the science spectrum CSV.
	Data string `yaml:"data"`

	// Reference is the path of the continuum reference CSV.
	Reference string `yaml:"reference"`

	Smoothing SmoothingConfig `yaml:"smoothing"`
	Window    WindowConfig    `yaml:"window"`

	// Profile selects the line-shape model: gaussian, lorentzian or
	// pseudo-voigt.
	Profile string `yaml:"profile"`

	// Priors overrides the data-derived priors per parameter name
	// (depth, center, width, offset, eta).
	Priors map[string]PriorSpec `yaml:"priors,omitempty"`

	Sampler SamplerConfig `yaml:"sampler"`
}

// SmoothingConfig selects how the reference spectrum is smoothed before
// subtraction.
type SmoothingConfig struct {
	// Method is one of boxcar, gaussian, savitzky-golay or fourier.
	Method string `yaml:"method"`

	// Width is the kernel width in samples, odd and >= 3.
	Width int `yaml:"width"`

	// PolyOrder is the Savitzky-Golay polynomial order.
	PolyOrder int `yaml:"poly_order"`

	// Cutoff is the Fourier low-pass cutoff as a fraction of Nyquist.
	Cutoff float64 `yaml:"cutoff"`
}

// WindowConfig bounds the fit region around the detected dip.
type WindowConfig struct {
	// HalfWidth is the window half-width in wavelength units.
	HalfWidth float64 `yaml:"half_width"`
}

// SamplerConfig mirrors fit.SamplerConfig with yaml tags.
type SamplerConfig struct {
	Chains    int     `yaml:"chains"`
	Steps     int     `yaml:"steps"`
	BurnIn    int     `yaml:"burn_in"`
	Thin      int     `yaml:"thin"`
	StepScale float64 `yaml:"step_scale"`
	Seed      int64   `yaml:"seed"`
}

// PriorSpec is a yaml prior override. Min/Max select a uniform prior,
// Mean/Sigma a normal one; mixing the two forms is an error.
type PriorSpec struct {
	Min   *float64 `yaml:"min,omitempty"`
	Max   *float64 `yaml:"max,omitempty"`
	Mean  *float64 `yaml:"mean,omitempty"`
	Sigma *float64 `yaml:"sigma,omitempty"`
}

// DefaultConfig returns a runnable configuration, minus the input paths.
func DefaultConfig() Config {
	return Config{
		Smoothing: SmoothingConfig{
			Method:    smooth.TypeGaussian.String(),
			Width:     9,
			PolyOrder: 2,
			Cutoff:    0.1,
		},
		Window:  WindowConfig{HalfWidth: 5},
		Profile: lineshape.TypeGaussian.String(),
		Sampler: SamplerConfig{
			Chains:    4,
			Steps:     12000,
			BurnIn:    2000,
			Thin:      5,
			StepScale: 0.3,
			Seed:      1,
		},
	}
}

// LoadConfig reads a yaml file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("pipeline: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects configurations that cannot run.
func (cfg Config) Validate() error {
	if cfg.Data == "" {
		return fmt.Errorf("pipeline: config field data: %w", ErrMissingPath)
	}

	if cfg.Reference == "" {
		return fmt.Errorf("pipeline: config field reference: %w", ErrMissingPath)
	}

	if _, err := cfg.smoothConfig(); err != nil {
		return fmt.Errorf("pipeline: config field smoothing: %w", err)
	}

	if cfg.Window.HalfWidth <= 0 {
		return fmt.Errorf("pipeline: config field window.half_width must be > 0: %g", cfg.Window.HalfWidth)
	}

	typ, err := cfg.profileType()
	if err != nil {
		return fmt.Errorf("pipeline: config field profile: %w", err)
	}

	for name := range cfg.Priors {
		if err := cfg.Priors[name].validate(name, typ); err != nil {
			return err
		}
	}

	return cfg.samplerConfig().Validate()
}

func (cfg Config) smoothConfig() (smooth.Config, error) {
	typ, err := smooth.ParseType(cfg.Smoothing.Method)
	if err != nil {
		return smooth.Config{}, err
	}

	return smooth.Config{
		Type:      typ,
		Width:     cfg.Smoothing.Width,
		PolyOrder: cfg.Smoothing.PolyOrder,
		Cutoff:    cfg.Smoothing.Cutoff,
	}, nil
}

func (cfg Config) profileType() (lineshape.Type, error) {
	return lineshape.ParseType(cfg.Profile)
}

func (cfg Config) samplerConfig() fit.SamplerConfig {
	return fit.SamplerConfig{
		Chains:    cfg.Sampler.Chains,
		Steps:     cfg.Sampler.Steps,
		BurnIn:    cfg.Sampler.BurnIn,
		Thin:      cfg.Sampler.Thin,
		StepScale: cfg.Sampler.StepScale,
		Seed:      cfg.Sampler.Seed,
	}.Normalize()
}

func (ps PriorSpec) validate(name string, typ lineshape.Type) error {
	known := false
	for _, n := range fit.ParamNames(typ) {
		if n == name {
			known = true
			break
		}
	}

	if !known {
		return fmt.Errorf("pipeline: prior override %q: %w", name, ErrUnknownParam)
	}

	uniform := ps.Min != nil || ps.Max != nil
	normal := ps.Mean != nil || ps.Sigma != nil

	switch {
	case uniform && normal:
		return fmt.Errorf("pipeline: prior override %q mixes uniform and normal fields", name)
	case uniform && (ps.Min == nil || ps.Max == nil):
		return fmt.Errorf("pipeline: prior override %q needs both min and max", name)
	case uniform && *ps.Min >= *ps.Max:
		return fmt.Errorf("pipeline: prior override %q: min %g >= max %g", name, *ps.Min, *ps.Max)
	case normal && (ps.Mean == nil || ps.Sigma == nil):
		return fmt.Errorf("pipeline: prior override %q needs both mean and sigma", name)
	case normal && *ps.Sigma <= 0:
		return fmt.Errorf("pipeline: prior override %q: sigma must be > 0: %g", name, *ps.Sigma)
	case !uniform && !normal:
		return fmt.Errorf("pipeline: prior override %q is empty", name)
	}

	return nil
}

func (ps PriorSpec) toPrior() fit.Prior {
	if ps.Min != nil {
		return fit.Uniform{Lo: *ps.Min, Hi: *ps.Max}
	}

	return fit.Normal{Mu: *ps.Mean, Sigma: *ps.Sigma}
}
