// Package pipeline chains spectrum loading, continuum removal, dip detection
// and posterior sampling into one configurable run.
package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-spectral/dip"
	"github.com/cwbudde/algo-spectral/fit"
	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/smooth"
	"github.com/cwbudde/algo-spectral/spectrum"
)

// Result collects every intermediate product of one run.
type Result struct {
	// Science is the raw science spectrum.
	Science spectrum.Spectrum

	// Continuum is the smoothed reference on the science grid.
	Continuum spectrum.Spectrum

	// Residual is science minus continuum.
	Residual spectrum.Spectrum

	// Window is the slice of the residual the model was fit to.
	Window spectrum.Spectrum

	// Dip describes the detected absorption feature.
	Dip dip.Dip

	// Profile is the fitted line-shape model.
	Profile lineshape.Type

	// Fit holds the posterior samples and per-parameter summaries.
	Fit fit.Result

	// Line is the posterior summary of the line center, the quantity the
	// run exists to estimate.
	Line fit.Summary
}

// Run executes the configured pipeline. The context bounds the sampling
// stage, which dominates the runtime.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	science, err := spectrum.ReadFile(cfg.Data)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: science spectrum: %w", err)
	}

	reference, err := spectrum.ReadFile(cfg.Reference)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: reference spectrum: %w", err)
	}

	continuum, err := buildContinuum(science, reference, cfg)
	if err != nil {
		return Result{}, err
	}

	residual, err := spectrum.Subtract(science, continuum)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: subtract continuum: %w", err)
	}

	d, err := dip.Find(residual)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: locate dip: %w", err)
	}

	win, err := dip.Window(residual, d, cfg.Window.HalfWidth)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: fit window: %w", err)
	}

	typ, err := cfg.profileType()
	if err != nil {
		return Result{}, err
	}

	priors, err := buildPriors(typ, win, d, cfg.Priors)
	if err != nil {
		return Result{}, err
	}

	res, err := fit.Sample(ctx, fit.FromSpectrum(win), typ, priors, cfg.samplerConfig())
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: sample posterior: %w", err)
	}

	return Result{
		Science:   science,
		Continuum: continuum,
		Residual:  residual,
		Window:    win,
		Dip:       d,
		Profile:   typ,
		Fit:       res,
		Line:      res.Summaries[1],
	}, nil
}

// buildContinuum resamples the reference onto the science grid and smooths
// it with the configured kernel.
func buildContinuum(science, reference spectrum.Spectrum, cfg Config) (spectrum.Spectrum, error) {
	if !spectrum.SameGrid(science, reference) {
		resampled, err := reference.Resample(science.Wavelength)
		if err != nil {
			return spectrum.Spectrum{}, fmt.Errorf("pipeline: resample reference: %w", err)
		}

		reference = resampled
	}

	scfg, err := cfg.smoothConfig()
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	flux, err := smooth.Smooth(reference.Flux, scfg)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("pipeline: smooth reference: %w", err)
	}

	continuum := reference.Clone()
	copy(continuum.Flux, flux)

	return continuum, nil
}

// buildPriors merges yaml overrides into the data-derived defaults.
func buildPriors(typ lineshape.Type, win spectrum.Spectrum, d dip.Dip, overrides map[string]PriorSpec) (fit.Priors, error) {
	priors, err := fit.DefaultPriors(typ, win, d)
	if err != nil {
		return nil, fmt.Errorf("pipeline: default priors: %w", err)
	}

	for i, name := range fit.ParamNames(typ) {
		if spec, ok := overrides[name]; ok {
			priors[i] = spec.toPrior()
		}
	}

	return priors, nil
}

// WriteSamplesCSV dumps the merged posterior draws, one row per draw with a
// parameter-name header.
func (r Result) WriteSamplesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(fit.ParamNames(r.Profile)); err != nil {
		return fmt.Errorf("pipeline: write samples: %w", err)
	}

	record := make([]string, lineshape.ParamCount(r.Profile))

	for _, theta := range r.Fit.Samples {
		for i, v := range theta {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("pipeline: write samples: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("pipeline: write samples: %w", err)
	}

	return nil
}
