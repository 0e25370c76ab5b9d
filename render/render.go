// Package render saves diagnostic plots for a pipeline run: the continuum
// overlay, the windowed fit, and posterior histograms and traces.
package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/spectrum"
)

// modelCurveSamples is the resolution of the drawn model curve.
const modelCurveSamples = 400

func xys(s spectrum.Spectrum) plotter.XYs {
	xy := make(plotter.XYs, s.Len())
	for i := range xy {
		xy[i].X = s.Wavelength[i]
		xy[i].Y = s.Flux[i]
	}

	return xy
}

func yerrs(sigma []float64) plotter.YErrors {
	errs := make(plotter.YErrors, len(sigma))
	for i, sg := range sigma {
		errs[i].Low, errs[i].High = sg, sg
	}

	return errs
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}

	return nil
}

// SpectrumOverlay draws the science spectrum, the smoothed continuum and the
// residual in one frame.
func SpectrumOverlay(path string, science, continuum, residual spectrum.Spectrum) error {
	p := plot.New()
	p.Title.Text = "Continuum subtraction"
	p.X.Label.Text = "Wavelength"
	p.Y.Label.Text = "Flux"

	err := plotutil.AddLines(p,
		"science", xys(science),
		"continuum", xys(continuum),
		"residual", xys(residual),
	)
	if err != nil {
		return fmt.Errorf("render: spectrum overlay: %w", err)
	}

	return save(p, path)
}

// FitOverlay draws the windowed residual with its uncertainties and the
// model curve evaluated at theta, normally the posterior mean.
func FitOverlay(path string, win spectrum.Spectrum, typ lineshape.Type, theta []float64) error {
	params, err := lineshape.Unpack(typ, theta)
	if err != nil {
		return fmt.Errorf("render: fit overlay: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s fit", typ)
	p.X.Label.Text = "Wavelength"
	p.Y.Label.Text = "Flux"

	scatter, err := plotter.NewScatter(xys(win))
	if err != nil {
		return fmt.Errorf("render: fit overlay: %w", err)
	}

	p.Add(scatter)
	p.Legend.Add("data", scatter)

	if win.Sigma != nil {
		bars, err := plotter.NewYErrorBars(struct {
			plotter.XYs
			plotter.YErrors
		}{xys(win), yerrs(win.Sigma)})
		if err != nil {
			return fmt.Errorf("render: fit overlay: %w", err)
		}

		p.Add(bars)
	}

	lo, hi := win.Range()
	curve := make(plotter.XYs, modelCurveSamples)
	for i := range curve {
		x := lo + (hi-lo)*float64(i)/float64(modelCurveSamples-1)
		curve[i].X = x
		curve[i].Y = lineshape.Eval(typ, params, x)
	}

	model, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("render: fit overlay: %w", err)
	}

	model.LineStyle.Width = vg.Points(2)
	model.LineStyle.Color = plotutil.Color(1)

	p.Add(model)
	p.Legend.Add("model", model)

	return save(p, path)
}

// PosteriorHist draws a histogram of one parameter's posterior draws.
func PosteriorHist(path, name string, samples []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("posterior of %s", name)
	p.X.Label.Text = name
	p.Y.Label.Text = "density"

	hist, err := plotter.NewHist(plotter.Values(samples), 40)
	if err != nil {
		return fmt.Errorf("render: histogram of %s: %w", name, err)
	}

	hist.Normalize(1)
	p.Add(hist)

	return save(p, path)
}

// Trace draws one line per chain of a parameter's draws against step index.
func Trace(path, name string, chains [][]float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("trace of %s", name)
	p.X.Label.Text = "step"
	p.Y.Label.Text = name

	for c, chain := range chains {
		xy := make(plotter.XYs, len(chain))
		for i, v := range chain {
			xy[i].X = float64(i)
			xy[i].Y = v
		}

		line, err := plotter.NewLine(xy)
		if err != nil {
			return fmt.Errorf("render: trace of %s: %w", name, err)
		}

		line.LineStyle.Color = plotutil.Color(c)

		p.Add(line)
		p.Legend.Add(fmt.Sprintf("chain %d", c), line)
	}

	return save(p, path)
}

// ParamColumn extracts one parameter's draws per chain, for use with Trace.
func ParamColumn(chains [][][]float64, p int) [][]float64 {
	out := make([][]float64, len(chains))
	for c, chain := range chains {
		col := make([]float64, len(chain))
		for i, theta := range chain {
			col[i] = theta[p]
		}

		out[c] = col
	}

	return out
}
