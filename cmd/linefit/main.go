// Command linefit measures the center of an absorption line in a spectrum.
//
// Usage:
//
//	linefit -data science.csv -ref reference.csv [flags]
//
// It subtracts a smoothed reference continuum from the science spectrum,
// locates the deepest absorption dip, fits a line-shape model to a window
// around it with Markov chain Monte Carlo, and prints posterior summaries.
//
// Examples:
//
//	linefit -data sci.csv -ref cont.csv
//	linefit -config run.yaml
//	linefit -data sci.csv -ref cont.csv -profile lorentzian -halfwidth 8
//	linefit -data sci.csv -ref cont.csv -plots out/ -samples draws.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/cwbudde/algo-spectral/fit"
	"github.com/cwbudde/algo-spectral/pipeline"
	"github.com/cwbudde/algo-spectral/render"
)

func main() {
	configPath := flag.String("config", "", "yaml run configuration; flags override its values")
	data := flag.String("data", "", "science spectrum CSV")
	ref := flag.String("ref", "", "reference continuum CSV")
	profile := flag.String("profile", "", "line-shape model: gaussian, lorentzian, pseudo-voigt")
	method := flag.String("method", "", "smoothing method: boxcar, gaussian, savitzky-golay, fourier")
	width := flag.Int("width", 0, "smoothing kernel width in samples (odd)")
	halfwidth := flag.Float64("halfwidth", 0, "fit window half-width in wavelength units")
	chains := flag.Int("chains", 0, "number of MCMC chains")
	steps := flag.Int("steps", 0, "MCMC steps per chain")
	burnin := flag.Int("burnin", 0, "discarded leading steps per chain")
	seed := flag.Int64("seed", 0, "random seed")
	plots := flag.String("plots", "", "directory for diagnostic PNGs")
	samples := flag.String("samples", "", "CSV file for posterior draws")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: linefit -data science.csv -ref reference.csv [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Measures the center of an absorption line by continuum\n")
		fmt.Fprintf(os.Stderr, "subtraction and MCMC line-shape fitting.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := buildConfig(*configPath, *data, *ref, *profile, *method, *width, *halfwidth, *chains, *steps, *burnin, *seed)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		fail(err)
	}

	printReport(res)

	if *samples != "" {
		if err := writeSamples(*samples, res); err != nil {
			fail(err)
		}
	}

	if *plots != "" {
		if err := writePlots(*plots, res); err != nil {
			fail(err)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func buildConfig(path, data, ref, profile, method string, width int, halfwidth float64,
	chains, steps, burnin int, seed int64) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	if path != "" {
		loaded, err := pipeline.LoadConfig(path)
		if err != nil {
			return pipeline.Config{}, err
		}

		cfg = loaded
	}

	if data != "" {
		cfg.Data = data
	}

	if ref != "" {
		cfg.Reference = ref
	}

	if profile != "" {
		cfg.Profile = profile
	}

	if method != "" {
		cfg.Smoothing.Method = method
	}

	if width != 0 {
		cfg.Smoothing.Width = width
	}

	if halfwidth != 0 {
		cfg.Window.HalfWidth = halfwidth
	}

	if chains != 0 {
		cfg.Sampler.Chains = chains
	}

	if steps != 0 {
		cfg.Sampler.Steps = steps
	}

	if burnin != 0 {
		cfg.Sampler.BurnIn = burnin
	}

	if seed != 0 {
		cfg.Sampler.Seed = seed
	}

	return cfg, cfg.Validate()
}

func printReport(res pipeline.Result) {
	fmt.Printf("Detected dip: center %.6g, depth %.4g, prominence %.4g (%d window samples)\n\n",
		res.Dip.Center, res.Dip.Depth, res.Dip.Prominence, res.Window.Len())

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parameter\tMean\tStd\tP16\tP84\tR-hat\n")
	fmt.Fprintf(tw, "---------\t----\t---\t---\t---\t-----\n")

	for i, s := range res.Fit.Summaries {
		fmt.Fprintf(tw, "%s\t%.6g\t%.3g\t%.6g\t%.6g\t%.4f\n",
			s.Name, s.Mean, s.Std, s.P16, s.P84, res.Fit.RHat[i])
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}

	fmt.Printf("\nAcceptance per chain:")
	for _, rate := range res.Fit.Accept {
		fmt.Printf(" %.2f", rate)
	}
	fmt.Println()

	if !fit.Converged(res.Fit.RHat, 1.1) {
		fmt.Println("warning: R-hat above 1.1, chains may not have converged")
	}

	fmt.Printf("\ncenter = %.6g ± %.3g\n", res.Line.Mean, res.Line.Std)
}

func writeSamples(path string, res pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := res.WriteSamplesCSV(f); err != nil {
		return err
	}

	return f.Close()
}

func writePlots(dir string, res pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	err := render.SpectrumOverlay(filepath.Join(dir, "overlay.png"),
		res.Science, res.Continuum, res.Residual)
	if err != nil {
		return err
	}

	theta := make([]float64, len(res.Fit.Summaries))
	for i, s := range res.Fit.Summaries {
		theta[i] = s.Mean
	}

	if err := render.FitOverlay(filepath.Join(dir, "fit.png"), res.Window, res.Profile, theta); err != nil {
		return err
	}

	for i, s := range res.Fit.Summaries {
		name := s.Name

		column := make([]float64, len(res.Fit.Samples))
		for j, draw := range res.Fit.Samples {
			column[j] = draw[i]
		}

		if err := render.PosteriorHist(filepath.Join(dir, "hist_"+name+".png"), name, column); err != nil {
			return err
		}

		err := render.Trace(filepath.Join(dir, "trace_"+name+".png"), name,
			render.ParamColumn(res.Fit.ChainSamples, i))
		if err != nil {
			return err
		}
	}

	return nil
}
