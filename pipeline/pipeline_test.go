package pipeline_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/pipeline"
	"github.com/cwbudde/algo-spectral/spectrum"
)

var line = lineshape.Params{Depth: 0.4, Center: 6563, Width: 2}

// writeSpectrum dumps a spectrum to a CSV file under dir.
func writeSpectrum(t *testing.T, dir, name string, s spectrum.Spectrum) string {
	t.Helper()

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, s.WriteCSV(f))

	return path
}

// fixtureConfig writes a science spectrum with an injected absorption line
// and a clean reference continuum, both as CSV files.
func fixtureConfig(t *testing.T) pipeline.Config {
	t.Helper()

	dir := t.TempDir()

	science := testutil.Continuum(241, 6551, 6575, 1.0)
	science = testutil.InjectLine(science, lineshape.TypeGaussian, line)
	science = testutil.AddNoise(science, 11, 0.01)

	// Wider grid than the science spectrum, so resampling is exercised.
	reference := testutil.Continuum(301, 6550, 6576, 1.0)
	reference = testutil.AddNoise(reference, 12, 0.01)

	cfg := pipeline.DefaultConfig()
	cfg.Data = writeSpectrum(t, dir, "science.csv", science)
	cfg.Reference = writeSpectrum(t, dir, "reference.csv", reference)
	cfg.Sampler = pipeline.SamplerConfig{
		Chains:    2,
		Steps:     3000,
		BurnIn:    600,
		Thin:      3,
		StepScale: 0.08,
		Seed:      1,
	}

	return cfg
}

func TestRun(t *testing.T) {
	cfg := fixtureConfig(t)

	res, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, 241, res.Science.Len())
	require.Equal(t, 241, res.Continuum.Len())
	require.Equal(t, 241, res.Residual.Len())
	require.GreaterOrEqual(t, res.Window.Len(), 5)

	require.InDelta(t, line.Center, res.Dip.Center, 0.3)
	require.InDelta(t, line.Depth, res.Dip.Prominence, 0.15)

	require.Equal(t, "center", res.Line.Name)
	require.InDelta(t, line.Center, res.Line.Mean, 0.2)
	require.Greater(t, res.Line.Std, 0.0)

	depth := res.Fit.Summaries[0]
	require.InDelta(t, line.Depth, depth.Mean, 0.1)
}

func TestRun_Deterministic(t *testing.T) {
	cfg := fixtureConfig(t)

	a, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	b, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, a.Fit.Samples, b.Fit.Samples)
	require.Equal(t, a.Line, b.Line)
}

func TestRun_PriorOverride(t *testing.T) {
	lo, hi := 6562.0, 6564.0

	cfg := fixtureConfig(t)
	cfg.Priors = map[string]pipeline.PriorSpec{
		"center": {Min: &lo, Max: &hi},
	}

	res, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	for _, theta := range res.Fit.Samples {
		require.GreaterOrEqual(t, theta[1], lo)
		require.LessOrEqual(t, theta[1], hi)
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Data = filepath.Join(t.TempDir(), "absent.csv")

	_, err := pipeline.Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Sampler.Steps = 200000
	cfg.Sampler.BurnIn = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteSamplesCSV(t *testing.T) {
	cfg := fixtureConfig(t)

	res, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteSamplesCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "depth,center,width,offset", lines[0])
	require.Len(t, lines, len(res.Fit.Samples)+1)
}
