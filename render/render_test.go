package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/render"
)

var line = lineshape.Params{Depth: 0.4, Center: 6563, Width: 2}

func requirePNG(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestSpectrumOverlay(t *testing.T) {
	science := testutil.Continuum(101, 6553, 6573, 1.0)
	science = testutil.InjectLine(science, lineshape.TypeGaussian, line)
	continuum := testutil.Continuum(101, 6553, 6573, 1.0)
	residual := testutil.InjectLine(testutil.Continuum(101, 6553, 6573, 0), lineshape.TypeGaussian, line)

	path := filepath.Join(t.TempDir(), "overlay.png")
	require.NoError(t, render.SpectrumOverlay(path, science, continuum, residual))
	requirePNG(t, path)
}

func TestFitOverlay(t *testing.T) {
	win := testutil.Continuum(61, 6557, 6569, 0)
	win = testutil.InjectLine(win, lineshape.TypeGaussian, line)
	win = testutil.AddNoise(win, 3, 0.01)

	path := filepath.Join(t.TempDir(), "fit.png")
	theta := line.Pack(lineshape.TypeGaussian)

	require.NoError(t, render.FitOverlay(path, win, lineshape.TypeGaussian, theta))
	requirePNG(t, path)
}

func TestFitOverlay_BadTheta(t *testing.T) {
	win := testutil.Continuum(61, 6557, 6569, 0)
	path := filepath.Join(t.TempDir(), "fit.png")

	err := render.FitOverlay(path, win, lineshape.TypeGaussian, []float64{1, 2})
	require.Error(t, err)
}

func TestPosteriorHist(t *testing.T) {
	samples := testutil.GaussianNoise(7, 1, 5000)

	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, render.PosteriorHist(path, "center", samples))
	requirePNG(t, path)
}

func TestTrace(t *testing.T) {
	chains := [][]float64{
		testutil.GaussianNoise(1, 1, 200),
		testutil.GaussianNoise(2, 1, 200),
	}

	path := filepath.Join(t.TempDir(), "trace.png")
	require.NoError(t, render.Trace(path, "width", chains))
	requirePNG(t, path)
}

func TestParamColumn(t *testing.T) {
	chains := [][][]float64{
		{{1, 10}, {2, 20}},
		{{3, 30}},
	}

	cols := render.ParamColumn(chains, 1)
	require.Equal(t, [][]float64{{10, 20}, {30}}, cols)
}
