package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// Type identifies a smoothing method.
type Type int

// Supported smoothing types.
const (
	TypeBoxcar Type = iota
	TypeGaussian
	TypeSavitzkyGolay
	TypeFourier
)

// String returns the canonical name of the smoothing type.
func (t Type) String() string {
	switch t {
	case TypeBoxcar:
		return "boxcar"
	case TypeGaussian:
		return "gaussian"
	case TypeSavitzkyGolay:
		return "savitzky-golay"
	case TypeFourier:
		return "fourier"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType resolves a smoothing type from its name.
func ParseType(name string) (Type, error) {
	switch name {
	case "boxcar", "moving-average":
		return TypeBoxcar, nil
	case "gaussian":
		return TypeGaussian, nil
	case "savitzky-golay", "savgol":
		return TypeSavitzkyGolay, nil
	case "fourier", "fft":
		return TypeFourier, nil
	default:
		return 0, fmt.Errorf("smooth: %w: %q", ErrUnknownType, name)
	}
}

// Kernel generates a symmetric unit-sum smoothing kernel of the given odd
// width. polyOrder is only consulted for [TypeSavitzkyGolay]; pass 0 for the
// default order of 2. [TypeFourier] has no kernel and is rejected here.
func Kernel(typ Type, width, polyOrder int) ([]float64, error) {
	switch typ {
	case TypeBoxcar:
		return boxcarKernel(width)
	case TypeGaussian:
		return gaussianKernel(width)
	case TypeSavitzkyGolay:
		if polyOrder == 0 {
			polyOrder = 2
		}
		return savitzkyGolayKernel(width, polyOrder)
	case TypeFourier:
		return nil, fmt.Errorf("smooth: %v has no convolution kernel", typ)
	default:
		return nil, fmt.Errorf("smooth: %w: %d", ErrUnknownType, int(typ))
	}
}

func boxcarKernel(width int) ([]float64, error) {
	if err := validateWidth(width); err != nil {
		return nil, err
	}

	k := make([]float64, width)
	for i := range k {
		k[i] = 1
	}

	normalize(k)

	return k, nil
}

// gaussianKernel builds a truncated Gaussian with sigma = width/6, so the
// kernel support covers ±3 sigma.
func gaussianKernel(width int) ([]float64, error) {
	if err := validateWidth(width); err != nil {
		return nil, err
	}

	sigma := float64(width) / 6.0
	half := width / 2
	k := make([]float64, width)

	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
	}

	normalize(k)

	return k, nil
}

// savitzkyGolayKernel computes the central smoothing (0th-derivative)
// Savitzky-Golay coefficients by least-squares polynomial fitting:
// h = e0^T (A^T A)^-1 A^T with A[i][j] = x_i^j over x = -m..m.
func savitzkyGolayKernel(width, order int) ([]float64, error) {
	if err := validatePolyOrder(width, order); err != nil {
		return nil, err
	}

	half := width / 2
	p := order + 1

	a := mat.NewDense(width, p, nil)
	for i := range width {
		x := float64(i - half)
		v := 1.0
		for j := range p {
			a.Set(i, j, v)
			v *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var atai mat.Dense
	if err := atai.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("smooth: savitzky-golay normal equations singular: %w", err)
	}

	var c mat.Dense
	c.Mul(&atai, a.T())

	k := make([]float64, width)
	for i := range k {
		k[i] = c.At(0, i)
	}

	// The analytic coefficients already sum to 1; renormalize to absorb
	// floating-point drift from the matrix inverse.
	normalize(k)

	return k, nil
}

// normalize rescales the kernel in place to unit sum.
func normalize(k []float64) {
	var sum float64
	for _, v := range k {
		sum += v
	}

	if sum != 0 && sum != 1 {
		vecmath.ScaleBlock(k, k, 1/sum)
	}
}
