// Package lineshape models absorption-line profiles over a local continuum.
//
// Every profile dips from a flat continuum Offset down to Offset-Depth at
// Center and recovers with a full width at half minimum of Width. Gaussian,
// Lorentzian, and a pseudo-Voigt blend of the two are provided.
package lineshape

import (
	"errors"
	"fmt"
	"math"
)

// Type identifies a line-shape model.
type Type int

// Supported profiles.
const (
	TypeGaussian Type = iota
	TypeLorentzian
	TypePseudoVoigt
)

// ErrUnknownType is returned for an unrecognized profile type.
var ErrUnknownType = errors.New("unknown line-shape type")

// fourLn2 converts FWHM to the Gaussian exponent scale.
const fourLn2 = 4 * math.Ln2

// String returns the canonical name of the profile type.
func (t Type) String() string {
	switch t {
	case TypeGaussian:
		return "gaussian"
	case TypeLorentzian:
		return "lorentzian"
	case TypePseudoVoigt:
		return "pseudo-voigt"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType resolves a profile type from its name.
func ParseType(name string) (Type, error) {
	switch name {
	case "gaussian", "gauss":
		return TypeGaussian, nil
	case "lorentzian", "lorentz":
		return TypeLorentzian, nil
	case "pseudo-voigt", "voigt":
		return TypePseudoVoigt, nil
	default:
		return 0, fmt.Errorf("lineshape: %w: %q", ErrUnknownType, name)
	}
}

// Params describes one absorption line over a flat local continuum.
type Params struct {
	Depth  float64 // dip depth below the continuum, > 0
	Center float64 // line center wavelength
	Width  float64 // full width at half minimum, > 0
	Offset float64 // local continuum level
	Eta    float64 // pseudo-Voigt Lorentzian fraction in [0, 1]
}

// ParamCount returns the number of free parameters of the profile
// (4 for Gaussian/Lorentzian, 5 with the pseudo-Voigt mixing fraction).
func ParamCount(typ Type) int {
	if typ == TypePseudoVoigt {
		return 5
	}

	return 4
}

// Pack flattens the parameters into the fitter's vector ordering:
// depth, center, width, offset[, eta].
func (p Params) Pack(typ Type) []float64 {
	theta := []float64{p.Depth, p.Center, p.Width, p.Offset}
	if typ == TypePseudoVoigt {
		theta = append(theta, p.Eta)
	}

	return theta
}

// Unpack rebuilds Params from the fitter's vector ordering.
func Unpack(typ Type, theta []float64) (Params, error) {
	if len(theta) != ParamCount(typ) {
		return Params{}, fmt.Errorf("lineshape: %v wants %d parameters, got %d",
			typ, ParamCount(typ), len(theta))
	}

	p := Params{Depth: theta[0], Center: theta[1], Width: theta[2], Offset: theta[3]}
	if typ == TypePseudoVoigt {
		p.Eta = theta[4]
	}

	return p, nil
}

// Eval returns the profile flux at wavelength x.
func Eval(typ Type, p Params, x float64) float64 {
	return p.Offset - p.Depth*unitDip(typ, p, x)
}

// EvalInto evaluates the profile at every wavelength in xs into dst.
// Both slices must have the same length.
func EvalInto(dst []float64, typ Type, p Params, xs []float64) error {
	if len(dst) != len(xs) {
		return fmt.Errorf("lineshape: dst length %d != xs length %d", len(dst), len(xs))
	}

	for i, x := range xs {
		dst[i] = Eval(typ, p, x)
	}

	return nil
}

// unitDip evaluates the unit-peak dip shape (1 at Center, 1/2 at ±Width/2).
func unitDip(typ Type, p Params, x float64) float64 {
	d := x - p.Center

	switch typ {
	case TypeGaussian:
		return gaussianDip(d, p.Width)
	case TypeLorentzian:
		return lorentzianDip(d, p.Width)
	case TypePseudoVoigt:
		return p.Eta*lorentzianDip(d, p.Width) + (1-p.Eta)*gaussianDip(d, p.Width)
	default:
		return 0
	}
}

func gaussianDip(d, width float64) float64 {
	return math.Exp(-fourLn2 * d * d / (width * width))
}

func lorentzianDip(d, width float64) float64 {
	hw2 := 0.25 * width * width
	return hw2 / (d*d + hw2)
}

// FWHM returns the full width at half minimum of the profile.
func FWHM(p Params) float64 {
	return p.Width
}

// Area returns the integrated area of the dip below the continuum.
func Area(typ Type, p Params) float64 {
	gauss := p.Depth * p.Width * 0.5 * math.Sqrt(math.Pi/math.Ln2)
	lorentz := p.Depth * p.Width * math.Pi / 2

	switch typ {
	case TypeGaussian:
		return gauss
	case TypeLorentzian:
		return lorentz
	case TypePseudoVoigt:
		return p.Eta*lorentz + (1-p.Eta)*gauss
	default:
		return 0
	}
}

// EquivalentWidth returns the line's equivalent width, the dip area divided
// by the continuum level. Returns 0 when Offset is 0.
func EquivalentWidth(typ Type, p Params) float64 {
	if p.Offset == 0 {
		return 0
	}

	return Area(typ, p) / p.Offset
}
