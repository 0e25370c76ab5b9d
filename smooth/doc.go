// Package smooth provides 1-D curve smoothing for sampled spectra.
//
// Three kernel smoothers (boxcar, Gaussian, Savitzky-Golay) share a common
// reflect-padded convolution, and a Fourier low-pass smoother operates in
// the frequency domain. All methods preserve the input length and have unit
// DC gain: a constant input is returned unchanged.
package smooth
