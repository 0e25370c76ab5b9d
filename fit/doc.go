// Package fit estimates absorption-line parameters from a windowed residual
// spectrum with Bayesian inference.
//
// A line-shape model from package lineshape is combined with an independent
// Gaussian error model and per-parameter priors into a log posterior, which
// a Metropolis-Hastings sampler explores with several independently seeded
// chains. A Levenberg-Marquardt least-squares fit provides the warm start.
// Results carry the raw posterior draws, per-chain acceptance rates,
// split-R-hat convergence diagnostics, and per-parameter summaries.
package fit
