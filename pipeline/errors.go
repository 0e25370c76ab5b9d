package pipeline

import "errors"

var (
	// ErrMissingPath marks a config without an input file path.
	ErrMissingPath = errors.New("input path not set")

	// ErrUnknownParam marks a prior override for a parameter the selected
	// profile does not have.
	ErrUnknownParam = errors.New("unknown parameter")
)
