package core

import "errors"

var (
	// ErrInputTooShort reports an empty or near-empty waveform or feature
	// sequence. It is fatal for the batch stage that sees it.
	ErrInputTooShort = errors.New("core: input too short")

	// ErrNonFiniteSample tags NaN or Inf values that were replaced by
	// Sanitize. It is never returned as a failure.
	ErrNonFiniteSample = errors.New("core: non-finite sample")

	// ErrInvalidParameter reports a configuration value outside its domain.
	ErrInvalidParameter = errors.New("core: invalid parameter")
)
