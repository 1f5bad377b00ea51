package dsf

import "errors"

// Common errors returned by this package.
var (
	ErrBadToken      = errors.New("dsf: malformed numeric token")
	ErrToolFailed    = errors.New("dsf: external tool failed")
	ErrNoToolOutput  = errors.New("dsf: external tool produced no output file")
	ErrNoConverter   = errors.New("dsf: no binary/text converter configured")
	ErrMissingTokens = errors.New("dsf: line has too few tokens")

	ErrBadResourceIndex = errors.New("dsf: resource index out of range")
)
