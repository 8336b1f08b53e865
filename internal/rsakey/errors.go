package rsakey

import "errors"

// Sentinel errors for key material handling.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrKeyExtraction indicates the key is not exportable in the
	// requested mode, or its parameters are inconsistent.
	ErrKeyExtraction = errors.New("key parameters not extractable")

	// ErrPEMParse indicates the supplied PEM text does not contain a
	// usable key pair.
	ErrPEMParse = errors.New("invalid PEM key pair")
)
