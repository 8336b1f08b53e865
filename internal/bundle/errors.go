package bundle

import "errors"

// Sentinel errors for container operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrContainerLoad indicates a PKCS#12 blob was malformed or held
	// no certificate entries.
	ErrContainerLoad = errors.New("container load failed")

	// ErrReimport indicates the re-serialized container could not be
	// reloaded with its generated passphrase.
	ErrReimport = errors.New("container reimport failed")
)
