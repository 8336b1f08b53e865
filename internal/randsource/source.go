// Package randsource adapts the platform CSPRNG to the pull-based
// io.Reader the signing and container engines consume.
package randsource

import (
	"crypto/rand"
	"errors"
	"io"
)

// ErrClosed indicates a read from a source that was already closed.
var ErrClosed = errors.New("random source is closed")

// Source is a scope-bound random byte source. Create one per
// operation, release it with Close on every exit path, and never share
// it: a Source is not safe for concurrent use, and a closed Source
// must not be reused.
type Source struct {
	r      io.Reader
	closed bool
}

// Ensure Source satisfies the reader contract of the signing engine.
var _ io.Reader = (*Source)(nil)

// New returns a Source backed by the platform CSPRNG.
func New() *Source {
	return &Source{r: rand.Reader}
}

// NewFrom returns a Source backed by r. Intended for tests.
func NewFrom(r io.Reader) *Source {
	return &Source{r: r}
}

// Read fills p with random bytes.
func (s *Source) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return io.ReadFull(s.r, p)
}

// Close releases the source. Further reads fail with ErrClosed.
// Close is idempotent.
func (s *Source) Close() error {
	s.closed = true
	return nil
}
