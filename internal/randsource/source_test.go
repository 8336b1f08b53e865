package randsource

import (
	"bytes"
	"errors"
	"testing"
)

func TestU_Source_Read(t *testing.T) {
	s := New()
	defer s.Close()

	a := make([]byte, 32)
	b := make([]byte, 32)
	if n, err := s.Read(a); err != nil || n != len(a) {
		t.Fatalf("Read() = %d, %v", n, err)
	}
	if n, err := s.Read(b); err != nil || n != len(b) {
		t.Fatalf("Read() = %d, %v", n, err)
	}
	if bytes.Equal(a, b) {
		t.Error("consecutive reads returned identical bytes")
	}
}

func TestU_Source_ReadAfterClose(t *testing.T) {
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Idempotent.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	buf := make([]byte, 8)
	if _, err := s.Read(buf); !errors.Is(err, ErrClosed) {
		t.Errorf("Read() after Close: error = %v, want ErrClosed", err)
	}
}

func TestU_Source_NewFrom(t *testing.T) {
	seed := bytes.Repeat([]byte{0xAB}, 16)
	s := NewFrom(bytes.NewReader(seed))
	defer s.Close()

	got := make([]byte, 16)
	if _, err := s.Read(got); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, seed) {
		t.Error("NewFrom source did not deliver the underlying bytes")
	}
}
