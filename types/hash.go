package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// A Hash256 is a generic 256-bit cryptographic hash.
type Hash256 [32]byte

// String implements fmt.Stringer.
func (h Hash256) String() string { return "h:" + hex.EncodeToString(h[:]) }

// MarshalText implements encoding.TextMarshaler.
func (h Hash256) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash256) UnmarshalText(b []byte) error {
	n, err := hex.Decode(h[:], bytes.TrimPrefix(b, []byte("h:")))
	if n < len(h) && err == nil {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return fmt.Errorf("decoding h:<hex> failed: %w", err)
	}
	return nil
}

// HashBytes computes the blake2b-256 hash of b.
func HashBytes(b []byte) Hash256 {
	return blake2b.Sum256(b)
}

// A Hasher streams objects into an instance of blake2b-256.
type Hasher struct {
	h   hash.Hash
	sum Hash256 // prevent Sum from allocating
	E   *Encoder
}

// Reset resets the underlying hash and encoder state.
func (h *Hasher) Reset() {
	h.E.n = 0
	h.h.Reset()
}

// WriteDistinguisher writes a distinguisher prefix to the encoder.
func (h *Hasher) WriteDistinguisher(p string) {
	h.E.Write([]byte("papara/" + p + "|"))
}

// Sum returns the digest of the objects written to the Hasher.
func (h *Hasher) Sum() (sum Hash256) {
	_ = h.E.Flush() // no error possible
	h.h.Sum(h.sum[:0])
	return h.sum
}

// NewHasher returns a new Hasher instance.
func NewHasher() *Hasher {
	h, _ := blake2b.New256(nil) // only errors on an oversized key
	e := NewEncoder(h)
	return &Hasher{h: h, E: e}
}
