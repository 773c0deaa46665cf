//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package field implements the modular arithmetic kernel the Beaver
// protocol's sharing and gate-evaluation code is built on: every value
// is an element of Z_q for a prime q supplied at runtime, never a
// compile-time constant.
package field

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// Elem is an element of Z_q. Every function below keeps its result in
// [0, q); q itself is taken as given and is never validated for
// primality here.
type Elem uint32

// Add returns (a + b) mod q.
func Add(a, b, q Elem) Elem {
	return Elem((uint64(a) + uint64(b)) % uint64(q))
}

// Sub returns (a - b) mod q, using a Euclidean remainder so the result
// always lands in [0, q) even when a < b.
func Sub(a, b, q Elem) Elem {
	d := int64(a) - int64(b)
	m := int64(q)
	d %= m
	if d < 0 {
		d += m
	}
	return Elem(d)
}

// Mul returns (a * b) mod q.
func Mul(a, b, q Elem) Elem {
	return Elem((uint64(a) * uint64(b)) % uint64(q))
}

// ReduceI32 reduces a signed constant, such as a gate's literal operand,
// into [0, q).
func ReduceI32(c int32, q Elem) Elem {
	m := int64(q)
	d := int64(c) % m
	if d < 0 {
		d += m
	}
	return Elem(d)
}

// Rand draws uniform field elements from a ChaCha20 keystream seeded
// from a cryptographic entropy source. It stands in for the
// ChaCha20Rng the reference implementation seeds once per dealer run;
// the seed source itself is the "random-number source" spec.md treats
// as an external collaborator outside the system's hard engineering.
type Rand struct {
	stream cipher.Stream
}

// NewRandFromEntropy seeds a fresh stream cipher from crypto/rand.
func NewRandFromEntropy() (*Rand, error) {
	var seed [chacha20.KeySize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("field: seeding RNG: %w", err)
	}
	var nonce [chacha20.NonceSize]byte
	s, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("field: initializing stream cipher: %w", err)
	}
	return &Rand{stream: s}, nil
}

// Uint64 draws eight pseudorandom bytes from the stream.
func (r *Rand) Uint64() uint64 {
	var b [8]byte
	r.stream.XORKeyStream(b[:], b[:])
	return binary.BigEndian.Uint64(b[:])
}

// Sample draws a value uniform over [0, q). Reducing a 64-bit draw
// modulo a 32-bit q introduces negligible bias.
func (r *Rand) Sample(q Elem) Elem {
	return Elem(r.Uint64() % uint64(q))
}
