//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"fmt"

	"github.com/markkurossi/beaver/crypto/field"
)

// Sharing is the algebra every sharing scheme used by the protocol
// must support. T is the concrete sharing type; it stands in for the
// reference implementation's `Sharing` trait, with Go's generics
// playing the role of the trait's associated Self type.
type Sharing[T any] interface {
	// Add returns the sharing of the sum of the two shared values.
	Add(other T, q field.Elem) T
	// Addc returns the sharing of (value + c). Only one party adds the
	// constant to its own share; k1/k2 are this party's shares of the
	// two MAC keys, needed by AuthSharing to keep its MAC components
	// consistent.
	Addc(c, k1, k2, q field.Elem, party Party) T
	// Mulc returns the sharing of (value * c).
	Mulc(c, q field.Elem) T
	// Complement returns the sharing of -value.
	Complement(q field.Elem) T
	// Subtract returns the sharing of the difference of the two shared
	// values.
	Subtract(other T, q field.Elem) T
	// Authenticate reports whether this (fully combined, one-sided)
	// sharing is consistent with the reconstructed MAC key held by
	// party. UnauthSharing always reports true.
	Authenticate(key, q field.Elem, party Party) bool
	// Opened returns the half of this sharing that should be revealed
	// to the given party.
	Opened(to Party) T
	// Value returns the shared value. Meaningful only after the two
	// halves of a sharing have been combined via Add.
	Value() field.Elem
	// Tweaked returns a corrupted variant of this sharing, used only to
	// simulate a corrupt party's tampering with an opened value.
	Tweaked() T

	fmt.Stringer
}

// Scheme constructs sharings of a concrete type T. It plays the role
// the reference implementation's associated functions (`Sharing::share`,
// `Sharing::beaver_share`) play in a language with trait static
// methods: Go interfaces can't express "return Self" without a receiver,
// so these live on a separate, stateless factory value instead.
type Scheme[T Sharing[T]] interface {
	// Share splits v into two sharings that add up to v.
	Share(v, k1, k2 field.Elem, rng *field.Rand, q field.Elem) (T, T)
	// BeaverShare produces two halves of a fresh Beaver triple (a, b,
	// a*b).
	BeaverShare(k1, k2, q field.Elem, rng *field.Rand) (BeaverSharing[T], BeaverSharing[T])
}

// BeaverSharing is one party's half of a Beaver triple (a, b, c) with
// a*b = c mod q, consumed once per multiplication gate.
type BeaverSharing[T any] struct {
	A, B, C T
}

func (t BeaverSharing[T]) String() string {
	return fmt.Sprintf("[%v, %v, %v]", t.A, t.B, t.C)
}

// UnauthSharing is a plain additive sharing: the two halves of a value
// add up to it, with no integrity protection at all.
type UnauthSharing struct {
	v field.Elem
}

func (s UnauthSharing) String() string {
	return fmt.Sprintf("(%d)", s.v)
}

// Add implements Sharing.
func (s UnauthSharing) Add(o UnauthSharing, q field.Elem) UnauthSharing {
	return UnauthSharing{field.Add(s.v, o.v, q)}
}

// Addc implements Sharing. Only P1's half receives the constant, so
// that summing the two halves yields value+c exactly once.
func (s UnauthSharing) Addc(c, _, _, q field.Elem, party Party) UnauthSharing {
	if party == P1 {
		return UnauthSharing{field.Add(s.v, c, q)}
	}
	return UnauthSharing{s.v}
}

// Mulc implements Sharing.
func (s UnauthSharing) Mulc(c, q field.Elem) UnauthSharing {
	return UnauthSharing{field.Mul(s.v, c, q)}
}

// Complement implements Sharing.
func (s UnauthSharing) Complement(q field.Elem) UnauthSharing {
	return UnauthSharing{field.Sub(0, s.v, q)}
}

// Subtract implements Sharing.
func (s UnauthSharing) Subtract(o UnauthSharing, q field.Elem) UnauthSharing {
	return s.Add(o.Complement(q), q)
}

// Authenticate implements Sharing: an unauthenticated sharing is never
// checked.
func (s UnauthSharing) Authenticate(_, _ field.Elem, _ Party) bool {
	return true
}

// Opened implements Sharing: the whole share is revealed, since there
// is no MAC component to withhold.
func (s UnauthSharing) Opened(_ Party) UnauthSharing {
	return UnauthSharing{s.v}
}

// Value implements Sharing.
func (s UnauthSharing) Value() field.Elem {
	return s.v
}

// Tweaked implements Sharing by perturbing the value by one, with no
// further modular reduction -- this can never overflow a uint32 since
// the value is already < q <= max uint32.
func (s UnauthSharing) Tweaked() UnauthSharing {
	return UnauthSharing{s.v + 1}
}

// UnauthScheme constructs UnauthSharing values.
type UnauthScheme struct{}

// Share implements Scheme.
func (UnauthScheme) Share(v, _, _ field.Elem, rng *field.Rand, q field.Elem) (UnauthSharing, UnauthSharing) {
	r := rng.Sample(q)
	return UnauthSharing{r}, UnauthSharing{field.Sub(v, r, q)}
}

// BeaverShare implements Scheme.
func (sc UnauthScheme) BeaverShare(_, _, q field.Elem, rng *field.Rand) (BeaverSharing[UnauthSharing], BeaverSharing[UnauthSharing]) {
	a := rng.Sample(q)
	b := rng.Sample(q)
	a1, a2 := sc.Share(a, 0, 0, rng, q)
	b1, b2 := sc.Share(b, 0, 0, rng, q)
	c1, c2 := sc.Share(field.Mul(a, b, q), 0, 0, rng, q)
	return BeaverSharing[UnauthSharing]{a1, b1, c1}, BeaverSharing[UnauthSharing]{a2, b2, c2}
}

// AuthSharing is a SPDZ-style authenticated sharing: a value share
// plus two MAC-component shares, one verifiable by each party against
// its own reconstructed MAC key.
type AuthSharing struct {
	v, m1, m2 field.Elem
}

func (s AuthSharing) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.v, s.m1, s.m2)
}

// Add implements Sharing.
func (s AuthSharing) Add(o AuthSharing, q field.Elem) AuthSharing {
	return AuthSharing{
		field.Add(s.v, o.v, q),
		field.Add(s.m1, o.m1, q),
		field.Add(s.m2, o.m2, q),
	}
}

// Addc implements Sharing: the constant is added to the value on P1's
// half only, and, on both halves, to each MAC component scaled by the
// caller's share of the respective key, so the MAC shares still sum to
// (value + c) times that key.
func (s AuthSharing) Addc(c, k1, k2, q field.Elem, party Party) AuthSharing {
	var cv field.Elem
	if party == P1 {
		cv = c
	}
	delta := AuthSharing{cv, field.Mul(k1, c, q), field.Mul(k2, c, q)}
	return s.Add(delta, q)
}

// Mulc implements Sharing.
func (s AuthSharing) Mulc(c, q field.Elem) AuthSharing {
	return AuthSharing{field.Mul(s.v, c, q), field.Mul(s.m1, c, q), field.Mul(s.m2, c, q)}
}

// Complement implements Sharing.
func (s AuthSharing) Complement(q field.Elem) AuthSharing {
	return AuthSharing{field.Sub(0, s.v, q), field.Sub(0, s.m1, q), field.Sub(0, s.m2, q)}
}

// Subtract implements Sharing.
func (s AuthSharing) Subtract(o AuthSharing, q field.Elem) AuthSharing {
	return s.Add(o.Complement(q), q)
}

// Authenticate implements Sharing: party checks its own MAC component
// against value*key.
func (s AuthSharing) Authenticate(key, q field.Elem, party Party) bool {
	if party == P1 {
		return s.m1%q == field.Mul(s.v, key, q)
	}
	return s.m2%q == field.Mul(s.v, key, q)
}

// Opened implements Sharing: reveal the value plus only the MAC
// component the recipient can check.
func (s AuthSharing) Opened(to Party) AuthSharing {
	if to == P1 {
		return AuthSharing{s.v, s.m1, 0}
	}
	return AuthSharing{s.v, 0, s.m2}
}

// Value implements Sharing.
func (s AuthSharing) Value() field.Elem {
	return s.v
}

// Tweaked implements Sharing. It preserves, rather than fixes, the
// reference implementation's behavior: it writes the P1 MAC component
// into *both* returned MAC slots instead of leaving m2 alone (see
// DESIGN.md's first Open Question).
func (s AuthSharing) Tweaked() AuthSharing {
	return AuthSharing{s.v + 1, s.m1, s.m1}
}

// AuthScheme constructs AuthSharing values.
type AuthScheme struct{}

// Share implements Scheme.
func (AuthScheme) Share(v, k1, k2 field.Elem, rng *field.Rand, q field.Elem) (AuthSharing, AuthSharing) {
	u := UnauthScheme{}
	x1, x2 := u.Share(v, 0, 0, rng, q)
	m11, m12 := u.Share(field.Mul(v, k1, q), 0, 0, rng, q)
	m21, m22 := u.Share(field.Mul(v, k2, q), 0, 0, rng, q)
	return AuthSharing{x1.v, m11.v, m21.v}, AuthSharing{x2.v, m12.v, m22.v}
}

// BeaverShare implements Scheme.
func (sc AuthScheme) BeaverShare(k1, k2, q field.Elem, rng *field.Rand) (BeaverSharing[AuthSharing], BeaverSharing[AuthSharing]) {
	a := rng.Sample(q)
	b := rng.Sample(q)
	a1, a2 := sc.Share(a, k1, k2, rng, q)
	b1, b2 := sc.Share(b, k1, k2, rng, q)
	c1, c2 := sc.Share(field.Mul(a, b, q), k1, k2, rng, q)
	return BeaverSharing[AuthSharing]{a1, b1, c1}, BeaverSharing[AuthSharing]{a2, b2, c2}
}
