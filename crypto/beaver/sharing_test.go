//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"testing"

	"github.com/markkurossi/beaver/crypto/field"
)

func TestUnauthSharingRoundTrip(t *testing.T) {
	q := field.Elem(104729)
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	sc := UnauthScheme{}
	for _, v := range []field.Elem{0, 1, 42, 104728} {
		s1, s2 := sc.Share(v, 0, 0, rng, q)
		got := s1.Add(s2, q)
		if got.Value() != v {
			t.Errorf("Share(%d) round trip = %d", v, got.Value())
		}
	}
}

func TestUnauthSharingAddcMulcSubtract(t *testing.T) {
	q := field.Elem(101)
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}
	sc := UnauthScheme{}

	a1, a2 := sc.Share(10, 0, 0, rng, q)
	b1, b2 := sc.Share(3, 0, 0, rng, q)

	sum := a1.Add(b1, q).Add(a2.Add(b2, q), q)
	if sum.Value() != 13 {
		t.Errorf("10+3 = %d, want 13", sum.Value())
	}

	diff := a1.Subtract(b1, q).Add(a2.Subtract(b2, q), q)
	if diff.Value() != 7 {
		t.Errorf("10-3 = %d, want 7", diff.Value())
	}

	scaled := a1.Mulc(5, q).Add(a2.Mulc(5, q), q)
	if scaled.Value() != 50 {
		t.Errorf("10*5 = %d, want 50", scaled.Value())
	}

	added := a1.Addc(7, 0, 0, q, P1).Add(a2.Addc(7, 0, 0, q, P2), q)
	if added.Value() != 17 {
		t.Errorf("10+7 = %d, want 17", added.Value())
	}
}

func TestAuthSharingAuthenticates(t *testing.T) {
	q := field.Elem(104729)
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	k1 := rng.Sample(q)
	k2 := rng.Sample(q)

	sc := AuthScheme{}
	s1, s2 := sc.Share(77, k1, k2, rng, q)

	combined := s1.Add(s2, q)
	if combined.Value() != 77 {
		t.Fatalf("round trip = %d, want 77", combined.Value())
	}

	opened1 := combined.Opened(P1)
	opened2 := combined.Opened(P2)

	if !opened1.Authenticate(k1, q, P1) {
		t.Error("P1 failed to authenticate an honest opening")
	}
	if !opened2.Authenticate(k2, q, P2) {
		t.Error("P2 failed to authenticate an honest opening")
	}
}

func TestAuthSharingTweakedFailsAuthentication(t *testing.T) {
	q := field.Elem(104729)
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	k1 := rng.Sample(q)

	sc := AuthScheme{}
	s1, s2 := sc.Share(5, k1, 0, rng, q)

	combined := s1.Add(s2, q)
	tweaked := combined.Tweaked().Opened(P1)

	if tweaked.Authenticate(k1, q, P1) {
		t.Fatal("tweaked sharing unexpectedly authenticated")
	}
}

func TestAuthSharingTweakedDoubleSlotBehavior(t *testing.T) {
	// This pins down the preserved (not "fixed") double-tweak behavior:
	// Tweaked writes the P1 MAC component into both MAC slots.
	s := AuthSharing{v: 3, m1: 11, m2: 22}
	tw := s.Tweaked()
	if tw.m1 != 11 || tw.m2 != 11 {
		t.Fatalf("Tweaked() = %+v, want both MAC slots set to m1 (11)", tw)
	}
	if tw.v != 4 {
		t.Fatalf("Tweaked().v = %d, want 4", tw.v)
	}
}

func TestBeaverShareConsistent(t *testing.T) {
	q := field.Elem(104729)
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	sc := UnauthScheme{}
	t1, t2 := sc.BeaverShare(0, 0, q, rng)

	a := t1.A.Add(t2.A, q).Value()
	b := t1.B.Add(t2.B, q).Value()
	c := t1.C.Add(t2.C, q).Value()

	if want := field.Mul(a, b, q); c != want {
		t.Fatalf("triple a*b = %d, c = %d", want, c)
	}
}
