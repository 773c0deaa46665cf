//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package field

import "testing"

func TestAddSubMul(t *testing.T) {
	q := Elem(101)

	tests := []struct {
		name string
		fn   func() Elem
		want Elem
	}{
		{"add wraps", func() Elem { return Add(90, 20, q) }, 9},
		{"add no wrap", func() Elem { return Add(3, 4, q) }, 7},
		{"sub no wrap", func() Elem { return Sub(10, 3, q) }, 7},
		{"sub wraps negative", func() Elem { return Sub(3, 10, q) }, 94},
		{"mul wraps", func() Elem { return Mul(50, 50, q) }, 76},
		{"mul zero", func() Elem { return Mul(0, 99, q) }, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestReduceI32(t *testing.T) {
	q := Elem(101)

	tests := []struct {
		name string
		c    int32
		want Elem
	}{
		{"positive below q", 5, 5},
		{"positive above q", 207, 5},
		{"negative", -5, 96},
		{"zero", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReduceI32(tc.c, q); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRandSampleInRange(t *testing.T) {
	r, err := NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	q := Elem(104729)
	for i := 0; i < 2000; i++ {
		if v := r.Sample(q); v >= q {
			t.Fatalf("sample %d out of range [0, %d)", v, q)
		}
	}
}

func TestRandDiffersAcrossInstances(t *testing.T) {
	r1, err := NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}
	r2, err := NewRandFromEntropy()
	if err != nil {
		t.Fatalf("NewRandFromEntropy: %v", err)
	}

	same := true
	for i := 0; i < 8; i++ {
		if r1.Uint64() != r2.Uint64() {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("two independently seeded streams produced identical output")
	}
}
