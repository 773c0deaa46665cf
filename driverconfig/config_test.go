//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package driverconfig

import (
	"strings"
	"testing"

	"github.com/markkurossi/beaver/crypto/field"
)

func TestParseFullConfig(t *testing.T) {
	input := strings.Join([]string{
		"0,P1,add,P2&0&0",
		"",
		"101",
		"10",
		"",
		"20",
		"",
		"true",
		"false",
	}, "\n")

	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.CircuitEncoding != "0,P1,add,P2&0&0" {
		t.Errorf("CircuitEncoding = %q", cfg.CircuitEncoding)
	}
	if cfg.Q != 101 {
		t.Errorf("Q = %d, want 101", cfg.Q)
	}
	if len(cfg.InputsP1First) != 1 || cfg.InputsP1First[0] != 10 {
		t.Errorf("InputsP1First = %v, want [10]", cfg.InputsP1First)
	}
	if len(cfg.InputsP1Second) != 0 {
		t.Errorf("InputsP1Second = %v, want empty", cfg.InputsP1Second)
	}
	if len(cfg.InputsP2First) != 1 || cfg.InputsP2First[0] != 20 {
		t.Errorf("InputsP2First = %v, want [20]", cfg.InputsP2First)
	}
	if !cfg.Authenticated {
		t.Error("Authenticated = false, want true")
	}
	if cfg.Corrupt {
		t.Error("Corrupt = true, want false")
	}
}

func TestParseMultilineCircuit(t *testing.T) {
	input := strings.Join([]string{
		"0,P1,add,P2 |",
		"1,0,mulc,2",
		"&1&",
		"",
		"101",
		"5",
		"",
		"7",
		"",
		"false",
		"false",
	}, "\n")

	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CircuitEncoding != "0,P1,add,P2 |1,0,mulc,2&1&" {
		t.Errorf("CircuitEncoding = %q", cfg.CircuitEncoding)
	}
}

func TestReadInputVectorReducesNegativeValues(t *testing.T) {
	input := strings.Join([]string{
		"0,P1,add,P2&0&",
		"",
		"11",
		"-3",
		"",
		"0",
		"",
		"false",
		"false",
	}, "\n")

	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.InputsP1First) != 1 || cfg.InputsP1First[0] != field.Elem(8) {
		t.Errorf("InputsP1First = %v, want [8] (-3 mod 11)", cfg.InputsP1First)
	}
}

func TestParseMissingCircuitEncoding(t *testing.T) {
	_, err := Parse(strings.NewReader("\n101\n\n\n\n\nfalse\nfalse\n"))
	if err == nil {
		t.Fatal("expected error for missing circuit encoding")
	}
}

func TestParseMissingField(t *testing.T) {
	_, err := Parse(strings.NewReader("0,P1,add,P2&0&\n\n101\n"))
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}
