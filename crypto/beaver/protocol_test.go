//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markkurossi/beaver/crypto/field"
)

// S1: unauthenticated addition and multiplication over private inputs.
func TestScenarioUnauthAddMul(t *testing.T) {
	dir := t.TempDir()

	// gate 0: P1 + P2, gate 1: P1 * P2, both output to both parties.
	// P1 supplies the first operand of gates 0 and 1, P2 the second.
	encoding := "0,P1,add,P2 | 1,P1,mul,P2 &0,1&0,1"

	res, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{10, 6},
		InputsP2Second:  []field.Elem{20, 7},
		Authenticated:   false,
		LogPathPrefix:   filepath.Join(dir, "s1"),
	})
	require.NoError(t, err)

	require.Equal(t, field.Elem(30), res.P1Outputs[0])
	require.Equal(t, field.Elem(30), res.P2Outputs[0])
	require.Equal(t, field.Elem(42), res.P1Outputs[1])
	require.Equal(t, field.Elem(42), res.P2Outputs[1])
}

// S2: the same computation under SPDZ-style authenticated sharing
// should produce identical results when no party is corrupt.
func TestScenarioAuthAddMul(t *testing.T) {
	dir := t.TempDir()

	encoding := "0,P1,add,P2 | 1,P1,mul,P2 &0,1&0,1"

	res, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{10, 6},
		InputsP2Second:  []field.Elem{20, 7},
		Authenticated:   true,
		LogPathPrefix:   filepath.Join(dir, "s2"),
	})
	require.NoError(t, err)

	require.Equal(t, field.Elem(30), res.P1Outputs[0])
	require.Equal(t, field.Elem(42), res.P2Outputs[1])
}

// S3: constant gates (addc/mulc) compose correctly with private inputs.
func TestScenarioConstantGates(t *testing.T) {
	dir := t.TempDir()

	// gate 0: P1 * P2 ; gate 1: gate0 + 5 ; gate 2: gate1 * 2.
	encoding := "0,P1,mul,P2 | 1,0,addc,5 | 2,1,mulc,2 &2&"

	res, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{3},
		InputsP2Second:  []field.Elem{4},
		Authenticated:   true,
		LogPathPrefix:   filepath.Join(dir, "s3"),
	})
	require.NoError(t, err)

	// (3*4 + 5) * 2 = 34
	require.Equal(t, field.Elem(34), res.P1Outputs[2])
}

// S4: a single corrupt party tampering with opened values is caught by
// MAC authentication under the authenticated scheme, across enough
// trials that the 0.2 per-opening corruption probability almost
// certainly fires at least once.
func TestScenarioCorruptPartyDetected(t *testing.T) {
	dir := t.TempDir()
	encoding := "0,P1,add,P2 | 1,0,mul,P2 &1&"

	caught := false
	for i := 0; i < 60; i++ {
		_, err := RunProtocol(ProtocolInput{
			CircuitEncoding: encoding,
			Q:               104729,
			InputsP1First:   []field.Elem{10},
			InputsP2Second:  []field.Elem{20, 3},
			Authenticated:   true,
			Corrupt:         true,
			LogPathPrefix:   filepath.Join(dir, "s4"),
		})
		if err != nil {
			require.True(t, strings.Contains(err.Error(), "Authentication failed") ||
				strings.Contains(err.Error(), "Aborting"))
			caught = true
			break
		}
	}
	require.True(t, caught, "expected at least one corrupted run across 60 trials to be caught")
}

// S5: a circuit where a gate feeds two different outputs must still be
// evaluated exactly once, and both outputs observe the same value.
func TestScenarioSharedSubgateFeedsTwoOutputs(t *testing.T) {
	dir := t.TempDir()

	// gate 0: P1 + P2 ; gate 1: gate0 * 2 ; gate 2: gate0 + 1.
	// Both gate 1 and gate 2 are outputs of P1.
	encoding := "0,P1,add,P2 | 1,0,mulc,2 | 2,0,addc,1 &1,2&"

	res, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{10},
		InputsP2Second:  []field.Elem{5},
		Authenticated:   false,
		LogPathPrefix:   filepath.Join(dir, "s5"),
	})
	require.NoError(t, err)

	require.Equal(t, field.Elem(30), res.P1Outputs[1]) // (10+5)*2
	require.Equal(t, field.Elem(16), res.P1Outputs[2]) // (10+5)+1
}

// S6: a mismatch between the circuit's declared input-wire count and
// the number of supplied input values is rejected before any task is
// spawned.
func TestScenarioInputCountMismatch(t *testing.T) {
	dir := t.TempDir()
	encoding := "0,P1,add,P2&0&"

	_, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{1, 2}, // circuit only declares one P1 input
		InputsP2Second:  []field.Elem{1},
		Authenticated:   false,
		LogPathPrefix:   filepath.Join(dir, "s6"),
	})
	require.Error(t, err)
}

func TestRunProtocolWritesLogFiles(t *testing.T) {
	dir := t.TempDir()
	encoding := "0,P1,add,P2&0&"

	_, err := RunProtocol(ProtocolInput{
		CircuitEncoding: encoding,
		Q:               104729,
		InputsP1First:   []field.Elem{1},
		InputsP2Second:  []field.Elem{2},
		Authenticated:   false,
		LogPathPrefix:   filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)

	for _, suffix := range []string{"_dealer.log", "_p1.log", "_p2.log"} {
		data, err := os.ReadFile(filepath.Join(dir, "logs"+suffix))
		require.NoError(t, err)
		require.Contains(t, string(data), "Ended successfully")
	}
}
