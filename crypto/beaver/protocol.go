//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"strings"
	"sync"

	"github.com/markkurossi/beaver/crypto/field"
)

// peerChannelCapacity bounds the two party-to-party channels. Two
// sends without an interleaved receive happen at most once per
// multiplication gate (the Beaver subprotocol opens both masked
// operands before reading either back), so any capacity of at least 2
// avoids deadlock; this larger capacity keeps normal operation from
// ever blocking on the buffer.
const peerChannelCapacity = 64

// ProtocolInput is everything RunProtocol needs to run one instance of
// the protocol: the circuit (parsed independently per task, per
// spec.md §4.6), the field modulus, each party's private input values,
// the sharing scheme to use, whether to simulate a corrupt party, and
// where to write the three execution logs.
type ProtocolInput struct {
	CircuitEncoding string
	Q               field.Elem

	InputsP1First, InputsP1Second []field.Elem
	InputsP2First, InputsP2Second []field.Elem

	Authenticated bool
	Corrupt       bool

	// LogPathPrefix names the three log files written as
	// LogPathPrefix+"_dealer.log", "_p1.log", "_p2.log".
	LogPathPrefix string
}

// Result holds what each party learned.
type Result struct {
	P1Outputs map[uint32]field.Elem
	P2Outputs map[uint32]field.Elem
}

// RunProtocol runs the dealer and the two protocol parties concurrently
// over four in-process channels, exactly as spec.md §5 describes, and
// returns the values each party learned. A non-nil error aggregates
// every task's failure, one line per failing task, labeled "Dealer:",
// "P1:", or "P2:".
func RunProtocol(in ProtocolInput) (*Result, error) {
	if in.Authenticated {
		return runProtocol[AuthSharing](AuthScheme{}, in)
	}
	return runProtocol[UnauthSharing](UnauthScheme{}, in)
}

func runProtocol[T Sharing[T]](scheme Scheme[T], in ProtocolInput) (*Result, error) {
	c1, err := ParseCircuit(in.CircuitEncoding)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	c2, err := ParseCircuit(in.CircuitEncoding)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	c3, err := ParseCircuit(in.CircuitEncoding)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}

	if len(c2.InputsFirst(P1)) != len(in.InputsP1First) || len(c2.InputsSecond(P1)) != len(in.InputsP1Second) {
		return nil, errors.New("number of input values provided by P1 does not match the circuit's needs")
	}
	if len(c3.InputsFirst(P2)) != len(in.InputsP2First) || len(c3.InputsSecond(P2)) != len(in.InputsP2Second) {
		return nil, errors.New("number of input values provided by P2 does not match the circuit's needs")
	}

	dealerCap := 2 + c1.TotalInputWires() + c1.NumMulGates()
	txDP1 := make(chan Msg[T], dealerCap)
	txDP2 := make(chan Msg[T], dealerCap)
	txP1P2 := make(chan Msg[T], peerChannelCapacity)
	txP2P1 := make(chan Msg[T], peerChannelCapacity)

	p1Corrupt := in.Corrupt && mathrand.IntN(2) == 0
	p2Corrupt := in.Corrupt && !p1Corrupt

	var dealerErr, p1Err, p2Err error
	res := &Result{}

	var wg sync.WaitGroup

	wg.Go(func() {
		dealerErr = runDealer[T](scheme, c1, in.Q, txDP1, txDP2, in.LogPathPrefix+"_dealer.log")
	})

	wg.Go(func() {
		outs, err := runParty[T](partyConfig[T]{
			identity:     P1,
			circuit:      c2,
			q:            in.Q,
			inputsFirst:  in.InputsP1First,
			inputsSecond: in.InputsP1Second,
			corrupt:      p1Corrupt,
			rxDealer:     txDP1,
			rxPeer:       txP2P1,
			txPeer:       txP1P2,
			logPath:      in.LogPathPrefix + "_p1.log",
		})
		p1Err = err
		res.P1Outputs = outs
	})

	wg.Go(func() {
		outs, err := runParty[T](partyConfig[T]{
			identity:     P2,
			circuit:      c3,
			q:            in.Q,
			inputsFirst:  in.InputsP2First,
			inputsSecond: in.InputsP2Second,
			corrupt:      p2Corrupt,
			rxDealer:     txDP2,
			rxPeer:       txP1P2,
			txPeer:       txP2P1,
			logPath:      in.LogPathPrefix + "_p2.log",
		})
		p2Err = err
		res.P2Outputs = outs
	})

	wg.Wait()

	var agg strings.Builder
	if dealerErr != nil {
		fmt.Fprintf(&agg, "Dealer: %s\n", dealerErr)
	}
	if p1Err != nil {
		fmt.Fprintf(&agg, "P1: %s\n", p1Err)
	}
	if p2Err != nil {
		fmt.Fprintf(&agg, "P2: %s\n", p2Err)
	}

	if agg.Len() == 0 {
		return res, nil
	}
	return res, errors.New(strings.TrimRight(agg.String(), "\n"))
}
