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

// runDealer implements the trusted dealer's single linear pass
// (spec.md §4.4): it samples the two MAC keys, streams one input-
// masking singleton sharing per private input wire, and streams one
// Beaver triple per multiplication gate, in topology order. The dealer
// never reads from either channel, so it can never block on a peer.
func runDealer[T Sharing[T]](scheme Scheme[T], circuit *Circuit, q field.Elem, txP1, txP2 chan<- Msg[T], logPath string) error {
	rng, err := field.NewRandFromEntropy()
	if err != nil {
		return err
	}

	l := &Log{}
	l.Section("Distribution of key sharings")

	k1 := rng.Sample(q)
	k2 := rng.Sample(q)

	unauth := UnauthScheme{}
	sk11, sk12 := unauth.Share(k1, 0, 0, rng, q)
	sk21, sk22 := unauth.Share(k2, 0, 0, rng, q)

	txP1 <- ValueMsg[T](sk11.Value())
	l.Sent("P1", "sharing of k1", sk11)
	txP1 <- ValueMsg[T](sk21.Value())
	l.Sent("P1", "sharing of k2", sk21)

	txP2 <- ValueMsg[T](sk12.Value())
	l.Sent("P2", "sharing of k1", sk12)
	txP2 <- ValueMsg[T](sk22.Value())
	l.Sent("P2", "sharing of k2", sk22)

	l.Section("Distribution of singleton sharings for input wires")

	totalInputWires := circuit.TotalInputWires()
	for i := 0; i < totalInputWires; i++ {
		v := rng.Sample(q)
		s1, s2 := scheme.Share(v, k1, k2, rng, q)
		txP1 <- SingletonMsg[T](s1)
		l.Sent("P1", fmt.Sprintf("singleton sharing #%d", i), s1)
		txP2 <- SingletonMsg[T](s2)
		l.Sent("P2", fmt.Sprintf("singleton sharing #%d", i), s2)
	}

	l.Section("Distribution of Beaver triple sharings for multiplication gates")

	for _, id := range circuit.Topology() {
		g, ok := circuit.Gate(id)
		if !ok || g.HasConst || g.Op != OpMul {
			continue
		}
		t1, t2 := scheme.BeaverShare(k1, k2, q, rng)
		txP1 <- TripleMsg[T](t1)
		l.Sent("P1", fmt.Sprintf("triple sharing for gate %d", id), t1)
		txP2 <- TripleMsg[T](t2)
		l.Sent("P2", fmt.Sprintf("triple sharing for gate %d", id), t2)
	}

	l.End("Ended successfully")

	if err := l.Write(logPath); err != nil {
		return fmt.Errorf("dealer failed to write execution log: %w", err)
	}
	return nil
}
