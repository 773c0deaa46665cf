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

	"github.com/markkurossi/beaver/crypto/field"
)

// CorruptionDegree is the probability, per opened value, that a
// corrupt party tampers with what it sends.
const CorruptionDegree = 0.2

type partyConfig[T Sharing[T]] struct {
	identity     Party
	circuit      *Circuit
	q            field.Elem
	inputsFirst  []field.Elem
	inputsSecond []field.Elem
	corrupt      bool
	rxDealer     <-chan Msg[T]
	rxPeer       <-chan Msg[T]
	txPeer       chan<- Msg[T]
	logPath      string
}

// party is one protocol party's local state machine, implementing
// phases A-E of spec.md §4.5.
type party[T Sharing[T]] struct {
	partyConfig[T]

	log *Log

	sK1, sK2, key field.Elem

	outputs     map[uint32]field.Elem
	outputOrder []uint32
}

// runParty drives a single protocol party to completion, returning the
// output values it learned and/or the error that made it abort.
func runParty[T Sharing[T]](cfg partyConfig[T]) (map[uint32]field.Elem, error) {
	p := &party[T]{
		partyConfig: cfg,
		log:         &Log{},
		outputs:     make(map[uint32]field.Elem),
	}
	if err := p.run(); err != nil {
		return p.outputs, err
	}
	return p.outputs, nil
}

func (p *party[T]) run() error {
	p.log.Section("Distribution of key sharings")

	v, ok := p.recvDealerValue()
	if !ok {
		return p.abort("Error during distribution of key sharings: expected sharing of k1")
	}
	p.sK1 = v
	p.log.Received("dealer", "sharing of k1", p.sK1)

	v, ok = p.recvDealerValue()
	if !ok {
		return p.abort("Error during distribution of key sharings: expected sharing of k2")
	}
	p.sK2 = v
	p.log.Received("dealer", "sharing of k2", p.sK2)

	p.log.Section("Distribution of singleton sharings for input wires")

	totalInputWires := p.circuit.TotalInputWires()
	singletons := make([]T, 0, totalInputWires)
	for i := 0; i < totalInputWires; i++ {
		m := <-p.rxDealer
		s, ok := m.AsSingleton()
		if !ok {
			return p.abort("Error during distribution of input-wire sharings: expected singleton sharing")
		}
		p.log.Received("dealer", fmt.Sprintf("singleton sharing #%d", i), s)
		singletons = append(singletons, s)
	}

	p.log.Section("Distribution of Beaver triple sharings for multiplication gates")

	topology := p.circuit.Topology()
	var triples []BeaverSharing[T]
	for _, id := range topology {
		g, _ := p.circuit.Gate(id)
		if g.HasConst || g.Op != OpMul {
			continue
		}
		m := <-p.rxDealer
		tr, ok := m.AsTriple()
		if !ok {
			return p.abort("Error during distribution of Beaver triple sharings: expected triple sharing")
		}
		p.log.Received("dealer", fmt.Sprintf("triple sharing for gate %d", id), tr)
		triples = append(triples, tr)
	}

	p.log.Section("Opening of MAC key sharings")

	if p.identity == P1 {
		opened, ok := p.recvPeerValue()
		if !ok {
			return p.abort("Error during key opening: expected opening of k1")
		}
		p.log.Received("other party", "opening of k1", opened)
		p.key = field.Add(p.sK1, opened, p.q)

		p.txPeer <- ValueMsg[T](p.sK2)
		p.log.Sent("other party", "opening of k2", p.sK2)
	} else {
		p.txPeer <- ValueMsg[T](p.sK1)
		p.log.Sent("other party", "opening of k1", p.sK1)

		opened, ok := p.recvPeerValue()
		if !ok {
			return p.abort("Error during key opening: expected opening of k2")
		}
		p.log.Received("other party", "opening of k2", opened)
		p.key = field.Add(p.sK2, opened, p.q)
	}

	p.log.Section("Processing input wires")

	p1First, err := p.processInputs(p.circuit.InputsFirst(P1), &singletons, P1, true)
	if err != nil {
		return err
	}
	p1Second, err := p.processInputs(p.circuit.InputsSecond(P1), &singletons, P1, false)
	if err != nil {
		return err
	}
	p2First, err := p.processInputs(p.circuit.InputsFirst(P2), &singletons, P2, true)
	if err != nil {
		return err
	}
	p2Second, err := p.processInputs(p.circuit.InputsSecond(P2), &singletons, P2, false)
	if err != nil {
		return err
	}

	p.log.Section("Processing gates")

	inner := make(map[uint32]T)

	for _, id := range topology {
		g, _ := p.circuit.Gate(id)

		v1 := resolveSlot(g.I1, id, inner, p1First, p2First)

		if g.HasConst {
			c := field.ReduceI32(g.C, p.q)
			switch g.Op {
			case OpAdd:
				inner[id] = v1.Addc(c, p.sK1, p.sK2, p.q, p.identity)
			case OpMul:
				inner[id] = v1.Mulc(c, p.q)
			}
			continue
		}

		v2 := resolveSlot(g.I2, id, inner, p1Second, p2Second)

		switch g.Op {
		case OpAdd:
			inner[id] = v1.Add(v2, p.q)
		case OpMul:
			tr := triples[0]
			triples = triples[1:]
			res, err := p.mulGate(v1, v2, tr)
			if err != nil {
				return err
			}
			inner[id] = res
		}
	}

	p.log.Section("Processing outputs")

	if err := p.processOutputs(p.circuit.Outputs(P1), P1, inner); err != nil {
		return err
	}
	if err := p.processOutputs(p.circuit.Outputs(P2), P2, inner); err != nil {
		return err
	}

	p.log.Blank()
	for _, id := range p.outputOrder {
		p.log.Linef("Output of gate %d: %d", id, p.outputs[id])
	}
	p.log.End("Ended successfully")

	if err := p.log.Write(p.logPath); err != nil {
		return fmt.Errorf("%s failed to write execution log: %w", p.identity, err)
	}
	return nil
}

func (p *party[T]) processOutputs(ids []uint32, owner Party, inner map[uint32]T) error {
	for _, id := range ids {
		if p.identity == owner {
			v, err := p.receiveOpening(inner[id])
			if err != nil {
				return err
			}
			p.outputs[id] = v
			p.outputOrder = append(p.outputOrder, id)
		} else {
			p.sendOpening(inner[id])
		}
	}
	return nil
}

// processInputs runs the input-masking subprotocol for one slot list:
// ids is the list of gate ids whose operand is source's private input
// at the given slot (first or second). If source is this party, it
// consumes its own supplied values; otherwise it plays the "peer" role
// that opens the dealer's masking singleton to its owner.
func (p *party[T]) processInputs(ids []uint32, singletons *[]T, source Party, first bool) (map[uint32]T, error) {
	result := make(map[uint32]T, len(ids))

	if source == p.identity {
		values := p.inputsFirst
		if !first {
			values = p.inputsSecond
		}
		for i, id := range ids {
			a := popLast(singletons)
			aOpen, err := p.receiveOpening(a)
			if err != nil {
				return nil, err
			}
			d := field.Sub(values[i], aOpen, p.q)

			p.txPeer <- ValueMsg[T](d)
			p.log.Sent("other party", "delta for input processing", d)

			result[id] = a.Addc(d, p.sK1, p.sK2, p.q, p.identity)
		}
	} else {
		for _, id := range ids {
			a := popLast(singletons)
			p.sendOpening(a)

			m := <-p.rxPeer
			d, ok := m.AsValue()
			if !ok {
				return nil, p.abort("Error during input processing: expected delta value")
			}
			p.log.Received("other party", "delta for input processing", d)

			result[id] = a.Addc(d, p.sK1, p.sK2, p.q, p.identity)
		}
	}

	return result, nil
}

func (p *party[T]) mulGate(s1, s2 T, triple BeaverSharing[T]) (T, error) {
	var zero T

	u := s1.Subtract(triple.A, p.q)
	v := s2.Subtract(triple.B, p.q)

	p.sendOpening(u)
	p.sendOpening(v)

	uOpen, err := p.receiveOpening(u)
	if err != nil {
		return zero, err
	}
	vOpen, err := p.receiveOpening(v)
	if err != nil {
		return zero, err
	}

	term := triple.B.Mulc(uOpen, p.q).Add(triple.A.Mulc(vOpen, p.q), p.q).Add(triple.C, p.q)
	return term.Addc(field.Mul(uOpen, vOpen, p.q), p.sK1, p.sK2, p.q, p.identity), nil
}

func resolveSlot[T any](in GateInput, gateID uint32, inner map[uint32]T, p1Map, p2Map map[uint32]T) T {
	if !in.IsParty() {
		return inner[in.ID()]
	}
	if in.GateParty() == P1 {
		return p1Map[gateID]
	}
	return p2Map[gateID]
}

func popLast[T any](s *[]T) T {
	n := len(*s)
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v
}

func (p *party[T]) recvDealerValue() (field.Elem, bool) {
	m := <-p.rxDealer
	return m.AsValue()
}

func (p *party[T]) recvPeerValue() (field.Elem, bool) {
	m := <-p.rxPeer
	return m.AsValue()
}

// sendOpening sends the half of sharing s addressed to the other
// party. When this party is simulating corruption, it tampers with the
// opened value with probability CorruptionDegree.
func (p *party[T]) sendOpening(s T) {
	if p.corrupt && mathrand.Float32() <= CorruptionDegree {
		o := s.Tweaked().Opened(p.identity.Other())
		p.txPeer <- SingletonMsg[T](o)
		p.log.Sent("other party", "*tampered-with* opened sharing", o)
		return
	}
	o := s.Opened(p.identity.Other())
	p.txPeer <- SingletonMsg[T](o)
	p.log.Sent("other party", "opened sharing", o)
}

// receiveOpening receives the other party's half of a sharing, combines
// it with own, and authenticates the result against the reconstructed
// MAC key, aborting on failure.
func (p *party[T]) receiveOpening(own T) (field.Elem, error) {
	m := <-p.rxPeer
	s, ok := m.AsSingleton()
	if !ok {
		return 0, p.abort("Error during opening of sharing: expected opened sharing")
	}
	p.log.Received("other party", "opened sharing", s)

	combined := own.Add(s, p.q)
	if !combined.Authenticate(p.key, p.q, p.identity) {
		return 0, p.abort(fmt.Sprintf("Authentication failed for sharing %v", combined))
	}
	return combined.Value(), nil
}

// abort notifies the peer, records the abort in the log, flushes it,
// and returns the resulting error.
func (p *party[T]) abort(msg string) error {
	p.txPeer <- AbortMsg[T]()

	abortMsg := msg + ". Aborting."
	p.log.Append(abortMsg)

	if err := p.log.Write(p.logPath); err != nil {
		return fmt.Errorf("%s failed to write execution log: %w", p.identity, err)
	}
	return errors.New(abortMsg)
}
