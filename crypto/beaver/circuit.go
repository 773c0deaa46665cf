//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package beaver implements a two-party Beaver-triple MPC protocol over
// an arithmetic circuit mod a prime q, with both an unauthenticated and
// a SPDZ-style authenticated sharing scheme.
package beaver

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors for circuit-structural failures, so callers can
// errors.Is-match them programmatically instead of parsing messages.
var (
	// ErrInvalidEncoding is returned when the top-level grammar
	// (gates & outputs1 & outputs2) is malformed.
	ErrInvalidEncoding = errors.New("invalid circuit encoding")
	// ErrMissingGate is returned when a gate or output refers to a gate
	// id that was never defined.
	ErrMissingGate = errors.New("necessary gate not found in circuit")
	// ErrSelfLoop is returned when a gate refers to itself as an
	// operand.
	ErrSelfLoop = errors.New("gate cannot be an input to itself")
	// ErrCycle is returned when the topology computation detects a
	// cycle among gate references.
	ErrCycle = errors.New("circuit contains a cycle")
)

// Party identifies one of the two protocol participants.
type Party int

const (
	// P1 is the first party.
	P1 Party = iota
	// P2 is the second party.
	P2
)

// Other returns the opposite party.
func (p Party) Other() Party {
	if p == P1 {
		return P2
	}
	return P1
}

func (p Party) String() string {
	if p == P1 {
		return "P1"
	}
	return "P2"
}

func parseParty(s string) (Party, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p1":
		return P1, true
	case "p2":
		return P2, true
	}
	return 0, false
}

// GateOp is a gate's operation.
type GateOp int

const (
	// OpAdd is addition.
	OpAdd GateOp = iota
	// OpMul is multiplication.
	OpMul
)

func (o GateOp) String() string {
	if o == OpAdd {
		return "+"
	}
	return "×"
}

// GateInput is one operand of a gate: either the id of another gate's
// output wire, or a party's own private input wire.
type GateInput struct {
	isParty bool
	id      uint32
	party   Party
}

// GateInputWire returns a gate input referring to another gate's output.
func GateInputWire(id uint32) GateInput {
	return GateInput{id: id}
}

// GateInputParty returns a gate input referring to a party's private
// input wire.
func GateInputParty(p Party) GateInput {
	return GateInput{isParty: true, party: p}
}

// IsParty reports whether this input is a party's private input wire
// rather than another gate's output.
func (i GateInput) IsParty() bool {
	return i.isParty
}

// ID returns the referenced gate id. Valid only when !IsParty().
func (i GateInput) ID() uint32 {
	return i.id
}

// GateParty returns the referenced party. Valid only when IsParty().
func (i GateInput) GateParty() Party {
	return i.party
}

func (i GateInput) String() string {
	if i.isParty {
		return i.party.String()
	}
	return strconv.FormatUint(uint64(i.id), 10)
}

func parseGateInput(s string) (GateInput, error) {
	if p, ok := parseParty(s); ok {
		return GateInputParty(p), nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return GateInput{}, fmt.Errorf("%w: invalid gate input %q: %v", ErrInvalidEncoding, s, err)
	}
	return GateInputWire(uint32(n)), nil
}

// Gate is one node of the arithmetic circuit: it computes Op(I1, I2)
// when HasConst is false, or Op(I1, C) when HasConst is true.
type Gate struct {
	ID       uint32
	Op       GateOp
	I1       GateInput
	I2       GateInput
	C        int32
	HasConst bool
}

func (g Gate) String() string {
	if g.HasConst {
		return fmt.Sprintf("%d: %v %v %d", g.ID, g.I1, g.Op, g.C)
	}
	return fmt.Sprintf("%d: %v %v %v", g.ID, g.I1, g.Op, g.I2)
}

func parseGate(s string) (Gate, error) {
	parts := strings.Split(removeWhitespace(s), ",")
	if len(parts) != 4 {
		return Gate{}, fmt.Errorf("%w: invalid number of gate parameters in %q", ErrInvalidEncoding, s)
	}

	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Gate{}, fmt.Errorf("invalid gate id %q: %w", parts[0], err)
	}

	var op GateOp
	var hasConst bool
	switch strings.ToLower(parts[2]) {
	case "add":
		op, hasConst = OpAdd, false
	case "addc":
		op, hasConst = OpAdd, true
	case "mul":
		op, hasConst = OpMul, false
	case "mulc":
		op, hasConst = OpMul, true
	default:
		return Gate{}, fmt.Errorf("%w: invalid gate operation %q", ErrInvalidEncoding, parts[2])
	}

	i1, err := parseGateInput(parts[1])
	if err != nil {
		return Gate{}, err
	}

	g := Gate{ID: uint32(id), Op: op, I1: i1, HasConst: hasConst}

	if hasConst {
		c, err := strconv.ParseInt(parts[3], 10, 32)
		if err != nil {
			return Gate{}, fmt.Errorf("invalid gate constant %q: %w", parts[3], err)
		}
		g.C = int32(c)
	} else {
		i2, err := parseGateInput(parts[3])
		if err != nil {
			return Gate{}, err
		}
		g.I2 = i2
	}

	return g, nil
}

func removeWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

// Circuit is a parsed arithmetic circuit: a set of gates plus, for each
// party, the id lists of its two private input-wire slots and the ids
// of the gates whose outputs it learns.
type Circuit struct {
	gates map[uint32]Gate

	inputsP1First, inputsP1Second []uint32
	inputsP2First, inputsP2Second []uint32

	outputsP1, outputsP2 []uint32

	topology []uint32
}

// ParseCircuit parses the `gates & outputs1 & outputs2` grammar
// described by spec.md §4.2, computes each party's input-slot lists
// from the gates that reference GateInputParty(P1)/GateInputParty(P2),
// and computes the evaluation topology.
func ParseCircuit(encoding string) (*Circuit, error) {
	segments := strings.Split(encoding, "&")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 '&'-separated segments, got %d", ErrInvalidEncoding, len(segments))
	}

	outputsP1, err := parseUintList(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid outputs for P1: %v", ErrInvalidEncoding, err)
	}
	outputsP2, err := parseUintList(segments[2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid outputs for P2: %v", ErrInvalidEncoding, err)
	}

	gates := make(map[uint32]Gate)
	var inputsP1First, inputsP1Second, inputsP2First, inputsP2Second []uint32

	for _, gStr := range strings.Split(strings.TrimSpace(segments[0]), "|") {
		if len(gStr) == 0 {
			continue
		}
		g, err := parseGate(gStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		gates[g.ID] = g

		if g.I1.isParty {
			switch g.I1.party {
			case P1:
				inputsP1First = append(inputsP1First, g.ID)
			case P2:
				inputsP2First = append(inputsP2First, g.ID)
			}
		}
		if !g.HasConst && g.I2.isParty {
			switch g.I2.party {
			case P1:
				inputsP1Second = append(inputsP1Second, g.ID)
			case P2:
				inputsP2Second = append(inputsP2Second, g.ID)
			}
		}
	}

	sort.Slice(inputsP1First, func(i, j int) bool { return inputsP1First[i] < inputsP1First[j] })
	sort.Slice(inputsP1Second, func(i, j int) bool { return inputsP1Second[i] < inputsP1Second[j] })
	sort.Slice(inputsP2First, func(i, j int) bool { return inputsP2First[i] < inputsP2First[j] })
	sort.Slice(inputsP2Second, func(i, j int) bool { return inputsP2Second[i] < inputsP2Second[j] })

	allOutputs := append(append([]uint32{}, outputsP1...), outputsP2...)
	sort.Slice(allOutputs, func(i, j int) bool { return allOutputs[i] < allOutputs[j] })

	topology, err := computeTopology(gates, allOutputs)
	if err != nil {
		return nil, err
	}

	return &Circuit{
		gates:          gates,
		inputsP1First:  inputsP1First,
		inputsP1Second: inputsP1Second,
		inputsP2First:  inputsP2First,
		inputsP2Second: inputsP2Second,
		outputsP1:      outputsP1,
		outputsP2:      outputsP2,
		topology:       topology,
	}, nil
}

// Gate returns the gate with the given id.
func (c *Circuit) Gate(id uint32) (Gate, bool) {
	g, ok := c.gates[id]
	return g, ok
}

// Topology returns the gate ids in an order such that every gate
// appears after both of its gate-reference inputs.
func (c *Circuit) Topology() []uint32 {
	return c.topology
}

// InputsFirst returns, in ascending order, the ids of the gates whose
// first operand is party's private input.
func (c *Circuit) InputsFirst(party Party) []uint32 {
	if party == P1 {
		return c.inputsP1First
	}
	return c.inputsP2First
}

// InputsSecond returns, in ascending order, the ids of the gates whose
// second operand is party's private input.
func (c *Circuit) InputsSecond(party Party) []uint32 {
	if party == P1 {
		return c.inputsP1Second
	}
	return c.inputsP2Second
}

// TotalInputWires returns the number of input-masking singleton
// sharings the dealer must distribute: one per (gate, slot) pair that
// refers to a party's private input.
func (c *Circuit) TotalInputWires() int {
	return len(c.inputsP1First) + len(c.inputsP1Second) +
		len(c.inputsP2First) + len(c.inputsP2Second)
}

// NumMulGates returns the number of binary (non-constant) Mul gates,
// i.e. the number of Beaver triples the dealer must distribute.
func (c *Circuit) NumMulGates() int {
	n := 0
	for _, id := range c.topology {
		if g := c.gates[id]; g.Op == OpMul && !g.HasConst {
			n++
		}
	}
	return n
}

// Outputs returns the ids of the gates whose value party learns, in
// the order they were declared in the circuit encoding.
func (c *Circuit) Outputs(party Party) []uint32 {
	if party == P1 {
		return c.outputsP1
	}
	return c.outputsP2
}

func (c *Circuit) String() string {
	var b strings.Builder
	for _, id := range c.topology {
		fmt.Fprintf(&b, "%v\n", c.gates[id])
	}
	fmt.Fprintf(&b, "outputs(P1): %v\n", c.outputsP1)
	fmt.Fprintf(&b, "outputs(P2): %v\n", c.outputsP2)
	return b.String()
}

func parseUintList(s string) ([]uint32, error) {
	stripped := removeWhitespace(s)
	if stripped == "" {
		return nil, nil
	}
	var out []uint32
	for _, tok := range strings.Split(stripped, ",") {
		if tok == "" {
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", tok, err)
		}
		out = append(out, uint32(n))
	}
	return out, nil
}

func computeTopology(gates map[uint32]Gate, outputs []uint32) ([]uint32, error) {
	var top []uint32
	for _, o := range outputs {
		sub, err := computeTopologyInternal(gates, o, make(map[uint32]bool))
		if err != nil {
			return nil, err
		}
		top = simplify(top, sub)
	}
	return top, nil
}

func selfLoopError(id uint32) error {
	return fmt.Errorf("%w: gate %d", ErrSelfLoop, id)
}

func computeTopologyInternal(gates map[uint32]Gate, target uint32, onPath map[uint32]bool) ([]uint32, error) {
	// Reaching a gate that is already on the recursion path is a cycle.
	if onPath[target] {
		return nil, fmt.Errorf("%w: gate %d", ErrCycle, target)
	}
	onPath[target] = true
	defer delete(onPath, target)

	g, ok := gates[target]
	if !ok {
		return nil, fmt.Errorf("%w: gate %d", ErrMissingGate, target)
	}

	var req []uint32

	switch {
	case g.HasConst:
		if !g.I1.isParty {
			id := g.I1.id
			if id == target {
				return nil, selfLoopError(target)
			}
			r, err := computeTopologyInternal(gates, id, onPath)
			if err != nil {
				return nil, err
			}
			req = r
		}

	case !g.I1.isParty && !g.I2.isParty:
		id1, id2 := g.I1.id, g.I2.id
		if id1 == target || id2 == target {
			return nil, selfLoopError(target)
		}
		if id1 == id2 {
			r, err := computeTopologyInternal(gates, id1, onPath)
			if err != nil {
				return nil, err
			}
			req = r
		} else {
			r1, err := computeTopologyInternal(gates, id1, onPath)
			if err != nil {
				return nil, err
			}
			r2, err := computeTopologyInternal(gates, id2, onPath)
			if err != nil {
				return nil, err
			}
			req = simplify(r1, r2)
		}

	case !g.I1.isParty:
		id := g.I1.id
		if id == target {
			return nil, selfLoopError(target)
		}
		r, err := computeTopologyInternal(gates, id, onPath)
		if err != nil {
			return nil, err
		}
		req = r

	case !g.I2.isParty:
		id := g.I2.id
		if id == target {
			return nil, selfLoopError(target)
		}
		r, err := computeTopologyInternal(gates, id, onPath)
		if err != nil {
			return nil, err
		}
		req = r
	}

	for _, e := range req {
		if e == target {
			return nil, fmt.Errorf("%w: gate %d", ErrCycle, target)
		}
	}

	req = append(req, target)
	return req, nil
}

// simplify appends to v1 every element of v2 not already present in v1,
// preserving v1's existing order. This is the only deduplication the
// topology computation performs: a gate feeding two different output
// wires must appear in the topology exactly once.
func simplify(v1, v2 []uint32) []uint32 {
	for _, e := range v2 {
		found := false
		for _, x := range v1 {
			if x == e {
				found = true
				break
			}
		}
		if !found {
			v1 = append(v1, e)
		}
	}
	return v1
}
