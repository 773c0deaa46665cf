//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package driverconfig parses the line-oriented input file format the
// beaver CLI driver reads: a circuit encoding (possibly spanning
// several lines, terminated by a blank line), the field modulus, the
// four private-input-value lists, and the authenticated/corrupt flags.
package driverconfig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/markkurossi/beaver/crypto/field"
)

// Config is a fully parsed driver input file.
type Config struct {
	CircuitEncoding string
	Q               field.Elem

	InputsP1First, InputsP1Second []field.Elem
	InputsP2First, InputsP2Second []field.Elem

	Authenticated bool
	Corrupt       bool
}

// Parse reads a driver input file from r. The format is eight logical
// fields, one per line except the circuit encoding, which may itself
// span multiple lines and is terminated by a blank line:
//
//	<circuit encoding line(s)>
//	<blank line>
//	<q>
//	<P1 first-slot input values, comma-separated>
//	<P1 second-slot input values, comma-separated>
//	<P2 first-slot input values, comma-separated>
//	<P2 second-slot input values, comma-separated>
//	<authenticated: true|false>
//	<corrupt: true|false>
func Parse(r io.Reader) (*Config, error) {
	scanner := bufio.NewScanner(r)

	var circuitLines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		circuitLines = append(circuitLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("driverconfig: reading circuit encoding: %w", err)
	}
	if len(circuitLines) == 0 {
		return nil, fmt.Errorf("driverconfig: missing circuit encoding")
	}

	cfg := &Config{CircuitEncoding: strings.Join(circuitLines, "")}

	q, err := readUint32Line(scanner, "q")
	if err != nil {
		return nil, err
	}
	cfg.Q = field.Elem(q)

	if cfg.InputsP1First, err = readInputVector(scanner, "P1 first-slot inputs", cfg.Q); err != nil {
		return nil, err
	}
	if cfg.InputsP1Second, err = readInputVector(scanner, "P1 second-slot inputs", cfg.Q); err != nil {
		return nil, err
	}
	if cfg.InputsP2First, err = readInputVector(scanner, "P2 first-slot inputs", cfg.Q); err != nil {
		return nil, err
	}
	if cfg.InputsP2Second, err = readInputVector(scanner, "P2 second-slot inputs", cfg.Q); err != nil {
		return nil, err
	}

	if cfg.Authenticated, err = readBoolLine(scanner, "authenticated"); err != nil {
		return nil, err
	}
	if cfg.Corrupt, err = readBoolLine(scanner, "corrupt"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func nextLine(scanner *bufio.Scanner, name string) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("driverconfig: reading %s: %w", name, err)
		}
		return "", fmt.Errorf("driverconfig: missing %s", name)
	}
	return scanner.Text(), nil
}

func readUint32Line(scanner *bufio.Scanner, name string) (uint32, error) {
	line, err := nextLine(scanner, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("driverconfig: invalid %s %q: %w", name, line, err)
	}
	return uint32(n), nil
}

func readBoolLine(scanner *bufio.Scanner, name string) (bool, error) {
	line, err := nextLine(scanner, name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(line))
	if err != nil {
		return false, fmt.Errorf("driverconfig: invalid %s %q: %w", name, line, err)
	}
	return b, nil
}

// readInputVector reads a comma-separated list of signed decimal
// values and reduces each one modulo q, exactly as the reference
// implementation's str_i32_to_vec_u32 does.
func readInputVector(scanner *bufio.Scanner, fieldName string, q field.Elem) ([]field.Elem, error) {
	line, err := nextLine(scanner, fieldName)
	if err != nil {
		return nil, err
	}

	line = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, line)
	if line == "" {
		return nil, nil
	}

	var out []field.Elem
	for _, tok := range strings.Split(line, ",") {
		if tok == "" {
			continue
		}
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("driverconfig: invalid value %q in %s: %w", tok, fieldName, err)
		}
		out = append(out, field.ReduceI32(int32(n), q))
	}
	return out, nil
}
