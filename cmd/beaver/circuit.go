//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markkurossi/beaver/crypto/beaver"
)

func init() {
	circuitCmd.AddCommand(circuitLintCmd)
	rootCmd.AddCommand(circuitCmd)
}

var circuitCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Inspect a circuit encoding without running the protocol",
}

var circuitLintCmd = &cobra.Command{
	Use:   "lint <input-path>",
	Short: "Parse a circuit encoding, validate its topology, and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCircuitLint,
}

func runCircuitLint(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading circuit encoding: %w", err)
	}

	c, err := beaver.ParseCircuit(strings.Join(lines, ""))
	if err != nil {
		return fmt.Errorf("invalid circuit: %w", err)
	}

	fmt.Println(c.String())
	fmt.Printf("topology: %v\n", c.Topology())
	fmt.Printf("P1 inputs: first=%v second=%v\n", c.InputsFirst(beaver.P1), c.InputsSecond(beaver.P1))
	fmt.Printf("P2 inputs: first=%v second=%v\n", c.InputsFirst(beaver.P2), c.InputsSecond(beaver.P2))
	fmt.Printf("multiplication gates: %d\n", c.NumMulGates())

	return nil
}
