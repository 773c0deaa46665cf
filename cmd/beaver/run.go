//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markkurossi/beaver/crypto/beaver"
	"github.com/markkurossi/beaver/driverconfig"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <input-path> <log-prefix>",
	Short: "Run the protocol described by an input file",
	Args:  cobra.ExactArgs(2),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	inputPath, logPrefix := args[0], args[1]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	cfg, err := driverconfig.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing input file: %w", err)
	}

	_, err = beaver.RunProtocol(beaver.ProtocolInput{
		CircuitEncoding: cfg.CircuitEncoding,
		Q:               cfg.Q,
		InputsP1First:   cfg.InputsP1First,
		InputsP1Second:  cfg.InputsP1Second,
		InputsP2First:   cfg.InputsP2First,
		InputsP2Second:  cfg.InputsP2Second,
		Authenticated:   cfg.Authenticated,
		Corrupt:         cfg.Corrupt,
		LogPathPrefix:   logPrefix,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Finished successfully")
	return nil
}
