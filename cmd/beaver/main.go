//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Command beaver drives the two-party Beaver-triple MPC protocol from
// a line-oriented input file.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beaver",
	Short: "Two-party Beaver-triple MPC protocol driver",
	Long: `beaver runs a two-party arithmetic-circuit MPC protocol over Z_q,
with an in-process trusted dealer distributing Beaver triples and
MAC-key material to both parties.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
