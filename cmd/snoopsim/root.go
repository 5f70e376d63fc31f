package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snoopsim",
	Short: "Snoopsim simulates snooping caches on a shared bus.",
	Long: `Snoopsim is a discrete-event performance model of set-associative ` +
		`caches that share a broadcast bus and keep each other coherent with a ` +
		`write-invalidate protocol. It replays an address trace and reports ` +
		`the latency-annotated behavior of every cache.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
