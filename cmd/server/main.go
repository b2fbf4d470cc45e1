package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rpcAddr string

// rootCmd serves the crossword protocol when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "crossword-server",
	Short: "Multi-user crossword puzzle server",
	Long: `crossword-server accepts newline-delimited JSON requests over TCP.

Each connection carries exactly one request and receives one response.
Configuration is read from the environment (RPC_ADDR, DB_DRIVER, SESSION_TTL, ...).

If no subcommand is specified, the server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("crossword-server failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rpcAddr, "rpc-addr", "", "TCP listen address (overrides RPC_ADDR)")
}
