package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/scanner"
	"github.com/curachain/claimscan/internal/source"
	"github.com/curachain/claimscan/internal/storage"
)

var scanFromBlock uint64

var scanCmd = &cobra.Command{
	Use:   "scan [provider address]",
	Short: "Run a one-shot claim-history scan for a provider",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		provider := args[0]

		binding, err := source.NewBinding(&config.Cfg.RPC)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bind the claims event source")
		}
		defer binding.Close()

		cursors, err := storage.NewCursorStore(&config.Cfg.Cursor)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create cursor store")
		}

		s := scanner.NewScanner(binding, cursors)

		var explicitFrom *uint64
		if cmd.Flags().Changed("from-block") {
			explicitFrom = &scanFromBlock
		}

		events, err := s.Scan(context.Background(), provider, explicitFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("Scan failed")
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(events); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode scan results")
		}
	},
}

func init() {
	scanCmd.Flags().Uint64Var(&scanFromBlock, "from-block", 0, "Override the resume cursor and scan from this block")
}
