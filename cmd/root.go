package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configs "github.com/curachain/claimscan/configs"
	customLogger "github.com/curachain/claimscan/internal/log"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "claimscan",
		Short: "Reconstructs on-chain claim histories from contract event logs",
		Long:  "claimscan scans the claims contract's event logs through an RPC node, reconstructs per-provider claim histories within the node's block-range limits, and serves them over an HTTP API.",
		Run: func(cmd *cobra.Command, args []string) {
			RunApi(cmd, args)
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yml)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC URL to reach the chain through")
	rootCmd.PersistentFlags().String("rpc-contract-address", "", "Address of the claims contract")
	rootCmd.PersistentFlags().String("rpc-explorer-tx-url", "", "Explorer transaction URL template, e.g. https://explorer.example.com/tx/%s")
	rootCmd.PersistentFlags().Uint64("scanner-max-span", 0, "Maximum blocks spanned by a single range query")
	rootCmd.PersistentFlags().Uint64("scanner-min-span", 0, "Span floor below which range rejections are fatal")
	rootCmd.PersistentFlags().Uint64("scanner-default-lookback", 0, "How many blocks to look back on a first scan")
	rootCmd.PersistentFlags().String("cursor-redis-addr", "", "Redis address for cursor storage")
	rootCmd.PersistentFlags().String("cursor-redis-password", "", "Redis password for cursor storage")
	rootCmd.PersistentFlags().Int("cursor-redis-db", 0, "Redis database for cursor storage")
	rootCmd.PersistentFlags().Int("cursor-memory-maxItems", 0, "Max items for in-memory cursor storage")
	rootCmd.PersistentFlags().String("api-host", "", "Host:port the API listens on")
	rootCmd.PersistentFlags().String("api-basic-auth-username", "", "Basic auth username for the API")
	rootCmd.PersistentFlags().String("api-basic-auth-password", "", "Basic auth password for the API")
	rootCmd.PersistentFlags().String("log-level", "", "Log level to use for the application")
	rootCmd.PersistentFlags().Bool("log-prettify", false, "Whether to prettify the log output")
	viper.BindPFlag("rpc.url", rootCmd.PersistentFlags().Lookup("rpc-url"))
	viper.BindPFlag("rpc.contractAddress", rootCmd.PersistentFlags().Lookup("rpc-contract-address"))
	viper.BindPFlag("rpc.explorerTxUrl", rootCmd.PersistentFlags().Lookup("rpc-explorer-tx-url"))
	viper.BindPFlag("scanner.maxSpan", rootCmd.PersistentFlags().Lookup("scanner-max-span"))
	viper.BindPFlag("scanner.minSpan", rootCmd.PersistentFlags().Lookup("scanner-min-span"))
	viper.BindPFlag("scanner.defaultLookback", rootCmd.PersistentFlags().Lookup("scanner-default-lookback"))
	viper.BindPFlag("cursor.redis.addr", rootCmd.PersistentFlags().Lookup("cursor-redis-addr"))
	viper.BindPFlag("cursor.redis.password", rootCmd.PersistentFlags().Lookup("cursor-redis-password"))
	viper.BindPFlag("cursor.redis.db", rootCmd.PersistentFlags().Lookup("cursor-redis-db"))
	viper.BindPFlag("cursor.memory.maxItems", rootCmd.PersistentFlags().Lookup("cursor-memory-maxItems"))
	viper.BindPFlag("api.host", rootCmd.PersistentFlags().Lookup("api-host"))
	viper.BindPFlag("api.basicAuthUsername", rootCmd.PersistentFlags().Lookup("api-basic-auth-username"))
	viper.BindPFlag("api.basicAuthPassword", rootCmd.PersistentFlags().Lookup("api-basic-auth-password"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.prettify", rootCmd.PersistentFlags().Lookup("log-prettify"))
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scanCmd)
}

func initConfig() {
	configs.LoadConfig(cfgFile)
	customLogger.InitLogger()
}
