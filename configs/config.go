package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Prettify bool   `mapstructure:"prettify"`
}

type RPCConfig struct {
	URL             string `mapstructure:"url"`
	ContractAddress string `mapstructure:"contractAddress"`
	// Explorer transaction URL template, e.g. "https://explorer.example.com/tx/%s"
	ExplorerTxURL string `mapstructure:"explorerTxUrl"`
}

type ScannerConfig struct {
	MaxSpan         uint64 `mapstructure:"maxSpan"`
	MinSpan         uint64 `mapstructure:"minSpan"`
	DefaultLookback uint64 `mapstructure:"defaultLookback"`
}

type CursorStorageConfig struct {
	Memory *MemoryConfig `mapstructure:"memory"`
	Redis  *RedisConfig  `mapstructure:"redis"`
}

type MemoryConfig struct {
	MaxItems int `mapstructure:"maxItems"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"poolSize"`
}

type APIConfig struct {
	Host              string `mapstructure:"host"`
	BasicAuthUsername string `mapstructure:"basicAuthUsername"`
	BasicAuthPassword string `mapstructure:"basicAuthPassword"`
}

type Config struct {
	RPC     RPCConfig           `mapstructure:"rpc"`
	Scanner ScannerConfig       `mapstructure:"scanner"`
	Cursor  CursorStorageConfig `mapstructure:"cursor"`
	API     APIConfig           `mapstructure:"api"`
	Log     LogConfig           `mapstructure:"log"`
}

var Cfg Config

func LoadConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file, %s", err)
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")

		// config file is optional, env vars and flags can carry everything
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file, %s", err)
			}
		}
	}

	// sets e.g. RPC_URL to rpc.url
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv()

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		return fmt.Errorf("error unmarshalling config: %v", err)
	}

	return nil
}
