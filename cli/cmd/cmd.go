package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	realincome "github.com/malusev998/real-income"
	"github.com/malusev998/real-income/fetchers"
)

var (
	rootCmd = &cobra.Command{
		Use:     "real-income",
		Short:   "Inflation-adjusted (real) income calculator",
		Version: "v1.0.0",
	}
	debug      bool
	configFile string
)

type (
	// NewService builds the orchestrator for one invocation. cacheEnabled=false
	// must yield a service that fetches fresh data and persists nothing. The
	// returned closer releases the cache backend once the command is done.
	NewService func(mode realincome.Mode, cacheEnabled bool) (realincome.Service, io.Closer, error)

	ListCountries func(ctx context.Context, mode realincome.Mode) ([]fetchers.Country, error)

	Config struct {
		Ctx           context.Context
		NewService    NewService
		ListCountries ListCountries
		debug         *bool
	}
)

func Execute(config *Config) error {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")
	cobra.OnInitialize()

	absolutePath, _ := filepath.Abs(configFile)

	viper.SetConfigFile(absolutePath)
	viper.SetEnvPrefix("REAL_INCOME")
	viper.AutomaticEnv()

	config.debug = &debug

	rootCmd.AddCommand(compute(config))
	rootCmd.AddCommand(countries(config))

	return rootCmd.Execute()
}
