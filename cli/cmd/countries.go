package cmd

import (
	"log"

	"github.com/spf13/cobra"

	realincome "github.com/malusev998/real-income"
)

func handleCountries(config *Config, modeStr string, logger *log.Logger) error {
	mode, err := realincome.ConvertToModeFromString(modeStr)
	if err != nil {
		return err
	}

	countries, err := config.ListCountries(config.Ctx, mode)
	if err != nil {
		return err
	}

	for _, country := range countries {
		logger.Printf("%s\t%s", country.Code, country.Name)
	}

	return nil
}

func countries(config *Config) *cobra.Command {
	var modeStr string

	countriesCmd := &cobra.Command{
		Use:   "countries",
		Short: "List the country codes known to a data source",
	}

	logger := log.New(countriesCmd.OutOrStdout(), "", 0)

	countriesCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return handleCountries(config, modeStr, logger)
	}

	countriesCmd.Flags().StringVar(&modeStr, "mode", "sdmx", "Data source: sdmx or datamapper")

	return countriesCmd
}
