package cmd

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	realincome "github.com/malusev998/real-income"
)

type computeFlags struct {
	mode    string
	country string
	start   string
	end     string
	amount  float64
	noCache bool
}

func money(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func handleCompute(config *Config, flags *computeFlags, logger *log.Logger) error {
	mode, err := realincome.ConvertToModeFromString(flags.mode)
	if err != nil {
		return err
	}

	service, closer, err := config.NewService(mode, !flags.noCache)
	if err != nil {
		return err
	}

	defer closer.Close()

	result, err := service.Compute(config.Ctx, flags.country, flags.start, flags.end, flags.amount)
	if err != nil {
		return err
	}

	logger.Printf("Nominal amount:\t%s", money(result.Nominal))
	logger.Printf("Real amount:\t%s", money(result.Real))
	logger.Printf("Loss:\t\t%s (%s%%)", money(result.Loss()), percent(result.LossPercent()))

	if *config.debug {
		logger.Printf("Mode:\t\t%s", result.Mode)
		logger.Printf("Periods used:\t%s to %s", result.StartUsed, result.LatestUsed)
		logger.Printf("Ratio applied:\t%g", result.Ratio)
	}

	return nil
}

func compute(config *Config) *cobra.Command {
	flags := &computeFlags{}

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the inflation-adjusted value of a nominal amount",
	}

	logger := log.New(computeCmd.OutOrStdout(), "", 0)

	computeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return handleCompute(config, flags, logger)
	}

	computeCmd.Flags().StringVar(&flags.mode, "mode", "sdmx", "Data source: sdmx (monthly CPI index) or datamapper (annual inflation rates)")
	computeCmd.Flags().StringVar(&flags.country, "country", "", "ISO-3166-1 alpha-3 country code")
	computeCmd.Flags().StringVar(&flags.start, "start", "", "Start period (YYYY-MM for sdmx, YYYY for datamapper)")
	computeCmd.Flags().StringVar(&flags.end, "end", "", "End period (YYYY-MM for sdmx, YYYY for datamapper)")
	computeCmd.Flags().Float64Var(&flags.amount, "amount", 0, "Nominal amount to adjust")
	computeCmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the series cache")

	return computeCmd
}
