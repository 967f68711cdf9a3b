package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/malusev998/real-income/cli/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Config file is optional, defaults and env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error while reading in the config file: %v", err)
		}
	}

	config, err := getConfig(ctx)
	if err != nil {
		log.Fatalf("Error in configuration: %v", err)
	}

	if err := cmd.Execute(&cmd.Config{
		Ctx:           ctx,
		NewService:    createService(config),
		ListCountries: createCountriesLister(config),
	}); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
