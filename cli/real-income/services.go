package main

import (
	"context"
	"fmt"
	"io"

	realincome "github.com/malusev998/real-income"
	"github.com/malusev998/real-income/cache"
	"github.com/malusev998/real-income/cli/cmd"
	"github.com/malusev998/real-income/fetchers"
	"github.com/malusev998/real-income/services"
)

func createService(config *Config) cmd.NewService {
	return func(mode realincome.Mode, cacheEnabled bool) (realincome.Service, io.Closer, error) {
		provider := config.CacheProvider
		if !cacheEnabled {
			provider = cache.None
		}

		cacheConfig, ok := config.CacheConfig[provider]
		if !ok {
			return nil, nil, fmt.Errorf("cache provider %s is not configured", provider)
		}

		seriesCache, err := cache.NewCache(provider, cacheConfig)
		if err != nil {
			return nil, nil, err
		}

		var fetcherConfig interface{}

		switch mode {
		case realincome.SDMXMode:
			fetcherConfig = config.SDMX
		case realincome.DataMapperMode:
			fetcherConfig = config.DataMapper
		}

		fetcher := fetchers.NewSeriesFetcher(mode, fetcherConfig)
		if fetcher == nil {
			_ = seriesCache.Close()
			return nil, nil, fmt.Errorf("fetcher %s does not exist", mode)
		}

		return services.RealIncomeService{
			Fetcher: fetcher,
			Cache:   seriesCache,
			Mode:    mode,
			Policy:  config.Policy,
		}, seriesCache, nil
	}
}

func createCountriesLister(config *Config) cmd.ListCountries {
	return func(ctx context.Context, mode realincome.Mode) ([]fetchers.Country, error) {
		return fetchers.Countries(ctx, mode, config.Countries)
	}
}
