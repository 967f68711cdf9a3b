package fetchers

import (
	realincome "github.com/malusev998/real-income"
)

func NewSeriesFetcher(mode realincome.Mode, config interface{}) realincome.Fetcher {
	switch mode {
	case realincome.SDMXMode:
		return SDMXFetcher{Config: config.(SDMXConfig)}
	case realincome.DataMapperMode:
		return DataMapperFetcher{Config: config.(DataMapperConfig)}
	}

	return nil
}
