package services

import (
	"context"

	realincome "github.com/malusev998/real-income"
)

// RealIncomeService resolves the date range, consults the cache, fetches on a
// miss and hands the series to the computation engine. The cache is best
// effort: a lookup error counts as a miss and a store error never fails the
// request.
type RealIncomeService struct {
	Fetcher realincome.Fetcher
	Cache   realincome.Cache
	Mode    realincome.Mode
	Policy  realincome.LatestPolicy
}

func (s RealIncomeService) Compute(
	ctx context.Context,
	country, start, end string,
	amount float64,
) (realincome.ComputationResult, error) {
	if amount <= 0 {
		return realincome.ComputationResult{}, realincome.ErrInvalidAmount
	}

	countryCode, err := realincome.ValidateCountryCode(country)
	if err != nil {
		return realincome.ComputationResult{}, err
	}

	dateRange, err := realincome.ParseDateRange(start, end, s.Mode)
	if err != nil {
		return realincome.ComputationResult{}, err
	}

	key := realincome.Key{Mode: s.Mode, Country: countryCode, Range: dateRange}

	series, err := s.lookupSeries(ctx, key)
	if err != nil {
		return realincome.ComputationResult{}, err
	}

	if s.Mode == realincome.DataMapperMode {
		return AnnualResult(series, dateRange, amount)
	}

	return MonthlyResult(series, dateRange, s.Policy, amount)
}

func (s RealIncomeService) lookupSeries(ctx context.Context, key realincome.Key) (realincome.Series, error) {
	if entry, found, err := s.Cache.Lookup(ctx, key); err == nil && found {
		return entry.Series, nil
	}

	series, err := s.Fetcher.FetchSeries(ctx, key.Country, key.Range)
	if err != nil {
		return nil, err
	}

	_ = s.Cache.Store(ctx, key, series)

	return series, nil
}
