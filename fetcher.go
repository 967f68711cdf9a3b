package realincome

import "context"

type (
	// Fetcher retrieves the inflation series for one country restricted to
	// the requested range. Implementations must return the series in
	// chronological order and fail with ErrMissingDataPoint when a period
	// the computation needs is absent from the source.
	Fetcher interface {
		FetchSeries(ctx context.Context, country string, dateRange DateRange) (Series, error)
	}

	Service interface {
		Compute(ctx context.Context, country, start, end string, amount float64) (ComputationResult, error)
	}
)
