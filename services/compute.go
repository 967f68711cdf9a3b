package services

import (
	"fmt"

	realincome "github.com/malusev998/real-income"
)

// MonthlyResult deflates a nominal amount with two observations of a CPI
// index series: the exact start period and the latest period the policy
// allows. Real = Nominal * CPI_start / CPI_latest.
func MonthlyResult(
	series realincome.Series,
	dateRange realincome.DateRange,
	policy realincome.LatestPolicy,
	nominal float64,
) (realincome.ComputationResult, error) {
	startIndex, ok := series.At(dateRange.Start)
	if !ok {
		return realincome.ComputationResult{}, fmt.Errorf("%w: no index for %s", realincome.ErrMissingDataPoint, dateRange.Start)
	}

	latest := realincome.SeriesPoint{Period: dateRange.End}

	if policy == realincome.LatestAtOrBefore {
		point, ok := series.Latest(dateRange.End)
		if !ok {
			return realincome.ComputationResult{}, fmt.Errorf("%w: no index at or before %s", realincome.ErrMissingDataPoint, dateRange.End)
		}

		latest = point
	} else {
		value, ok := series.At(dateRange.End)
		if !ok {
			return realincome.ComputationResult{}, fmt.Errorf("%w: no index for %s", realincome.ErrMissingDataPoint, dateRange.End)
		}

		latest.Value = value
	}

	if startIndex <= 0 {
		return realincome.ComputationResult{}, fmt.Errorf("%w: index %g for %s", realincome.ErrInvalidRate, startIndex, dateRange.Start)
	}

	if latest.Value <= 0 {
		return realincome.ComputationResult{}, fmt.Errorf("%w: index %g for %s", realincome.ErrInvalidRate, latest.Value, latest.Period)
	}

	ratio := startIndex / latest.Value

	return realincome.ComputationResult{
		Nominal:    nominal,
		Real:       nominal * ratio,
		Ratio:      ratio,
		Mode:       realincome.SDMXMode,
		StartUsed:  dateRange.Start,
		LatestUsed: latest.Period,
	}, nil
}

// AnnualResult deflates a nominal amount with yearly inflation rates given in
// percent. The deflator compounds every year of the range, both ends
// inclusive: deflator = Π (1 + rate/100), Real = Nominal / deflator.
func AnnualResult(
	series realincome.Series,
	dateRange realincome.DateRange,
	nominal float64,
) (realincome.ComputationResult, error) {
	deflator := 1.0
	lastUsed := dateRange.Start

	for _, year := range dateRange.Years() {
		period := realincome.TimePoint{Year: year}

		rate, ok := series.At(period)
		if !ok {
			return realincome.ComputationResult{}, fmt.Errorf("%w: no rate for %s", realincome.ErrMissingDataPoint, period)
		}

		if rate <= -100 {
			return realincome.ComputationResult{}, fmt.Errorf("%w: rate %g%% for %s", realincome.ErrInvalidRate, rate, period)
		}

		deflator *= 1 + rate/100
		lastUsed = period
	}

	if deflator <= 0 {
		return realincome.ComputationResult{}, fmt.Errorf("%w: deflator %g", realincome.ErrDivisionByZero, deflator)
	}

	return realincome.ComputationResult{
		Nominal:    nominal,
		Real:       nominal / deflator,
		Ratio:      1 / deflator,
		Mode:       realincome.DataMapperMode,
		StartUsed:  dateRange.Start,
		LatestUsed: lastUsed,
	}, nil
}
