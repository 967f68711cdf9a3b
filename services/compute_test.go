package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	realincome "github.com/malusev998/real-income"
	"github.com/malusev998/real-income/services"
)

func monthlySeries(points map[string]float64) realincome.Series {
	series := make(realincome.Series, 0, len(points))

	for year := 2024; year <= 2025; year++ {
		for month := 1; month <= 12; month++ {
			period := realincome.TimePoint{Year: year, Month: month}
			if value, ok := points[period.String()]; ok {
				series = append(series, realincome.SeriesPoint{Period: period, Value: value})
			}
		}
	}

	return series
}

func annualSeries(rates map[int]float64) realincome.Series {
	series := make(realincome.Series, 0, len(rates))

	for year := 2020; year <= 2030; year++ {
		if rate, ok := rates[year]; ok {
			series = append(series, realincome.SeriesPoint{
				Period: realincome.TimePoint{Year: year},
				Value:  rate,
			})
		}
	}

	return series
}

func TestMonthlyResult(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	dateRange := realincome.DateRange{
		Start: realincome.TimePoint{Year: 2024, Month: 1},
		End:   realincome.TimePoint{Year: 2025, Month: 12},
	}

	t.Run("DeflatesWithStartOverLatestRatio", func(t *testing.T) {
		series := monthlySeries(map[string]float64{
			"2024-01": 100.0,
			"2024-06": 104.2,
			"2025-12": 110.0,
		})

		result, err := services.MonthlyResult(series, dateRange, realincome.LatestExact, 10000)
		asserts.Nil(err)
		asserts.InDelta(9090.91, result.Real, 0.01)
		asserts.InDelta(100.0/110.0, result.Ratio, 1e-12)
		asserts.Equal(realincome.SDMXMode, result.Mode)
		asserts.Equal(dateRange.Start, result.StartUsed)
		asserts.Equal(dateRange.End, result.LatestUsed)
	})

	t.Run("EqualIndexesPreserveTheNominal", func(t *testing.T) {
		series := monthlySeries(map[string]float64{
			"2024-01": 107.5,
			"2025-12": 107.5,
		})

		result, err := services.MonthlyResult(series, dateRange, realincome.LatestExact, 10000)
		asserts.Nil(err)
		asserts.Equal(10000.0, result.Real)
		asserts.Equal(1.0, result.Ratio)
		asserts.Equal(0.0, result.Loss())
	})

	t.Run("MissingStartPeriod", func(t *testing.T) {
		series := monthlySeries(map[string]float64{
			"2024-02": 100.0,
			"2025-12": 110.0,
		})

		_, err := services.MonthlyResult(series, dateRange, realincome.LatestExact, 10000)
		asserts.True(errors.Is(err, realincome.ErrMissingDataPoint))
	})

	t.Run("MissingEndPeriodExactPolicy", func(t *testing.T) {
		series := monthlySeries(map[string]float64{
			"2024-01": 100.0,
			"2025-11": 109.2,
		})

		_, err := services.MonthlyResult(series, dateRange, realincome.LatestExact, 10000)
		asserts.True(errors.Is(err, realincome.ErrMissingDataPoint))
	})

	t.Run("MissingEndPeriodAtOrBeforePolicy", func(t *testing.T) {
		series := monthlySeries(map[string]float64{
			"2024-01": 100.0,
			"2025-11": 109.2,
		})

		result, err := services.MonthlyResult(series, dateRange, realincome.LatestAtOrBefore, 10000)
		asserts.Nil(err)
		asserts.Equal(realincome.TimePoint{Year: 2025, Month: 11}, result.LatestUsed)
		asserts.InDelta(100.0/109.2, result.Ratio, 1e-12)
	})

	t.Run("NonPositiveIndexes", func(t *testing.T) {
		// either index value being <= 0 is an invalid rate, never a
		// division-by-zero (that guard belongs to the annual deflator)
		for name, test := range map[string]struct {
			start  float64
			latest float64
		}{
			"ZeroStart":      {start: 0, latest: 110.0},
			"NegativeStart":  {start: -4.5, latest: 110.0},
			"ZeroLatest":     {start: 100.0, latest: 0},
			"NegativeLatest": {start: 100.0, latest: -1},
		} {
			test := test
			t.Run(name, func(t *testing.T) {
				series := monthlySeries(map[string]float64{
					"2024-01": test.start,
					"2025-12": test.latest,
				})

				_, err := services.MonthlyResult(series, dateRange, realincome.LatestExact, 10000)
				asserts.True(errors.Is(err, realincome.ErrInvalidRate))
				asserts.False(errors.Is(err, realincome.ErrDivisionByZero))
			})
		}
	})
}

func TestAnnualResult(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	t.Run("CompoundsEveryYearOfTheRange", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2024},
			End:   realincome.TimePoint{Year: 2025},
		}
		series := annualSeries(map[int]float64{2024: 5.0, 2025: 3.0})

		result, err := services.AnnualResult(series, dateRange, 10000)
		asserts.Nil(err)
		asserts.InDelta(1/1.0815, result.Ratio, 1e-12)
		asserts.InDelta(9246.42, result.Real, 0.01)
		asserts.Equal(realincome.DataMapperMode, result.Mode)
		asserts.Equal(realincome.TimePoint{Year: 2025}, result.LatestUsed)
	})

	t.Run("ZeroRatesPreserveTheNominal", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2022},
			End:   realincome.TimePoint{Year: 2025},
		}
		series := annualSeries(map[int]float64{2022: 0, 2023: 0, 2024: 0, 2025: 0})

		result, err := services.AnnualResult(series, dateRange, 10000)
		asserts.Nil(err)
		asserts.Equal(1.0, result.Ratio)
		asserts.Equal(10000.0, result.Real)
	})

	t.Run("SingleYearRangeUsesOneTerm", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2024},
			End:   realincome.TimePoint{Year: 2024},
		}
		series := annualSeries(map[int]float64{2024: 10.0})

		result, err := services.AnnualResult(series, dateRange, 550)
		asserts.Nil(err)
		asserts.InDelta(500, result.Real, 1e-9)
	})

	t.Run("DeflationIncreasesTheRealAmount", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2024},
			End:   realincome.TimePoint{Year: 2024},
		}
		series := annualSeries(map[int]float64{2024: -2.0})

		result, err := services.AnnualResult(series, dateRange, 10000)
		asserts.Nil(err)
		asserts.Greater(result.Real, 10000.0)
		asserts.False(math.IsInf(result.Real, 0))
	})

	t.Run("RateAtMinusHundred", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2024},
			End:   realincome.TimePoint{Year: 2025},
		}
		series := annualSeries(map[int]float64{2024: 5.0, 2025: -100.0})

		_, err := services.AnnualResult(series, dateRange, 10000)
		asserts.True(errors.Is(err, realincome.ErrInvalidRate))
	})

	t.Run("RateBelowMinusHundred", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2024},
			End:   realincome.TimePoint{Year: 2024},
		}
		series := annualSeries(map[int]float64{2024: -250.0})

		_, err := services.AnnualResult(series, dateRange, 10000)
		asserts.True(errors.Is(err, realincome.ErrInvalidRate))
	})

	t.Run("MissingYear", func(t *testing.T) {
		dateRange := realincome.DateRange{
			Start: realincome.TimePoint{Year: 2023},
			End:   realincome.TimePoint{Year: 2025},
		}
		series := annualSeries(map[int]float64{2023: 5.9, 2025: 3.0})

		_, err := services.AnnualResult(series, dateRange, 10000)
		asserts.True(errors.Is(err, realincome.ErrMissingDataPoint))
	})
}

func TestResultIsFiniteAndPositive(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	dateRange := realincome.DateRange{
		Start: realincome.TimePoint{Year: 2020},
		End:   realincome.TimePoint{Year: 2030},
	}

	rates := map[int]float64{}
	for year := 2020; year <= 2030; year++ {
		rates[year] = float64(year%7)*3.5 - 2
	}

	result, err := services.AnnualResult(annualSeries(rates), dateRange, 123456.78)
	asserts.Nil(err)
	asserts.Greater(result.Real, 0.0)
	asserts.False(math.IsInf(result.Real, 0))
	asserts.False(math.IsNaN(result.Real))
}
