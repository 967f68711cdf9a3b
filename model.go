package realincome

import (
	"fmt"
	"time"
)

type (
	// TimePoint is a single period of a series. Month is zero for annual
	// granularity and 1-12 for monthly granularity.
	TimePoint struct {
		Year  int `json:"year"`
		Month int `json:"month,omitempty"`
	}

	DateRange struct {
		Start TimePoint `json:"start"`
		End   TimePoint `json:"end"`
	}

	SeriesPoint struct {
		Period TimePoint `json:"period"`
		Value  float64   `json:"value"`
	}

	// Series is an ordered sequence of observations, oldest first.
	Series []SeriesPoint

	Key struct {
		Mode    Mode      `json:"mode"`
		Country string    `json:"country"`
		Range   DateRange `json:"range"`
	}

	CacheEntry struct {
		Key       Key       `json:"key"`
		Series    Series    `json:"series"`
		FetchedAt time.Time `json:"fetchedAt"`
	}

	// ComputationResult is the outcome of a single invocation. Ratio is the
	// multiplier applied to Nominal: CPI_start/CPI_latest in monthly mode,
	// 1/deflator in annual mode.
	ComputationResult struct {
		Nominal    float64
		Real       float64
		Ratio      float64
		Mode       Mode
		StartUsed  TimePoint
		LatestUsed TimePoint
	}
)

func (t TimePoint) Monthly() bool {
	return t.Month != 0
}

func (t TimePoint) String() string {
	if t.Monthly() {
		return fmt.Sprintf("%04d-%02d", t.Year, t.Month)
	}

	return fmt.Sprintf("%04d", t.Year)
}

// SDMXPeriod renders the point in the SDMX monthly wire format, e.g. 2024-M01.
func (t TimePoint) SDMXPeriod() string {
	return fmt.Sprintf("%04d-M%02d", t.Year, t.Month)
}

func (t TimePoint) sortKey() int {
	return t.Year*100 + t.Month
}

func (t TimePoint) Before(other TimePoint) bool {
	return t.sortKey() < other.sortKey()
}

func (t TimePoint) After(other TimePoint) bool {
	return t.sortKey() > other.sortKey()
}

// Years lists every calendar year of the range, inclusive on both ends.
func (r DateRange) Years() []int {
	years := make([]int, 0, r.End.Year-r.Start.Year+1)

	for year := r.Start.Year; year <= r.End.Year; year++ {
		years = append(years, year)
	}

	return years
}

// String serializes the key deterministically; it is also safe as a file name.
func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s_%s", k.Mode, k.Country, k.Range.Start, k.Range.End)
}

// Sorted reports whether the series is in chronological order.
func (s Series) Sorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Period.Before(s[i-1].Period) {
			return false
		}
	}

	return true
}

// At returns the value at the exact period.
func (s Series) At(period TimePoint) (float64, bool) {
	for _, point := range s {
		if point.Period == period {
			return point.Value, true
		}
	}

	return 0, false
}

// Latest returns the last observation at or before the period.
func (s Series) Latest(period TimePoint) (SeriesPoint, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Period.After(period) {
			return s[i], true
		}
	}

	return SeriesPoint{}, false
}

// Loss is the purchasing power lost to inflation.
func (c ComputationResult) Loss() float64 {
	return c.Nominal - c.Real
}

func (c ComputationResult) LossPercent() float64 {
	return (1 - c.Ratio) * 100
}
