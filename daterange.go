package realincome

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minYear = 1800
	maxYear = 3000
)

var (
	monthlyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	annualPattern  = regexp.MustCompile(`^\d{4}$`)
	countryPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ParseDateRange validates two period strings against the mode's granularity
// (YYYY-MM for sdmx, YYYY for datamapper) and returns the resolved range.
func ParseDateRange(start, end string, mode Mode) (DateRange, error) {
	startPoint, err := ParseTimePoint(start, mode)
	if err != nil {
		return DateRange{}, err
	}

	endPoint, err := ParseTimePoint(end, mode)
	if err != nil {
		return DateRange{}, err
	}

	if endPoint.Before(startPoint) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, startPoint, endPoint)
	}

	return DateRange{Start: startPoint, End: endPoint}, nil
}

func ParseTimePoint(period string, mode Mode) (TimePoint, error) {
	period = strings.TrimSpace(period)

	switch mode {
	case SDMXMode:
		if !monthlyPattern.MatchString(period) {
			if annualPattern.MatchString(period) {
				return TimePoint{}, fmt.Errorf("%w: %s is annual, sdmx mode expects YYYY-MM", ErrGranularityMismatch, period)
			}

			return TimePoint{}, fmt.Errorf("%w: %s (expected YYYY-MM)", ErrInvalidDateFormat, period)
		}

		return parseMonthly(period)
	case DataMapperMode:
		if !annualPattern.MatchString(period) {
			if monthlyPattern.MatchString(period) {
				return TimePoint{}, fmt.Errorf("%w: %s is monthly, datamapper mode expects YYYY", ErrGranularityMismatch, period)
			}

			return TimePoint{}, fmt.Errorf("%w: %s (expected YYYY)", ErrInvalidDateFormat, period)
		}

		return parseAnnual(period)
	}

	return TimePoint{}, fmt.Errorf("%w: no granularity for mode %q", ErrGranularityMismatch, mode)
}

func parseMonthly(period string) (TimePoint, error) {
	year, _ := strconv.Atoi(period[:4])
	month, _ := strconv.Atoi(period[5:])

	if month < 1 || month > 12 {
		return TimePoint{}, fmt.Errorf("%w: month %02d out of range", ErrInvalidDateFormat, month)
	}

	if year < minYear || year > maxYear {
		return TimePoint{}, fmt.Errorf("%w: year %04d out of range", ErrInvalidDateFormat, year)
	}

	return TimePoint{Year: year, Month: month}, nil
}

func parseAnnual(period string) (TimePoint, error) {
	year, _ := strconv.Atoi(period)

	if year < minYear || year > maxYear {
		return TimePoint{}, fmt.Errorf("%w: year %04d out of range", ErrInvalidDateFormat, year)
	}

	return TimePoint{Year: year}, nil
}

// ValidateCountryCode normalizes and format-checks an ISO-3166-1 alpha-3 code.
// Existence of the country is left to the data source.
func ValidateCountryCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	if !countryPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
	}

	return normalized, nil
}
