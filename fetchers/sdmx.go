package fetchers

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	realincome "github.com/malusev998/real-income"
)

// SDMXFetcher reads monthly CPI index levels from the IMF SDMX 2.1 CPI
// dataset as SDMX-ML observations.
type SDMXFetcher struct {
	Config SDMXConfig
}

func (s SDMXFetcher) policy() realincome.LatestPolicy {
	if s.Config.Policy == "" {
		return realincome.LatestExact
	}

	return s.Config.Policy
}

func (s SDMXFetcher) seriesKey(country string) string {
	return strings.Join([]string{
		country,
		SDMXCPIIndexType,
		SDMXCPICoicop,
		SDMXCPITransformation,
		SDMXCPIFrequency,
	}, ".")
}

func (s SDMXFetcher) FetchSeries(ctx context.Context, country string, dateRange realincome.DateRange) (realincome.Series, error) {
	url := s.Config.URL

	if url == "" {
		url = SDMXDataURL
	}

	url = fmt.Sprintf(
		"%s/data/%s/%s?startPeriod=%s&endPeriod=%s",
		url,
		SDMXCPIDataset,
		s.seriesKey(country),
		dateRange.Start.SDMXPeriod(),
		dateRange.End.SDMXPeriod(),
	)

	client := &http.Client{Timeout: s.Config.timeout()}

	body, err := doRequest(ctx, client, url, nil, s.Config.retries())
	if err != nil {
		return nil, err
	}

	series, err := parseSDMXObservations(body, dateRange)
	if err != nil {
		return nil, err
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no observations between %s and %s", realincome.ErrMissingDataPoint, dateRange.Start, dateRange.End)
	}

	if _, ok := series.At(dateRange.Start); !ok {
		return nil, fmt.Errorf("%w: no CPI value for start period %s", realincome.ErrMissingDataPoint, dateRange.Start)
	}

	if _, ok := series.At(dateRange.End); !ok && s.policy() == realincome.LatestExact {
		return nil, fmt.Errorf("%w: no CPI value for end period %s", realincome.ErrMissingDataPoint, dateRange.End)
	}

	return series, nil
}

// parseSDMXObservations extracts <Obs TIME_PERIOD="2024-M01" OBS_VALUE="..."/>
// elements, drops non-positive values as the dataset occasionally carries
// placeholder zeroes, restricts to the requested range and sorts
// chronologically.
func parseSDMXObservations(body []byte, dateRange realincome.DateRange) (realincome.Series, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	series := make(realincome.Series, 0)

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w: invalid SDMX-ML: %v", realincome.ErrInvalidResponse, err)
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != "Obs" {
			continue
		}

		var period, value string

		for _, attr := range element.Attr {
			switch attr.Name.Local {
			case "TIME_PERIOD":
				period = attr.Value
			case "OBS_VALUE":
				value = attr.Value
			}
		}

		if period == "" || value == "" {
			continue
		}

		point, err := parseSDMXPeriod(period)
		if err != nil {
			return nil, err
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: OBS_VALUE %q is not numeric", realincome.ErrInvalidResponse, value)
		}

		if parsed <= 0 {
			continue
		}

		if point.Before(dateRange.Start) || point.After(dateRange.End) {
			continue
		}

		series = append(series, realincome.SeriesPoint{Period: point, Value: parsed})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Period.Before(series[j].Period)
	})

	return series, nil
}

// parseSDMXPeriod parses the SDMX monthly wire format, e.g. 2024-M01.
func parseSDMXPeriod(period string) (realincome.TimePoint, error) {
	if len(period) != 8 || period[4] != '-' || period[5] != 'M' {
		return realincome.TimePoint{}, fmt.Errorf("%w: unexpected TIME_PERIOD %q", realincome.ErrInvalidResponse, period)
	}

	year, yearErr := strconv.Atoi(period[:4])
	month, monthErr := strconv.Atoi(period[6:])

	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		return realincome.TimePoint{}, fmt.Errorf("%w: unexpected TIME_PERIOD %q", realincome.ErrInvalidResponse, period)
	}

	return realincome.TimePoint{Year: year, Month: month}, nil
}
