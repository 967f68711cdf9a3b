package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	realincome "github.com/malusev998/real-income"
)

// datamapperHeaders mirrors a plain browser-ish client; the DataMapper
// endpoint answers 403 to unadorned requests.
var datamapperHeaders = map[string]string{
	"Accept":          "application/json,text/plain,*/*",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.imf.org/external/datamapper/",
	"User-Agent":      "curl/8.5.0",
}

// DataMapperFetcher reads annual percentage inflation rates (PCPIPCH) from
// the IMF DataMapper API, one value per calendar year.
type DataMapperFetcher struct {
	Config DataMapperConfig
}

func (d DataMapperFetcher) indicator() string {
	if d.Config.Indicator == "" {
		return DataMapperIndicator
	}

	return d.Config.Indicator
}

func (d DataMapperFetcher) FetchSeries(ctx context.Context, country string, dateRange realincome.DateRange) (realincome.Series, error) {
	url := d.Config.URL

	if url == "" {
		url = DataMapperURL
	}

	years := dateRange.Years()
	periods := make([]string, 0, len(years))

	for _, year := range years {
		periods = append(periods, strconv.Itoa(year))
	}

	url = fmt.Sprintf("%s/%s/%s?periods=%s", url, d.indicator(), country, strings.Join(periods, ","))

	client := &http.Client{Timeout: d.Config.timeout()}

	body, err := doRequest(ctx, client, url, datamapperHeaders, d.Config.retries())
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: DataMapper payload is not JSON", realincome.ErrInvalidResponse)
	}

	values := gjson.GetBytes(body, "values")
	if !values.Exists() {
		return nil, fmt.Errorf("%w: DataMapper payload has no values object", realincome.ErrInvalidResponse)
	}

	rates := values.Get(d.indicator() + "." + country)
	if !rates.Exists() {
		return nil, fmt.Errorf("%w: no %s data for %s", realincome.ErrMissingDataPoint, d.indicator(), country)
	}

	series := make(realincome.Series, 0, len(years))

	for _, year := range years {
		rate := rates.Get(strconv.Itoa(year))

		if !rate.Exists() {
			return nil, fmt.Errorf("%w: no %s value for %s in %d", realincome.ErrMissingDataPoint, d.indicator(), country, year)
		}

		if rate.Type != gjson.Number {
			return nil, fmt.Errorf("%w: %s value for %d is not numeric", realincome.ErrInvalidResponse, d.indicator(), year)
		}

		series = append(series, realincome.SeriesPoint{
			Period: realincome.TimePoint{Year: year},
			Value:  rate.Float(),
		})
	}

	return series, nil
}
