package fetchers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	realincome "github.com/malusev998/real-income"
)

const (
	SDMXDataURL      = "https://api.imf.org/external/sdmx/2.1"
	SDMXStructureURL = "https://sdmxcentral.imf.org/ws/public/sdmxapi/rest"
	DataMapperURL    = "https://www.imf.org/external/datamapper/api/v1"

	// SDMX CPI series key parts:
	// COUNTRY.INDEX_TYPE.COICOP_1999.TYPE_OF_TRANSFORMATION.FREQUENCY
	SDMXCPIDataset        = "CPI"
	SDMXCPIIndexType      = "CPI"
	SDMXCPICoicop         = "_T"
	SDMXCPITransformation = "IX"
	SDMXCPIFrequency      = "M"

	SDMXCountryCodelist = "CL_COUNTRY_ISO3"

	// DataMapper indicator: annual inflation (%), average consumer prices.
	DataMapperIndicator = "PCPIPCH"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond

	userAgent = "real-income/1.0"
)

type (
	BaseConfig struct {
		URL        string
		Timeout    time.Duration
		MaxRetries int
	}

	SDMXConfig struct {
		BaseConfig
		Policy realincome.LatestPolicy
	}

	DataMapperConfig struct {
		BaseConfig
		Indicator string
	}
)

func (c BaseConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}

	return c.Timeout
}

func (c BaseConfig) retries() int {
	if c.MaxRetries < 0 {
		return 0
	}

	if c.MaxRetries == 0 {
		return defaultMaxRetries
	}

	return c.MaxRetries
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// doRequest performs one GET with bounded retries on network errors, 429 and
// 5xx. Transport failures and non-2xx statuses map to ErrSourceUnavailable;
// decoding the body is the caller's concern.
func doRequest(ctx context.Context, client *http.Client, url string, headers map[string]string, retries int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", realincome.ErrSourceUnavailable, err)
	}

	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	backoff := defaultBackoff

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, backoff); err != nil {
				return nil, fmt.Errorf("%w: %v", realincome.ErrSourceUnavailable, err)
			}
			backoff *= 2
		}

		res, err := client.Do(req)

		if err != nil {
			lastErr = fmt.Errorf("%w: %v", realincome.ErrSourceUnavailable, err)
			continue
		}

		body, readErr := io.ReadAll(res.Body)
		_ = res.Body.Close()

		if readErr != nil {
			lastErr = fmt.Errorf("%w: %v", realincome.ErrSourceUnavailable, readErr)
			continue
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			lastErr = fmt.Errorf("%w: %s returned %s", realincome.ErrSourceUnavailable, req.URL.Host, res.Status)
			if retryableStatus(res.StatusCode) {
				continue
			}

			return nil, lastErr
		}

		return body, nil
	}

	return nil, lastErr
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
