package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	realincome "github.com/malusev998/real-income"
	"github.com/malusev998/real-income/cache"
	"github.com/malusev998/real-income/fetchers"
	"github.com/malusev998/real-income/services"
)

const sdmxBody = `<?xml version="1.0" encoding="utf-8"?>
<message:StructureSpecificData xmlns:message="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message">
	<message:DataSet>
		<Series FREQ="M" REF_AREA="ITA">
			<Obs TIME_PERIOD="2024-M01" OBS_VALUE="100.0"/>
			<Obs TIME_PERIOD="2025-M12" OBS_VALUE="110.0"/>
		</Series>
	</message:DataSet>
</message:StructureSpecificData>`

const countriesBody = `{"countries":{"ITA":{"label":"Italy"},"DEU":{"label":"Germany"}}}`

type sdmxHandler struct {
	requests int64
}

func (h *sdmxHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	atomic.AddInt64(&h.requests, 1)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(sdmxBody))
}

func testConfig(t *testing.T, serverURL, cacheDir string) *Config {
	t.Helper()
	noDebug := false

	return &Config{
		Ctx:   context.Background(),
		debug: &noDebug,
		NewService: func(mode realincome.Mode, cacheEnabled bool) (realincome.Service, io.Closer, error) {
			provider, config := cache.File, interface{}(cache.FileConfig{Dir: cacheDir})
			if !cacheEnabled {
				provider, config = cache.None, nil
			}

			seriesCache, err := cache.NewCache(provider, config)
			if err != nil {
				return nil, nil, err
			}

			return services.RealIncomeService{
				Fetcher: fetchers.NewSeriesFetcher(mode, fetchers.SDMXConfig{
					BaseConfig: fetchers.BaseConfig{URL: serverURL},
				}),
				Cache: seriesCache,
				Mode:  mode,
			}, seriesCache, nil
		},
		ListCountries: func(ctx context.Context, mode realincome.Mode) ([]fetchers.Country, error) {
			return fetchers.Countries(ctx, mode, fetchers.BaseConfig{URL: serverURL})
		},
	}
}

func computeArgs(extra ...string) []string {
	args := []string{
		"--mode", "sdmx",
		"--country", "ITA",
		"--start", "2024-01",
		"--end", "2025-12",
		"--amount", "10000",
	}

	return append(args, extra...)
}

func TestComputeCommand(t *testing.T) {
	asserts := require.New(t)
	handler := &sdmxHandler{}
	server := httptest.NewServer(handler)

	defer server.Close()

	cacheDir := t.TempDir()
	config := testConfig(t, server.URL, cacheDir)

	t.Run("WarmsTheCacheOnFirstRun", func(t *testing.T) {
		cmd := compute(config)
		cmd.SetArgs(computeArgs())
		asserts.Nil(cmd.Execute())
		asserts.Equal(int64(1), atomic.LoadInt64(&handler.requests))

		entries, err := os.ReadDir(cacheDir)
		asserts.Nil(err)
		asserts.Len(entries, 1)
		asserts.Equal(".json", filepath.Ext(entries[0].Name()))
	})

	t.Run("SecondRunHitsTheCache", func(t *testing.T) {
		cmd := compute(config)
		cmd.SetArgs(computeArgs())
		asserts.Nil(cmd.Execute())
		asserts.Equal(int64(1), atomic.LoadInt64(&handler.requests))
	})

	t.Run("NoCacheFlagBypassesTheCache", func(t *testing.T) {
		cmd := compute(config)
		cmd.SetArgs(computeArgs("--no-cache"))
		asserts.Nil(cmd.Execute())
		asserts.Equal(int64(2), atomic.LoadInt64(&handler.requests))
	})
}

func TestComputeCommandRejectsUnknownMode(t *testing.T) {
	asserts := require.New(t)
	noDebug := false

	cmd := compute(&Config{Ctx: context.Background(), debug: &noDebug})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"--mode", "worldbank", "--country", "ITA", "--start", "2024-01", "--end", "2025-12", "--amount", "1"})

	asserts.NotNil(cmd.Execute())
}

func TestComputeCommandSurfacesValidationErrors(t *testing.T) {
	asserts := require.New(t)
	handler := &sdmxHandler{}
	server := httptest.NewServer(handler)

	defer server.Close()

	config := testConfig(t, server.URL, t.TempDir())

	cmd := compute(config)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{
		"--mode", "sdmx",
		"--country", "ITA",
		"--start", "2024",
		"--end", "2025",
		"--amount", "10000",
	})

	err := cmd.Execute()
	asserts.NotNil(err)
	asserts.True(errors.Is(err, realincome.ErrGranularityMismatch))
	asserts.Equal(int64(0), atomic.LoadInt64(&handler.requests))
}

type closeRecorder struct {
	realincome.Cache
	closes int
}

func (c *closeRecorder) Close() error {
	c.closes++
	return c.Cache.Close()
}

func TestComputeCommandClosesTheCache(t *testing.T) {
	asserts := require.New(t)
	handler := &sdmxHandler{}
	server := httptest.NewServer(handler)

	defer server.Close()

	recorder := &closeRecorder{}
	noDebug := false

	config := &Config{
		Ctx:   context.Background(),
		debug: &noDebug,
		NewService: func(mode realincome.Mode, cacheEnabled bool) (realincome.Service, io.Closer, error) {
			seriesCache, err := cache.NewFileCache(cache.FileConfig{Dir: t.TempDir()})
			if err != nil {
				return nil, nil, err
			}

			recorder.Cache = seriesCache

			return services.RealIncomeService{
				Fetcher: fetchers.NewSeriesFetcher(mode, fetchers.SDMXConfig{
					BaseConfig: fetchers.BaseConfig{URL: server.URL},
				}),
				Cache: recorder,
				Mode:  mode,
			}, recorder, nil
		},
	}

	cmd := compute(config)
	cmd.SetArgs(computeArgs())
	asserts.Nil(cmd.Execute())
	asserts.Equal(1, recorder.closes)
}

func TestCountriesCommand(t *testing.T) {
	asserts := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(countriesBody))
	}))

	defer server.Close()

	config := testConfig(t, server.URL, t.TempDir())

	cmd := countries(config)
	cmd.SetArgs([]string{"--mode", "datamapper"})
	asserts.Nil(cmd.Execute())
}
