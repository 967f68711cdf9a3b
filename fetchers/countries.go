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
	"strings"

	"github.com/tidwall/gjson"

	realincome "github.com/malusev998/real-income"
)

type Country struct {
	Code string
	Name string
}

// Countries lists the country codes the given mode's source publishes data
// for, sorted by name.
func Countries(ctx context.Context, mode realincome.Mode, config BaseConfig) ([]Country, error) {
	switch mode {
	case realincome.SDMXMode:
		return sdmxCountries(ctx, config)
	case realincome.DataMapperMode:
		return datamapperCountries(ctx, config)
	}

	return nil, fmt.Errorf("no country source for mode %q", mode)
}

// sdmxCountries reads the ISO3 country codelist from SDMX Central:
// <str:Code id="POL"><com:Name xml:lang="en">Poland</com:Name></str:Code>
func sdmxCountries(ctx context.Context, config BaseConfig) ([]Country, error) {
	url := config.URL

	if url == "" {
		url = SDMXStructureURL
	}

	url = fmt.Sprintf("%s/codelist/IMF/%s/latest", url, SDMXCountryCodelist)

	client := &http.Client{Timeout: config.timeout()}

	body, err := doRequest(ctx, client, url, nil, config.retries())
	if err != nil {
		return nil, err
	}

	countries, err := parseSDMXCodelist(body)
	if err != nil {
		return nil, err
	}

	if len(countries) == 0 {
		return nil, fmt.Errorf("%w: codelist %s has no codes", realincome.ErrInvalidResponse, SDMXCountryCodelist)
	}

	sortCountries(countries)

	return countries, nil
}

func parseSDMXCodelist(body []byte) ([]Country, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	countries := make([]Country, 0)

	var (
		inCode      bool
		currentCode string
		currentName string
		captureName bool
		nameIsEN    bool
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w: invalid codelist XML: %v", realincome.ErrInvalidResponse, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "Code":
				inCode = true
				currentCode = ""
				currentName = ""
				nameIsEN = false

				for _, attr := range element.Attr {
					if attr.Name.Local == "id" {
						currentCode = attr.Value
					}
				}
			case "Name":
				if !inCode || nameIsEN {
					continue
				}

				captureName = true

				for _, attr := range element.Attr {
					if attr.Name.Local == "lang" && strings.EqualFold(attr.Value, "en") {
						nameIsEN = true
					}
				}
			}
		case xml.CharData:
			if inCode && captureName {
				currentName = string(element)
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "Name":
				captureName = false
			case "Code":
				if inCode && currentCode != "" {
					name := currentName
					if name == "" {
						name = currentCode
					}

					countries = append(countries, Country{Code: currentCode, Name: name})
				}

				inCode = false
			}
		}
	}

	return countries, nil
}

// datamapperCountries reads /countries: {"countries":{"ITA":{"label":"Italy"},...}}
func datamapperCountries(ctx context.Context, config BaseConfig) ([]Country, error) {
	url := config.URL

	if url == "" {
		url = DataMapperURL
	}

	client := &http.Client{Timeout: config.timeout()}

	body, err := doRequest(ctx, client, url+"/countries", datamapperHeaders, config.retries())
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: DataMapper payload is not JSON", realincome.ErrInvalidResponse)
	}

	entries := gjson.GetBytes(body, "countries")
	if !entries.Exists() || !entries.IsObject() {
		return nil, fmt.Errorf("%w: DataMapper payload has no countries object", realincome.ErrInvalidResponse)
	}

	countries := make([]Country, 0)

	entries.ForEach(func(code, info gjson.Result) bool {
		name := info.Get("label").String()
		if name == "" {
			name = code.String()
		}

		countries = append(countries, Country{Code: code.String(), Name: name})

		return true
	})

	sortCountries(countries)

	return countries, nil
}

func sortCountries(countries []Country) {
	sort.Slice(countries, func(i, j int) bool {
		return strings.ToLower(countries[i].Name) < strings.ToLower(countries[j].Name)
	})
}
