package realincome

import (
	"fmt"
	"strings"
)

type Mode string

const (
	SDMXMode       Mode = "sdmx"
	DataMapperMode Mode = "datamapper"
	EmptyMode      Mode = ""
)

func ConvertToModeFromString(str string) (Mode, error) {
	switch strings.ToLower(str) {
	case "sdmx":
		return SDMXMode, nil
	case "datamapper":
		return DataMapperMode, nil
	}

	return "", fmt.Errorf("value %s is not valid Mode", str)
}

func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	mode, err := ConvertToModeFromString(str)

	if err != nil {
		return err
	}

	*m = mode

	return nil
}

func (m Mode) MarshalYAML() (interface{}, error) {
	return string(m), nil
}

// LatestPolicy selects the series observation used as CPI_latest in monthly
// mode when the requested end period itself has no data.
type LatestPolicy string

const (
	// LatestExact requires an observation at the exact end period.
	LatestExact LatestPolicy = "exact"
	// LatestAtOrBefore falls back to the last observation at or before the
	// end period.
	LatestAtOrBefore LatestPolicy = "at-or-before"
)

func ConvertToLatestPolicyFromString(str string) (LatestPolicy, error) {
	switch strings.ToLower(str) {
	case "", "exact":
		return LatestExact, nil
	case "at-or-before":
		return LatestAtOrBefore, nil
	}

	return "", fmt.Errorf("value %s is not valid LatestPolicy", str)
}
