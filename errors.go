package realincome

import "errors"

var (
	ErrInvalidDateFormat   = errors.New("invalid period format")
	ErrInvalidRange        = errors.New("range start is after range end")
	ErrGranularityMismatch = errors.New("period granularity does not match the selected mode")
	ErrInvalidCountryCode  = errors.New("country code is not ISO-3166-1 alpha-3")
	ErrInvalidAmount       = errors.New("nominal amount must be greater than zero")

	ErrSourceUnavailable = errors.New("data source is unavailable")
	ErrInvalidResponse   = errors.New("malformed response from data source")
	ErrMissingDataPoint  = errors.New("data source has no value for a required period")

	ErrInvalidRate    = errors.New("rate or index value out of range")
	ErrDivisionByZero = errors.New("deflator is not positive")
)
