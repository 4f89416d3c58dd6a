package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatUnixMillis  DateFormat = "unixMillis"
	FormatUnixSeconds DateFormat = "unix"
	FormatRFC3339     DateFormat = time.RFC3339
	FormatRFC3339Nano DateFormat = time.RFC3339Nano
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatDateTime    DateFormat = "2006-01-02 15:04:05"
	FormatLocaleDate  DateFormat = "1/2/2006, 3:04:05 PM"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
	FormatMonthDay    DateFormat = "January 2, 2006"
)

// Integers below this are taken as seconds. Millisecond values of the same
// magnitude would fall in early 1973.
const unixSecondsCeiling = 100_000_000_000

type DateValidator struct {
	supportedFormats []DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	OriginalValue  string
}

// UnixMillis is the parsed time as stored in the timestamp column.
func (r ValidationResult) UnixMillis() int64 {
	return r.ParsedTime.UnixMilli()
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatRFC3339Nano,
			FormatRFC3339,
			FormatDateTime,
			FormatISO8601Date,
			FormatLocaleDate,
			FormatUSDate,
			FormatShortMonth,
			FormatMonthDay,
		},
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	if unix, err := strconv.ParseInt(input, 10, 64); err == nil {
		if unix <= 0 {
			return result
		}
		result.IsValid = true
		if unix < unixSecondsCeiling {
			result.DetectedFormat = FormatUnixSeconds
			result.ParsedTime = time.Unix(unix, 0).UTC()
		} else {
			result.DetectedFormat = FormatUnixMillis
			result.ParsedTime = time.UnixMilli(unix).UTC()
		}
		return result
	}

	for _, format := range dv.supportedFormats {
		if parsed, err := time.Parse(string(format), input); err == nil {
			result.IsValid = true
			result.DetectedFormat = format
			result.ParsedTime = parsed.UTC()
			return result
		}
	}

	return result
}

func (dv *DateValidator) AddCustomFormat(format DateFormat) {
	dv.supportedFormats = append(dv.supportedFormats, format)
}

// ParseTimestamp converts an imported timestamp cell into Unix milliseconds.
// A blank cell yields fallback.
func (dv *DateValidator) ParseTimestamp(input string, fallback int64) (int64, error) {
	if strings.TrimSpace(input) == "" {
		return fallback, nil
	}

	result := dv.ValidateAndConvert(input)
	if !result.IsValid {
		return 0, fmt.Errorf("unrecognized timestamp %q", input)
	}
	return result.UnixMillis(), nil
}
