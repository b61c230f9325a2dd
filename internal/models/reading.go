package models

import (
	"strconv"
	"time"
)

// TimeLayout is the calendar-naive, minute-resolution timestamp format used
// for every reading in a series.
const TimeLayout = "2006-01-02 15:04"

// NoValue is the sentinel for an absent value, justification or operator.
const NoValue = "-"

// Status is the validation state of a reading.
type Status string

const (
	StatusValid   Status = "valid"
	StatusPending Status = "pending"
	StatusInvalid Status = "invalid"
)

// Period selects how far back a generated series reaches.
type Period string

const (
	PeriodLast24h Period = "last_24h"
	PeriodLast7d  Period = "last_7d"
	PeriodLast30d Period = "last_30d"
	PeriodLast90d Period = "last_90d"
)

// ParsePeriod maps a request value to a Period. Unknown values resolve to
// the 24h period rather than failing.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodLast7d, PeriodLast30d, PeriodLast90d:
		return Period(s)
	default:
		return PeriodLast24h
	}
}

// Granularity is the time-bucket width used when averaging a raw series.
type Granularity string

const (
	GranularityNative Granularity = "native"
	Granularity15Min  Granularity = "15min"
	GranularityHour   Granularity = "1h"
	GranularityDay    Granularity = "1d"
)

// IntervalMinutes returns the bucket width in minutes, or 0 for the native
// (pass-through) granularity.
func (g Granularity) IntervalMinutes() int {
	switch g {
	case Granularity15Min:
		return 15
	case GranularityHour:
		return 60
	case GranularityDay:
		return 1440
	default:
		return 0
	}
}

// ParseGranularity maps a request value to a Granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityNative, Granularity15Min, GranularityHour, GranularityDay:
		return Granularity(s), true
	default:
		return GranularityNative, false
	}
}

// Reading is a single timestamped measurement for a station/parameter pair.
// Aggregated rows share the same shape: RawValue/FinalValue then hold a
// bucket average and ID is reassigned over emitted buckets.
type Reading struct {
	ID            int    `json:"id"`
	Timestamp     string `json:"timestamp"`
	RawValue      string `json:"raw_value"`
	FinalValue    string `json:"final_value"`
	Unit          string `json:"unit"`
	Status        Status `json:"status"`
	Justification string `json:"justification"`
	Operator      string `json:"operator"`
	AlertID       *int   `json:"alert_id,omitempty"`
}

// Time parses the reading timestamp.
func (r *Reading) Time() (time.Time, error) {
	return time.Parse(TimeLayout, r.Timestamp)
}

// Value parses FinalValue. The second return is false for the NoValue
// sentinel or an unparseable string.
func (r *Reading) Value() (float64, bool) {
	if r.FinalValue == NoValue {
		return 0, false
	}
	v, err := strconv.ParseFloat(r.FinalValue, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Consistent reports whether the status/finalValue/operator coupling holds:
// a reading is invalid exactly when its final value is the sentinel and an
// operator is attributed.
func (r *Reading) Consistent() bool {
	if r.Status == StatusInvalid {
		return r.FinalValue == NoValue && r.Operator != NoValue
	}
	return r.FinalValue != NoValue && r.Operator == NoValue
}

// FormatValue renders a measurement with the one-decimal precision used
// across the platform.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
