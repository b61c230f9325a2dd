package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Period
	}{
		{"24h", "last_24h", PeriodLast24h},
		{"7d", "last_7d", PeriodLast7d},
		{"30d", "last_30d", PeriodLast30d},
		{"90d", "last_90d", PeriodLast90d},
		{"unknown falls back to 24h", "last_week", PeriodLast24h},
		{"empty falls back to 24h", "", PeriodLast24h},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePeriod(tt.in))
		})
	}
}

func TestGranularityIntervalMinutes(t *testing.T) {
	assert.Equal(t, 0, GranularityNative.IntervalMinutes())
	assert.Equal(t, 15, Granularity15Min.IntervalMinutes())
	assert.Equal(t, 60, GranularityHour.IntervalMinutes())
	assert.Equal(t, 1440, GranularityDay.IntervalMinutes())
}

func TestParseGranularity(t *testing.T) {
	g, ok := ParseGranularity("1h")
	assert.True(t, ok)
	assert.Equal(t, GranularityHour, g)

	_, ok = ParseGranularity("weekly")
	assert.False(t, ok)
}

func TestReadingValue(t *testing.T) {
	r := Reading{FinalValue: "42.5"}
	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	r.FinalValue = NoValue
	_, ok = r.Value()
	assert.False(t, ok)

	r.FinalValue = "not-a-number"
	_, ok = r.Value()
	assert.False(t, ok)
}

func TestReadingConsistent(t *testing.T) {
	valid := Reading{Status: StatusValid, FinalValue: "10.0", Operator: NoValue}
	assert.True(t, valid.Consistent())

	invalid := Reading{Status: StatusInvalid, FinalValue: NoValue, Operator: "J. Santos"}
	assert.True(t, invalid.Consistent())

	// Invalid without an attributed operator breaks the coupling
	broken := Reading{Status: StatusInvalid, FinalValue: NoValue, Operator: NoValue}
	assert.False(t, broken.Consistent())

	// Valid with a sentinel final value breaks the coupling
	broken = Reading{Status: StatusValid, FinalValue: NoValue, Operator: NoValue}
	assert.False(t, broken.Consistent())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "15.0", FormatValue(15.0))
	assert.Equal(t, "42.3", FormatValue(42.34))
	assert.Equal(t, "-5.5", FormatValue(-5.46))
}
