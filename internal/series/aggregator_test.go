package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airquality-platform/internal/models"
)

func rawReading(id int, ts, value string, status models.Status) models.Reading {
	final := value
	if status == models.StatusInvalid {
		final = models.NoValue
	}
	return models.Reading{
		ID:            id,
		Timestamp:     ts,
		RawValue:      value,
		FinalValue:    final,
		Unit:          "µg/m³",
		Status:        status,
		Justification: models.NoValue,
		Operator:      models.NoValue,
	}
}

func TestAggregateExcludesInvalid(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-18 13:00", "10.0", models.StatusValid),
		rawReading(2, "2025-03-18 13:05", "20.0", models.StatusValid),
		rawReading(3, "2025-03-18 13:10", "1000.0", models.StatusInvalid),
	}

	out := Aggregate(rows, models.GranularityHour)
	require.Len(t, out, 1)
	assert.Equal(t, "15.0", out[0].FinalValue)
	assert.Equal(t, "15.0", out[0].RawValue)
	assert.Equal(t, "2025-03-18 13:00", out[0].Timestamp)
	assert.Equal(t, models.StatusValid, out[0].Status)
}

func TestAggregateDropsEmptyBuckets(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-18 13:00", "10.0", models.StatusInvalid),
		rawReading(2, "2025-03-18 13:05", "20.0", models.StatusInvalid),
		rawReading(3, "2025-03-18 14:02", "30.0", models.StatusValid),
	}

	out := Aggregate(rows, models.GranularityHour)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-03-18 14:00", out[0].Timestamp)
	assert.Equal(t, "30.0", out[0].FinalValue)
}

func TestAggregatePendingPropagates(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-18 13:00", "10.0", models.StatusValid),
		rawReading(2, "2025-03-18 13:07", "30.0", models.StatusPending),
	}

	out := Aggregate(rows, models.Granularity15Min)
	require.Len(t, out, 1)
	assert.Equal(t, models.StatusPending, out[0].Status)
	assert.Equal(t, "20.0", out[0].FinalValue)
}

func TestAggregateAlignsAndResequences(t *testing.T) {
	rows := []models.Reading{
		rawReading(40, "2025-03-18 13:07", "10.0", models.StatusValid),
		rawReading(41, "2025-03-18 13:22", "20.0", models.StatusValid),
		rawReading(42, "2025-03-18 13:53", "30.0", models.StatusValid),
	}

	out := Aggregate(rows, models.Granularity15Min)
	require.Len(t, out, 3)

	// Bucket starts come from the slot, not from whichever member arrived
	// first, and ids restart from 1 in chronological order.
	assert.Equal(t, "2025-03-18 13:00", out[0].Timestamp)
	assert.Equal(t, "2025-03-18 13:15", out[1].Timestamp)
	assert.Equal(t, "2025-03-18 13:45", out[2].Timestamp)
	for i, r := range out {
		assert.Equal(t, i+1, r.ID)
		assert.Nil(t, r.AlertID)
		assert.Equal(t, models.NoValue, r.Justification)
		assert.Equal(t, models.NoValue, r.Operator)
	}
}

func TestAggregateCrossesDayBoundary(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-17 23:50", "10.0", models.StatusValid),
		rawReading(2, "2025-03-18 00:10", "20.0", models.StatusValid),
	}

	out := Aggregate(rows, models.GranularityDay)
	require.Len(t, out, 2)
	assert.Equal(t, "2025-03-17 00:00", out[0].Timestamp)
	assert.Equal(t, "2025-03-18 00:00", out[1].Timestamp)
}

func TestAggregateNativeCopies(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-18 13:00", "10.0", models.StatusValid),
	}

	out := Aggregate(rows, models.GranularityNative)
	require.Equal(t, rows, out)

	out[0].FinalValue = "99.9"
	assert.Equal(t, "10.0", rows[0].FinalValue)
}

func TestAggregateGeneratedSeries(t *testing.T) {
	readings := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)
	out := Aggregate(readings, models.GranularityHour)

	// 120 minutes ending 14:00 span three clock hours: 12:xx, 13:xx, 14:00.
	require.Len(t, out, 3)

	// All three pending scenario rows sit in the 13:45..13:55 range, so
	// exactly one hourly bucket comes out pending.
	var pending int
	for _, r := range out {
		if r.Status == models.StatusPending {
			pending++
		}
	}
	assert.Equal(t, 1, pending)
}
