package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airquality-platform/internal/models"
)

func TestPeriodShape(t *testing.T) {
	tests := []struct {
		name     string
		period   models.Period
		points   int
		interval int
	}{
		{"24h", models.PeriodLast24h, 120, 1},
		{"7d", models.PeriodLast7d, 168, 60},
		{"30d", models.PeriodLast30d, 120, 360},
		{"90d", models.PeriodLast90d, 90, 1440},
		{"unknown resolves to 24h shape", models.Period("bogus"), 120, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, interval := PeriodShape(tt.period)
			assert.Equal(t, tt.points, points)
			assert.Equal(t, tt.interval, interval)
		})
	}
}

func TestGenerateSeriesStructure(t *testing.T) {
	readings := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)
	require.Len(t, readings, 120)

	// Oldest first, ending at the anchor, one point per minute.
	assert.Equal(t, Anchor.Format(models.TimeLayout), readings[119].Timestamp)
	assert.Equal(t, Anchor.Add(-119*time.Minute).Format(models.TimeLayout), readings[0].Timestamp)

	for i, r := range readings {
		assert.Equal(t, i+1, r.ID)
		assert.Equal(t, "µg/m³", r.Unit)
		assert.True(t, r.Consistent(), "reading %d violates status/value coupling", r.ID)
	}
}

func TestGenerateTimestampsDeterministic(t *testing.T) {
	a := Generate("REVAP", "NO2", models.PeriodLast7d, nil)
	b := Generate("REVAP", "NO2", models.PeriodLast7d, nil)
	require.Len(t, b, len(a))

	// Values carry a noise term, but shape, timestamps and statuses never vary.
	for i := range a {
		assert.Equal(t, a[i].Timestamp, b[i].Timestamp)
		assert.Equal(t, a[i].Status, b[i].Status)
	}
}

func TestGenerateScenarioOverrides(t *testing.T) {
	readings := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	var pending []models.Reading
	for _, r := range readings {
		if r.Status == models.StatusPending {
			pending = append(pending, r)
		}
	}
	require.Len(t, pending, 3)

	end := readings[len(readings)-1]
	endTime, err := end.Time()
	require.NoError(t, err)

	wantOffsets := map[int]string{15: "250.0", 10: "180.0", 5: "125.0"}
	wantAlerts := map[int]int{15: 1, 10: 2, 5: 3}
	for _, p := range pending {
		ts, err := p.Time()
		require.NoError(t, err)
		offset := int(endTime.Sub(ts) / time.Minute)

		want, ok := wantOffsets[offset]
		require.True(t, ok, "pending reading at unexpected offset %d", offset)
		assert.Equal(t, want, p.FinalValue)
		assert.Equal(t, want, p.RawValue)
		require.NotNil(t, p.AlertID)
		assert.Equal(t, wantAlerts[offset], *p.AlertID)
		assert.Equal(t, models.NoValue, p.Justification)
		assert.Equal(t, models.NoValue, p.Operator)
	}
}

func TestGenerateResolvedAlertRendersInvalid(t *testing.T) {
	readings := Generate("REPLAN", "SO2", models.PeriodLast24h, map[int]bool{1: true})

	var invalid, pending int
	for _, r := range readings {
		switch r.Status {
		case models.StatusInvalid:
			invalid++
			assert.Equal(t, models.NoValue, r.FinalValue)
			assert.Equal(t, "250.0", r.RawValue)
			assert.Equal(t, "Pico anômalo confirmado pela equipe de campo", r.Justification)
			assert.Equal(t, "J. Santos", r.Operator)
			require.NotNil(t, r.AlertID)
			assert.Equal(t, 1, *r.AlertID)
		case models.StatusPending:
			pending++
		}
	}
	assert.Equal(t, 1, invalid)
	assert.Equal(t, 2, pending)
}

func TestGenerateCoarsePeriodsSkipOverrides(t *testing.T) {
	for _, period := range []models.Period{models.PeriodLast7d, models.PeriodLast30d, models.PeriodLast90d} {
		for _, r := range Generate("REPLAN", "SO2", period, nil) {
			assert.Equal(t, models.StatusValid, r.Status)
			assert.Nil(t, r.AlertID)
		}
	}
}

func TestGenerateUnknownPairFallsBack(t *testing.T) {
	readings := Generate("NOWHERE", "XX", models.PeriodLast24h, nil)
	require.Len(t, readings, 120)

	// The fallback profile belongs to (REPLAN, SO2); overrides do not follow it.
	for _, r := range readings {
		assert.Equal(t, "µg/m³", r.Unit)
		assert.Equal(t, models.StatusValid, r.Status)
	}
}

func TestApplyResolvedAlerts(t *testing.T) {
	original := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	applied := ApplyResolvedAlerts(original, map[int]bool{2: true})

	var found bool
	for i, r := range applied {
		if r.AlertID != nil && *r.AlertID == 2 {
			found = true
			assert.Equal(t, models.StatusInvalid, r.Status)
			assert.Equal(t, models.NoValue, r.FinalValue)
			assert.Equal(t, "Interferência de manutenção programada", r.Justification)
			// The input series is left untouched.
			assert.Equal(t, models.StatusPending, original[i].Status)
		}
	}
	assert.True(t, found)

	// Empty resolution set passes everything through.
	same := ApplyResolvedAlerts(original, nil)
	assert.Equal(t, original, same)
}
