// Package series implements the time-series engine: synthetic reading
// generation, status-aware aggregation, the reading validation state machine
// and the view projection over the working set.
package series

import (
	"math"
	"math/rand"
	"time"

	"airquality-platform/internal/catalog"
	"airquality-platform/internal/models"
)

// Anchor is the fixed reference instant every generated series ends at.
// Keeping it fixed makes timestamps, scenario positions and alert bindings
// identical across invocations; only the noise term varies.
var Anchor = time.Date(2025, time.March, 18, 14, 0, 0, 0, time.UTC)

type periodSpec struct {
	Points          int
	IntervalMinutes int
}

// Point count and spacing are a fixed lookup per period, decoupled from
// calendar arithmetic.
var periodTable = map[models.Period]periodSpec{
	models.PeriodLast24h: {Points: 120, IntervalMinutes: 1},
	models.PeriodLast7d:  {Points: 168, IntervalMinutes: 60},
	models.PeriodLast30d: {Points: 120, IntervalMinutes: 360},
	models.PeriodLast90d: {Points: 90, IntervalMinutes: 1440},
}

// PeriodShape exposes the point count and spacing for a period. Unknown
// periods resolve to the 24h shape.
func PeriodShape(period models.Period) (points, intervalMinutes int) {
	spec, ok := periodTable[period]
	if !ok {
		spec = periodTable[models.PeriodLast24h]
	}
	return spec.Points, spec.IntervalMinutes
}

// Generate produces the synthetic reading series for a (station, parameter,
// period) triple, oldest first, ids 1-based by sequence position. Scenario
// overrides apply only to the 24h period: the flagged positions come out
// pending while their alert is open, or invalid with the scenario
// justification once the alert id appears in resolved.
//
// Unknown (station, parameter) pairs fall back to the default profile;
// generation never fails.
func Generate(station, parameter string, period models.Period, resolved map[int]bool) []models.Reading {
	profile, _ := catalog.LookupProfile(station, parameter)
	points, interval := PeriodShape(period)

	readings := make([]models.Reading, points)
	for i := 0; i < points; i++ {
		ts := Anchor.Add(-time.Duration(points-1-i) * time.Duration(interval) * time.Minute)

		value := profile.Base +
			math.Sin(float64(i)*0.5)*profile.Variance +
			(rand.Float64()-0.5)*profile.Variance*0.3
		formatted := models.FormatValue(value)

		readings[i] = models.Reading{
			ID:            i + 1,
			Timestamp:     ts.Format(models.TimeLayout),
			RawValue:      formatted,
			FinalValue:    formatted,
			Unit:          profile.Unit,
			Status:        models.StatusValid,
			Justification: models.NoValue,
			Operator:      models.NoValue,
		}
	}

	// Scenario anomalies exist only at minute resolution; coarser periods
	// keep ordinary synthetic values at those positions.
	if interval != 1 {
		return readings
	}

	for _, ov := range catalog.Overrides(station, parameter) {
		idx := points - 1 - ov.OffsetMinutes
		if idx < 0 || idx >= points {
			continue
		}
		alertID := ov.AlertID
		r := &readings[idx]
		r.RawValue = ov.Value
		r.AlertID = &alertID
		if resolved[ov.AlertID] {
			r.Status = models.StatusInvalid
			r.FinalValue = models.NoValue
			r.Justification = ov.Justification
			r.Operator = ov.Operator
		} else {
			r.Status = models.StatusPending
			r.FinalValue = ov.Value
		}
	}

	return readings
}

// ApplyResolvedAlerts returns a copy of readings where every alert-bound row
// whose alert id appears in resolved is rendered invalid with the scenario
// justification and operator. Rows without a bound alert pass through
// untouched.
func ApplyResolvedAlerts(readings []models.Reading, resolved map[int]bool) []models.Reading {
	out := make([]models.Reading, len(readings))
	copy(out, readings)
	for i := range out {
		r := &out[i]
		if r.AlertID == nil || !resolved[*r.AlertID] {
			continue
		}
		ov, ok := catalog.OverrideByAlertID(*r.AlertID)
		if !ok {
			continue
		}
		r.Status = models.StatusInvalid
		r.FinalValue = models.NoValue
		r.Justification = ov.Justification
		r.Operator = ov.Operator
	}
	return out
}
