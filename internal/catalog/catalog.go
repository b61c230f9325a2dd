// Package catalog holds the declarative station/parameter tables consumed by
// the series generator: measurement profiles (baseline, variance, unit) and
// scenario overrides (hardcoded anomalous samples bound to alerts).
package catalog

import (
	"sort"

	"airquality-platform/internal/models"
)

// DefaultStation and DefaultParameter are the fallback profile for unknown
// (station, parameter) combinations. Lookups never fail; they degrade.
const (
	DefaultStation   = "REPLAN"
	DefaultParameter = "SO2"
)

// Profile drives synthetic value generation for one (station, parameter)
// pair.
type Profile struct {
	Base     float64
	Variance float64
	Unit     string
}

// ScenarioOverride injects one anomalous sample at a fixed offset from the
// end of a 24h series. The sample is emitted pending while its alert is
// open, or invalid (with the recorded justification/operator) once the alert
// has been resolved.
type ScenarioOverride struct {
	Station       string
	Parameter     string
	OffsetMinutes int
	AlertID       int
	Severity      models.Severity
	Value         string
	Justification string
	Operator      string
}

type pairKey struct {
	Station   string
	Parameter string
}

var profiles = map[pairKey]Profile{
	{"REPLAN", "SO2"}:  {Base: 42.0, Variance: 18.0, Unit: "µg/m³"},
	{"REPLAN", "NO2"}:  {Base: 55.0, Variance: 22.0, Unit: "µg/m³"},
	{"REPLAN", "MP10"}: {Base: 38.0, Variance: 14.0, Unit: "µg/m³"},
	{"REPLAN", "CO"}:   {Base: 1.8, Variance: 0.6, Unit: "ppm"},
	{"REPLAN", "O3"}:   {Base: 61.0, Variance: 25.0, Unit: "µg/m³"},
	{"REVAP", "SO2"}:   {Base: 35.0, Variance: 15.0, Unit: "µg/m³"},
	{"REVAP", "NO2"}:   {Base: 48.0, Variance: 19.0, Unit: "µg/m³"},
	{"REVAP", "MP10"}:  {Base: 44.0, Variance: 16.0, Unit: "µg/m³"},
	{"REVAP", "CO"}:    {Base: 1.4, Variance: 0.5, Unit: "ppm"},
	{"RECAP", "SO2"}:   {Base: 29.0, Variance: 12.0, Unit: "µg/m³"},
	{"RECAP", "NO2"}:   {Base: 40.0, Variance: 17.0, Unit: "µg/m³"},
	{"RECAP", "MP10"}:  {Base: 52.0, Variance: 20.0, Unit: "µg/m³"},
	{"RECAP", "O3"}:    {Base: 57.0, Variance: 23.0, Unit: "µg/m³"},
	{"CUBATAO", "SO2"}: {Base: 66.0, Variance: 24.0, Unit: "µg/m³"},
	{"CUBATAO", "MP10"}: {Base: 71.0, Variance: 26.0, Unit: "µg/m³"},
}

// Scenario overrides. At most three per pair, each with a distinct alert id
// across the whole table (1:1 alert/reading binding).
var overrides = []ScenarioOverride{
	{"REPLAN", "SO2", 15, 1, models.SeverityCritical, "250.0", "Pico anômalo confirmado pela equipe de campo", "J. Santos"},
	{"REPLAN", "SO2", 10, 2, models.SeverityWarning, "180.0", "Interferência de manutenção programada", "J. Santos"},
	{"REPLAN", "SO2", 5, 3, models.SeverityWarning, "125.0", "Leitura instável após religamento", "M. Ferreira"},
	{"REVAP", "NO2", 30, 4, models.SeverityWarning, "190.0", "Obstrução temporária do amostrador", "A. Lima"},
	{"RECAP", "MP10", 20, 5, models.SeverityCritical, "310.0", "Ressuspensão de poeira por obras vizinhas", "C. Rocha"},
	{"RECAP", "MP10", 8, 6, models.SeverityInfo, "150.0", "Evento pontual sem persistência", "C. Rocha"},
}

// LookupProfile resolves the generation profile for a pair. The second
// return reports whether the pair was found; on a miss the default profile
// is returned so generation always proceeds.
func LookupProfile(station, parameter string) (Profile, bool) {
	if p, ok := profiles[pairKey{station, parameter}]; ok {
		return p, true
	}
	return profiles[pairKey{DefaultStation, DefaultParameter}], false
}

// Overrides returns the scenario overrides for a pair, or nil when the pair
// has no scripted anomalies.
func Overrides(station, parameter string) []ScenarioOverride {
	var out []ScenarioOverride
	for _, ov := range overrides {
		if ov.Station == station && ov.Parameter == parameter {
			out = append(out, ov)
		}
	}
	return out
}

// OverrideByAlertID resolves the scenario override bound to an alert.
func OverrideByAlertID(alertID int) (ScenarioOverride, bool) {
	for _, ov := range overrides {
		if ov.AlertID == alertID {
			return ov, true
		}
	}
	return ScenarioOverride{}, false
}

// AllOverrides returns the full scenario table in alert-id order.
func AllOverrides() []ScenarioOverride {
	out := make([]ScenarioOverride, len(overrides))
	copy(out, overrides)
	sort.Slice(out, func(i, j int) bool { return out[i].AlertID < out[j].AlertID })
	return out
}

// Stations lists the known station codes, sorted.
func Stations() []string {
	seen := map[string]bool{}
	var out []string
	for k := range profiles {
		if !seen[k.Station] {
			seen[k.Station] = true
			out = append(out, k.Station)
		}
	}
	sort.Strings(out)
	return out
}

// Parameters lists the parameters measured at a station, sorted.
func Parameters(station string) []string {
	var out []string
	for k := range profiles {
		if k.Station == station {
			out = append(out, k.Parameter)
		}
	}
	sort.Strings(out)
	return out
}
