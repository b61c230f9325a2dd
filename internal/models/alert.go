package models

// Severity classifies an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert is a flagged anomalous reading awaiting operator review. Each alert
// is bound to exactly one reading in a generated series via the reading's
// AlertID field.
type Alert struct {
	ID        int      `json:"id"`
	Severity  Severity `json:"severity"`
	Station   string   `json:"station"`
	Parameter string   `json:"parameter"`
	RaisedAt  string   `json:"raised_at"`
	Value     string   `json:"value"`
	Resolved  bool     `json:"resolved"`
}
