package repository

import (
	"context"
	"fmt"
	"time"

	"airquality-platform/pkg/database"
	"airquality-platform/pkg/logging"
	"airquality-platform/pkg/metrics"
)

// Audit actions recorded in the journal.
const (
	ActionInvalidate = "invalidate"
	ActionRevert     = "revert"
)

// AuditEvent is one journaled validation transition. The journal is
// append-only: it is the durable trace of who invalidated or reverted which
// reading and why, and it is never read back into series state.
type AuditEvent struct {
	ID            int64     `json:"id" db:"id"`
	ReadingID     int       `json:"reading_id" db:"reading_id"`
	Station       string    `json:"station" db:"station"`
	Parameter     string    `json:"parameter" db:"parameter"`
	Granularity   string    `json:"granularity" db:"granularity"`
	Action        string    `json:"action" db:"action"`
	Justification string    `json:"justification" db:"justification"`
	Operator      string    `json:"operator" db:"operator"`
	AlertID       *int      `json:"alert_id,omitempty" db:"alert_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AuditFilter defines filters for querying the journal
type AuditFilter struct {
	Station   *string
	Parameter *string
	Action    *string
	Limit     int
	Offset    int
}

// AuditRepository provides data access for the validation audit journal
type AuditRepository interface {
	RecordEvent(ctx context.Context, event *AuditEvent) error
	ListEvents(ctx context.Context, filter AuditFilter) ([]*AuditEvent, int, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	HealthCheck(ctx context.Context) error
}

// auditRepository implements AuditRepository
type auditRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) AuditRepository {
	return &auditRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// RecordEvent appends a validation transition to the journal
func (r *auditRepository) RecordEvent(ctx context.Context, event *AuditEvent) error {
	query := `
		INSERT INTO validation_audit (
			reading_id, station, parameter, granularity,
			action, justification, operator, alert_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		event.ReadingID,
		event.Station,
		event.Parameter,
		event.Granularity,
		event.Action,
		event.Justification,
		event.Operator,
		event.AlertID,
		event.CreatedAt,
	).Scan(&event.ID)

	if err != nil {
		r.metrics.RecordDBError("audit_insert_error")
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	r.metrics.RecordAuditEvent(event.Action)
	r.logger.Debug(ctx, "[AUDIT_RECORD] Audit event recorded", logging.Fields{
		"reading_id": event.ReadingID,
		"station":    event.Station,
		"parameter":  event.Parameter,
		"action":     event.Action,
		"operator":   event.Operator,
	})

	return nil
}

// ListEvents retrieves journal entries with filtering and pagination
func (r *auditRepository) ListEvents(ctx context.Context, filter AuditFilter) ([]*AuditEvent, int, error) {
	query := `
		SELECT id, reading_id, station, parameter, granularity,
		       action, justification, operator, alert_id, created_at
		FROM validation_audit
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Station != nil {
		query += fmt.Sprintf(" AND station = $%d", argNum)
		args = append(args, *filter.Station)
		argNum++
	}

	if filter.Parameter != nil {
		query += fmt.Sprintf(" AND parameter = $%d", argNum)
		args = append(args, *filter.Parameter)
		argNum++
	}

	if filter.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", argNum)
		args = append(args, *filter.Action)
		argNum++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_audit_events", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	// Add ordering and pagination
	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var events []*AuditEvent
	err = r.db.SelectContext(ctx, "list_audit_events", &events, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit events: %w", err)
	}

	return events, totalCount, nil
}

// PurgeOlderThan deletes journal entries created before the cutoff and
// returns the number of rows removed
func (r *auditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM validation_audit WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, "purge_audit_events", query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit events: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge result: %w", err)
	}

	if purged > 0 {
		r.metrics.AuditPurgedEventsTotal.Add(float64(purged))
		r.logger.Info(ctx, "[AUDIT_PURGE] Expired audit events removed", logging.Fields{
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}

	return purged, nil
}

// HealthCheck performs a repository health check
func (r *auditRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
