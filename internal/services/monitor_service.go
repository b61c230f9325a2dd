package services

import (
	"context"
	"sync"
	"time"

	"airquality-platform/internal/alerts"
	"airquality-platform/internal/catalog"
	"airquality-platform/internal/models"
	"airquality-platform/internal/repository"
	"airquality-platform/internal/series"
	"airquality-platform/pkg/logging"
	"airquality-platform/pkg/metrics"
)

// Selection is the single active (station, parameter, period, granularity)
// choice. Changing station, parameter or period regenerates the series and
// discards prior validation mutations; changing granularity re-derives the
// working set from the untouched original.
type Selection struct {
	Station     string             `json:"station"`
	Parameter   string             `json:"parameter"`
	Period      models.Period      `json:"period"`
	Granularity models.Granularity `json:"granularity"`
}

// ViewState is the current table scope and pagination cursor.
type ViewState struct {
	Tab      series.Tab `json:"tab"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ReadingsPage is one paginated slice of the tab-filtered working set.
type ReadingsPage struct {
	Rows       []models.Reading `json:"rows"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// MonitorService owns the active monitoring session: the original and
// working series, the alert registry, the view state, and the audit trail of
// every validation transition. All operations are synchronous in-memory
// transforms; the mutex only shields them from concurrent HTTP requests.
type MonitorService struct {
	mu        sync.Mutex
	registry  *alerts.Registry
	audit     repository.AuditRepository
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
	state     series.State
	selection Selection
	view      ViewState
}

// NewMonitorService creates a session pre-selected on the default station
// and parameter. audit may be nil when no journal backend is configured
// (events are then only logged).
func NewMonitorService(audit repository.AuditRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *MonitorService {
	s := &MonitorService{
		registry: alerts.NewRegistry(),
		audit:    audit,
		logger:   logger,
		metrics:  metricsCollector,
		selection: Selection{
			Station:     catalog.DefaultStation,
			Parameter:   catalog.DefaultParameter,
			Period:      models.PeriodLast24h,
			Granularity: models.GranularityNative,
		},
		view: ViewState{Tab: series.TabExplorer, Page: 1, PageSize: series.PageSizes[0]},
	}
	s.regenerate(context.Background())
	return s
}

// Select replaces the active (station, parameter, period) triple. The prior
// series and its validation mutations are discarded; resolved alerts are
// remembered and surface as already-invalid scenario rows.
func (s *MonitorService) Select(ctx context.Context, station, parameter string, period models.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exact := catalog.LookupProfile(station, parameter); !exact {
		s.metrics.ProfileFallbacksTotal.Inc()
		s.logger.Warn(ctx, "[SELECT_FALLBACK] Unknown station/parameter pair, using default profile", logging.Fields{
			"station":   station,
			"parameter": parameter,
		})
	}

	s.selection.Station = station
	s.selection.Parameter = parameter
	s.selection.Period = models.ParsePeriod(string(period))
	s.view.Page = 1
	s.regenerate(ctx)

	s.logger.Info(ctx, "[SELECT] Series regenerated", logging.Fields{
		"station":   s.selection.Station,
		"parameter": s.selection.Parameter,
		"period":    s.selection.Period,
		"points":    len(s.state.Original),
	})
}

// SetGranularity re-derives the working set at the requested bucket width.
func (s *MonitorService) SetGranularity(ctx context.Context, granularity models.Granularity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Granularity = granularity
	s.view.Page = 1
	s.deriveWorking()

	s.logger.Debug(ctx, "[GRANULARITY] Working set re-derived", logging.Fields{
		"granularity": granularity,
		"rows":        len(s.state.Working),
	})
}

// SetTab switches the table scope and resets the page cursor.
func (s *MonitorService) SetTab(tab series.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.Tab != tab {
		s.view.Tab = tab
		s.view.Page = 1
	}
}

// SetPageSize changes the page size and resets the page cursor. Sizes
// outside the accepted set are ignored.
func (s *MonitorService) SetPageSize(size int) bool {
	if !series.ValidPageSize(size) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.PageSize != size {
		s.view.PageSize = size
		s.view.Page = 1
	}
	return true
}

// SetPage moves the page cursor. Out-of-range pages clamp on read.
func (s *MonitorService) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page >= 1 {
		s.view.Page = page
	}
}

// Readings returns the current page of the tab-filtered working set.
func (s *MonitorService) Readings() ReadingsPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := series.FilterTab(s.state.Working, s.view.Tab)
	rows, page, totalPages := series.Paginate(filtered, s.view.Page, s.view.PageSize)
	s.view.Page = page

	return ReadingsPage{
		Rows:       rows,
		Total:      len(filtered),
		Page:       page,
		PageSize:   s.view.PageSize,
		TotalPages: totalPages,
	}
}

// Summary recomputes the status counters over the full working set.
func (s *MonitorService) Summary() series.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return series.Summarize(s.state.Working)
}

// Chart projects the full working set into chart samples.
func (s *MonitorService) Chart() []series.ChartPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return series.ChartSeries(s.state.Working)
}

// Selection returns the active selection.
func (s *MonitorService) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// View returns the current view state.
func (s *MonitorService) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Invalidate marks one reading invalid with a mandatory justification,
// resolves its bound alert if any, and journals the transition.
func (s *MonitorService) Invalidate(ctx context.Context, id int, justification, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alertID, err := series.Invalidate(s.state.Working, id, justification, actor)
	if err != nil {
		s.recordRejection(err)
		return err
	}

	s.metrics.RecordValidationOp("invalidate")
	if alertID != nil {
		s.registry.Resolve(*alertID)
		s.metrics.RecordAlertResolution("resolve")
	}
	s.journal(ctx, repository.ActionInvalidate, id, justification, actor, alertID)

	s.logger.Info(ctx, "[INVALIDATE] Reading invalidated", logging.Fields{
		"reading_id": id,
		"operator":   actor,
		"alert_id":   alertID,
	})
	return nil
}

// InvalidateBatch invalidates every listed reading under one shared
// justification. Each distinct bound alert is resolved exactly once no
// matter how many selected rows reference it.
func (s *MonitorService) InvalidateBatch(ctx context.Context, ids []int, justification, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Capture the ids that exist before mutation so the journal only
	// records rows that actually transitioned.
	var affected []int
	for _, id := range ids {
		for i := range s.state.Working {
			if s.state.Working[i].ID == id {
				affected = append(affected, id)
				break
			}
		}
	}

	resolved, err := series.InvalidateBatch(s.state.Working, ids, justification, actor)
	if err != nil {
		s.recordRejection(err)
		return err
	}

	s.metrics.RecordValidationOp("invalidate_batch")
	for _, alertID := range resolved {
		s.registry.Resolve(alertID)
		s.metrics.RecordAlertResolution("resolve")
	}
	for _, id := range affected {
		var bound *int
		for i := range s.state.Working {
			if s.state.Working[i].ID == id {
				bound = s.state.Working[i].AlertID
				break
			}
		}
		s.journal(ctx, repository.ActionInvalidate, id, justification, actor, bound)
	}

	s.logger.Info(ctx, "[INVALIDATE_BATCH] Readings invalidated", logging.Fields{
		"requested":       len(ids),
		"affected":        len(affected),
		"alerts_resolved": len(resolved),
		"operator":        actor,
	})
	return nil
}

// Revert restores a reading to its generated state. Reverts are only
// meaningful at native granularity: aggregated rows carry reassigned ids
// with no 1:1 original counterpart and are rejected.
func (s *MonitorService) Revert(ctx context.Context, id int, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.Granularity != models.GranularityNative {
		s.recordRejection(series.ErrRevertAggregated)
		return series.ErrRevertAggregated
	}

	alertID, err := series.Revert(s.state.Working, id, s.state.Original)
	if err != nil {
		s.recordRejection(err)
		return err
	}

	s.metrics.RecordValidationOp("revert")
	if alertID != nil {
		s.registry.Unresolve(*alertID)
		s.metrics.RecordAlertResolution("unresolve")
	}
	if actor == "" {
		actor = models.NoValue
	}
	s.journal(ctx, repository.ActionRevert, id, models.NoValue, actor, alertID)

	s.logger.Info(ctx, "[REVERT] Reading restored to generated state", logging.Fields{
		"reading_id": id,
		"operator":   actor,
		"alert_id":   alertID,
	})
	return nil
}

// Alerts lists the scenario alert catalog for the active station/parameter
// universe with per-alert resolution flags.
func (s *MonitorService) Alerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides := catalog.AllOverrides()
	out := make([]models.Alert, 0, len(overrides))
	for _, ov := range overrides {
		raisedAt := series.Anchor.Add(-time.Duration(ov.OffsetMinutes) * time.Minute)
		out = append(out, models.Alert{
			ID:        ov.AlertID,
			Severity:  ov.Severity,
			Station:   ov.Station,
			Parameter: ov.Parameter,
			RaisedAt:  raisedAt.Format(models.TimeLayout),
			Value:     ov.Value,
			Resolved:  s.registry.IsResolved(ov.AlertID),
		})
	}
	return out
}

// regenerate rebuilds the original series for the active selection and
// re-derives the working set. Caller holds the lock.
func (s *MonitorService) regenerate(ctx context.Context) {
	timer := s.metrics.NewTimer(s.metrics.GenerationDuration)
	s.state.Original = series.Generate(
		s.selection.Station,
		s.selection.Parameter,
		s.selection.Period,
		s.registry.Resolved(),
	)
	timer.ObserveDuration()
	s.metrics.SeriesGeneratedTotal.WithLabelValues(string(s.selection.Period)).Inc()
	s.deriveWorking()
}

// deriveWorking rebuilds the working set from the original: resolved alerts
// render invalid first, then the result is aggregated. Caller holds the
// lock.
func (s *MonitorService) deriveWorking() {
	base := series.ApplyResolvedAlerts(s.state.Original, s.registry.Resolved())
	timer := s.metrics.NewTimer(s.metrics.AggregationDuration.WithLabelValues(string(s.selection.Granularity)))
	s.state.Working = series.Aggregate(base, s.selection.Granularity)
	timer.ObserveDuration()
}

func (s *MonitorService) recordRejection(err error) {
	switch err {
	case series.ErrJustificationRequired:
		s.metrics.RecordValidationRejected("missing_justification")
	case series.ErrRevertAggregated:
		s.metrics.RecordValidationRejected("aggregated_revert")
	case series.ErrRevertUnknownReading:
		s.metrics.RecordValidationRejected("unknown_original")
	case series.ErrReadingNotFound:
		s.metrics.RecordValidationRejected("not_found")
	default:
		s.metrics.RecordValidationRejected("other")
	}
}

// journal appends an audit event. Journal failures are logged and swallowed:
// the in-memory mutation already happened and stands.
func (s *MonitorService) journal(ctx context.Context, action string, readingID int, justification, operator string, alertID *int) {
	if s.audit == nil {
		return
	}
	event := &repository.AuditEvent{
		ReadingID:     readingID,
		Station:       s.selection.Station,
		Parameter:     s.selection.Parameter,
		Granularity:   string(s.selection.Granularity),
		Action:        action,
		Justification: justification,
		Operator:      operator,
		AlertID:       alertID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.audit.RecordEvent(ctx, event); err != nil {
		s.logger.Error(ctx, "[AUDIT_WRITE_ERROR] Failed to journal validation event", logging.Fields{
			"reading_id": readingID,
			"action":     action,
		}, err)
	}
}
