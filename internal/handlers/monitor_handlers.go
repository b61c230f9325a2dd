package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"airquality-platform/internal/catalog"
	"airquality-platform/internal/models"
	"airquality-platform/internal/repository"
	"airquality-platform/internal/series"
	"airquality-platform/internal/services"
	"airquality-platform/pkg/logging"
	"airquality-platform/pkg/metrics"
)

// MonitorHandler handles the monitoring dashboard API endpoints
type MonitorHandler struct {
	monitor  *services.MonitorService
	imports  *services.ImportService
	audit    repository.AuditRepository
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
	validate *validator.Validate
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(
	monitor *services.MonitorService,
	imports *services.ImportService,
	audit repository.AuditRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *MonitorHandler {
	return &MonitorHandler{
		monitor:  monitor,
		imports:  imports,
		audit:    audit,
		logger:   logger,
		metrics:  metricsCollector,
		validate: validator.New(),
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// SelectRequest selects the active station/parameter/period triple
type SelectRequest struct {
	Station   string `json:"station" validate:"required"`
	Parameter string `json:"parameter" validate:"required"`
	Period    string `json:"period"`
}

// GranularityRequest changes the aggregation bucket width
type GranularityRequest struct {
	Granularity string `json:"granularity" validate:"required"`
}

// ViewRequest adjusts tab, page or page size
type ViewRequest struct {
	Tab      string `json:"tab,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// InvalidateRequest invalidates a single reading
type InvalidateRequest struct {
	Justification string `json:"justification" validate:"required"`
	Actor         string `json:"actor" validate:"required"`
}

// InvalidateBatchRequest invalidates a selection of readings
type InvalidateBatchRequest struct {
	IDs           []int  `json:"ids" validate:"required,min=1,dive,gt=0"`
	Justification string `json:"justification" validate:"required"`
	Actor         string `json:"actor" validate:"required"`
}

// RevertRequest reverts an invalidated reading
type RevertRequest struct {
	Actor string `json:"actor"`
}

// ImportRequest starts a simulated file import
type ImportRequest struct {
	Station   string `json:"station" validate:"required"`
	Parameter string `json:"parameter" validate:"required"`
	FileName  string `json:"file_name" validate:"required"`
}

// GetStations handles GET /api/stations
func (h *MonitorHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	type stationInfo struct {
		Station    string   `json:"station"`
		Parameters []string `json:"parameters"`
	}

	stations := catalog.Stations()
	out := make([]stationInfo, 0, len(stations))
	for _, st := range stations {
		out = append(out, stationInfo{Station: st, Parameters: catalog.Parameters(st)})
	}

	h.metrics.RecordAPIRequest("/api/stations", "GET", "200")
	h.sendJSON(w, out, http.StatusOK)
}

// GetSession handles GET /api/session
func (h *MonitorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"selection": h.monitor.Selection(),
		"view":      h.monitor.View(),
	}
	h.metrics.RecordAPIRequest("/api/session", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// SelectSeries handles POST /api/session/select
func (h *MonitorHandler) SelectSeries(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.monitor.Select(r.Context(), req.Station, req.Parameter, models.ParsePeriod(req.Period))

	h.metrics.RecordAPIRequest("/api/session/select", "POST", "200")
	h.sendJSON(w, map[string]interface{}{"selection": h.monitor.Selection()}, http.StatusOK)
}

// SetGranularity handles PUT /api/session/granularity
func (h *MonitorHandler) SetGranularity(w http.ResponseWriter, r *http.Request) {
	var req GranularityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	granularity, ok := models.ParseGranularity(req.Granularity)
	if !ok {
		h.sendError(w, r, "unknown granularity, expected one of: native, 15min, 1h, 1d", http.StatusBadRequest)
		return
	}

	h.monitor.SetGranularity(r.Context(), granularity)

	h.metrics.RecordAPIRequest("/api/session/granularity", "PUT", "200")
	h.sendJSON(w, map[string]interface{}{"selection": h.monitor.Selection()}, http.StatusOK)
}

// SetView handles PUT /api/session/view
func (h *MonitorHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if req.Tab != "" {
		tab, ok := series.ParseTab(req.Tab)
		if !ok {
			h.sendError(w, r, "unknown tab, expected explorer or pending", http.StatusBadRequest)
			return
		}
		h.monitor.SetTab(tab)
	}
	if req.PageSize != 0 {
		if !h.monitor.SetPageSize(req.PageSize) {
			h.sendError(w, r, "invalid page size, expected one of: 10, 20, 50, 100", http.StatusBadRequest)
			return
		}
	}
	if req.Page != 0 {
		h.monitor.SetPage(req.Page)
	}

	h.metrics.RecordAPIRequest("/api/session/view", "PUT", "200")
	h.sendJSON(w, map[string]interface{}{"view": h.monitor.View()}, http.StatusOK)
}

// GetReadings handles GET /api/readings
func (h *MonitorHandler) GetReadings(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/readings").Observe(time.Since(startTime).Seconds())
	}()

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			h.monitor.SetPage(p)
		}
	}

	page := h.monitor.Readings()

	response := PaginatedResponse{
		Data:       page.Rows,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.PageSize,
		TotalPages: page.TotalPages,
	}

	h.metrics.RecordAPIRequest("/api/readings", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetSummary handles GET /api/readings/summary
func (h *MonitorHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAPIRequest("/api/readings/summary", "GET", "200")
	h.sendJSON(w, h.monitor.Summary(), http.StatusOK)
}

// GetChart handles GET /api/readings/chart
func (h *MonitorHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAPIRequest("/api/readings/chart", "GET", "200")
	h.sendJSON(w, h.monitor.Chart(), http.StatusOK)
}

// GetAlerts handles GET /api/alerts
func (h *MonitorHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAPIRequest("/api/alerts", "GET", "200")
	h.sendJSON(w, h.monitor.Alerts(), http.StatusOK)
}

// InvalidateReading handles POST /api/readings/{id}/invalidate
func (h *MonitorHandler) InvalidateReading(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req InvalidateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.monitor.Invalidate(r.Context(), id, req.Justification, req.Actor); err != nil {
		h.sendValidationError(w, r, err)
		return
	}

	h.metrics.RecordAPIRequest(r.URL.Path, "POST", "200")
	h.sendJSON(w, h.monitor.Summary(), http.StatusOK)
}

// InvalidateBatch handles POST /api/readings/invalidate-batch
func (h *MonitorHandler) InvalidateBatch(w http.ResponseWriter, r *http.Request) {
	var req InvalidateBatchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.monitor.InvalidateBatch(r.Context(), req.IDs, req.Justification, req.Actor); err != nil {
		h.sendValidationError(w, r, err)
		return
	}

	h.metrics.RecordAPIRequest("/api/readings/invalidate-batch", "POST", "200")
	h.sendJSON(w, h.monitor.Summary(), http.StatusOK)
}

// RevertReading handles POST /api/readings/{id}/revert
func (h *MonitorHandler) RevertReading(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req RevertRequest
	// Revert has no mandatory body; a missing one means an unattributed revert.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.monitor.Revert(r.Context(), id, req.Actor); err != nil {
		h.sendValidationError(w, r, err)
		return
	}

	h.metrics.RecordAPIRequest(r.URL.Path, "POST", "200")
	h.sendJSON(w, h.monitor.Summary(), http.StatusOK)
}

// GetAuditTrail handles GET /api/audit
func (h *MonitorHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/audit").Observe(time.Since(startTime).Seconds())
	}()

	if h.audit == nil {
		h.sendError(w, r, "audit journal is not configured", http.StatusServiceUnavailable)
		return
	}

	page := 1
	limit := 100

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	filter := repository.AuditFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if station := r.URL.Query().Get("station"); station != "" {
		filter.Station = &station
	}
	if parameter := r.URL.Query().Get("parameter"); parameter != "" {
		filter.Parameter = &parameter
	}
	if action := r.URL.Query().Get("action"); action != "" {
		if action != repository.ActionInvalidate && action != repository.ActionRevert {
			h.sendError(w, r, "unknown action, expected invalidate or revert", http.StatusBadRequest)
			return
		}
		filter.Action = &action
	}

	events, total, err := h.audit.ListEvents(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_AUDIT_ERROR] Failed to list audit events", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/audit")
		h.sendError(w, r, "failed to retrieve audit trail", http.StatusInternalServerError)
		return
	}

	response := PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}

	h.metrics.RecordAPIRequest("/api/audit", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// BeginImport handles POST /api/imports
func (h *MonitorHandler) BeginImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	jobID := h.imports.Begin(r.Context(), req.Station, req.Parameter, req.FileName)

	h.metrics.RecordAPIRequest("/api/imports", "POST", "202")
	h.sendJSON(w, map[string]string{"job_id": jobID}, http.StatusAccepted)
}

// GetImport handles GET /api/imports/{id}
func (h *MonitorHandler) GetImport(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	status, err := h.imports.Snapshot(jobID)
	if err != nil {
		h.sendError(w, r, "import job not found", http.StatusNotFound)
		return
	}

	h.metrics.RecordAPIRequest("/api/imports/{id}", "GET", "200")
	h.sendJSON(w, status, http.StatusOK)
}

// CancelImport handles DELETE /api/imports/{id}
func (h *MonitorHandler) CancelImport(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if err := h.imports.Cancel(r.Context(), jobID); err != nil {
		h.sendError(w, r, "import job not found", http.StatusNotFound)
		return
	}

	h.metrics.RecordAPIRequest("/api/imports/{id}", "DELETE", "200")
	h.sendJSON(w, map[string]string{"status": "cancelled"}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *MonitorHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.audit != nil {
		if err := h.audit.HealthCheck(ctx); err != nil {
			h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Audit journal unreachable", logging.Fields{}, err)
			status["status"] = "degraded"
			h.sendJSON(w, status, http.StatusServiceUnavailable)
			return
		}
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// pathID parses the {id} path variable
func (h *MonitorHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		h.sendError(w, r, "invalid reading id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into dst and applies struct
// validation, writing the error response on failure.
func (h *MonitorHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.sendError(w, r, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.sendError(w, r, err.Error(), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

// sendValidationError maps state machine errors to HTTP statuses
func (h *MonitorHandler) sendValidationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, series.ErrJustificationRequired):
		h.sendError(w, r, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, series.ErrReadingNotFound):
		h.sendError(w, r, err.Error(), http.StatusNotFound)
	case errors.Is(err, series.ErrRevertUnknownReading),
		errors.Is(err, series.ErrRevertAggregated):
		h.sendError(w, r, err.Error(), http.StatusConflict)
	default:
		h.metrics.RecordAPIError("internal_error", r.URL.Path)
		h.sendError(w, r, "internal error", http.StatusInternalServerError)
	}
}

// sendJSON sends a JSON response
func (h *MonitorHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *MonitorHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all monitoring API routes
func (h *MonitorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stations", h.GetStations).Methods("GET")
	router.HandleFunc("/api/session", h.GetSession).Methods("GET")
	router.HandleFunc("/api/session/select", h.SelectSeries).Methods("POST")
	router.HandleFunc("/api/session/granularity", h.SetGranularity).Methods("PUT")
	router.HandleFunc("/api/session/view", h.SetView).Methods("PUT")
	router.HandleFunc("/api/readings", h.GetReadings).Methods("GET")
	router.HandleFunc("/api/readings/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/api/readings/chart", h.GetChart).Methods("GET")
	router.HandleFunc("/api/readings/invalidate-batch", h.InvalidateBatch).Methods("POST")
	router.HandleFunc("/api/readings/{id}/invalidate", h.InvalidateReading).Methods("POST")
	router.HandleFunc("/api/readings/{id}/revert", h.RevertReading).Methods("POST")
	router.HandleFunc("/api/alerts", h.GetAlerts).Methods("GET")
	router.HandleFunc("/api/audit", h.GetAuditTrail).Methods("GET")
	router.HandleFunc("/api/imports", h.BeginImport).Methods("POST")
	router.HandleFunc("/api/imports/{id}", h.GetImport).Methods("GET")
	router.HandleFunc("/api/imports/{id}", h.CancelImport).Methods("DELETE")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
