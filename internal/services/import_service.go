package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"airquality-platform/pkg/logging"
	"airquality-platform/pkg/metrics"
)

// ImportState is the lifecycle state of an import job.
type ImportState string

const (
	ImportRunning   ImportState = "running"
	ImportCompleted ImportState = "completed"
	ImportCancelled ImportState = "cancelled"
)

// ErrImportNotFound reports an unknown job id.
var ErrImportNotFound = errors.New("import job not found")

// ProgressEvent is one tick of an import job's progress stream. The terminal
// event carries Done and, for completed jobs, the record count.
type ProgressEvent struct {
	Percent     int         `json:"percent"`
	State       ImportState `json:"state"`
	Done        bool        `json:"done"`
	RecordCount int         `json:"record_count,omitempty"`
}

// ImportStatus is a point-in-time snapshot of a job.
type ImportStatus struct {
	ID          string      `json:"id"`
	Station     string      `json:"station"`
	Parameter   string      `json:"parameter"`
	FileName    string      `json:"file_name"`
	Progress    int         `json:"progress"`
	State       ImportState `json:"state"`
	RecordCount int         `json:"record_count"`
	StartedAt   time.Time   `json:"started_at"`
}

type importJob struct {
	mu          sync.Mutex
	id          string
	station     string
	parameter   string
	fileName    string
	progress    int
	state       ImportState
	recordCount int
	startedAt   time.Time
	cancel      context.CancelFunc
	events      chan ProgressEvent
}

// ImportService simulates the external file-import pipeline: progress
// advances on a timer and completion reports a record count. The pipeline
// never touches the reading series; its merge semantics stay an open
// interface, and cancellation is a pure no-op on core state.
type ImportService struct {
	mu           sync.Mutex
	jobs         map[string]*importJob
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
	tickInterval time.Duration
	stepPercent  int
}

// NewImportService creates an import service advancing stepPercent per tick.
func NewImportService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector, tickInterval time.Duration, stepPercent int) *ImportService {
	if tickInterval <= 0 {
		tickInterval = 150 * time.Millisecond
	}
	if stepPercent < 1 || stepPercent > 100 {
		stepPercent = 10
	}
	return &ImportService{
		jobs:         make(map[string]*importJob),
		logger:       logger,
		metrics:      metricsCollector,
		tickInterval: tickInterval,
		stepPercent:  stepPercent,
	}
}

// Begin starts a simulated import for a (station, parameter, file) tuple and
// returns the job id.
func (s *ImportService) Begin(ctx context.Context, station, parameter, fileName string) string {
	jobCtx, cancel := context.WithCancel(context.Background())

	// Buffer every possible tick so a job never blocks on a slow or absent
	// consumer.
	job := &importJob{
		id:        uuid.NewString(),
		station:   station,
		parameter: parameter,
		fileName:  fileName,
		state:     ImportRunning,
		startedAt: time.Now().UTC(),
		cancel:    cancel,
		events:    make(chan ProgressEvent, 100/s.stepPercent+2),
	}

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	s.logger.Info(ctx, "[IMPORT_START] Import job started", logging.Fields{
		"job_id":    job.id,
		"station":   station,
		"parameter": parameter,
		"file_name": fileName,
	})

	go s.run(jobCtx, job)
	return job.id
}

// run advances the job's progress until completion or cancellation.
func (s *ImportService) run(ctx context.Context, job *importJob) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	defer close(job.events)

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			job.mu.Lock()
			job.state = ImportCancelled
			percent := job.progress
			job.mu.Unlock()
			job.events <- ProgressEvent{Percent: percent, State: ImportCancelled, Done: true}
			s.metrics.ImportJobsTotal.WithLabelValues(string(ImportCancelled)).Inc()
			return
		case <-ticker.C:
			job.mu.Lock()
			job.progress += s.stepPercent
			if job.progress < 100 {
				percent := job.progress
				job.mu.Unlock()
				job.events <- ProgressEvent{Percent: percent, State: ImportRunning}
				continue
			}
			job.progress = 100
			job.state = ImportCompleted
			job.recordCount = 200 + rand.Intn(1800)
			count := job.recordCount
			job.mu.Unlock()

			job.events <- ProgressEvent{Percent: 100, State: ImportCompleted, Done: true, RecordCount: count}
			s.metrics.ImportJobsTotal.WithLabelValues(string(ImportCompleted)).Inc()
			s.metrics.ImportJobDuration.Observe(time.Since(start).Seconds())
			s.metrics.ImportRecordsTotal.Add(float64(count))

			s.logger.Info(context.Background(), "[IMPORT_COMPLETE] Import job completed", logging.Fields{
				"job_id":       job.id,
				"record_count": count,
			})
			return
		}
	}
}

// Watch returns the job's progress stream. The channel is closed after the
// terminal event.
func (s *ImportService) Watch(jobID string) (<-chan ProgressEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrImportNotFound
	}
	return job.events, nil
}

// Snapshot returns the current state of a job.
func (s *ImportService) Snapshot(jobID string) (*ImportStatus, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrImportNotFound
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	return &ImportStatus{
		ID:          job.id,
		Station:     job.station,
		Parameter:   job.parameter,
		FileName:    job.fileName,
		Progress:    job.progress,
		State:       job.state,
		RecordCount: job.recordCount,
		StartedAt:   job.startedAt,
	}, nil
}

// Cancel stops a running job. Core series state is untouched; cancelling a
// finished job is a no-op.
func (s *ImportService) Cancel(ctx context.Context, jobID string) error {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return ErrImportNotFound
	}

	job.mu.Lock()
	running := job.state == ImportRunning
	job.mu.Unlock()
	if running {
		job.cancel()
		s.logger.Info(ctx, "[IMPORT_CANCEL] Import job cancelled", logging.Fields{
			"job_id": jobID,
		})
	}
	return nil
}
