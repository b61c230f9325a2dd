package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRunsToCompletion(t *testing.T) {
	ctx := context.Background()
	svc := NewImportService(newTestLogger(), testMetrics, time.Millisecond, 25)

	jobID := svc.Begin(ctx, "REPLAN", "SO2", "leituras_2025.csv")
	require.NotEmpty(t, jobID)

	events, err := svc.Watch(jobID)
	require.NoError(t, err)

	var last ProgressEvent
	var prev int
	for ev := range events {
		assert.GreaterOrEqual(t, ev.Percent, prev, "progress must be monotonic")
		prev = ev.Percent
		last = ev
	}

	assert.True(t, last.Done)
	assert.Equal(t, ImportCompleted, last.State)
	assert.Equal(t, 100, last.Percent)
	assert.GreaterOrEqual(t, last.RecordCount, 200)
	assert.Less(t, last.RecordCount, 2000)

	status, err := svc.Snapshot(jobID)
	require.NoError(t, err)
	assert.Equal(t, ImportCompleted, status.State)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, last.RecordCount, status.RecordCount)
	assert.Equal(t, "leituras_2025.csv", status.FileName)
}

func TestImportCancel(t *testing.T) {
	ctx := context.Background()
	// A tick interval far beyond the test's lifetime: the job only ever sees
	// the cancellation.
	svc := NewImportService(newTestLogger(), testMetrics, time.Hour, 10)

	jobID := svc.Begin(ctx, "REVAP", "NO2", "leituras_2025.csv")
	events, err := svc.Watch(jobID)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, jobID))

	var last ProgressEvent
	for ev := range events {
		last = ev
	}
	assert.True(t, last.Done)
	assert.Equal(t, ImportCancelled, last.State)
	assert.Zero(t, last.RecordCount)

	status, err := svc.Snapshot(jobID)
	require.NoError(t, err)
	assert.Equal(t, ImportCancelled, status.State)

	// Cancelling a finished job is a no-op.
	assert.NoError(t, svc.Cancel(ctx, jobID))
}

func TestImportCancellationLeavesSeriesUntouched(t *testing.T) {
	ctx := context.Background()
	monitor := NewMonitorService(nil, newTestLogger(), testMetrics)
	before := monitor.Summary()

	imports := NewImportService(newTestLogger(), testMetrics, time.Hour, 10)
	jobID := imports.Begin(ctx, "REPLAN", "SO2", "leituras_2025.csv")
	require.NoError(t, imports.Cancel(ctx, jobID))

	events, err := imports.Watch(jobID)
	require.NoError(t, err)
	for range events {
	}

	assert.Equal(t, before, monitor.Summary())
}

func TestImportUnknownJob(t *testing.T) {
	svc := NewImportService(newTestLogger(), testMetrics, time.Millisecond, 50)

	_, err := svc.Watch("missing")
	assert.ErrorIs(t, err, ErrImportNotFound)

	_, err = svc.Snapshot("missing")
	assert.ErrorIs(t, err, ErrImportNotFound)

	assert.ErrorIs(t, svc.Cancel(context.Background(), "missing"), ErrImportNotFound)
}

func TestImportDefaultsGuardBadSettings(t *testing.T) {
	svc := NewImportService(newTestLogger(), testMetrics, 0, 0)
	assert.Equal(t, 150*time.Millisecond, svc.tickInterval)
	assert.Equal(t, 10, svc.stepPercent)

	svc = NewImportService(newTestLogger(), testMetrics, time.Second, 150)
	assert.Equal(t, 10, svc.stepPercent)
}
