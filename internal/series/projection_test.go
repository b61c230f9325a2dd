package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airquality-platform/internal/models"
)

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("pending")
	assert.True(t, ok)
	assert.Equal(t, TabPending, tab)

	tab, ok = ParseTab("history")
	assert.False(t, ok)
	assert.Equal(t, TabExplorer, tab)
}

func TestValidPageSize(t *testing.T) {
	for _, n := range []int{10, 20, 50, 100} {
		assert.True(t, ValidPageSize(n))
	}
	for _, n := range []int{0, 1, 25, 1000} {
		assert.False(t, ValidPageSize(n))
	}
}

func TestFilterTab(t *testing.T) {
	rows := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	pending := FilterTab(rows, TabPending)
	require.Len(t, pending, 3)
	for _, r := range pending {
		assert.Equal(t, models.StatusPending, r.Status)
	}

	all := FilterTab(rows, TabExplorer)
	require.Len(t, all, len(rows))

	// Explorer returns a copy; mutating it must not leak into the source.
	all[0].FinalValue = "99.9"
	assert.NotEqual(t, "99.9", rows[0].FinalValue)
}

func TestPaginate(t *testing.T) {
	rows := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	tests := []struct {
		name       string
		page       int
		size       int
		wantPage   int
		wantTotal  int
		wantOnPage int
		wantFirst  int
	}{
		{"first page of ten", 1, 10, 1, 12, 10, 1},
		{"last page of fifty", 3, 50, 3, 3, 20, 101},
		{"single full page", 1, 100, 1, 2, 100, 1},
		{"page beyond end clamps", 999, 20, 6, 6, 20, 101},
		{"page zero clamps to first", 0, 10, 1, 12, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pageRows, page, total := Paginate(rows, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, pageRows, tt.wantOnPage)
			assert.Equal(t, tt.wantFirst, pageRows[0].ID)
		})
	}
}

func TestPaginateCoversEveryRowExactlyOnce(t *testing.T) {
	rows := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	for _, size := range PageSizes {
		seen := 0
		_, _, total := Paginate(rows, 1, size)
		for page := 1; page <= total; page++ {
			pageRows, _, _ := Paginate(rows, page, size)
			seen += len(pageRows)
		}
		assert.Equal(t, len(rows), seen, "size %d", size)
	}
}

func TestPaginateEmpty(t *testing.T) {
	pageRows, page, total := Paginate(nil, 1, 10)
	assert.Empty(t, pageRows)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, total)
}

func TestSummarize(t *testing.T) {
	rows := Generate("REPLAN", "SO2", models.PeriodLast24h, nil)

	s := Summarize(rows)
	assert.Equal(t, 120, s.Total)
	assert.Equal(t, 117, s.Valid)
	assert.Equal(t, 3, s.Pending)
	assert.Equal(t, 0, s.Invalid)
	assert.InDelta(t, 117.0/120.0, s.ApprovalRate, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestChartSeries(t *testing.T) {
	rows := []models.Reading{
		rawReading(1, "2025-03-18 13:00", "10.0", models.StatusValid),
		rawReading(2, "2025-03-18 13:01", "250.0", models.StatusPending),
		rawReading(3, "2025-03-18 13:02", "20.0", models.StatusInvalid),
	}

	points := ChartSeries(rows)
	require.Len(t, points, 3)

	require.NotNil(t, points[0].Value)
	assert.Equal(t, 10.0, *points[0].Value)
	assert.Equal(t, models.StatusValid, points[0].Status)

	require.NotNil(t, points[1].Value)
	assert.Equal(t, 250.0, *points[1].Value)

	// Invalid rows project a gap, not a zero.
	assert.Nil(t, points[2].Value)
	assert.Equal(t, models.StatusInvalid, points[2].Status)
}
