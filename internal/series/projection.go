package series

import (
	"airquality-platform/internal/models"
)

// Tab scopes the table view.
type Tab string

const (
	// TabExplorer shows every row of the working set.
	TabExplorer Tab = "explorer"
	// TabPending shows only rows awaiting review.
	TabPending Tab = "pending"
)

// ParseTab maps a request value to a Tab.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabExplorer, TabPending:
		return Tab(s), true
	default:
		return TabExplorer, false
	}
}

// PageSizes are the page sizes the view accepts.
var PageSizes = []int{10, 20, 50, 100}

// ValidPageSize reports whether n is an accepted page size.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// FilterTab returns the rows visible under a tab.
func FilterTab(rows []models.Reading, tab Tab) []models.Reading {
	if tab != TabPending {
		out := make([]models.Reading, len(rows))
		copy(out, rows)
		return out
	}
	var out []models.Reading
	for _, r := range rows {
		if r.Status == models.StatusPending {
			out = append(out, r)
		}
	}
	return out
}

// Paginate slices rows for a 1-based page. Pages beyond the end clamp to the
// last page; an empty set yields an empty page 1 of 1 total page count 0.
func Paginate(rows []models.Reading, page, size int) (pageRows []models.Reading, clampedPage, totalPages int) {
	if size <= 0 {
		size = PageSizes[0]
	}
	totalPages = (len(rows) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return []models.Reading{}, page, totalPages
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], page, totalPages
}

// Summary holds the counters recomputed from the full working set on every
// mutation; the approval rate is valid/total.
type Summary struct {
	Total        int     `json:"total"`
	Valid        int     `json:"valid"`
	Invalid      int     `json:"invalid"`
	Pending      int     `json:"pending"`
	ApprovalRate float64 `json:"approval_rate"`
}

// Summarize counts statuses over the full (unpaginated) working set.
func Summarize(rows []models.Reading) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case models.StatusValid:
			s.Valid++
		case models.StatusInvalid:
			s.Invalid++
		case models.StatusPending:
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.ApprovalRate = float64(s.Valid) / float64(s.Total)
	}
	return s
}

// ChartPoint is one projected chart sample. Value is nil for invalid rows so
// the rendered line shows a gap instead of a zero.
type ChartPoint struct {
	Timestamp string        `json:"timestamp"`
	Value     *float64      `json:"value"`
	Status    models.Status `json:"status"`
}

// ChartSeries projects the working set into chart samples.
func ChartSeries(rows []models.Reading) []ChartPoint {
	out := make([]ChartPoint, len(rows))
	for i, r := range rows {
		p := ChartPoint{Timestamp: r.Timestamp, Status: r.Status}
		if v, ok := r.Value(); ok {
			value := v
			p.Value = &value
		}
		out[i] = p
	}
	return out
}
