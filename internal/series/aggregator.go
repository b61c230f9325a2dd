package series

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"airquality-platform/internal/models"
)

func parseValue(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Aggregate buckets a raw series into the requested granularity. Invalid
// readings are excluded from the average; buckets with no remaining readings
// are dropped; a bucket containing any pending reading yields a pending
// aggregate. Bucket timestamps are re-derived from the bucket key so
// boundaries stay aligned regardless of which member happened to be first,
// and ids are reassigned 1-based in chronological order.
//
// Aggregate must only be applied to a generator-produced series, never to
// previously aggregated rows.
func Aggregate(readings []models.Reading, granularity models.Granularity) []models.Reading {
	interval := granularity.IntervalMinutes()
	if interval == 0 {
		out := make([]models.Reading, len(readings))
		copy(out, readings)
		return out
	}

	type bucket struct {
		day     time.Time
		slot    int
		sum     float64
		count   int
		pending bool
		unit    string
	}

	buckets := make(map[string]*bucket)
	for i := range readings {
		r := &readings[i]
		ts, err := r.Time()
		if err != nil {
			continue
		}
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		slot := (ts.Hour()*60 + ts.Minute()) / interval

		// Zero-padded date plus slot keeps lexicographic order chronological.
		key := fmt.Sprintf("%s#%04d", day.Format("2006-01-02"), slot)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: day, slot: slot, unit: r.Unit}
			buckets[key] = b
		}

		if r.Status == models.StatusPending {
			b.pending = true
		}
		if r.Status == models.StatusInvalid {
			continue
		}
		v, err := parseValue(r.RawValue)
		if err != nil {
			continue
		}
		b.sum += v
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.Reading, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		if b.count == 0 {
			continue
		}
		mean := math.Round(b.sum/float64(b.count)*10) / 10
		value := models.FormatValue(mean)

		status := models.StatusValid
		if b.pending {
			status = models.StatusPending
		}

		start := b.day.Add(time.Duration(b.slot*interval) * time.Minute)
		out = append(out, models.Reading{
			ID:            len(out) + 1,
			Timestamp:     start.Format(models.TimeLayout),
			RawValue:      value,
			FinalValue:    value,
			Unit:          b.unit,
			Status:        status,
			Justification: models.NoValue,
			Operator:      models.NoValue,
		})
	}
	return out
}
