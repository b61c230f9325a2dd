package series

import (
	"errors"
	"strings"

	"airquality-platform/internal/models"
)

// Validation state machine errors. All of them leave the working series
// untouched.
var (
	// ErrJustificationRequired rejects an invalidation with an empty
	// justification.
	ErrJustificationRequired = errors.New("justification is required to invalidate a reading")

	// ErrReadingNotFound reports an id absent from the working series.
	ErrReadingNotFound = errors.New("reading not found in working series")

	// ErrRevertUnknownReading reports a revert whose id has no counterpart
	// in the original series.
	ErrRevertUnknownReading = errors.New("reading has no counterpart in the original series")

	// ErrRevertAggregated rejects a revert against an aggregated row, whose
	// id was reassigned by the aggregator and no longer maps 1:1 to an
	// original reading.
	ErrRevertAggregated = errors.New("revert requires native granularity")
)

// State pairs the two series every session operates on: Original is the
// generator output, read-only once produced and the sole revert source;
// Working is the derived set the state machine mutates and the view renders.
type State struct {
	Original []models.Reading
	Working  []models.Reading
}

// Invalidate marks the reading with the given id invalid: final value
// becomes the sentinel, the justification is recorded and the acting
// operator attributed. Returns the bound alert id, if any, so the caller can
// resolve it.
func Invalidate(working []models.Reading, id int, justification, actor string) (*int, error) {
	if strings.TrimSpace(justification) == "" {
		return nil, ErrJustificationRequired
	}
	idx := indexByID(working, id)
	if idx < 0 {
		return nil, ErrReadingNotFound
	}

	r := &working[idx]
	r.Status = models.StatusInvalid
	r.FinalValue = models.NoValue
	r.Justification = justification
	r.Operator = actor

	if r.AlertID != nil {
		alertID := *r.AlertID
		return &alertID, nil
	}
	return nil, nil
}

// InvalidateBatch applies Invalidate to every reading whose id is in ids,
// sharing one justification. Ids with no matching reading are skipped. The
// returned alert ids are deduplicated: one entry per distinct bound alert,
// however many rows referenced it.
func InvalidateBatch(working []models.Reading, ids []int, justification, actor string) ([]int, error) {
	if strings.TrimSpace(justification) == "" {
		return nil, ErrJustificationRequired
	}

	seen := make(map[int]bool)
	var resolved []int
	for _, id := range ids {
		alertID, err := Invalidate(working, id, justification, actor)
		if errors.Is(err, ErrReadingNotFound) {
			continue
		}
		if err != nil {
			return resolved, err
		}
		if alertID != nil && !seen[*alertID] {
			seen[*alertID] = true
			resolved = append(resolved, *alertID)
		}
	}
	return resolved, nil
}

// Revert restores the reading with the given id verbatim from the original
// series: status, value, justification and operator all return to their
// generated state. Returns the bound alert id, if any, so the caller can
// reopen it. An id without an original counterpart is reported and left
// untouched.
func Revert(working []models.Reading, id int, original []models.Reading) (*int, error) {
	idx := indexByID(working, id)
	if idx < 0 {
		return nil, ErrReadingNotFound
	}
	origIdx := indexByID(original, id)
	if origIdx < 0 {
		return nil, ErrRevertUnknownReading
	}

	working[idx] = original[origIdx]
	if orig := original[origIdx]; orig.AlertID != nil {
		alertID := *orig.AlertID
		return &alertID, nil
	}
	return nil, nil
}

func indexByID(readings []models.Reading, id int) int {
	for i := range readings {
		if readings[i].ID == id {
			return i
		}
	}
	return -1
}
