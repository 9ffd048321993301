package plan

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a plan or an aggregation is built from zero records.
var ErrEmptyInput = errors.New("no benefit records")

// MetadataMismatchError reports a record whose plan metadata disagrees with the
// first record of the same plan.
type MetadataMismatchError struct {
	PlanID string
	Field  string
	Want   string
	Got    string
	// Index is the position of the offending record within the plan's records.
	Index int
}

func (e *MetadataMismatchError) Error() string {
	return fmt.Sprintf("plan %s: record %d has %s %q, expected %q",
		e.PlanID, e.Index, e.Field, e.Got, e.Want)
}

// DuplicatePlanIDError is returned by Index when two plans share a plan id.
type DuplicatePlanIDError struct {
	PlanID string
}

func (e *DuplicatePlanIDError) Error() string {
	return fmt.Sprintf("duplicate plan id %q", e.PlanID)
}

// IsMetadataMismatch reports whether err wraps a *MetadataMismatchError.
func IsMetadataMismatch(err error) bool {
	var mm *MetadataMismatchError
	return errors.As(err, &mm)
}
