package workflow

import (
	"fmt"

	"github.com/hrsaas/transferd/internal/model"
)

// ValidationError reports a missing or malformed field. It is raised before
// any persistence call and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports an action that is illegal for the
// request's current status.
type InvalidTransitionError struct {
	Action Action
	Status model.TransferStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a transfer in status %s", e.Action, e.Status)
}

// HandoverIncompleteError is returned by completion under the strict
// handover policy while checklist items remain open.
type HandoverIncompleteError struct {
	Completed int
	Total     int
}

func (e *HandoverIncompleteError) Error() string {
	return fmt.Sprintf("handover checklist incomplete: %d of %d items done", e.Completed, e.Total)
}
