// Package workflow owns the transfer request state machine: which actions
// are legal in which status, what each transition records on the aggregate,
// and the derived permissions exposed to callers. It performs no I/O; the
// store consults it inside a transaction so the persisted status can never
// skip a state.
package workflow

import (
	"strings"
	"time"

	"github.com/hrsaas/transferd/internal/model"
)

// Action is one of the state-changing operations on a transfer request.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionApproveSource Action = "approve-source"
	ActionApproveTarget Action = "approve-target"
	ActionReject        Action = "reject"
	ActionComplete      Action = "complete"
	ActionCancel        Action = "cancel"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
)

// Next returns the status reached by applying action to current, or an
// InvalidTransitionError if the transition is not in the graph.
func Next(current model.TransferStatus, action Action) (model.TransferStatus, error) {
	switch action {
	case ActionSubmit:
		if current == model.StatusDraft {
			return model.StatusPendingSource, nil
		}
	case ActionApproveSource:
		if current == model.StatusPendingSource {
			return model.StatusPendingTarget, nil
		}
	case ActionApproveTarget:
		if current == model.StatusPendingTarget {
			return model.StatusApproved, nil
		}
	case ActionReject:
		if current == model.StatusPendingSource || current == model.StatusPendingTarget {
			return model.StatusRejected, nil
		}
	case ActionComplete:
		if current == model.StatusApproved {
			return model.StatusCompleted, nil
		}
	case ActionCancel:
		if current == model.StatusDraft || current == model.StatusPendingSource || current == model.StatusPendingTarget {
			return model.StatusCancelled, nil
		}
	case ActionUpdate, ActionDelete:
		// Not transitions, but share the same legality check.
		if current == model.StatusDraft {
			return current, nil
		}
	}
	return current, &InvalidTransitionError{Action: action, Status: current}
}

// Allowed reports whether action is legal from current.
func Allowed(current model.TransferStatus, action Action) bool {
	_, err := Next(current, action)
	return err == nil
}

// Permissions are the pure status-derived action flags shown to callers.
type Permissions struct {
	CanSubmit        bool `json:"can_submit"`
	CanUpdate        bool `json:"can_update"`
	CanDelete        bool `json:"can_delete"`
	CanApproveSource bool `json:"can_approve_source"`
	CanApproveTarget bool `json:"can_approve_target"`
	CanReject        bool `json:"can_reject"`
	CanComplete      bool `json:"can_complete"`
	CanCancel        bool `json:"can_cancel"`
}

// PermissionsFor derives the action flags for a status.
func PermissionsFor(status model.TransferStatus) Permissions {
	return Permissions{
		CanSubmit:        Allowed(status, ActionSubmit),
		CanUpdate:        Allowed(status, ActionUpdate),
		CanDelete:        Allowed(status, ActionDelete),
		CanApproveSource: Allowed(status, ActionApproveSource),
		CanApproveTarget: Allowed(status, ActionApproveTarget),
		CanReject:        Allowed(status, ActionReject),
		CanComplete:      Allowed(status, ActionComplete),
		CanCancel:        Allowed(status, ActionCancel),
	}
}

// Submit moves a draft to PENDING_SOURCE and stamps the requested date.
func Submit(t *model.TransferRequest, now time.Time) error {
	next, err := Next(t.Status, ActionSubmit)
	if err != nil {
		return err
	}
	t.Status = next
	t.RequestedDate = &now
	return nil
}

// ApproveSource records the source side's sign-off and moves the request
// to PENDING_TARGET. Source must approve before target may act.
func ApproveSource(t *model.TransferRequest, approverName, comment string, now time.Time) error {
	next, err := Next(t.Status, ActionApproveSource)
	if err != nil {
		return err
	}
	t.Status = next
	t.SourceApproval = model.Approval{
		ApprovedAt:   &now,
		ApproverName: approverName,
		Comment:      comment,
	}
	return nil
}

// ApproveTarget records the target side's sign-off and moves the request
// to APPROVED.
func ApproveTarget(t *model.TransferRequest, approverName, comment string, now time.Time) error {
	next, err := Next(t.Status, ActionApproveTarget)
	if err != nil {
		return err
	}
	t.Status = next
	t.TargetApproval = model.Approval{
		ApprovedAt:   &now,
		ApproverName: approverName,
		Comment:      comment,
	}
	return nil
}

// Reject moves a pending request to REJECTED. The comment is mandatory and
// rejecting is possible from either pending state.
func Reject(t *model.TransferRequest, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return &ValidationError{Field: "comment", Message: "rejection comment is required"}
	}
	next, err := Next(t.Status, ActionReject)
	if err != nil {
		return err
	}
	t.Status = next
	t.RejectReason = comment
	return nil
}

// Complete moves an approved request to COMPLETED, the terminal success
// state. The handover-completion policy is enforced by the caller, which
// holds the checklist.
func Complete(t *model.TransferRequest, now time.Time) error {
	next, err := Next(t.Status, ActionComplete)
	if err != nil {
		return err
	}
	t.Status = next
	t.CompletedAt = &now
	return nil
}

// Cancel moves a not-yet-approved request to CANCELLED. The reason string
// is recorded verbatim and may be empty.
func Cancel(t *model.TransferRequest, reason string) error {
	next, err := Next(t.Status, ActionCancel)
	if err != nil {
		return err
	}
	t.Status = next
	t.CancelReason = reason
	return nil
}

// Progress returns the handover completion counts and ratio. A transfer
// with no checklist reports a ratio of 0.
func Progress(items []model.HandoverItem) (completed, total int, ratio float64) {
	total = len(items)
	for _, item := range items {
		if item.IsCompleted {
			completed++
		}
	}
	if total > 0 {
		ratio = float64(completed) / float64(total)
	}
	return completed, total, ratio
}

// Warnings reports data-quality concerns that do not block any transition.
func Warnings(t *model.TransferRequest) []string {
	var warnings []string
	if t.Type == model.TypeSecondment && t.ReturnDate == "" {
		warnings = append(warnings, "secondment without a return date")
	}
	return warnings
}
