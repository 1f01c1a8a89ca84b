// Package service coordinates the transfer workflow for callers. It wraps
// the store with the cross-cutting rules that do not belong in SQL: which
// cached views a mutation staleness-marks, and whether an incomplete
// handover checklist blocks completion.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/store"
	"github.com/hrsaas/transferd/internal/workflow"
)

// View keys name the cached read models a mutation invalidates. Clients
// holding a cache evict these keys from the mutation response; prefix
// matching covers parameterized views.
const (
	KeyList    = "transfers:list"
	KeySummary = "transfers:summary"
)

// KeyDetail names one transfer's detail view.
func KeyDetail(id string) string { return "transfers:detail:" + id }

// KeyHandover names one transfer's checklist view.
func KeyHandover(id string) string { return "transfers:handover:" + id }

// Transfers exposes the transfer workflow. StrictHandover decides whether an
// incomplete checklist blocks completion or only logs a warning.
type Transfers struct {
	db             *sql.DB
	log            *slog.Logger
	strictHandover bool
}

func NewTransfers(db *sql.DB, log *slog.Logger, strictHandover bool) *Transfers {
	return &Transfers{db: db, log: log, strictHandover: strictHandover}
}

// Result pairs a mutation's outcome with the view keys it made stale.
type Result struct {
	Transfer *model.TransferRequest
	Stale    []string
}

func (s *Transfers) logWarnings(t *model.TransferRequest) {
	for _, w := range workflow.Warnings(t) {
		s.log.Warn("transfer request warning",
			slog.String("transfer_id", t.ID),
			slog.String("request_number", t.RequestNumber),
			slog.String("warning", w))
	}
}

// Create opens a new draft. A draft is not yet listed as pending anywhere,
// but the list and summary views include drafts, so both go stale.
func (s *Transfers) Create(ctx context.Context, in workflow.CreateInput) (*Result, error) {
	t, err := store.CreateTransfer(ctx, s.db, in)
	if err != nil {
		return nil, err
	}
	s.logWarnings(t)
	s.log.Info("transfer request created",
		slog.String("transfer_id", t.ID),
		slog.String("request_number", t.RequestNumber),
		slog.String("employee", t.EmployeeName))
	return &Result{Transfer: t, Stale: []string{KeyList, KeySummary}}, nil
}

func (s *Transfers) Get(ctx context.Context, id string) (*model.TransferRequest, error) {
	return store.GetTransfer(ctx, s.db, id)
}

func (s *Transfers) List(ctx context.Context, p store.ListParams) ([]model.TransferListItem, int, error) {
	return store.ListTransfers(ctx, s.db, p)
}

func (s *Transfers) Summary(ctx context.Context) (*model.TransferSummary, error) {
	return store.GetSummary(ctx, s.db)
}

// Update edits a draft in place.
func (s *Transfers) Update(ctx context.Context, id string, patch workflow.UpdatePatch) (*Result, error) {
	t, err := store.UpdateTransfer(ctx, s.db, id, patch)
	if err != nil {
		return nil, err
	}
	s.logWarnings(t)
	return &Result{Transfer: t, Stale: []string{KeyList, KeySummary, KeyDetail(id)}}, nil
}

// Delete discards a draft. The detail view goes stale too so a client
// holding the deleted draft drops it.
func (s *Transfers) Delete(ctx context.Context, id string) ([]string, error) {
	if err := store.DeleteTransfer(ctx, s.db, id); err != nil {
		return nil, err
	}
	return []string{KeyList, KeySummary, KeyDetail(id)}, nil
}

func (s *Transfers) mutation(id string, t *model.TransferRequest, action string, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	s.log.Info("transfer request "+action,
		slog.String("transfer_id", t.ID),
		slog.String("request_number", t.RequestNumber),
		slog.String("status", string(t.Status)))
	return &Result{Transfer: t, Stale: []string{KeyList, KeySummary, KeyDetail(id)}}, nil
}

// Submit sends a draft to the source tenant for approval.
func (s *Transfers) Submit(ctx context.Context, id string) (*Result, error) {
	t, err := store.SubmitTransfer(ctx, s.db, id)
	if err == nil {
		s.logWarnings(t)
	}
	return s.mutation(id, t, "submitted", err)
}

func (s *Transfers) ApproveSource(ctx context.Context, id, approver, comment string) (*Result, error) {
	t, err := store.ApproveSourceTransfer(ctx, s.db, id, approver, comment)
	return s.mutation(id, t, "approved by source", err)
}

func (s *Transfers) ApproveTarget(ctx context.Context, id, approver, comment string) (*Result, error) {
	t, err := store.ApproveTargetTransfer(ctx, s.db, id, approver, comment)
	return s.mutation(id, t, "approved by target", err)
}

func (s *Transfers) Reject(ctx context.Context, id, comment string) (*Result, error) {
	t, err := store.RejectTransfer(ctx, s.db, id, comment)
	return s.mutation(id, t, "rejected", err)
}

func (s *Transfers) Cancel(ctx context.Context, id, reason string) (*Result, error) {
	t, err := store.CancelTransfer(ctx, s.db, id, reason)
	return s.mutation(id, t, "cancelled", err)
}

// Complete finalizes an approved transfer and moves the employee. An
// incomplete handover checklist either blocks (strict mode) or is logged
// and allowed through.
func (s *Transfers) Complete(ctx context.Context, id string) (*Result, error) {
	items, err := store.ListHandoverItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	completed, total, _ := workflow.Progress(items)
	if completed < total {
		if s.strictHandover {
			return nil, &workflow.HandoverIncompleteError{Completed: completed, Total: total}
		}
		s.log.Warn("completing transfer with unfinished handover",
			slog.String("transfer_id", id),
			slog.String("progress", fmt.Sprintf("%d/%d", completed, total)))
	}

	t, err := store.CompleteTransfer(ctx, s.db, id)
	return s.mutation(id, t, "completed", err)
}

// HandoverResult pairs a checklist mutation with its stale view keys.
type HandoverResult struct {
	Item  *model.HandoverItem
	Stale []string
}

// AddHandoverItem appends a checklist entry.
func (s *Transfers) AddHandoverItem(ctx context.Context, transferID, title, description string) (*HandoverResult, error) {
	if title == "" {
		return nil, &workflow.ValidationError{Field: "title", Message: "title is required"}
	}
	item, err := store.CreateHandoverItem(ctx, s.db, transferID, title, description)
	if err != nil {
		return nil, err
	}
	return &HandoverResult{Item: item, Stale: []string{KeyHandover(transferID)}}, nil
}

func (s *Transfers) ListHandover(ctx context.Context, transferID string) ([]model.HandoverItem, error) {
	return store.ListHandoverItems(ctx, s.db, transferID)
}

// CompleteHandoverItem ticks one checklist entry. Only the checklist view
// goes stale; the transfer itself did not change.
func (s *Transfers) CompleteHandoverItem(ctx context.Context, transferID, itemID string) (*HandoverResult, error) {
	item, err := store.CompleteHandoverItem(ctx, s.db, transferID, itemID)
	if err != nil {
		return nil, err
	}
	return &HandoverResult{Item: item, Stale: []string{KeyHandover(transferID)}}, nil
}

// Progress reports a transfer's checklist completion.
func (s *Transfers) Progress(ctx context.Context, transferID string) (completed, total int, ratio float64, err error) {
	if _, err = store.GetTransfer(ctx, s.db, transferID); err != nil {
		return 0, 0, 0, err
	}
	items, err := store.ListHandoverItems(ctx, s.db, transferID)
	if err != nil {
		return 0, 0, 0, err
	}
	completed, total, ratio = workflow.Progress(items)
	return completed, total, ratio, nil
}
