package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/hrsaas/transferd/internal/db"
	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/store"
	"github.com/hrsaas/transferd/internal/workflow"
)

func newService(t *testing.T, strict bool) (*Transfers, workflow.CreateInput) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	source, err := store.CreateTenant(ctx, database, "Group HQ", "HQ")
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	target, _ := store.CreateTenant(ctx, database, "Electronics Division", "EL")
	employee, err := store.CreateEmployee(ctx, database, model.Employee{
		TenantID:       source.ID,
		EmployeeNumber: "E20200001",
		Name:           "Kim Cheolsu",
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	in := workflow.CreateInput{
		Type:           model.TypeTransferOut,
		EmployeeID:     employee.ID,
		TargetTenantID: target.ID,
		TransferDate:   "2026-03-01",
		Reason:         "group-wide reorg",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTransfers(database, log, strict), in
}

func approve(t *testing.T, s *Transfers, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := s.ApproveSource(ctx, id, "Source Lead", ""); err != nil {
		t.Fatalf("ApproveSource: %v", err)
	}
	if _, err := s.ApproveTarget(ctx, id, "Target Lead", ""); err != nil {
		t.Fatalf("ApproveTarget: %v", err)
	}
}

func TestStaleKeys(t *testing.T) {
	s, in := newService(t, false)
	ctx := context.Background()

	created, err := s.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wantCreate := []string{KeyList, KeySummary}
	if !slices.Equal(created.Stale, wantCreate) {
		t.Errorf("create stale keys = %v, want %v", created.Stale, wantCreate)
	}

	id := created.Transfer.ID
	submitted, err := s.Submit(ctx, id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	wantTargeted := []string{KeyList, KeySummary, KeyDetail(id)}
	if !slices.Equal(submitted.Stale, wantTargeted) {
		t.Errorf("submit stale keys = %v, want %v", submitted.Stale, wantTargeted)
	}

	item, err := s.AddHandoverItem(ctx, id, "return badge", "")
	if err != nil {
		t.Fatalf("AddHandoverItem: %v", err)
	}
	wantHandover := []string{KeyHandover(id)}
	if !slices.Equal(item.Stale, wantHandover) {
		t.Errorf("add item stale keys = %v, want %v", item.Stale, wantHandover)
	}

	// Ticking an item touches only the checklist view.
	ticked, err := s.CompleteHandoverItem(ctx, id, item.Item.ID)
	if err != nil {
		t.Fatalf("CompleteHandoverItem: %v", err)
	}
	if !slices.Equal(ticked.Stale, wantHandover) {
		t.Errorf("tick stale keys = %v, want %v", ticked.Stale, wantHandover)
	}

	// Deleting a draft.
	draft, _ := s.Create(ctx, in)
	stale, err := s.Delete(ctx, draft.Transfer.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []string{KeyList, KeySummary, KeyDetail(draft.Transfer.ID)}
	if !slices.Equal(stale, want) {
		t.Errorf("delete stale keys = %v, want %v", stale, want)
	}
}

func TestCompleteAdvisoryHandover(t *testing.T) {
	s, in := newService(t, false)
	ctx := context.Background()

	created, _ := s.Create(ctx, in)
	id := created.Transfer.ID
	s.AddHandoverItem(ctx, id, "hand over project docs", "")
	approve(t, s, id)

	// Advisory mode completes despite the open item.
	res, err := s.Complete(ctx, id)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.Transfer.Status != model.StatusCompleted {
		t.Errorf("status %s", res.Transfer.Status)
	}
}

func TestCompleteStrictHandover(t *testing.T) {
	s, in := newService(t, true)
	ctx := context.Background()

	created, _ := s.Create(ctx, in)
	id := created.Transfer.ID
	itemA, _ := s.AddHandoverItem(ctx, id, "hand over project docs", "")
	itemB, _ := s.AddHandoverItem(ctx, id, "return equipment", "")
	approve(t, s, id)

	_, err := s.Complete(ctx, id)
	var hie *workflow.HandoverIncompleteError
	if !errors.As(err, &hie) {
		t.Fatalf("expected HandoverIncompleteError, got %v", err)
	}
	if hie.Completed != 0 || hie.Total != 2 {
		t.Errorf("error progress %d/%d", hie.Completed, hie.Total)
	}

	// Still APPROVED; no partial effect.
	got, _ := s.Get(ctx, id)
	if got.Status != model.StatusApproved {
		t.Fatalf("status after blocked completion: %s", got.Status)
	}

	s.CompleteHandoverItem(ctx, id, itemA.Item.ID)
	s.CompleteHandoverItem(ctx, id, itemB.Item.ID)

	res, err := s.Complete(ctx, id)
	if err != nil {
		t.Fatalf("Complete after finishing checklist: %v", err)
	}
	if res.Transfer.Status != model.StatusCompleted {
		t.Errorf("status %s", res.Transfer.Status)
	}
}

func TestProgressEndpointRequiresTransfer(t *testing.T) {
	s, in := newService(t, false)
	ctx := context.Background()

	if _, _, _, err := s.Progress(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("progress on unknown transfer: %v", err)
	}

	created, _ := s.Create(ctx, in)
	completed, total, ratio, err := s.Progress(ctx, created.Transfer.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if completed != 0 || total != 0 || ratio != 0 {
		t.Errorf("empty checklist progress: %d/%d %v", completed, total, ratio)
	}
}

func TestAddHandoverItemRequiresTitle(t *testing.T) {
	s, in := newService(t, false)
	ctx := context.Background()

	created, _ := s.Create(ctx, in)
	_, err := s.AddHandoverItem(ctx, created.Transfer.ID, "", "desc")
	var ve *workflow.ValidationError
	if !errors.As(err, &ve) || ve.Field != "title" {
		t.Errorf("expected title validation error, got %v", err)
	}
}
