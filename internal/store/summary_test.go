package store

import (
	"context"
	"testing"
)

func TestGetSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := GetSummary(ctx, f.db)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if empty.PendingSourceCount != 0 || empty.PendingTargetCount != 0 ||
		empty.ApprovedCount != 0 || empty.CompletedThisMonth != 0 {
		t.Errorf("empty summary: %+v", empty)
	}

	// One in each counted bucket, plus a draft and a rejection that
	// count nowhere.
	mk := func() string {
		tr, err := CreateTransfer(ctx, f.db, f.createInput())
		if err != nil {
			t.Fatalf("CreateTransfer: %v", err)
		}
		return tr.ID
	}

	mk() // stays DRAFT

	pendingSource := mk()
	SubmitTransfer(ctx, f.db, pendingSource)

	pendingTarget := mk()
	SubmitTransfer(ctx, f.db, pendingTarget)
	ApproveSourceTransfer(ctx, f.db, pendingTarget, "A", "")

	approved := mk()
	SubmitTransfer(ctx, f.db, approved)
	ApproveSourceTransfer(ctx, f.db, approved, "A", "")
	ApproveTargetTransfer(ctx, f.db, approved, "B", "")

	completed := mk()
	SubmitTransfer(ctx, f.db, completed)
	ApproveSourceTransfer(ctx, f.db, completed, "A", "")
	ApproveTargetTransfer(ctx, f.db, completed, "B", "")
	if _, err := CompleteTransfer(ctx, f.db, completed); err != nil {
		t.Fatalf("CompleteTransfer: %v", err)
	}

	rejected := mk()
	SubmitTransfer(ctx, f.db, rejected)
	RejectTransfer(ctx, f.db, rejected, "no")

	got, err := GetSummary(ctx, f.db)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got.PendingSourceCount != 1 {
		t.Errorf("PendingSourceCount = %d", got.PendingSourceCount)
	}
	if got.PendingTargetCount != 1 {
		t.Errorf("PendingTargetCount = %d", got.PendingTargetCount)
	}
	if got.ApprovedCount != 1 {
		t.Errorf("ApprovedCount = %d", got.ApprovedCount)
	}
	if got.CompletedThisMonth != 1 {
		t.Errorf("CompletedThisMonth = %d", got.CompletedThisMonth)
	}
}
