package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/hrsaas/transferd/internal/model"
)

var allStatuses = []model.TransferStatus{
	model.StatusDraft, model.StatusPendingSource, model.StatusPendingTarget,
	model.StatusApproved, model.StatusRejected, model.StatusCompleted, model.StatusCancelled,
}

func TestTransitionGraph(t *testing.T) {
	legal := map[Action][]model.TransferStatus{
		ActionSubmit:        {model.StatusDraft},
		ActionApproveSource: {model.StatusPendingSource},
		ActionApproveTarget: {model.StatusPendingTarget},
		ActionReject:        {model.StatusPendingSource, model.StatusPendingTarget},
		ActionComplete:      {model.StatusApproved},
		ActionCancel:        {model.StatusDraft, model.StatusPendingSource, model.StatusPendingTarget},
		ActionUpdate:        {model.StatusDraft},
		ActionDelete:        {model.StatusDraft},
	}

	for action, from := range legal {
		allowed := make(map[model.TransferStatus]bool)
		for _, s := range from {
			allowed[s] = true
		}
		for _, status := range allStatuses {
			_, err := Next(status, action)
			if allowed[status] && err != nil {
				t.Errorf("%s from %s: unexpected error %v", action, status, err)
			}
			if !allowed[status] {
				var ite *InvalidTransitionError
				if !errors.As(err, &ite) {
					t.Errorf("%s from %s: expected InvalidTransitionError, got %v", action, status, err)
				} else if ite.Action != action || ite.Status != status {
					t.Errorf("%s from %s: error carries %s/%s", action, status, ite.Action, ite.Status)
				}
			}
		}
	}
}

func TestNextTargets(t *testing.T) {
	cases := []struct {
		from   model.TransferStatus
		action Action
		want   model.TransferStatus
	}{
		{model.StatusDraft, ActionSubmit, model.StatusPendingSource},
		{model.StatusPendingSource, ActionApproveSource, model.StatusPendingTarget},
		{model.StatusPendingTarget, ActionApproveTarget, model.StatusApproved},
		{model.StatusPendingSource, ActionReject, model.StatusRejected},
		{model.StatusPendingTarget, ActionReject, model.StatusRejected},
		{model.StatusApproved, ActionComplete, model.StatusCompleted},
		{model.StatusDraft, ActionCancel, model.StatusCancelled},
	}
	for _, c := range cases {
		got, err := Next(c.from, c.action)
		if err != nil {
			t.Fatalf("%s from %s: %v", c.action, c.from, err)
		}
		if got != c.want {
			t.Errorf("%s from %s: got %s, want %s", c.action, c.from, got, c.want)
		}
	}
}

func TestPermissions(t *testing.T) {
	p := PermissionsFor(model.StatusPendingSource)
	if !p.CanApproveSource || p.CanApproveTarget || p.CanComplete || !p.CanCancel || !p.CanReject {
		t.Errorf("unexpected permissions for PENDING_SOURCE: %+v", p)
	}

	p = PermissionsFor(model.StatusPendingTarget)
	if p.CanApproveSource || !p.CanApproveTarget || !p.CanCancel {
		t.Errorf("unexpected permissions for PENDING_TARGET: %+v", p)
	}

	p = PermissionsFor(model.StatusApproved)
	if !p.CanComplete || p.CanCancel || p.CanReject {
		t.Errorf("unexpected permissions for APPROVED: %+v", p)
	}

	for _, s := range []model.TransferStatus{model.StatusRejected, model.StatusCompleted, model.StatusCancelled} {
		p = PermissionsFor(s)
		if p != (Permissions{}) {
			t.Errorf("terminal status %s should allow nothing, got %+v", s, p)
		}
	}
}

func TestSubmitStampsRequestedDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr := &model.TransferRequest{Status: model.StatusDraft}

	if err := Submit(tr, now); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tr.Status != model.StatusPendingSource {
		t.Errorf("expected PENDING_SOURCE, got %s", tr.Status)
	}
	if tr.RequestedDate == nil || !tr.RequestedDate.Equal(now) {
		t.Errorf("requested date not stamped: %v", tr.RequestedDate)
	}

	// Submitting again must fail and leave status unchanged.
	if err := Submit(tr, now); err == nil {
		t.Error("expected error on double submit")
	}
	if tr.Status != model.StatusPendingSource {
		t.Errorf("status changed on illegal submit: %s", tr.Status)
	}
}

func TestApprovalOrdering(t *testing.T) {
	now := time.Now()
	tr := &model.TransferRequest{Status: model.StatusDraft}
	Submit(tr, now)

	// Target may not act before source has approved.
	if err := ApproveTarget(tr, "Target Lead", "", now); err == nil {
		t.Fatal("expected error approving target before source")
	}

	if err := ApproveSource(tr, "Source Lead", "ok", now); err != nil {
		t.Fatalf("ApproveSource: %v", err)
	}
	if tr.Status != model.StatusPendingTarget {
		t.Errorf("expected PENDING_TARGET, got %s", tr.Status)
	}
	if tr.SourceApproval.ApprovedAt == nil || tr.SourceApproval.ApproverName != "Source Lead" {
		t.Errorf("source approval not recorded: %+v", tr.SourceApproval)
	}

	if err := ApproveTarget(tr, "Target Lead", "welcome", now); err != nil {
		t.Fatalf("ApproveTarget: %v", err)
	}
	if tr.Status != model.StatusApproved {
		t.Errorf("expected APPROVED, got %s", tr.Status)
	}

	// Approval metadata survives completion.
	if err := Complete(tr, now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tr.SourceApproval.ApproverName != "Source Lead" || tr.TargetApproval.ApproverName != "Target Lead" {
		t.Error("approval metadata cleared by completion")
	}
}

func TestRejectRequiresComment(t *testing.T) {
	tr := &model.TransferRequest{Status: model.StatusPendingSource}

	err := Reject(tr, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if tr.Status != model.StatusPendingSource {
		t.Errorf("status changed on invalid reject: %s", tr.Status)
	}

	if err := Reject(tr, "   "); err == nil {
		t.Error("whitespace-only comment accepted")
	}

	if err := Reject(tr, "budget frozen"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if tr.Status != model.StatusRejected || tr.RejectReason != "budget frozen" {
		t.Errorf("reject not recorded: %s %q", tr.Status, tr.RejectReason)
	}
}

func TestCancelIllegalAfterApproval(t *testing.T) {
	for _, s := range []model.TransferStatus{model.StatusApproved, model.StatusCompleted, model.StatusRejected} {
		tr := &model.TransferRequest{Status: s}
		if err := Cancel(tr, "no longer needed"); err == nil {
			t.Errorf("cancel from %s should fail", s)
		}
	}

	tr := &model.TransferRequest{Status: model.StatusDraft}
	if err := Cancel(tr, ""); err != nil {
		t.Fatalf("Cancel with empty reason: %v", err)
	}
	if tr.Status != model.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", tr.Status)
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	now := time.Now()
	tr := &model.TransferRequest{
		Status:         model.StatusDraft,
		Type:           model.TypeTransferOut,
		EmployeeID:     "E1",
		TargetTenantID: "T2",
		TransferDate:   "2025-03-01",
		Reason:         "reorg",
	}

	steps := []struct {
		apply func() error
		want  model.TransferStatus
	}{
		{func() error { return Submit(tr, now) }, model.StatusPendingSource},
		{func() error { return ApproveSource(tr, "A", "ok", now) }, model.StatusPendingTarget},
		{func() error { return ApproveTarget(tr, "B", "", now) }, model.StatusApproved},
		{func() error { return Complete(tr, now) }, model.StatusCompleted},
	}
	for i, step := range steps {
		if err := step.apply(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if tr.Status != step.want {
			t.Fatalf("step %d: got %s, want %s", i, tr.Status, step.want)
		}
	}

	// Rejected requests stay rejected.
	tr2 := &model.TransferRequest{Status: model.StatusDraft}
	Submit(tr2, now)
	if err := Reject(tr2, "budget frozen"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := ApproveSource(tr2, "A", "", now); err == nil {
		t.Error("approve after reject should fail")
	}

	// Cancelled drafts cannot be submitted.
	tr3 := &model.TransferRequest{Status: model.StatusDraft}
	Cancel(tr3, "no longer needed")
	if err := Submit(tr3, now); err == nil {
		t.Error("submit after cancel should fail")
	}
}

func TestProgress(t *testing.T) {
	items := []model.HandoverItem{
		{IsCompleted: true},
		{IsCompleted: false},
		{IsCompleted: false},
	}

	completed, total, ratio := Progress(items)
	if completed != 1 || total != 3 {
		t.Errorf("got %d/%d", completed, total)
	}
	if ratio < 0.33 || ratio > 0.34 {
		t.Errorf("ratio %f", ratio)
	}

	items[1].IsCompleted = true
	items[2].IsCompleted = true
	completed, total, ratio = Progress(items)
	if completed != 3 || total != 3 || ratio != 1.0 {
		t.Errorf("expected 3/3=1.0, got %d/%d=%f", completed, total, ratio)
	}

	if _, _, ratio := Progress(nil); ratio != 0 {
		t.Errorf("empty checklist ratio should be 0, got %f", ratio)
	}
}

func TestSecondmentWarning(t *testing.T) {
	tr := &model.TransferRequest{Type: model.TypeSecondment}
	if got := Warnings(tr); len(got) != 1 {
		t.Errorf("expected one warning, got %v", got)
	}

	tr.ReturnDate = "2026-12-31"
	if got := Warnings(tr); len(got) != 0 {
		t.Errorf("expected no warnings, got %v", got)
	}

	out := &model.TransferRequest{Type: model.TypeTransferOut}
	if got := Warnings(out); len(got) != 0 {
		t.Errorf("non-secondment should not warn, got %v", got)
	}
}
