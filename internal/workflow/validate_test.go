package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/hrsaas/transferd/internal/model"
)

func validCreate() CreateInput {
	return CreateInput{
		Type:           model.TypeTransferOut,
		EmployeeID:     "emp-1",
		TargetTenantID: "tenant-2",
		TransferDate:   "2026-03-01",
		Reason:         "reorg",
	}
}

func TestValidateCreateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*CreateInput)
	}{
		{"type", func(in *CreateInput) { in.Type = "" }},
		{"employee_id", func(in *CreateInput) { in.EmployeeID = " " }},
		{"target_tenant_id", func(in *CreateInput) { in.TargetTenantID = "" }},
		{"transfer_date", func(in *CreateInput) { in.TransferDate = "" }},
		{"reason", func(in *CreateInput) { in.Reason = "" }},
	}

	for _, c := range cases {
		in := validCreate()
		c.mutate(&in)
		err := ValidateCreate(in)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", c.field, err)
			continue
		}
		if ve.Field != c.field {
			t.Errorf("expected error on %s, got %s", c.field, ve.Field)
		}
	}

	if err := ValidateCreate(validCreate()); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}

func TestValidateCreateRejectsBadValues(t *testing.T) {
	in := validCreate()
	in.Type = "PROMOTION"
	if err := ValidateCreate(in); err == nil {
		t.Error("unknown type accepted")
	}

	in = validCreate()
	in.TransferDate = "03/01/2026"
	if err := ValidateCreate(in); err == nil {
		t.Error("malformed transfer date accepted")
	}

	in = validCreate()
	in.ReturnDate = "soon"
	if err := ValidateCreate(in); err == nil {
		t.Error("malformed return date accepted")
	}

	in = validCreate()
	in.Reason = strings.Repeat("x", MaxReasonLen+1)
	if err := ValidateCreate(in); err == nil {
		t.Error("overlong reason accepted")
	}

	in = validCreate()
	in.Remarks = strings.Repeat("x", MaxRemarksLen+1)
	if err := ValidateCreate(in); err == nil {
		t.Error("overlong remarks accepted")
	}

	in = validCreate()
	in.HandoverSummary = strings.Repeat("x", MaxHandoverSummaryLen+1)
	if err := ValidateCreate(in); err == nil {
		t.Error("overlong handover summary accepted")
	}
}

func TestValidateUpdate(t *testing.T) {
	p := UpdatePatch{
		TargetTenantID: "tenant-2",
		TransferDate:   "2026-04-01",
		Reason:         "updated reason",
	}
	if err := ValidateUpdate(p); err != nil {
		t.Fatalf("valid patch rejected: %v", err)
	}

	p.Reason = ""
	if err := ValidateUpdate(p); err == nil {
		t.Error("empty reason accepted")
	}

	p.Reason = "ok"
	p.TargetTenantID = ""
	if err := ValidateUpdate(p); err == nil {
		t.Error("empty target tenant accepted")
	}
}
