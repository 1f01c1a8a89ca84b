package workflow

import (
	"strings"
	"time"

	"github.com/hrsaas/transferd/internal/model"
)

// Field length caps, matching the reference schema.
const (
	MaxReasonLen          = 500
	MaxRemarksLen         = 1000
	MaxHandoverSummaryLen = 2000
)

const dateLayout = "2006-01-02"

// CreateInput carries the caller-supplied fields for a new transfer request.
type CreateInput struct {
	Type            model.TransferType
	EmployeeID      string
	TargetTenantID  string
	Target          *model.Assignment
	TransferDate    string
	ReturnDate      string
	Reason          string
	Remarks         string
	HandoverSummary string
}

// ValidateCreate checks the mandatory fields and length caps for creation.
// Absence of any required field fails with a ValidationError naming it.
func ValidateCreate(in CreateInput) error {
	if in.Type == "" {
		return &ValidationError{Field: "type", Message: "transfer type is required"}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown transfer type"}
	}
	if strings.TrimSpace(in.EmployeeID) == "" {
		return &ValidationError{Field: "employee_id", Message: "employee is required"}
	}
	if strings.TrimSpace(in.TargetTenantID) == "" {
		return &ValidationError{Field: "target_tenant_id", Message: "target tenant is required"}
	}
	if in.TransferDate == "" {
		return &ValidationError{Field: "transfer_date", Message: "transfer date is required"}
	}
	if err := validateDate("transfer_date", in.TransferDate); err != nil {
		return err
	}
	if in.ReturnDate != "" {
		if err := validateDate("return_date", in.ReturnDate); err != nil {
			return err
		}
	}
	if strings.TrimSpace(in.Reason) == "" {
		return &ValidationError{Field: "reason", Message: "reason is required"}
	}
	return validateNarrative(in.Reason, in.Remarks, in.HandoverSummary)
}

// UpdatePatch carries the fields a draft update may change. Identity,
// type, employee, and source tenant are immutable and deliberately absent.
type UpdatePatch struct {
	TargetTenantID  string
	Target          *model.Assignment
	TransferDate    string
	ReturnDate      string
	Reason          string
	Remarks         string
	HandoverSummary string
}

// ValidateUpdate checks an update patch. Required fields must stay present.
func ValidateUpdate(p UpdatePatch) error {
	if strings.TrimSpace(p.TargetTenantID) == "" {
		return &ValidationError{Field: "target_tenant_id", Message: "target tenant is required"}
	}
	if p.TransferDate == "" {
		return &ValidationError{Field: "transfer_date", Message: "transfer date is required"}
	}
	if err := validateDate("transfer_date", p.TransferDate); err != nil {
		return err
	}
	if p.ReturnDate != "" {
		if err := validateDate("return_date", p.ReturnDate); err != nil {
			return err
		}
	}
	if strings.TrimSpace(p.Reason) == "" {
		return &ValidationError{Field: "reason", Message: "reason is required"}
	}
	return validateNarrative(p.Reason, p.Remarks, p.HandoverSummary)
}

func validateNarrative(reason, remarks, handoverSummary string) error {
	if len(reason) > MaxReasonLen {
		return &ValidationError{Field: "reason", Message: "must be at most 500 characters"}
	}
	if len(remarks) > MaxRemarksLen {
		return &ValidationError{Field: "remarks", Message: "must be at most 1000 characters"}
	}
	if len(handoverSummary) > MaxHandoverSummaryLen {
		return &ValidationError{Field: "handover_summary", Message: "must be at most 2000 characters"}
	}
	return nil
}

func validateDate(field, value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return nil
}
