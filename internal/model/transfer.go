package model

import "time"

// TransferStatus is the lifecycle state of a transfer request. Only the
// seven values below are ever stored or observable.
type TransferStatus string

const (
	StatusDraft         TransferStatus = "DRAFT"
	StatusPendingSource TransferStatus = "PENDING_SOURCE"
	StatusPendingTarget TransferStatus = "PENDING_TARGET"
	StatusApproved      TransferStatus = "APPROVED"
	StatusRejected      TransferStatus = "REJECTED"
	StatusCompleted     TransferStatus = "COMPLETED"
	StatusCancelled     TransferStatus = "CANCELLED"
)

// Valid reports whether s is one of the defined statuses.
func (s TransferStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingSource, StatusPendingTarget,
		StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TransferType classifies a request. Fixed at creation.
type TransferType string

const (
	TypeTransferOut TransferType = "TRANSFER_OUT"
	TypeTransferIn  TransferType = "TRANSFER_IN"
	TypeSecondment  TransferType = "SECONDMENT"
)

// Valid reports whether t is one of the defined types.
func (t TransferType) Valid() bool {
	switch t {
	case TypeTransferOut, TypeTransferIn, TypeSecondment:
		return true
	}
	return false
}

// Ref is a named reference to an org entity (department, position, grade).
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment is the target-side placement. A nil *Assignment on a transfer
// means the requester has not chosen a placement yet; a non-nil Assignment
// with nil refs means the placement was chosen and deliberately left blank.
type Assignment struct {
	Department *Ref `json:"department,omitempty"`
	Position   *Ref `json:"position,omitempty"`
	Grade      *Ref `json:"grade,omitempty"`
}

// Approval holds one side's sign-off metadata. Populated only by that
// side's approve action and never cleared afterwards.
type Approval struct {
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApproverName string     `json:"approver_name,omitempty"`
	Comment      string     `json:"comment,omitempty"`
}

// TransferRequest is the aggregate root for one employee's proposed move
// between tenants.
type TransferRequest struct {
	ID            string         `json:"id"`
	RequestNumber string         `json:"request_number"`
	Type          TransferType   `json:"type"`
	Status        TransferStatus `json:"status"`

	// Subject, snapshotted from the employee record at creation.
	EmployeeID        string `json:"employee_id"`
	EmployeeName      string `json:"employee_name,omitempty"`
	EmployeeNumber    string `json:"employee_number,omitempty"`
	CurrentDepartment string `json:"current_department,omitempty"`
	CurrentPosition   string `json:"current_position,omitempty"`
	CurrentGrade      string `json:"current_grade,omitempty"`

	SourceTenantID       string `json:"source_tenant_id"`
	SourceTenantName     string `json:"source_tenant_name,omitempty"`
	SourceDepartmentName string `json:"source_department_name,omitempty"`

	TargetTenantID   string      `json:"target_tenant_id"`
	TargetTenantName string      `json:"target_tenant_name,omitempty"`
	Target           *Assignment `json:"target,omitempty"`

	TransferDate string `json:"transfer_date"`
	ReturnDate   string `json:"return_date,omitempty"`

	Reason          string `json:"reason"`
	Remarks         string `json:"remarks,omitempty"`
	HandoverSummary string `json:"handover_summary,omitempty"`

	SourceApproval Approval `json:"source_approval"`
	TargetApproval Approval `json:"target_approval"`

	RejectReason string `json:"reject_reason,omitempty"`
	CancelReason string `json:"cancel_reason,omitempty"`

	RequestedDate *time.Time `json:"requested_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TransferListItem is the compact row shape returned by list queries.
type TransferListItem struct {
	ID               string         `json:"id"`
	RequestNumber    string         `json:"request_number"`
	Type             TransferType   `json:"type"`
	Status           TransferStatus `json:"status"`
	EmployeeName     string         `json:"employee_name"`
	EmployeeNumber   string         `json:"employee_number"`
	SourceTenantName string         `json:"source_tenant_name"`
	TargetTenantName string         `json:"target_tenant_name"`
	TransferDate     string         `json:"transfer_date"`
	RequestedDate    *time.Time     `json:"requested_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// HandoverItem is one checklist entry attached to a transfer request.
// Once completed it is terminal; the contract never un-completes an item.
type HandoverItem struct {
	ID          string     `json:"id"`
	TransferID  string     `json:"transfer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TransferSummary is a derived report, recomputed from stored rows.
type TransferSummary struct {
	PendingSourceCount int `json:"pending_source_count"`
	PendingTargetCount int `json:"pending_target_count"`
	ApprovedCount      int `json:"approved_count"`
	CompletedThisMonth int `json:"completed_this_month"`
}
