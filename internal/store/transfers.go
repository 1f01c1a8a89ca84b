package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/workflow"
)

const transferColumns = `id, request_number, type, status,
       employee_id, employee_name, employee_number, current_department, current_position, current_grade,
       source_tenant_id, source_tenant_name, source_department_name,
       target_tenant_id, target_tenant_name, target_assigned,
       target_department_id, target_department_name,
       target_position_id, target_position_name,
       target_grade_id, target_grade_name,
       transfer_date, return_date, reason, remarks, handover_summary,
       source_approved_at, source_approver_name, source_comment,
       target_approved_at, target_approver_name, target_comment,
       reject_reason, cancel_reason, requested_date, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (*model.TransferRequest, error) {
	t := &model.TransferRequest{}
	var (
		empName, empNumber, curDept, curPos, curGrade       sql.NullString
		sourceTenantName, sourceDeptName, targetTenantName  sql.NullString
		targetDeptID, targetDeptName                        sql.NullString
		targetPosID, targetPosName                          sql.NullString
		targetGradeID, targetGradeName                      sql.NullString
		returnDate, remarks, handoverSummary                sql.NullString
		sourceApproverName, sourceComment                   sql.NullString
		targetApproverName, targetComment                   sql.NullString
		rejectReason, cancelReason                          sql.NullString
		targetAssigned                                      bool
		sourceApprovedAt, targetApprovedAt                  sql.NullTime
		requestedDate, completedAt                          sql.NullTime
	)

	err := row.Scan(&t.ID, &t.RequestNumber, &t.Type, &t.Status,
		&t.EmployeeID, &empName, &empNumber, &curDept, &curPos, &curGrade,
		&t.SourceTenantID, &sourceTenantName, &sourceDeptName,
		&t.TargetTenantID, &targetTenantName, &targetAssigned,
		&targetDeptID, &targetDeptName,
		&targetPosID, &targetPosName,
		&targetGradeID, &targetGradeName,
		&t.TransferDate, &returnDate, &t.Reason, &remarks, &handoverSummary,
		&sourceApprovedAt, &sourceApproverName, &sourceComment,
		&targetApprovedAt, &targetApproverName, &targetComment,
		&rejectReason, &cancelReason, &requestedDate, &completedAt, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning transfer: %w", err)
	}

	t.EmployeeName = empName.String
	t.EmployeeNumber = empNumber.String
	t.CurrentDepartment = curDept.String
	t.CurrentPosition = curPos.String
	t.CurrentGrade = curGrade.String
	t.SourceTenantName = sourceTenantName.String
	t.SourceDepartmentName = sourceDeptName.String
	t.TargetTenantName = targetTenantName.String
	t.ReturnDate = returnDate.String
	t.Remarks = remarks.String
	t.HandoverSummary = handoverSummary.String
	t.RejectReason = rejectReason.String
	t.CancelReason = cancelReason.String

	if targetAssigned {
		t.Target = &model.Assignment{}
		if targetDeptID.Valid {
			t.Target.Department = &model.Ref{ID: targetDeptID.String, Name: targetDeptName.String}
		}
		if targetPosID.Valid {
			t.Target.Position = &model.Ref{ID: targetPosID.String, Name: targetPosName.String}
		}
		if targetGradeID.Valid {
			t.Target.Grade = &model.Ref{ID: targetGradeID.String, Name: targetGradeName.String}
		}
	}

	t.SourceApproval = model.Approval{
		ApproverName: sourceApproverName.String,
		Comment:      sourceComment.String,
	}
	if sourceApprovedAt.Valid {
		at := sourceApprovedAt.Time
		t.SourceApproval.ApprovedAt = &at
	}
	t.TargetApproval = model.Approval{
		ApproverName: targetApproverName.String,
		Comment:      targetComment.String,
	}
	if targetApprovedAt.Valid {
		at := targetApprovedAt.Time
		t.TargetApproval.ApprovedAt = &at
	}
	if requestedDate.Valid {
		at := requestedDate.Time
		t.RequestedDate = &at
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}

	return t, nil
}

// assignmentParams flattens an Assignment into bind values.
func assignmentParams(target *model.Assignment) (assigned bool, deptID, deptName, posID, posName, gradeID, gradeName any) {
	if target == nil {
		return false, nil, nil, nil, nil, nil, nil
	}
	assigned = true
	if target.Department != nil {
		deptID, deptName = target.Department.ID, target.Department.Name
	}
	if target.Position != nil {
		posID, posName = target.Position.ID, target.Position.Name
	}
	if target.Grade != nil {
		gradeID, gradeName = target.Grade.ID, target.Grade.Name
	}
	return assigned, deptID, deptName, posID, posName, gradeID, gradeName
}

// CreateTransfer validates the input, snapshots the employee and tenant
// display fields, allocates a request number, and inserts a DRAFT request.
func CreateTransfer(ctx context.Context, db *sql.DB, in workflow.CreateInput) (*model.TransferRequest, error) {
	if err := workflow.ValidateCreate(in); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Snapshot the subject from the employee record.
	emp, err := getEmployeeTx(ctx, tx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	var sourceTenantName string
	if err := tx.QueryRowContext(ctx,
		`SELECT name FROM tenants WHERE id = ?`, emp.TenantID,
	).Scan(&sourceTenantName); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("resolving source tenant: %w", err)
	}

	var targetTenantName string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM tenants WHERE id = ?`, in.TargetTenantID,
	).Scan(&targetTenantName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("target tenant %s: %w", in.TargetTenantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving target tenant: %w", err)
	}

	target, err := resolveAssignment(ctx, tx, in.TargetTenantID, in.Target)
	if err != nil {
		return nil, err
	}

	requestNumber, err := nextRequestNumber(ctx, tx, time.Now())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	assigned, deptID, deptName, posID, posName, gradeID, gradeName := assignmentParams(target)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transfer_requests (
		     id, request_number, type, status,
		     employee_id, employee_name, employee_number, current_department, current_position, current_grade,
		     source_tenant_id, source_tenant_name, source_department_name,
		     target_tenant_id, target_tenant_name, target_assigned,
		     target_department_id, target_department_name,
		     target_position_id, target_position_name,
		     target_grade_id, target_grade_name,
		     transfer_date, return_date, reason, remarks, handover_summary
		 ) VALUES (?, ?, ?, 'DRAFT', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, requestNumber, in.Type,
		emp.ID, emp.Name, emp.EmployeeNumber, emp.DepartmentName, emp.PositionName, emp.GradeName,
		emp.TenantID, sourceTenantName, emp.DepartmentName,
		in.TargetTenantID, targetTenantName, assigned,
		deptID, deptName, posID, posName, gradeID, gradeName,
		in.TransferDate, nullString(in.ReturnDate), in.Reason,
		nullString(in.Remarks), nullString(in.HandoverSummary),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	return GetTransfer(ctx, db, id)
}

// resolveAssignment fills in the display names for a chosen assignment from
// the target tenant's reference data.
func resolveAssignment(ctx context.Context, tx *sql.Tx, tenantID string, target *model.Assignment) (*model.Assignment, error) {
	if target == nil {
		return nil, nil
	}
	resolved := &model.Assignment{}
	lookups := []struct {
		table string
		ref   *model.Ref
		dst   **model.Ref
	}{
		{"departments", target.Department, &resolved.Department},
		{"positions", target.Position, &resolved.Position},
		{"grades", target.Grade, &resolved.Grade},
	}
	for _, l := range lookups {
		if l.ref == nil {
			continue
		}
		var name string
		err := tx.QueryRowContext(ctx,
			`SELECT name FROM `+l.table+` WHERE id = ? AND tenant_id = ?`, l.ref.ID, tenantID,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s %s in tenant %s: %w", l.table, l.ref.ID, tenantID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", l.table, err)
		}
		*l.dst = &model.Ref{ID: l.ref.ID, Name: name}
	}
	return resolved, nil
}

// nextRequestNumber allocates the next TRF-<year>-NNNN number. Runs inside
// the creation transaction so concurrent creates cannot collide. Allocates
// past the highest existing suffix, not the row count: drafts are deletable
// and a freed number must never be reissued.
func nextRequestNumber(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	prefix := fmt.Sprintf("TRF-%d-", now.Year())
	var high int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(substr(request_number, ?) AS INTEGER)), 0)
		 FROM transfer_requests WHERE request_number LIKE ? || '%'`,
		len(prefix)+1, prefix,
	).Scan(&high)
	if err != nil {
		return "", fmt.Errorf("allocating request number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, high+1), nil
}

// GetTransfer returns a transfer request by ID.
func GetTransfer(ctx context.Context, db *sql.DB, id string) (*model.TransferRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_requests WHERE id = ?`, id)
	return scanTransfer(row)
}

func getTransferTx(ctx context.Context, tx *sql.Tx, id string) (*model.TransferRequest, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_requests WHERE id = ?`, id)
	return scanTransfer(row)
}

// ListParams filter and paginate transfer lists.
type ListParams struct {
	Keyword string
	Type    model.TransferType
	Status  model.TransferStatus
	Page    int
	Size    int
}

// ListTransfers returns one page of matching transfers plus the total count.
func ListTransfers(ctx context.Context, db *sql.DB, p ListParams) ([]model.TransferListItem, int, error) {
	where := ` WHERE 1=1`
	var args []any

	if p.Keyword != "" {
		where += ` AND (employee_name LIKE ? OR employee_number LIKE ? OR request_number LIKE ?)`
		kw := "%" + p.Keyword + "%"
		args = append(args, kw, kw, kw)
	}
	if p.Type != "" {
		where += ` AND type = ?`
		args = append(args, p.Type)
	}
	if p.Status != "" {
		where += ` AND status = ?`
		args = append(args, p.Status)
	}

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transfer_requests`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transfers: %w", err)
	}

	size := p.Size
	if size <= 0 {
		size = 10
	}
	query := `SELECT id, request_number, type, status, employee_name, employee_number,
	                 source_tenant_name, target_tenant_name, transfer_date, requested_date, created_at
	          FROM transfer_requests` + where + `
	          ORDER BY created_at DESC, request_number DESC LIMIT ? OFFSET ?`
	args = append(args, size, p.Page*size)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var items []model.TransferListItem
	for rows.Next() {
		var item model.TransferListItem
		var empName, empNumber, sourceName, targetName sql.NullString
		var requestedDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.RequestNumber, &item.Type, &item.Status,
			&empName, &empNumber, &sourceName, &targetName,
			&item.TransferDate, &requestedDate, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning transfer row: %w", err)
		}
		item.EmployeeName = empName.String
		item.EmployeeNumber = empNumber.String
		item.SourceTenantName = sourceName.String
		item.TargetTenantName = targetName.String
		if requestedDate.Valid {
			at := requestedDate.Time
			item.RequestedDate = &at
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// UpdateTransfer replaces the editable fields of a DRAFT request. Identity,
// type, employee, and source tenant never change.
func UpdateTransfer(ctx context.Context, db *sql.DB, id string, patch workflow.UpdatePatch) (*model.TransferRequest, error) {
	if err := workflow.ValidateUpdate(patch); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getTransferTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(current.Status, workflow.ActionUpdate) {
		return nil, &workflow.InvalidTransitionError{Action: workflow.ActionUpdate, Status: current.Status}
	}

	var targetTenantName string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM tenants WHERE id = ?`, patch.TargetTenantID,
	).Scan(&targetTenantName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("target tenant %s: %w", patch.TargetTenantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving target tenant: %w", err)
	}

	target, err := resolveAssignment(ctx, tx, patch.TargetTenantID, patch.Target)
	if err != nil {
		return nil, err
	}
	assigned, deptID, deptName, posID, posName, gradeID, gradeName := assignmentParams(target)

	res, err := tx.ExecContext(ctx,
		`UPDATE transfer_requests SET
		     target_tenant_id = ?, target_tenant_name = ?, target_assigned = ?,
		     target_department_id = ?, target_department_name = ?,
		     target_position_id = ?, target_position_name = ?,
		     target_grade_id = ?, target_grade_name = ?,
		     transfer_date = ?, return_date = ?, reason = ?, remarks = ?, handover_summary = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'DRAFT'`,
		patch.TargetTenantID, targetTenantName, assigned,
		deptID, deptName, posID, posName, gradeID, gradeName,
		patch.TransferDate, nullString(patch.ReturnDate), patch.Reason,
		nullString(patch.Remarks), nullString(patch.HandoverSummary), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating transfer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost a race with a concurrent transition.
		return nil, &workflow.InvalidTransitionError{Action: workflow.ActionUpdate, Status: current.Status}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return GetTransfer(ctx, db, id)
}

// DeleteTransfer removes a DRAFT request and its handover items.
func DeleteTransfer(ctx context.Context, db *sql.DB, id string) error {
	current, err := GetTransfer(ctx, db, id)
	if err != nil {
		return err
	}
	if !workflow.Allowed(current.Status, workflow.ActionDelete) {
		return &workflow.InvalidTransitionError{Action: workflow.ActionDelete, Status: current.Status}
	}

	res, err := db.ExecContext(ctx,
		`DELETE FROM transfer_requests WHERE id = ? AND status = 'DRAFT'`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting transfer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &workflow.InvalidTransitionError{Action: workflow.ActionDelete, Status: current.Status}
	}
	return nil
}

// transition loads the request, applies the engine mutation, and persists it
// with a status-guarded UPDATE. Zero affected rows after a successful read
// means a concurrent writer changed the status first; that conflict surfaces
// as an InvalidTransitionError and is never retried.
func transition(ctx context.Context, db *sql.DB, id string, action workflow.Action,
	mutate func(*model.TransferRequest) error,
	persist func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error),
) (*model.TransferRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := getTransferTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	prev := t.Status

	if err := mutate(t); err != nil {
		return nil, err
	}

	res, err := persist(tx, t, prev)
	if err != nil {
		return nil, fmt.Errorf("persisting transition: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &workflow.InvalidTransitionError{Action: action, Status: prev}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}

	return GetTransfer(ctx, db, id)
}

// SubmitTransfer moves a draft to PENDING_SOURCE and stamps the requested date.
func SubmitTransfer(ctx context.Context, db *sql.DB, id string) (*model.TransferRequest, error) {
	now := time.Now().UTC()
	return transition(ctx, db, id, workflow.ActionSubmit,
		func(t *model.TransferRequest) error { return workflow.Submit(t, now) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, requested_date = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, now, id, prev)
		})
}

// ApproveSourceTransfer records the source side's approval.
func ApproveSourceTransfer(ctx context.Context, db *sql.DB, id, approverName, comment string) (*model.TransferRequest, error) {
	now := time.Now().UTC()
	return transition(ctx, db, id, workflow.ActionApproveSource,
		func(t *model.TransferRequest) error { return workflow.ApproveSource(t, approverName, comment, now) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, source_approved_at = ?, source_approver_name = ?,
				     source_comment = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, now, approverName, nullString(comment), id, prev)
		})
}

// ApproveTargetTransfer records the target side's approval.
func ApproveTargetTransfer(ctx context.Context, db *sql.DB, id, approverName, comment string) (*model.TransferRequest, error) {
	now := time.Now().UTC()
	return transition(ctx, db, id, workflow.ActionApproveTarget,
		func(t *model.TransferRequest) error { return workflow.ApproveTarget(t, approverName, comment, now) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, target_approved_at = ?, target_approver_name = ?,
				     target_comment = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, now, approverName, nullString(comment), id, prev)
		})
}

// RejectTransfer moves a pending request to REJECTED with a mandatory comment.
func RejectTransfer(ctx context.Context, db *sql.DB, id, comment string) (*model.TransferRequest, error) {
	return transition(ctx, db, id, workflow.ActionReject,
		func(t *model.TransferRequest) error { return workflow.Reject(t, comment) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, reject_reason = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, comment, id, prev)
		})
}

// CancelTransfer moves a not-yet-approved request to CANCELLED.
func CancelTransfer(ctx context.Context, db *sql.DB, id, reason string) (*model.TransferRequest, error) {
	return transition(ctx, db, id, workflow.ActionCancel,
		func(t *model.TransferRequest) error { return workflow.Cancel(t, reason) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, cancel_reason = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, reason, id, prev)
		})
}

// CompleteTransfer finishes an approved transfer. In the same transaction it
// hires the employee into the target tenant under a fresh employee number
// and resigns the source record, mirroring the effective date.
func CompleteTransfer(ctx context.Context, db *sql.DB, id string) (*model.TransferRequest, error) {
	now := time.Now().UTC()
	return transition(ctx, db, id, workflow.ActionComplete,
		func(t *model.TransferRequest) error { return workflow.Complete(t, now) },
		func(tx *sql.Tx, t *model.TransferRequest, prev model.TransferStatus) (sql.Result, error) {
			if err := moveEmployee(ctx, tx, t); err != nil {
				return nil, err
			}
			return tx.ExecContext(ctx,
				`UPDATE transfer_requests SET status = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status = ?`,
				t.Status, now, id, prev)
		})
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
