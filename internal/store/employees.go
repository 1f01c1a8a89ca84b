package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrsaas/transferd/internal/model"
)

const employeeColumns = `e.id, e.tenant_id, e.employee_number, e.name, e.email,
       e.department_id, d.name, e.position_name, e.grade_name, e.status, e.photo_mime,
       e.hire_date, e.resign_date, e.created_at, e.updated_at, e.deleted_at`

const employeeFrom = ` FROM employees e LEFT JOIN departments d ON d.id = e.department_id`

func scanEmployee(row rowScanner) (*model.Employee, error) {
	e := &model.Employee{}
	var email, deptID, deptName, posName, gradeName, photoMime, hireDate, resignDate sql.NullString
	err := row.Scan(&e.ID, &e.TenantID, &e.EmployeeNumber, &e.Name, &email,
		&deptID, &deptName, &posName, &gradeName, &e.Status, &photoMime,
		&hireDate, &resignDate, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning employee: %w", err)
	}
	e.Email = email.String
	e.DepartmentID = deptID.String
	e.DepartmentName = deptName.String
	e.PositionName = posName.String
	e.GradeName = gradeName.String
	e.PhotoMime = photoMime.String
	e.HireDate = hireDate.String
	e.ResignDate = resignDate.String
	return e, nil
}

// CreateEmployee inserts an active employee into a tenant.
func CreateEmployee(ctx context.Context, db *sql.DB, e model.Employee) (*model.Employee, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO employees (id, tenant_id, employee_number, name, email,
		     department_id, position_name, grade_name, hire_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.TenantID, e.EmployeeNumber, e.Name, nullString(e.Email),
		nullString(e.DepartmentID), nullString(e.PositionName), nullString(e.GradeName),
		nullString(e.HireDate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}
	return GetEmployee(ctx, db, id)
}

// GetEmployee returns an employee by ID.
func GetEmployee(ctx context.Context, db *sql.DB, id string) (*model.Employee, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+employeeFrom+` WHERE e.id = ?`, id)
	return scanEmployee(row)
}

func getEmployeeTx(ctx context.Context, tx *sql.Tx, id string) (*model.Employee, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+employeeColumns+employeeFrom+` WHERE e.id = ?`, id)
	return scanEmployee(row)
}

// SearchEmployees returns active employees whose name or number matches the
// query, optionally scoped to one tenant.
func SearchEmployees(ctx context.Context, db *sql.DB, tenantID, query string, limit int) ([]model.Employee, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + employeeColumns + employeeFrom + `
	      WHERE e.deleted_at IS NULL AND e.status = 'active'`
	var args []any
	if tenantID != "" {
		q += ` AND e.tenant_id = ?`
		args = append(args, tenantID)
	}
	if query != "" {
		q += ` AND (e.name LIKE ? OR e.employee_number LIKE ?)`
		kw := "%" + query + "%"
		args = append(args, kw, kw)
	}
	q += ` ORDER BY e.name LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// SetEmployeePhoto stores an employee's processed photo.
func SetEmployeePhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE employees SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting employee photo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetEmployeePhoto returns an employee's photo data and MIME type.
func GetEmployeePhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM employees WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting employee photo: %w", err)
	}
	if len(photo) == 0 {
		return nil, "", ErrNotFound
	}
	return photo, mime.String, nil
}

// moveEmployee performs the completion side effect: a fresh employee record
// in the target tenant and a resignation on the source record, both dated
// with the transfer's effective date.
func moveEmployee(ctx context.Context, tx *sql.Tx, t *model.TransferRequest) error {
	source, err := getEmployeeTx(ctx, tx, t.EmployeeID)
	if err != nil {
		return fmt.Errorf("loading transfer subject: %w", err)
	}

	number, err := nextEmployeeNumber(ctx, tx, t.TargetTenantID, time.Now())
	if err != nil {
		return err
	}

	var deptID, posName, gradeName any
	if t.Target != nil {
		if t.Target.Department != nil {
			deptID = t.Target.Department.ID
		}
		if t.Target.Position != nil {
			posName = t.Target.Position.Name
		}
		if t.Target.Grade != nil {
			gradeName = t.Target.Grade.Name
		}
	}
	if posName == nil {
		posName = nullString(source.PositionName)
	}
	if gradeName == nil {
		gradeName = nullString(source.GradeName)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO employees (id, tenant_id, employee_number, name, email,
		     department_id, position_name, grade_name, hire_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), t.TargetTenantID, number, source.Name, nullString(source.Email),
		deptID, posName, gradeName, t.TransferDate,
	)
	if err != nil {
		return fmt.Errorf("hiring target employee: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE employees SET status = 'resigned', resign_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.TransferDate, source.ID,
	)
	if err != nil {
		return fmt.Errorf("resigning source employee: %w", err)
	}

	return nil
}

// nextEmployeeNumber allocates E<year>NNNN within a tenant. Allocates past
// the highest existing suffix so caller-chosen numbers sharing the prefix
// cannot collide with a generated one.
func nextEmployeeNumber(ctx context.Context, tx *sql.Tx, tenantID string, now time.Time) (string, error) {
	prefix := fmt.Sprintf("E%d", now.Year())
	var high int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(substr(employee_number, ?) AS INTEGER)), 0)
		 FROM employees WHERE tenant_id = ? AND employee_number LIKE ? || '%'`,
		len(prefix)+1, tenantID, prefix,
	).Scan(&high)
	if err != nil {
		return "", fmt.Errorf("allocating employee number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, high+1), nil
}
