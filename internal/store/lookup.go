package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hrsaas/transferd/internal/model"
)

// CreateTenant inserts an active tenant.
func CreateTenant(ctx context.Context, db *sql.DB, name, code string) (*model.Tenant, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, code) VALUES (?, ?, ?)`,
		id, name, code,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tenant: %w", err)
	}
	return GetTenant(ctx, db, id)
}

// GetTenant returns a tenant by ID.
func GetTenant(ctx context.Context, db *sql.DB, id string) (*model.Tenant, error) {
	t := &model.Tenant{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, code, active, created_at FROM tenants WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Code, &t.Active, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting tenant: %w", err)
	}
	return t, nil
}

// ListAvailableTenants returns active tenants a transfer may target,
// excluding the caller's own tenant.
func ListAvailableTenants(ctx context.Context, db *sql.DB, excludeID string) ([]model.Tenant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, code, active, created_at FROM tenants
		 WHERE active = 1 AND id != ? ORDER BY name`, excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// refTables maps reference kinds to their table names. Shared by the
// per-tenant lookup and create helpers below.
var refTables = map[string]string{
	"department": "departments",
	"position":   "positions",
	"grade":      "grades",
}

func createRef(ctx context.Context, db *sql.DB, kind, tenantID, name, code string) (*model.Ref, error) {
	table, ok := refTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	if _, err := GetTenant(ctx, db, tenantID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, tenant_id, name, code) VALUES (?, ?, ?, ?)`,
		id, tenantID, name, nullString(code),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", kind, err)
	}
	return &model.Ref{ID: id, Name: name}, nil
}

func listRefs(ctx context.Context, db *sql.DB, kind, tenantID string) ([]model.Ref, error) {
	table, ok := refTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM `+table+` WHERE tenant_id = ? ORDER BY name`, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", kind, err)
	}
	defer rows.Close()

	var refs []model.Ref
	for rows.Next() {
		var r model.Ref
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// CreateDepartment adds a department to a tenant.
func CreateDepartment(ctx context.Context, db *sql.DB, tenantID, name, code string) (*model.Ref, error) {
	return createRef(ctx, db, "department", tenantID, name, code)
}

// CreatePosition adds a position to a tenant.
func CreatePosition(ctx context.Context, db *sql.DB, tenantID, name, code string) (*model.Ref, error) {
	return createRef(ctx, db, "position", tenantID, name, code)
}

// CreateGrade adds a grade to a tenant.
func CreateGrade(ctx context.Context, db *sql.DB, tenantID, name, code string) (*model.Ref, error) {
	return createRef(ctx, db, "grade", tenantID, name, code)
}

// ListTenantDepartments returns a tenant's departments.
func ListTenantDepartments(ctx context.Context, db *sql.DB, tenantID string) ([]model.Ref, error) {
	return listRefs(ctx, db, "department", tenantID)
}

// ListTenantPositions returns a tenant's positions.
func ListTenantPositions(ctx context.Context, db *sql.DB, tenantID string) ([]model.Ref, error) {
	return listRefs(ctx, db, "position", tenantID)
}

// ListTenantGrades returns a tenant's grades.
func ListTenantGrades(ctx context.Context, db *sql.DB, tenantID string) ([]model.Ref, error) {
	return listRefs(ctx, db, "grade", tenantID)
}
