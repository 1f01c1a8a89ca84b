package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    display_name  TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'hr', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tenants (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT NOT NULL UNIQUE,
    active     INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS departments (
    id        TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL REFERENCES tenants(id),
    name      TEXT NOT NULL,
    code      TEXT
);

CREATE TABLE IF NOT EXISTS positions (
    id        TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL REFERENCES tenants(id),
    name      TEXT NOT NULL,
    code      TEXT
);

CREATE TABLE IF NOT EXISTS grades (
    id        TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL REFERENCES tenants(id),
    name      TEXT NOT NULL,
    code      TEXT
);

CREATE TABLE IF NOT EXISTS employees (
    id              TEXT PRIMARY KEY,
    tenant_id       TEXT NOT NULL REFERENCES tenants(id),
    employee_number TEXT NOT NULL,
    name            TEXT NOT NULL,
    email           TEXT,
    department_id   TEXT REFERENCES departments(id),
    position_name   TEXT,
    grade_name      TEXT,
    status          TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'resigned')),
    photo           BLOB,
    photo_mime      TEXT,
    hire_date       TEXT,
    resign_date     TEXT,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at      DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_number_tenant
    ON employees(tenant_id, employee_number) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS transfer_requests (
    id                     TEXT PRIMARY KEY,
    request_number         TEXT NOT NULL UNIQUE,
    type                   TEXT NOT NULL CHECK (type IN ('TRANSFER_OUT', 'TRANSFER_IN', 'SECONDMENT')),
    status                 TEXT NOT NULL DEFAULT 'DRAFT' CHECK (status IN
        ('DRAFT', 'PENDING_SOURCE', 'PENDING_TARGET', 'APPROVED', 'REJECTED', 'COMPLETED', 'CANCELLED')),
    employee_id            TEXT NOT NULL REFERENCES employees(id),
    employee_name          TEXT,
    employee_number        TEXT,
    current_department     TEXT,
    current_position       TEXT,
    current_grade          TEXT,
    source_tenant_id       TEXT NOT NULL REFERENCES tenants(id),
    source_tenant_name     TEXT,
    source_department_name TEXT,
    target_tenant_id       TEXT NOT NULL REFERENCES tenants(id),
    target_tenant_name     TEXT,
    target_assigned        INTEGER NOT NULL DEFAULT 0,
    target_department_id   TEXT,
    target_department_name TEXT,
    target_position_id     TEXT,
    target_position_name   TEXT,
    target_grade_id        TEXT,
    target_grade_name      TEXT,
    transfer_date          TEXT NOT NULL,
    return_date            TEXT,
    reason                 TEXT NOT NULL,
    remarks                TEXT,
    handover_summary       TEXT,
    source_approved_at     DATETIME,
    source_approver_name   TEXT,
    source_comment         TEXT,
    target_approved_at     DATETIME,
    target_approver_name   TEXT,
    target_comment         TEXT,
    reject_reason          TEXT,
    cancel_reason          TEXT,
    requested_date         DATETIME,
    completed_at           DATETIME,
    created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transfer_requests_status ON transfer_requests(status);
CREATE INDEX IF NOT EXISTS idx_transfer_requests_employee ON transfer_requests(employee_id);

CREATE TABLE IF NOT EXISTS handover_items (
    id           TEXT PRIMARY KEY,
    transfer_id  TEXT NOT NULL REFERENCES transfer_requests(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    description  TEXT,
    is_completed INTEGER NOT NULL DEFAULT 0,
    completed_at DATETIME,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_handover_items_transfer ON handover_items(transfer_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
