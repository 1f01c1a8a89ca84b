package model

import "time"

// Tenant is one organization in the group.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Department belongs to a tenant.
type Department struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
}

// Position belongs to a tenant.
type Position struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
}

// Grade belongs to a tenant.
type Grade struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
}

// Employee statuses.
const (
	EmployeeActive   = "active"
	EmployeeResigned = "resigned"
)

// Employee is one person's record within a single tenant. A completed
// transfer resigns the source record and creates a fresh one in the
// target tenant.
type Employee struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	EmployeeNumber string     `json:"employee_number"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	DepartmentID   string     `json:"department_id,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	PositionName   string     `json:"position_name,omitempty"`
	GradeName      string     `json:"grade_name,omitempty"`
	Status         string     `json:"status"`
	PhotoMime      string     `json:"photo_mime,omitempty"`
	HireDate       string     `json:"hire_date,omitempty"`
	ResignDate     string     `json:"resign_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}
