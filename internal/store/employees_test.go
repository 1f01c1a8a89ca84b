package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hrsaas/transferd/internal/model"
)

func TestSearchEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	CreateEmployee(ctx, f.db, model.Employee{
		TenantID:       f.source.ID,
		EmployeeNumber: "E20210002",
		Name:           "Lee Younghee",
		DepartmentID:   f.dept.ID,
	})
	CreateEmployee(ctx, f.db, model.Employee{
		TenantID:       f.target.ID,
		EmployeeNumber: "E20190001",
		Name:           "Kim Minsu",
	})
	resigned, _ := CreateEmployee(ctx, f.db, model.Employee{
		TenantID:       f.source.ID,
		EmployeeNumber: "E20180003",
		Name:           "Kim Retired",
	})
	f.db.ExecContext(ctx, `UPDATE employees SET status = 'resigned' WHERE id = ?`, resigned.ID)

	// Search is tenant-scoped and skips resigned records.
	got, err := SearchEmployees(ctx, f.db, f.source.ID, "Kim", 10)
	if err != nil {
		t.Fatalf("SearchEmployees: %v", err)
	}
	if len(got) != 1 || got[0].ID != f.employee.ID {
		t.Fatalf("expected only the active source-tenant Kim, got %d", len(got))
	}
	if got[0].DepartmentName != "People Team" {
		t.Errorf("department name not joined: %q", got[0].DepartmentName)
	}

	// Employee number matches too.
	byNumber, _ := SearchEmployees(ctx, f.db, f.source.ID, "E2021", 10)
	if len(byNumber) != 1 || byNumber[0].Name != "Lee Younghee" {
		t.Errorf("number search: %+v", byNumber)
	}

	all, _ := SearchEmployees(ctx, f.db, f.source.ID, "", 10)
	if len(all) != 2 {
		t.Errorf("blank query should list active tenant employees, got %d", len(all))
	}

	limited, _ := SearchEmployees(ctx, f.db, f.source.ID, "", 1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}
}

func TestEmployeePhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, _, err := GetEmployeePhoto(ctx, f.db, f.employee.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("photo before upload: %v", err)
	}

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	if err := SetEmployeePhoto(ctx, f.db, f.employee.ID, payload, "image/jpeg"); err != nil {
		t.Fatalf("SetEmployeePhoto: %v", err)
	}

	photo, mime, err := GetEmployeePhoto(ctx, f.db, f.employee.ID)
	if err != nil {
		t.Fatalf("GetEmployeePhoto: %v", err)
	}
	if mime != "image/jpeg" || len(photo) != len(payload) {
		t.Errorf("photo round-trip: %q %d bytes", mime, len(photo))
	}

	if err := SetEmployeePhoto(ctx, f.db, "nonexistent", payload, "image/jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("photo on unknown employee: %v", err)
	}
}
