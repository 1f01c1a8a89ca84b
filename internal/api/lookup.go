package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/store"
)

// LookupHandler serves the tenant and reference-data endpoints backing the
// transfer form's dropdowns.
type LookupHandler struct {
	DB *sql.DB
}

type createTenantRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type createRefRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// AvailableTenants handles GET /api/tenants/available. The exclude parameter
// drops the caller's own tenant from the destination list.
func (h *LookupHandler) AvailableTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := store.ListAvailableTenants(r.Context(), h.DB, r.URL.Query().Get("exclude"))
	if err != nil {
		writeError(w, err)
		return
	}
	if tenants == nil {
		tenants = []model.Tenant{}
	}
	jsonResponse(w, http.StatusOK, tenants)
}

// CreateTenant handles POST /api/tenants.
func (h *LookupHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Code == "" {
		jsonError(w, http.StatusBadRequest, "name and code required")
		return
	}

	tenant, err := store.CreateTenant(r.Context(), h.DB, req.Name, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tenant)
}

// GetTenant handles GET /api/tenants/{id}.
func (h *LookupHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := store.GetTenant(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, tenant)
}

// Departments handles GET /api/tenants/{id}/departments.
func (h *LookupHandler) Departments(w http.ResponseWriter, r *http.Request) {
	h.listRefs(w, r, store.ListTenantDepartments)
}

// Positions handles GET /api/tenants/{id}/positions.
func (h *LookupHandler) Positions(w http.ResponseWriter, r *http.Request) {
	h.listRefs(w, r, store.ListTenantPositions)
}

// Grades handles GET /api/tenants/{id}/grades.
func (h *LookupHandler) Grades(w http.ResponseWriter, r *http.Request) {
	h.listRefs(w, r, store.ListTenantGrades)
}

func (h *LookupHandler) listRefs(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, db *sql.DB, tenantID string) ([]model.Ref, error)) {
	refs, err := list(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if refs == nil {
		refs = []model.Ref{}
	}
	jsonResponse(w, http.StatusOK, refs)
}

// CreateDepartment handles POST /api/tenants/{id}/departments.
func (h *LookupHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	h.createRef(w, r, store.CreateDepartment)
}

// CreatePosition handles POST /api/tenants/{id}/positions.
func (h *LookupHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	h.createRef(w, r, store.CreatePosition)
}

// CreateGrade handles POST /api/tenants/{id}/grades.
func (h *LookupHandler) CreateGrade(w http.ResponseWriter, r *http.Request) {
	h.createRef(w, r, store.CreateGrade)
}

func (h *LookupHandler) createRef(w http.ResponseWriter, r *http.Request,
	create func(ctx context.Context, db *sql.DB, tenantID, name, code string) (*model.Ref, error)) {
	var req createRefRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	ref, err := create(r.Context(), h.DB, r.PathValue("id"), req.Name, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, ref)
}
