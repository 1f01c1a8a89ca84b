package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/hrsaas/transferd/internal/imaging"
	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/store"
)

// EmployeesHandler handles the employee lookup and photo endpoints.
type EmployeesHandler struct {
	DB *sql.DB
}

type createEmployeeRequest struct {
	TenantID       string `json:"tenant_id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	DepartmentID   string `json:"department_id"`
	PositionName   string `json:"position_name"`
	GradeName      string `json:"grade_name"`
	HireDate       string `json:"hire_date"`
}

// Search handles GET /api/employees. Query parameters: tenant, q, limit.
func (h *EmployeesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	employees, err := store.SearchEmployees(r.Context(), h.DB, q.Get("tenant"), q.Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	jsonResponse(w, http.StatusOK, employees)
}

// Get handles GET /api/employees/{id}.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := store.GetEmployee(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, employee)
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantID == "" || req.EmployeeNumber == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "tenant_id, employee_number, and name required")
		return
	}

	if _, err := store.GetTenant(r.Context(), h.DB, req.TenantID); err != nil {
		writeError(w, err)
		return
	}

	employee, err := store.CreateEmployee(r.Context(), h.DB, model.Employee{
		TenantID:       req.TenantID,
		EmployeeNumber: req.EmployeeNumber,
		Name:           req.Name,
		Email:          req.Email,
		DepartmentID:   req.DepartmentID,
		PositionName:   req.PositionName,
		GradeName:      req.GradeName,
		HireDate:       req.HireDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, employee)
}

// UploadPhoto handles PUT /api/employees/{id}/photo.
func (h *EmployeesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetEmployeePhoto(r.Context(), h.DB, r.PathValue("id"), photo.Data, photo.MIME); err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/employees/{id}/photo.
func (h *EmployeesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetEmployeePhoto(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
