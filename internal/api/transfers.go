package api

import (
	"net/http"
	"strconv"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/service"
	"github.com/hrsaas/transferd/internal/store"
	"github.com/hrsaas/transferd/internal/workflow"
)

// TransfersHandler handles the transfer request lifecycle endpoints.
type TransfersHandler struct {
	Svc *service.Transfers
}

type assignmentRequest struct {
	DepartmentID string `json:"department_id"`
	PositionID   string `json:"position_id"`
	GradeID      string `json:"grade_id"`
}

func (a *assignmentRequest) toModel() *model.Assignment {
	if a == nil {
		return nil
	}
	out := &model.Assignment{}
	if a.DepartmentID != "" {
		out.Department = &model.Ref{ID: a.DepartmentID}
	}
	if a.PositionID != "" {
		out.Position = &model.Ref{ID: a.PositionID}
	}
	if a.GradeID != "" {
		out.Grade = &model.Ref{ID: a.GradeID}
	}
	return out
}

type createTransferRequest struct {
	Type            string             `json:"type"`
	EmployeeID      string             `json:"employee_id"`
	TargetTenantID  string             `json:"target_tenant_id"`
	Target          *assignmentRequest `json:"target"`
	TransferDate    string             `json:"transfer_date"`
	ReturnDate      string             `json:"return_date"`
	Reason          string             `json:"reason"`
	Remarks         string             `json:"remarks"`
	HandoverSummary string             `json:"handover_summary"`
}

type updateTransferRequest struct {
	TargetTenantID  string             `json:"target_tenant_id"`
	Target          *assignmentRequest `json:"target"`
	TransferDate    string             `json:"transfer_date"`
	ReturnDate      string             `json:"return_date"`
	Reason          string             `json:"reason"`
	Remarks         string             `json:"remarks"`
	HandoverSummary string             `json:"handover_summary"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// mutationResponse carries the changed transfer plus the view keys a caching
// client should evict.
type mutationResponse struct {
	Transfer *model.TransferRequest `json:"transfer"`
	Stale    []string               `json:"stale"`
}

func writeMutation(w http.ResponseWriter, status int, res *service.Result, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, status, mutationResponse{Transfer: res.Transfer, Stale: res.Stale})
}

// List handles GET /api/transfers.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	params := store.ListParams{
		Keyword: q.Get("keyword"),
		Type:    model.TransferType(q.Get("type")),
		Status:  model.TransferStatus(q.Get("status")),
		Page:    page,
		Size:    size,
	}
	if params.Type != "" && !params.Type.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown transfer type")
		return
	}
	if params.Status != "" && !params.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown transfer status")
		return
	}

	items, total, err := h.Svc.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.TransferListItem{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  params.Page,
	})
}

// Summary handles GET /api/transfers/summary.
func (h *TransfersHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Create handles POST /api/transfers.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.Create(r.Context(), workflow.CreateInput{
		Type:            model.TransferType(req.Type),
		EmployeeID:      req.EmployeeID,
		TargetTenantID:  req.TargetTenantID,
		Target:          req.Target.toModel(),
		TransferDate:    req.TransferDate,
		ReturnDate:      req.ReturnDate,
		Reason:          req.Reason,
		Remarks:         req.Remarks,
		HandoverSummary: req.HandoverSummary,
	})
	writeMutation(w, http.StatusCreated, res, err)
}

// Get handles GET /api/transfers/{id}. The response carries the
// status-derived action flags so clients never hardcode the graph.
func (h *TransfersHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"transfer":    t,
		"permissions": workflow.PermissionsFor(t.Status),
		"warnings":    workflow.Warnings(t),
	})
}

// Update handles PUT /api/transfers/{id}.
func (h *TransfersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.Update(r.Context(), r.PathValue("id"), workflow.UpdatePatch{
		TargetTenantID:  req.TargetTenantID,
		Target:          req.Target.toModel(),
		TransferDate:    req.TransferDate,
		ReturnDate:      req.ReturnDate,
		Reason:          req.Reason,
		Remarks:         req.Remarks,
		HandoverSummary: req.HandoverSummary,
	})
	writeMutation(w, http.StatusOK, res, err)
}

// Delete handles DELETE /api/transfers/{id}.
func (h *TransfersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	stale, err := h.Svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "transfer request deleted",
		"stale":   stale,
	})
}

// Submit handles POST /api/transfers/{id}/submit.
func (h *TransfersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Submit(r.Context(), r.PathValue("id"))
	writeMutation(w, http.StatusOK, res, err)
}

// ApproveSource handles POST /api/transfers/{id}/approve-source.
func (h *TransfersHandler) ApproveSource(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := GetClaims(r.Context())
	res, err := h.Svc.ApproveSource(r.Context(), r.PathValue("id"), claims.ApproverName(), req.Comment)
	writeMutation(w, http.StatusOK, res, err)
}

// ApproveTarget handles POST /api/transfers/{id}/approve-target.
func (h *TransfersHandler) ApproveTarget(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := GetClaims(r.Context())
	res, err := h.Svc.ApproveTarget(r.Context(), r.PathValue("id"), claims.ApproverName(), req.Comment)
	writeMutation(w, http.StatusOK, res, err)
}

// Reject handles POST /api/transfers/{id}/reject.
func (h *TransfersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.Svc.Reject(r.Context(), r.PathValue("id"), req.Comment)
	writeMutation(w, http.StatusOK, res, err)
}

// Complete handles POST /api/transfers/{id}/complete.
func (h *TransfersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Complete(r.Context(), r.PathValue("id"))
	writeMutation(w, http.StatusOK, res, err)
}

// Cancel handles POST /api/transfers/{id}/cancel.
func (h *TransfersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.Svc.Cancel(r.Context(), r.PathValue("id"), req.Reason)
	writeMutation(w, http.StatusOK, res, err)
}
