package api

import (
	"net/http"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/service"
)

// HandoverHandler handles a transfer's checklist endpoints.
type HandoverHandler struct {
	Svc *service.Transfers
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type progressResponse struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
}

// List handles GET /api/transfers/{id}/handover.
func (h *HandoverHandler) List(w http.ResponseWriter, r *http.Request) {
	transferID := r.PathValue("id")

	// A missing transfer is a 404, not an empty checklist.
	if _, err := h.Svc.Get(r.Context(), transferID); err != nil {
		writeError(w, err)
		return
	}

	items, err := h.Svc.ListHandover(r.Context(), transferID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.HandoverItem{}
	}
	completed, total, ratio, _ := h.Svc.Progress(r.Context(), transferID)
	jsonResponse(w, http.StatusOK, map[string]any{
		"items":    items,
		"progress": progressResponse{Completed: completed, Total: total, Ratio: ratio},
	})
}

// Create handles POST /api/transfers/{id}/handover.
func (h *HandoverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.AddHandoverItem(r.Context(), r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]any{
		"item":  res.Item,
		"stale": res.Stale,
	})
}

// Complete handles POST /api/transfers/{id}/handover/{itemID}/complete.
func (h *HandoverHandler) Complete(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.CompleteHandoverItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"item":  res.Item,
		"stale": res.Stale,
	})
}
