package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hrsaas/transferd/internal/store"
	"github.com/hrsaas/transferd/internal/workflow"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted
// entirely. An empty body leaves target zero-valued; a present but malformed
// body is still an error.
func decodeOptionalJSON(r *http.Request, target any) error {
	err := decodeJSON(r, target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeError maps domain errors onto HTTP statuses: bad input is 400, a
// missing record 404, and an action the current status does not allow 409.
func writeError(w http.ResponseWriter, err error) {
	var ve *workflow.ValidationError
	if errors.As(err, &ve) {
		jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": ve.Message,
			"field": ve.Field,
		})
		return
	}

	var ite *workflow.InvalidTransitionError
	if errors.As(err, &ite) {
		jsonError(w, http.StatusConflict, ite.Error())
		return
	}

	var hie *workflow.HandoverIncompleteError
	if errors.As(err, &hie) {
		jsonError(w, http.StatusConflict, hie.Error())
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}

	slog.Error("request failed", "error", err)
	jsonError(w, http.StatusInternalServerError, "internal error")
}
