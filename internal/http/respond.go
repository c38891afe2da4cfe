package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// Wire shapes. Amounts marshal as bare JSON numbers via core.Money.
type (
	errorResponse struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors,omitempty"`
	}

	amountResponse struct {
		Amount core.Money `json:"amount"`
	}

	budgetResponse struct {
		Year      int        `json:"year"`
		Month     int        `json:"month"`
		Amount    core.Money `json:"amount"`
		UpdatedAt time.Time  `json:"updatedAt"`
	}

	expenseResponse struct {
		ID        string     `json:"id"`
		Day       int        `json:"day"`
		Name      string     `json:"name"`
		Amount    core.Money `json:"amount"`
		CreatedAt time.Time  `json:"createdAt"`
	}

	summaryResponse struct {
		Year     int        `json:"year"`
		Month    int        `json:"month"`
		Total    core.Money `json:"total"`
		Budget   core.Money `json:"budget"`
		Exceeded bool       `json:"exceeded"`
	}

	userResponse struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}

	authResponse struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
)

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Day:       e.Day,
		Name:      e.Name,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details []string) {
	writeJSON(w, status, errorResponse{Message: message, Errors: details})
}

// respondError maps the core error taxonomy onto status codes.
// Uniqueness violations are folded into 400, matching the source
// system's treatment of duplicates as validation failures.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "Validation failed", verr.Messages)
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusBadRequest, "Record already exists", nil)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found", nil)
	case errors.Is(err, storage.ErrUnavailable):
		slog.ErrorContext(r.Context(), "Storage unavailable", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable", nil)
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// pathInt parses an integer path segment, -1 on failure.
func pathInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return -1
	}
	return v
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
