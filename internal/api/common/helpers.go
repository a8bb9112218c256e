package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/homelabops/inventory/internal/middleware"
	"github.com/homelabops/inventory/internal/model"
	"github.com/homelabops/inventory/internal/store"
	"github.com/jackc/pgx/v5"
)

// SendJSON sends a JSON response
func SendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// SendError sends a standardized error response
func SendError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	requestID, _ := r.Context().Value(middleware.RequestIDKey).(string)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := middleware.ErrorResponse{
		Error: middleware.ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// ParseIDParam extracts and validates an integer ID from URL params
func ParseIDParam(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		SendError(w, r, http.StatusBadRequest, "INVALID_ID", "ID must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// DecodeJSON decodes request body with error handling
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		SendError(w, r, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body", err.Error())
		return input, false
	}
	return input, true
}

// ValidateRequest runs struct validation and reports failures as a 400.
func ValidateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := model.ValidateStruct(req); err != nil {
		var verrs *model.ValidationErrors
		if errors.As(err, &verrs) {
			SendError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), verrs.Errors)
		} else {
			SendError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		}
		return false
	}
	return true
}

// HandleStoreError sends the appropriate error response for store
// errors and reports whether one was sent.
func HandleStoreError(w http.ResponseWriter, r *http.Request, err error, entityName string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		SendError(w, r, http.StatusNotFound, "NOT_FOUND", entityName+" not found", nil)
	case errors.Is(err, store.ErrDuplicateName):
		SendError(w, r, http.StatusConflict, "DUPLICATE_NAME", err.Error(), nil)
	case errors.Is(err, store.ErrInUse):
		SendError(w, r, http.StatusConflict, "IN_USE", err.Error(), nil)
	case errors.Is(err, store.ErrBadReference):
		SendError(w, r, http.StatusBadRequest, "BAD_REFERENCE", err.Error(), nil)
	default:
		SendError(w, r, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
	}
	return true
}

// SendListResponse sends a standardized list response. A nil slice
// serializes as an empty array, never null.
func SendListResponse[T any](w http.ResponseWriter, data []T, total int) {
	if data == nil {
		data = []T{}
	}
	SendJSON(w, http.StatusOK, map[string]interface{}{
		"data":  data,
		"total": total,
	})
}
