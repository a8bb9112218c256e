package common

import (
	"context"
	"net/http"
)

// CRUDHandler provides a generic implementation for standard CRUD API
// endpoints. T is the entity returned to clients, Req the write
// payload. Write payloads run struct validation before the callback.
type CRUDHandler[T any, Req any] struct {
	Name string // Entity name for error messages

	ListFunc   func(ctx context.Context) ([]T, error)
	CreateFunc func(ctx context.Context, input Req) (T, error)
	GetFunc    func(ctx context.Context, id int) (T, error)
	UpdateFunc func(ctx context.Context, id int, input Req) (T, error)
	DeleteFunc func(ctx context.Context, id int) error
}

// List handles GET requests
func (h *CRUDHandler[T, Req]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.ListFunc(r.Context())
	if HandleStoreError(w, r, err, h.Name) {
		return
	}
	SendListResponse(w, items, len(items))
}

// Create handles POST requests
func (h *CRUDHandler[T, Req]) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := DecodeJSON[Req](w, r)
	if !ok {
		return
	}
	if !ValidateRequest(w, r, &input) {
		return
	}

	item, err := h.CreateFunc(r.Context(), input)
	if HandleStoreError(w, r, err, h.Name) {
		return
	}
	SendJSON(w, http.StatusCreated, item)
}

// Get handles GET /{id} requests
func (h *CRUDHandler[T, Req]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.GetFunc(r.Context(), id)
	if HandleStoreError(w, r, err, h.Name) {
		return
	}
	SendJSON(w, http.StatusOK, item)
}

// Update handles PUT /{id} requests
func (h *CRUDHandler[T, Req]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	input, ok := DecodeJSON[Req](w, r)
	if !ok {
		return
	}
	if !ValidateRequest(w, r, &input) {
		return
	}

	item, err := h.UpdateFunc(r.Context(), id, input)
	if HandleStoreError(w, r, err, h.Name) {
		return
	}
	SendJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /{id} requests
func (h *CRUDHandler[T, Req]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if HandleStoreError(w, r, h.DeleteFunc(r.Context(), id), h.Name) {
		return
	}
	SendJSON(w, http.StatusNoContent, nil)
}
