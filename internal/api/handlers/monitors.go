package handlers

import (
	"net/http"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/model"
)

// MonitorHandler serves the per-device monitor endpoints.
type MonitorHandler struct {
	deps *common.Dependencies
}

func NewMonitorHandler(deps *common.Dependencies) *MonitorHandler {
	return &MonitorHandler{deps: deps}
}

// ListForDevice handles GET /devices/{id}/monitors.
func (h *MonitorHandler) ListForDevice(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.deps.Store.GetDevice(r.Context(), deviceID); common.HandleStoreError(w, r, err, "Device") {
		return
	}

	monitors, err := h.deps.Store.ListMonitors(r.Context(), deviceID)
	if common.HandleStoreError(w, r, err, "Monitor") {
		return
	}
	common.SendListResponse(w, monitors, len(monitors))
}

// Create handles POST /devices/{id}/monitors.
func (h *MonitorHandler) Create(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := common.DecodeJSON[model.CreateMonitorRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	monitor, err := h.deps.Store.CreateMonitor(r.Context(), deviceID, req)
	if common.HandleStoreError(w, r, err, "Monitor") {
		return
	}
	common.SendJSON(w, http.StatusCreated, monitor)
}

// Update handles PUT /monitors/{id}.
func (h *MonitorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := common.DecodeJSON[model.UpdateMonitorRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	monitor, err := h.deps.Store.UpdateMonitor(r.Context(), id, req)
	if common.HandleStoreError(w, r, err, "Monitor") {
		return
	}
	common.SendJSON(w, http.StatusOK, monitor)
}

// Delete handles DELETE /monitors/{id}.
func (h *MonitorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if common.HandleStoreError(w, r, h.deps.Store.DeleteMonitor(r.Context(), id), "Monitor") {
		return
	}
	common.SendJSON(w, http.StatusNoContent, nil)
}
