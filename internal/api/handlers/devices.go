// Package handlers implements the HTTP handlers mounted by the API
// router.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/model"
	"github.com/homelabops/inventory/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	historyLimit    = 100
)

// DeviceHandler serves the device CRUD, search and history endpoints.
type DeviceHandler struct {
	deps *common.Dependencies
}

func NewDeviceHandler(deps *common.Dependencies) *DeviceHandler {
	return &DeviceHandler{deps: deps}
}

// List handles GET /devices with filtering and paging.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := parseDeviceFilter(w, r)
	if !ok {
		return
	}

	devices, total, err := h.deps.Store.ListDevices(r.Context(), f)
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}
	if devices == nil {
		devices = []model.Device{}
	}

	common.SendJSON(w, http.StatusOK, map[string]interface{}{
		"data":   devices,
		"total":  total,
		"limit":  f.Limit,
		"offset": f.Offset,
	})
}

// Get handles GET /devices/{id}.
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	device, err := h.deps.Store.GetDevice(r.Context(), id)
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}
	common.SendJSON(w, http.StatusOK, device)
}

// Create handles POST /devices.
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := common.DecodeJSON[model.CreateDeviceRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	device, err := h.deps.Store.CreateDevice(r.Context(), req)
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}
	common.SendJSON(w, http.StatusCreated, device)
}

// Update handles PUT /devices/{id}.
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := common.DecodeJSON[model.UpdateDeviceRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	device, err := h.deps.Store.UpdateDevice(r.Context(), id, req)
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}
	common.SendJSON(w, http.StatusOK, device)
}

// Delete handles DELETE /devices/{id}.
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if common.HandleStoreError(w, r, h.deps.Store.DeleteDevice(r.Context(), id), "Device") {
		return
	}
	common.SendJSON(w, http.StatusNoContent, nil)
}

// History handles GET /devices/{id}/history.
func (h *DeviceHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	// 404 for unknown devices rather than an empty log.
	if _, err := h.deps.Store.GetDevice(r.Context(), id); common.HandleStoreError(w, r, err, "Device") {
		return
	}

	history, err := h.deps.Store.ListDeviceHistory(r.Context(), id, historyLimit)
	if common.HandleStoreError(w, r, err, "Device") {
		return
	}
	common.SendListResponse(w, history, len(history))
}

// parseDeviceFilter reads the list query parameters. Bad values are a
// 400, not silently ignored.
func parseDeviceFilter(w http.ResponseWriter, r *http.Request) (store.DeviceFilter, bool) {
	q := r.URL.Query()
	f := store.DeviceFilter{
		Query:      q.Get("q"),
		DeviceType: q.Get("device_type"),
		Limit:      defaultPageSize,
	}

	if f.DeviceType != "" && !model.IsValidDeviceType(f.DeviceType) {
		common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", "unknown device_type "+f.DeviceType, nil)
		return f, false
	}

	for param, dest := range map[string]**int{
		"vendor_id":   &f.VendorID,
		"model_id":    &f.ModelID,
		"location_id": &f.LocationID,
	} {
		if v := q.Get(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", param+" must be a positive integer", nil)
				return f, false
			}
			*dest = &n
		}
	}

	for param, dest := range map[string]**bool{
		"monitoring_enabled": &f.MonitoringEnabled,
		"poe_powered":        &f.PoEPowered,
		"has_ip":             &f.HasIP,
	} {
		if v := q.Get(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", param+" must be true or false", nil)
				return f, false
			}
			*dest = &b
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", "limit must be between 1 and 500", nil)
			return f, false
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", "offset must not be negative", nil)
			return f, false
		}
		f.Offset = n
	}
	return f, true
}
