package handlers

import (
	"net/http"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/export"
	"github.com/homelabops/inventory/internal/model"
)

// SystemHandler serves the stats and catalog metadata endpoints.
type SystemHandler struct {
	deps *common.Dependencies
}

func NewSystemHandler(deps *common.Dependencies) *SystemHandler {
	return &SystemHandler{deps: deps}
}

// Stats handles GET /stats.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Store.GetStats(r.Context())
	if common.HandleStoreError(w, r, err, "Stats") {
		return
	}
	common.SendJSON(w, http.StatusOK, stats)
}

// monitorTypeInfo pairs a monitor type with its default scrape port.
type monitorTypeInfo struct {
	Type        string `json:"type"`
	DefaultPort int    `json:"default_port,omitempty"`
}

// MetaTypes handles GET /meta/types: the static catalogs clients build
// their forms from.
func (h *SystemHandler) MetaTypes(w http.ResponseWriter, r *http.Request) {
	monitorTypes := make([]monitorTypeInfo, 0, len(model.MonitorTypes))
	for _, t := range model.MonitorTypes {
		monitorTypes = append(monitorTypes, monitorTypeInfo{
			Type:        t,
			DefaultPort: model.DefaultPorts[t],
		})
	}

	common.SendJSON(w, http.StatusOK, map[string]interface{}{
		"device_types":   model.DeviceTypes,
		"monitor_types":  monitorTypes,
		"poe_standards":  model.PoEStandards,
		"export_folders": export.Folders(),
	})
}
