package handlers

import (
	"net/http"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/model"
)

// DiscoveryHandler serves the network probe endpoint.
type DiscoveryHandler struct {
	deps *common.Dependencies
}

func NewDiscoveryHandler(deps *common.Dependencies) *DiscoveryHandler {
	return &DiscoveryHandler{deps: deps}
}

// Probe handles POST /discovery/probe.
func (h *DiscoveryHandler) Probe(w http.ResponseWriter, r *http.Request) {
	req, ok := common.DecodeJSON[model.ProbeRequest](w, r)
	if !ok {
		return
	}
	if !common.ValidateRequest(w, r, &req) {
		return
	}

	resp, err := h.deps.Prober.Probe(r.Context(), req)
	if err != nil {
		common.SendError(w, r, http.StatusBadRequest, "PROBE_FAILED", err.Error(), nil)
		return
	}
	common.SendJSON(w, http.StatusOK, resp)
}
