package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/model"
)

// NewVendorHandler builds the vendor CRUD endpoints.
func NewVendorHandler(deps *common.Dependencies) *common.CRUDHandler[model.Vendor, model.NameRequest] {
	return &common.CRUDHandler[model.Vendor, model.NameRequest]{
		Name: "Vendor",
		ListFunc: func(ctx context.Context) ([]model.Vendor, error) {
			return deps.Store.ListVendors(ctx)
		},
		CreateFunc: func(ctx context.Context, input model.NameRequest) (model.Vendor, error) {
			return deps.Store.CreateVendor(ctx, input.Name)
		},
		GetFunc: deps.Store.GetVendor,
		UpdateFunc: func(ctx context.Context, id int, input model.NameRequest) (model.Vendor, error) {
			return deps.Store.UpdateVendor(ctx, id, input.Name)
		},
		DeleteFunc: deps.Store.DeleteVendor,
	}
}

// NewLocationHandler builds the location CRUD endpoints.
func NewLocationHandler(deps *common.Dependencies) *common.CRUDHandler[model.Location, model.NameRequest] {
	return &common.CRUDHandler[model.Location, model.NameRequest]{
		Name: "Location",
		ListFunc: func(ctx context.Context) ([]model.Location, error) {
			return deps.Store.ListLocations(ctx)
		},
		CreateFunc: func(ctx context.Context, input model.NameRequest) (model.Location, error) {
			return deps.Store.CreateLocation(ctx, input.Name)
		},
		GetFunc: deps.Store.GetLocation,
		UpdateFunc: func(ctx context.Context, id int, input model.NameRequest) (model.Location, error) {
			return deps.Store.UpdateLocation(ctx, id, input.Name)
		},
		DeleteFunc: deps.Store.DeleteLocation,
	}
}

// ModelHandler wraps the model CRUD endpoints; its list supports the
// vendor_id filter the generic handler has no slot for.
type ModelHandler struct {
	*common.CRUDHandler[model.HardwareModel, model.CreateModelRequest]
	deps *common.Dependencies
}

func NewModelHandler(deps *common.Dependencies) *ModelHandler {
	return &ModelHandler{
		deps: deps,
		CRUDHandler: &common.CRUDHandler[model.HardwareModel, model.CreateModelRequest]{
			Name:       "Model",
			CreateFunc: deps.Store.CreateModel,
			GetFunc:    deps.Store.GetModel,
			UpdateFunc: deps.Store.UpdateModel,
			DeleteFunc: deps.Store.DeleteModel,
		},
	}
}

// List handles GET /models with an optional vendor_id filter.
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	var vendorID *int
	if v := r.URL.Query().Get("vendor_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			common.SendError(w, r, http.StatusBadRequest, "INVALID_FILTER", "vendor_id must be a positive integer", nil)
			return
		}
		vendorID = &n
	}

	models, err := h.deps.Store.ListModels(r.Context(), vendorID)
	if common.HandleStoreError(w, r, err, "Model") {
		return
	}
	common.SendListResponse(w, models, len(models))
}
