// Package api builds the HTTP surface of the inventory service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/api/handlers"
	"github.com/homelabops/inventory/internal/config"
	"github.com/homelabops/inventory/internal/metrics"
	"github.com/homelabops/inventory/internal/middleware"
)

// NewRouter creates and configures the API router
func NewRouter(cfg *config.Config, deps *common.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics)

	// CORS (if enabled)
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.MaxAgeSeconds,
		))
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps)
	deviceHandler := handlers.NewDeviceHandler(deps)
	monitorHandler := handlers.NewMonitorHandler(deps)
	vendorHandler := handlers.NewVendorHandler(deps)
	modelHandler := handlers.NewModelHandler(deps)
	locationHandler := handlers.NewLocationHandler(deps)
	systemHandler := handlers.NewSystemHandler(deps)
	bulkHandler := handlers.NewBulkHandler(deps)
	exportHandler := handlers.NewExportHandler(deps)
	discoveryHandler := handlers.NewDiscoveryHandler(deps)

	// Probes and metrics outside the API prefix
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", deviceHandler.List)
			r.Post("/", deviceHandler.Create)
			r.Get("/{id}", deviceHandler.Get)
			r.Put("/{id}", deviceHandler.Update)
			r.Delete("/{id}", deviceHandler.Delete)
			r.Get("/{id}/history", deviceHandler.History)
			r.Get("/{id}/monitors", monitorHandler.ListForDevice)
			r.Post("/{id}/monitors", monitorHandler.Create)
		})

		r.Route("/monitors", func(r chi.Router) {
			r.Put("/{id}", monitorHandler.Update)
			r.Delete("/{id}", monitorHandler.Delete)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", vendorHandler.List)
			r.Post("/", vendorHandler.Create)
			r.Get("/{id}", vendorHandler.Get)
			r.Put("/{id}", vendorHandler.Update)
			r.Delete("/{id}", vendorHandler.Delete)
		})

		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelHandler.List)
			r.Post("/", modelHandler.Create)
			r.Get("/{id}", modelHandler.Get)
			r.Put("/{id}", modelHandler.Update)
			r.Delete("/{id}", modelHandler.Delete)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", locationHandler.List)
			r.Post("/", locationHandler.Create)
			r.Get("/{id}", locationHandler.Get)
			r.Put("/{id}", locationHandler.Update)
			r.Delete("/{id}", locationHandler.Delete)
		})

		r.Get("/stats", systemHandler.Stats)
		r.Get("/meta/types", systemHandler.MetaTypes)

		r.Route("/bulk", func(r chi.Router) {
			r.Post("/import", bulkHandler.Import)
			r.Get("/export", bulkHandler.Export)
			r.Post("/delete", bulkHandler.Delete)
		})

		r.Post("/discovery/probe", discoveryHandler.Probe)

		r.Get("/export/prometheus", exportHandler.Prometheus)

		r.Get("/health/detailed", healthHandler.Detailed)
	})

	return r
}
