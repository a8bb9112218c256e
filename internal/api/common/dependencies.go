package common

import (
	"log/slog"
	"time"

	"github.com/homelabops/inventory/internal/discovery"
	"github.com/homelabops/inventory/internal/export"
	"github.com/homelabops/inventory/internal/store"
)

// Dependencies bundles everything handlers need.
type Dependencies struct {
	Store     store.Store
	Exporter  *export.Exporter
	Prober    *discovery.Prober
	Logger    *slog.Logger
	StartedAt time.Time
}
