// Package store implements the persistence layer over PostgreSQL.
package store

import (
	"context"
	"errors"

	"github.com/homelabops/inventory/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors mapped to HTTP statuses by the API layer. Not-found
// conditions surface as pgx.ErrNoRows, matching what QueryRow returns.
var (
	ErrDuplicateName = errors.New("name already exists")
	ErrInUse         = errors.New("still referenced by devices")
	ErrBadReference  = errors.New("references a missing entity")
)

// DeviceFilter narrows ListDevices. Zero values mean "no filter";
// Limit <= 0 disables paging.
type DeviceFilter struct {
	Query             string
	DeviceType        string
	VendorID          *int
	ModelID           *int
	LocationID        *int
	MonitoringEnabled *bool
	PoEPowered        *bool
	HasIP             *bool
	Limit             int
	Offset            int
}

// Store is the persistence surface consumed by the API layer and the
// export engine.
type Store interface {
	// Devices
	ListDevices(ctx context.Context, f DeviceFilter) ([]model.Device, int, error)
	GetDevice(ctx context.Context, id int) (model.Device, error)
	GetDeviceByName(ctx context.Context, name string) (model.Device, error)
	CreateDevice(ctx context.Context, req model.CreateDeviceRequest) (model.Device, error)
	UpdateDevice(ctx context.Context, id int, req model.UpdateDeviceRequest) (model.Device, error)
	DeleteDevice(ctx context.Context, id int) error
	ListDeviceHistory(ctx context.Context, deviceID, limit int) ([]model.DeviceHistory, error)

	// Monitors
	ListMonitors(ctx context.Context, deviceID int) ([]model.Monitor, error)
	CreateMonitor(ctx context.Context, deviceID int, req model.CreateMonitorRequest) (model.Monitor, error)
	UpdateMonitor(ctx context.Context, id int, req model.UpdateMonitorRequest) (model.Monitor, error)
	DeleteMonitor(ctx context.Context, id int) error

	// Vendors, models, locations
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	GetVendor(ctx context.Context, id int) (model.Vendor, error)
	CreateVendor(ctx context.Context, name string) (model.Vendor, error)
	UpdateVendor(ctx context.Context, id int, name string) (model.Vendor, error)
	DeleteVendor(ctx context.Context, id int) error
	ListModels(ctx context.Context, vendorID *int) ([]model.HardwareModel, error)
	GetModel(ctx context.Context, id int) (model.HardwareModel, error)
	CreateModel(ctx context.Context, req model.CreateModelRequest) (model.HardwareModel, error)
	UpdateModel(ctx context.Context, id int, req model.CreateModelRequest) (model.HardwareModel, error)
	DeleteModel(ctx context.Context, id int) error
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id int) (model.Location, error)
	CreateLocation(ctx context.Context, name string) (model.Location, error)
	UpdateLocation(ctx context.Context, id int, name string) (model.Location, error)
	DeleteLocation(ctx context.Context, id int) error

	// Bulk
	UpsertDeviceByName(ctx context.Context, req model.CreateDeviceRequest) (model.Device, bool, error)
	ListAllDevicesWithMonitors(ctx context.Context) ([]model.Device, error)

	// Aggregates and snapshots
	GetStats(ctx context.Context) (model.Stats, error)
	ListEnabledDevicesWithMonitors(ctx context.Context) ([]model.Device, error)

	Ping(ctx context.Context) error
}

// Querier is the pgx pool surface Postgres runs on. *pgxpool.Pool
// satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	db Querier
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db}
}

// Ping reports whether the database is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// isUniqueViolation reports whether err is a unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a foreign-key error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
