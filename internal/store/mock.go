package store

import (
	"context"

	"github.com/homelabops/inventory/internal/model"
	"github.com/jackc/pgx/v5"
)

// MockStore implements Store with overridable function fields. Methods
// without an override return the zero value, except reads of a single
// row which return pgx.ErrNoRows so handlers exercise their not-found
// paths by default.
type MockStore struct {
	ListDevicesFunc       func(ctx context.Context, f DeviceFilter) ([]model.Device, int, error)
	GetDeviceFunc         func(ctx context.Context, id int) (model.Device, error)
	GetDeviceByNameFunc   func(ctx context.Context, name string) (model.Device, error)
	CreateDeviceFunc      func(ctx context.Context, req model.CreateDeviceRequest) (model.Device, error)
	UpdateDeviceFunc      func(ctx context.Context, id int, req model.UpdateDeviceRequest) (model.Device, error)
	DeleteDeviceFunc      func(ctx context.Context, id int) error
	ListDeviceHistoryFunc func(ctx context.Context, deviceID, limit int) ([]model.DeviceHistory, error)

	ListMonitorsFunc  func(ctx context.Context, deviceID int) ([]model.Monitor, error)
	CreateMonitorFunc func(ctx context.Context, deviceID int, req model.CreateMonitorRequest) (model.Monitor, error)
	UpdateMonitorFunc func(ctx context.Context, id int, req model.UpdateMonitorRequest) (model.Monitor, error)
	DeleteMonitorFunc func(ctx context.Context, id int) error

	ListVendorsFunc    func(ctx context.Context) ([]model.Vendor, error)
	GetVendorFunc      func(ctx context.Context, id int) (model.Vendor, error)
	CreateVendorFunc   func(ctx context.Context, name string) (model.Vendor, error)
	UpdateVendorFunc   func(ctx context.Context, id int, name string) (model.Vendor, error)
	DeleteVendorFunc   func(ctx context.Context, id int) error
	ListModelsFunc     func(ctx context.Context, vendorID *int) ([]model.HardwareModel, error)
	GetModelFunc       func(ctx context.Context, id int) (model.HardwareModel, error)
	CreateModelFunc    func(ctx context.Context, req model.CreateModelRequest) (model.HardwareModel, error)
	UpdateModelFunc    func(ctx context.Context, id int, req model.CreateModelRequest) (model.HardwareModel, error)
	DeleteModelFunc    func(ctx context.Context, id int) error
	ListLocationsFunc  func(ctx context.Context) ([]model.Location, error)
	GetLocationFunc    func(ctx context.Context, id int) (model.Location, error)
	CreateLocationFunc func(ctx context.Context, name string) (model.Location, error)
	UpdateLocationFunc func(ctx context.Context, id int, name string) (model.Location, error)
	DeleteLocationFunc func(ctx context.Context, id int) error

	UpsertDeviceByNameFunc         func(ctx context.Context, req model.CreateDeviceRequest) (model.Device, bool, error)
	ListAllDevicesWithMonitorsFunc func(ctx context.Context) ([]model.Device, error)

	GetStatsFunc                       func(ctx context.Context) (model.Stats, error)
	ListEnabledDevicesWithMonitorsFunc func(ctx context.Context) ([]model.Device, error)

	PingFunc func(ctx context.Context) error
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) ListDevices(ctx context.Context, f DeviceFilter) ([]model.Device, int, error) {
	if m.ListDevicesFunc != nil {
		return m.ListDevicesFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockStore) GetDevice(ctx context.Context, id int) (model.Device, error) {
	if m.GetDeviceFunc != nil {
		return m.GetDeviceFunc(ctx, id)
	}
	return model.Device{}, pgx.ErrNoRows
}

func (m *MockStore) GetDeviceByName(ctx context.Context, name string) (model.Device, error) {
	if m.GetDeviceByNameFunc != nil {
		return m.GetDeviceByNameFunc(ctx, name)
	}
	return model.Device{}, pgx.ErrNoRows
}

func (m *MockStore) CreateDevice(ctx context.Context, req model.CreateDeviceRequest) (model.Device, error) {
	if m.CreateDeviceFunc != nil {
		return m.CreateDeviceFunc(ctx, req)
	}
	return model.Device{}, nil
}

func (m *MockStore) UpdateDevice(ctx context.Context, id int, req model.UpdateDeviceRequest) (model.Device, error) {
	if m.UpdateDeviceFunc != nil {
		return m.UpdateDeviceFunc(ctx, id, req)
	}
	return model.Device{}, pgx.ErrNoRows
}

func (m *MockStore) DeleteDevice(ctx context.Context, id int) error {
	if m.DeleteDeviceFunc != nil {
		return m.DeleteDeviceFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListDeviceHistory(ctx context.Context, deviceID, limit int) ([]model.DeviceHistory, error) {
	if m.ListDeviceHistoryFunc != nil {
		return m.ListDeviceHistoryFunc(ctx, deviceID, limit)
	}
	return nil, nil
}

func (m *MockStore) ListMonitors(ctx context.Context, deviceID int) ([]model.Monitor, error) {
	if m.ListMonitorsFunc != nil {
		return m.ListMonitorsFunc(ctx, deviceID)
	}
	return nil, nil
}

func (m *MockStore) CreateMonitor(ctx context.Context, deviceID int, req model.CreateMonitorRequest) (model.Monitor, error) {
	if m.CreateMonitorFunc != nil {
		return m.CreateMonitorFunc(ctx, deviceID, req)
	}
	return model.Monitor{}, nil
}

func (m *MockStore) UpdateMonitor(ctx context.Context, id int, req model.UpdateMonitorRequest) (model.Monitor, error) {
	if m.UpdateMonitorFunc != nil {
		return m.UpdateMonitorFunc(ctx, id, req)
	}
	return model.Monitor{}, pgx.ErrNoRows
}

func (m *MockStore) DeleteMonitor(ctx context.Context, id int) error {
	if m.DeleteMonitorFunc != nil {
		return m.DeleteMonitorFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	if m.ListVendorsFunc != nil {
		return m.ListVendorsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetVendor(ctx context.Context, id int) (model.Vendor, error) {
	if m.GetVendorFunc != nil {
		return m.GetVendorFunc(ctx, id)
	}
	return model.Vendor{}, pgx.ErrNoRows
}

func (m *MockStore) CreateVendor(ctx context.Context, name string) (model.Vendor, error) {
	if m.CreateVendorFunc != nil {
		return m.CreateVendorFunc(ctx, name)
	}
	return model.Vendor{}, nil
}

func (m *MockStore) UpdateVendor(ctx context.Context, id int, name string) (model.Vendor, error) {
	if m.UpdateVendorFunc != nil {
		return m.UpdateVendorFunc(ctx, id, name)
	}
	return model.Vendor{}, pgx.ErrNoRows
}

func (m *MockStore) DeleteVendor(ctx context.Context, id int) error {
	if m.DeleteVendorFunc != nil {
		return m.DeleteVendorFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListModels(ctx context.Context, vendorID *int) ([]model.HardwareModel, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx, vendorID)
	}
	return nil, nil
}

func (m *MockStore) GetModel(ctx context.Context, id int) (model.HardwareModel, error) {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(ctx, id)
	}
	return model.HardwareModel{}, pgx.ErrNoRows
}

func (m *MockStore) CreateModel(ctx context.Context, req model.CreateModelRequest) (model.HardwareModel, error) {
	if m.CreateModelFunc != nil {
		return m.CreateModelFunc(ctx, req)
	}
	return model.HardwareModel{}, nil
}

func (m *MockStore) UpdateModel(ctx context.Context, id int, req model.CreateModelRequest) (model.HardwareModel, error) {
	if m.UpdateModelFunc != nil {
		return m.UpdateModelFunc(ctx, id, req)
	}
	return model.HardwareModel{}, pgx.ErrNoRows
}

func (m *MockStore) DeleteModel(ctx context.Context, id int) error {
	if m.DeleteModelFunc != nil {
		return m.DeleteModelFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetLocation(ctx context.Context, id int) (model.Location, error) {
	if m.GetLocationFunc != nil {
		return m.GetLocationFunc(ctx, id)
	}
	return model.Location{}, pgx.ErrNoRows
}

func (m *MockStore) CreateLocation(ctx context.Context, name string) (model.Location, error) {
	if m.CreateLocationFunc != nil {
		return m.CreateLocationFunc(ctx, name)
	}
	return model.Location{}, nil
}

func (m *MockStore) UpdateLocation(ctx context.Context, id int, name string) (model.Location, error) {
	if m.UpdateLocationFunc != nil {
		return m.UpdateLocationFunc(ctx, id, name)
	}
	return model.Location{}, pgx.ErrNoRows
}

func (m *MockStore) DeleteLocation(ctx context.Context, id int) error {
	if m.DeleteLocationFunc != nil {
		return m.DeleteLocationFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) UpsertDeviceByName(ctx context.Context, req model.CreateDeviceRequest) (model.Device, bool, error) {
	if m.UpsertDeviceByNameFunc != nil {
		return m.UpsertDeviceByNameFunc(ctx, req)
	}
	return model.Device{}, false, nil
}

func (m *MockStore) ListAllDevicesWithMonitors(ctx context.Context) ([]model.Device, error) {
	if m.ListAllDevicesWithMonitorsFunc != nil {
		return m.ListAllDevicesWithMonitorsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetStats(ctx context.Context) (model.Stats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx)
	}
	return model.Stats{}, nil
}

func (m *MockStore) ListEnabledDevicesWithMonitors(ctx context.Context) ([]model.Device, error) {
	if m.ListEnabledDevicesWithMonitorsFunc != nil {
		return m.ListEnabledDevicesWithMonitorsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
