package model

// CreateDeviceRequest is the payload for creating a device
type CreateDeviceRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=255"`
	DeviceType        string `json:"device_type" validate:"required"`
	IPAddress         string `json:"ip_address,omitempty"`
	Function          string `json:"function,omitempty" validate:"max=255"`
	VendorID          *int   `json:"vendor_id,omitempty"`
	ModelID           *int   `json:"model_id,omitempty"`
	LocationID        *int   `json:"location_id,omitempty"`
	SerialNumber      string `json:"serial_number,omitempty" validate:"max=255"`
	Networks          string `json:"networks,omitempty" validate:"max=255"`
	InterfaceType     string `json:"interface_type,omitempty" validate:"max=64"`
	PoEPowered        bool   `json:"poe_powered"`
	PoEStandards      string `json:"poe_standards,omitempty" validate:"max=255"`
	MonitoringEnabled *bool  `json:"monitoring_enabled,omitempty"`
}

// UpdateDeviceRequest is the payload for updating a device.
// It carries the full desired state, same shape as create.
type UpdateDeviceRequest = CreateDeviceRequest

// CreateMonitorRequest is the payload for attaching a monitor to a device
type CreateMonitorRequest struct {
	MonitorType string `json:"monitor_type" validate:"required"`
	Endpoint    string `json:"endpoint,omitempty" validate:"max=255"`
	Port        *int   `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Notes       string `json:"notes,omitempty" validate:"max=1024"`
}

// UpdateMonitorRequest is the payload for updating a monitor
type UpdateMonitorRequest = CreateMonitorRequest

// NameRequest is the payload for the name-only entities
// (vendors, locations)
type NameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// CreateModelRequest is the payload for creating a hardware model
type CreateModelRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	VendorID int    `json:"vendor_id" validate:"required,min=1"`
}

// BulkDeleteRequest is the payload for deleting devices in bulk
type BulkDeleteRequest struct {
	IDs []int `json:"ids" validate:"required,min=1,max=500,dive,min=1"`
}

// ProbeRequest is the payload for a network discovery probe
type ProbeRequest struct {
	CIDR      string   `json:"cidr,omitempty"`
	Targets   []string `json:"targets,omitempty"`
	Ports     []int    `json:"ports,omitempty" validate:"omitempty,max=16,dive,min=1,max=65535"`
	TimeoutMS int      `json:"timeout_ms,omitempty" validate:"omitempty,min=100,max=5000"`
}
