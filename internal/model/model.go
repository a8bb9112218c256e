package model

import "time"

// Vendor represents a hardware vendor
type Vendor struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// HardwareModel represents a vendor's hardware model
type HardwareModel struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	VendorID   int       `json:"vendor_id"`
	VendorName string    `json:"vendor_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Location represents a physical location (rack, room, site)
type Location struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Device represents a piece of homelab hardware being tracked
type Device struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	DeviceType        string    `json:"device_type"`
	IPAddress         string    `json:"ip_address,omitempty"`
	Function          string    `json:"function,omitempty"`
	VendorID          *int      `json:"vendor_id,omitempty"`
	ModelID           *int      `json:"model_id,omitempty"`
	LocationID        *int      `json:"location_id,omitempty"`
	SerialNumber      string    `json:"serial_number,omitempty"`
	Networks          string    `json:"networks,omitempty"`
	InterfaceType     string    `json:"interface_type,omitempty"`
	PoEPowered        bool      `json:"poe_powered"`
	PoEStandards      string    `json:"poe_standards,omitempty"`
	MonitoringEnabled bool      `json:"monitoring_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Denormalized names, populated on reads
	VendorName   string    `json:"vendor_name,omitempty"`
	ModelName    string    `json:"model_name,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Monitors     []Monitor `json:"monitors,omitempty"`
}

// Monitor represents a monitoring assignment on a device
type Monitor struct {
	ID          int       `json:"id"`
	DeviceID    int       `json:"device_id"`
	MonitorType string    `json:"monitor_type"`
	Endpoint    string    `json:"endpoint,omitempty"`
	Port        *int      `json:"port,omitempty"`
	Enabled     bool      `json:"enabled"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FieldChange records one field's old and new value in a history diff
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// DeviceHistory represents one recorded change to a device
type DeviceHistory struct {
	ID         int                    `json:"id"`
	DeviceID   *int                   `json:"device_id,omitempty"`
	ChangeType string                 `json:"change_type"` // created, updated, deleted
	Diff       map[string]FieldChange `json:"diff,omitempty"`
	Summary    string                 `json:"summary"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Stats represents inventory-wide aggregate counts
type Stats struct {
	TotalDevices     int            `json:"total_devices"`
	EnabledDevices   int            `json:"enabled_devices"`
	DisabledDevices  int            `json:"disabled_devices"`
	TotalMonitors    int            `json:"total_monitors"`
	DeviceTypeCounts map[string]int `json:"device_type_counts"`
	MonitorTypeCount map[string]int `json:"monitor_type_counts"`
}
