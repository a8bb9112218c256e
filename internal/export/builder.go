package export

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/homelabops/inventory/internal/model"
)

// Record is one scrape target derived from a device/monitor pair.
type Record struct {
	DeviceName string
	Port       int
	Target     string
	Labels     map[string]string
}

// BuildRecord converts one device and one monitor into a scrape-target
// record. It returns (nil, nil) when the pair is skipped without fault:
// the device or monitor is disabled, or the device has no address. A
// *DataError is returned for addresses that are not host-only.
//
// The effective port is the monitor's own port when set, else the
// monitor type's default. Types without a default (icmp) yield a
// host-only target. http and https targets carry their scheme.
func BuildRecord(d *model.Device, m *model.Monitor) (*Record, error) {
	if !d.MonitoringEnabled || !m.Enabled {
		return nil, nil
	}

	host := strings.TrimSpace(d.IPAddress)
	if host == "" {
		return nil, nil
	}

	// A bare IPv6 address contains colons but is not host:port form.
	if _, err := netip.ParseAddr(host); err != nil && strings.Contains(host, ":") {
		return nil, &DataError{
			Device:  d.Name,
			Monitor: m.MonitorType,
			Reason:  "address contains a port separator, must be host only",
		}
	}

	port := 0
	if m.Port != nil {
		port = *m.Port
	} else if p, ok := model.DefaultPorts[m.MonitorType]; ok {
		port = p
	}

	target := host
	if port > 0 {
		target = net.JoinHostPort(host, strconv.Itoa(port))
	}

	switch m.MonitorType {
	case model.MonitorHTTP:
		target = "http://" + target
	case model.MonitorHTTPS:
		target = "https://" + target
	}

	return &Record{
		DeviceName: d.Name,
		Port:       port,
		Target:     target,
		Labels:     buildLabels(d, m, host),
	}, nil
}

// buildLabels assembles the full label set attached to every target.
// Unset source fields become empty strings so the label keys are stable
// across records.
func buildLabels(d *model.Device, m *model.Monitor, host string) map[string]string {
	return map[string]string{
		"device_name":      d.Name,
		"device_type":      d.DeviceType,
		"ip_address":       host,
		"function":         d.Function,
		"networks":         d.Networks,
		"vendor":           d.VendorName,
		"model":            d.ModelName,
		"location":         d.LocationName,
		"serial_number":    d.SerialNumber,
		"interface_type":   d.InterfaceType,
		"poe_powered":      strconv.FormatBool(d.PoEPowered),
		"poe_standards":    d.PoEStandards,
		"monitor_type":     m.MonitorType,
		"monitor_endpoint": m.Endpoint,
	}
}
