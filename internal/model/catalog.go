package model

import "slices"

// Device type identifiers. These are the only values accepted for
// Device.DeviceType.
const (
	DeviceLinuxServerPhysical = "linux_server_physical"
	DeviceLinuxServerVirtual  = "linux_server_virtual"
	DeviceFreeBSDServer       = "freebsd_server"
	DeviceNetworkSwitch       = "network_switch"
	DeviceWirelessAP          = "wireless_ap"
	DeviceICMPOnly            = "icmp_only"
	DeviceIPCamera            = "ip_camera"
	DeviceVideoStreamer       = "video_streamer"
	DeviceIoT                 = "iot_device"
	DeviceURL                 = "url"
	DeviceDNSRecord           = "dns_record"
	DeviceIPMIConsole         = "ipmi_console"
	DeviceUPSNut              = "ups_nut"
)

// Monitor type identifiers. These are the only values accepted for
// Monitor.MonitorType.
const (
	MonitorNodeExporter = "node_exporter"
	MonitorSmartprom    = "smartprom"
	MonitorSNMP         = "snmp"
	MonitorICMP         = "icmp"
	MonitorHTTP         = "http"
	MonitorHTTPS        = "https"
	MonitorDNS          = "dns"
	MonitorIPMI         = "ipmi"
	MonitorNut          = "nut"
	MonitorDocker       = "docker"
)

// DeviceTypes lists every valid device type.
var DeviceTypes = []string{
	DeviceLinuxServerPhysical,
	DeviceLinuxServerVirtual,
	DeviceFreeBSDServer,
	DeviceNetworkSwitch,
	DeviceWirelessAP,
	DeviceICMPOnly,
	DeviceIPCamera,
	DeviceVideoStreamer,
	DeviceIoT,
	DeviceURL,
	DeviceDNSRecord,
	DeviceIPMIConsole,
	DeviceUPSNut,
}

// MonitorTypes lists every valid monitor type.
var MonitorTypes = []string{
	MonitorNodeExporter,
	MonitorSmartprom,
	MonitorSNMP,
	MonitorICMP,
	MonitorHTTP,
	MonitorHTTPS,
	MonitorDNS,
	MonitorIPMI,
	MonitorNut,
	MonitorDocker,
}

// DefaultPorts maps monitor types to the scrape port used when a monitor
// carries no explicit port. icmp is absent: ping targets stay portless.
var DefaultPorts = map[string]int{
	MonitorNodeExporter: 9100,
	MonitorSmartprom:    9902,
	MonitorSNMP:         161,
	MonitorHTTP:         80,
	MonitorHTTPS:        443,
	MonitorDNS:          53,
	MonitorIPMI:         623,
	MonitorNut:          3493,
	MonitorDocker:       8090,
}

// PoEStandards lists the accepted poe_standards values.
var PoEStandards = []string{
	"802.3af",
	"802.3at",
	"802.3bt",
	"passive_24v",
	"passive_48v",
}

// IsValidDeviceType reports whether t is a known device type.
func IsValidDeviceType(t string) bool {
	return slices.Contains(DeviceTypes, t)
}

// IsValidMonitorType reports whether t is a known monitor type.
func IsValidMonitorType(t string) bool {
	return slices.Contains(MonitorTypes, t)
}
