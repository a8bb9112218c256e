package export

import (
	"path"

	"github.com/homelabops/inventory/internal/model"
)

// FileExt is the extension of every rendered target file.
const FileExt = ".yaml"

// GroupOther is the fallback folder and bucket for records whose
// monitor type or device type is missing from the static tables.
const GroupOther = "other"

// ZipFileName is the download-mode attachment name.
const ZipFileName = "prometheus_targets.zip"

// deviceBuckets collapses device types that share scrape semantics
// into one output bucket per monitor-type folder.
var deviceBuckets = map[string]string{
	model.DeviceLinuxServerPhysical: "linux-servers",
	model.DeviceLinuxServerVirtual:  "linux-servers",
	model.DeviceFreeBSDServer:       "freebsd-servers",
	model.DeviceNetworkSwitch:       "network-switches",
	model.DeviceWirelessAP:          "wireless-aps",
	model.DeviceICMPOnly:            "icmp-only",
	model.DeviceIPCamera:            "ip-cameras",
	model.DeviceVideoStreamer:       "video-streamers",
	model.DeviceIoT:                 "iot-devices",
	model.DeviceURL:                 "urls",
	model.DeviceDNSRecord:           "dns-records",
	model.DeviceIPMIConsole:         "ipmi-consoles",
	model.DeviceUPSNut:              "ups",
}

// FolderFor maps a monitor type to its output folder. The second
// return is false when the type is unknown; callers fall back to
// GroupOther and record a diagnostic.
func FolderFor(monitorType string) (string, bool) {
	if model.IsValidMonitorType(monitorType) {
		return monitorType, true
	}
	return GroupOther, false
}

// BucketFor maps a device type to its output bucket. The second
// return is false when the type is unknown; callers fall back to
// GroupOther and record a diagnostic.
func BucketFor(deviceType string) (string, bool) {
	if b, ok := deviceBuckets[deviceType]; ok {
		return b, true
	}
	return GroupOther, false
}

// Folders returns every directory name a write-mode run is
// authoritative for. Stale cleanup never leaves this set.
func Folders() []string {
	folders := make([]string, 0, len(model.MonitorTypes)+1)
	folders = append(folders, model.MonitorTypes...)
	folders = append(folders, GroupOther)
	return folders
}

// Key identifies one output file: a monitor-type folder plus a device
// bucket.
type Key struct {
	Folder string
	Bucket string
}

// Path returns the group's file path relative to the export root,
// always with forward slashes.
func (k Key) Path() string {
	return path.Join(k.Folder, k.Bucket+FileExt)
}
