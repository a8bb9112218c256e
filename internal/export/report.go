package export

import (
	"errors"
	"time"
)

// State tracks one export invocation through its phases.
type State string

const (
	StateIdle      State = "idle"
	StateBuilding  State = "building"
	StateRendering State = "rendering"
	StateSinking   State = "sinking"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Diagnostic codes surfaced in run reports.
const (
	DiagData       = "data_error"
	DiagConfig     = "config_error"
	DiagFilesystem = "filesystem_error"
)

// Diagnostic is one per-record or per-run finding accumulated during an
// export.
type Diagnostic struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Device  string `json:"device,omitempty"`
	Monitor string `json:"monitor,omitempty"`
}

// Report summarizes one export invocation.
type Report struct {
	RunID        string       `json:"run_id"`
	Mode         string       `json:"mode"`
	State        State        `json:"state"`
	DevicesSeen  int          `json:"devices_seen"`
	MonitorsSeen int          `json:"monitors_seen"`
	Records      int          `json:"records"`
	Skipped      int          `json:"skipped"`
	Groups       int          `json:"groups"`
	FilesWritten int          `json:"files_written"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
}

// diagnose converts a taxonomy error into a report diagnostic.
func diagnose(err error) Diagnostic {
	var dataErr *DataError
	if errors.As(err, &dataErr) {
		return Diagnostic{
			Level:   "warn",
			Code:    DiagData,
			Message: dataErr.Reason,
			Device:  dataErr.Device,
			Monitor: dataErr.Monitor,
		}
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return Diagnostic{
			Level:   "warn",
			Code:    DiagConfig,
			Message: cfgErr.Reason + " " + cfgErr.Value,
			Device:  cfgErr.Device,
			Monitor: cfgErr.Monitor,
		}
	}
	var fsErr *FilesystemError
	if errors.As(err, &fsErr) {
		return Diagnostic{
			Level:   "error",
			Code:    DiagFilesystem,
			Message: fsErr.Error(),
		}
	}
	return Diagnostic{Level: "error", Code: "internal", Message: err.Error()}
}
