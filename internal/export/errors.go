package export

import "fmt"

// DataError reports a malformed device or monitor record. The offending
// record is skipped and the run continues.
type DataError struct {
	Device  string
	Monitor string
	Reason  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("device %q monitor %q: %s", e.Device, e.Monitor, e.Reason)
}

// ConfigError reports a record that fell outside the static mapping
// tables and was routed to the fallback group.
type ConfigError struct {
	Device  string
	Monitor string
	Value   string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("device %q monitor %q: %s %q", e.Device, e.Monitor, e.Reason, e.Value)
}

// FilesystemError aborts a write-mode sink. Path names the file or
// directory the failing operation touched.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
