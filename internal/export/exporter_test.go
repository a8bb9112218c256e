package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/homelabops/inventory/internal/model"
	"gopkg.in/yaml.v3"
)

// mockSource implements Source with overridable behavior per test.
type mockSource struct {
	ListFunc func(ctx context.Context) ([]model.Device, error)
}

func (m *mockSource) ListEnabledDevicesWithMonitors(ctx context.Context) ([]model.Device, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticSource(devices []model.Device) *mockSource {
	return &mockSource{
		ListFunc: func(ctx context.Context) ([]model.Device, error) {
			return devices, nil
		},
	}
}

// webServersSnapshot is the two-device acceptance snapshot: web01 with
// the default node_exporter port, web02 with an explicit one.
func webServersSnapshot() []model.Device {
	return []model.Device{
		{
			Name:              "web01",
			DeviceType:        model.DeviceLinuxServerPhysical,
			IPAddress:         "10.0.0.5",
			MonitoringEnabled: true,
			Monitors: []model.Monitor{
				{MonitorType: "node_exporter", Enabled: true},
			},
		},
		{
			Name:              "web02",
			DeviceType:        model.DeviceLinuxServerVirtual,
			IPAddress:         "10.0.0.6",
			MonitoringEnabled: true,
			Monitors: []model.Monitor{
				{MonitorType: "node_exporter", Port: intp(9200), Enabled: true},
			},
		},
	}
}

func readBlocks(t *testing.T, path string) []TargetGroup {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var blocks []TargetGroup
	if err := yaml.Unmarshal(data, &blocks); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
	return blocks
}

func TestExporter_EndToEnd(t *testing.T) {
	root := t.TempDir()
	e := New(staticSource(webServersSnapshot()), root, testLogger())

	report, archive, err := e.Run(context.Background(), ModeWrite)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if archive != nil {
		t.Error("write mode returned archive bytes")
	}
	if report.State != StateDone {
		t.Errorf("report state = %q, want %q", report.State, StateDone)
	}
	if report.DevicesSeen != 2 || report.MonitorsSeen != 2 || report.Records != 2 {
		t.Errorf("report counts = %d devices, %d monitors, %d records; want 2, 2, 2",
			report.DevicesSeen, report.MonitorsSeen, report.Records)
	}
	if report.Groups != 1 || report.FilesWritten != 1 {
		t.Errorf("report groups/files = %d/%d, want 1/1", report.Groups, report.FilesWritten)
	}
	if len(report.Diagnostics) != 0 {
		t.Errorf("report diagnostics = %v, want none", report.Diagnostics)
	}

	// Exactly one file at node_exporter/linux-servers.yaml.
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk export root: %v", err)
	}
	if len(files) != 1 || files[0] != "node_exporter/linux-servers.yaml" {
		t.Fatalf("export root files = %v, want [node_exporter/linux-servers.yaml]", files)
	}

	blocks := readBlocks(t, filepath.Join(root, "node_exporter", "linux-servers.yaml"))
	if len(blocks) != 2 {
		t.Fatalf("group file holds %d blocks, want 2", len(blocks))
	}
	if blocks[0].Targets[0] != "10.0.0.5:9100" || blocks[0].Labels["device_name"] != "web01" {
		t.Errorf("first block = %v/%v, want web01 at 10.0.0.5:9100", blocks[0].Targets, blocks[0].Labels["device_name"])
	}
	if blocks[1].Targets[0] != "10.0.0.6:9200" || blocks[1].Labels["device_name"] != "web02" {
		t.Errorf("second block = %v/%v, want web02 at 10.0.0.6:9200", blocks[1].Targets, blocks[1].Labels["device_name"])
	}
}

func TestExporter_DownloadMatchesWrite(t *testing.T) {
	snapshot := []model.Device{
		webServersSnapshot()[0],
		webServersSnapshot()[1],
		{
			Name:              "switch01",
			DeviceType:        model.DeviceNetworkSwitch,
			IPAddress:         "10.0.1.2",
			MonitoringEnabled: true,
			Monitors: []model.Monitor{
				{MonitorType: "snmp", Enabled: true},
				{MonitorType: "icmp", Enabled: true},
			},
		},
	}

	root := t.TempDir()
	e := New(staticSource(snapshot), root, testLogger())

	if _, _, err := e.Run(context.Background(), ModeWrite); err != nil {
		t.Fatalf("write run error = %v", err)
	}
	report, archive, err := e.Run(context.Background(), ModeDownload)
	if err != nil {
		t.Fatalf("download run error = %v", err)
	}
	if report.State != StateDone {
		t.Fatalf("download state = %q, want %q", report.State, StateDone)
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != report.Groups {
		t.Errorf("archive holds %d entries, want %d", len(zr.File), report.Groups)
	}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", entry.Name, err)
		}
		entryData, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", entry.Name, err)
		}
		fileData, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(entry.Name)))
		if err != nil {
			t.Fatalf("read written file for %s: %v", entry.Name, err)
		}
		if !bytes.Equal(entryData, fileData) {
			t.Errorf("entry %s differs between archive and directory", entry.Name)
		}
	}
}

func TestExporter_DownloadDeterministic(t *testing.T) {
	e := New(staticSource(webServersSnapshot()), t.TempDir(), testLogger())

	_, first, err := e.Run(context.Background(), ModeDownload)
	if err != nil {
		t.Fatalf("first download error = %v", err)
	}
	_, second, err := e.Run(context.Background(), ModeDownload)
	if err != nil {
		t.Fatalf("second download error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two downloads of the same snapshot produced different archives")
	}
}

func TestExporter_DisabledExcluded(t *testing.T) {
	snapshot := []model.Device{
		{
			Name:              "web01",
			DeviceType:        model.DeviceLinuxServerPhysical,
			IPAddress:         "10.0.0.5",
			MonitoringEnabled: true,
			Monitors: []model.Monitor{
				{MonitorType: "node_exporter", Enabled: true},
				{MonitorType: "smartprom", Enabled: false},
			},
		},
		{
			Name:              "retired",
			DeviceType:        model.DeviceLinuxServerPhysical,
			IPAddress:         "10.0.0.99",
			MonitoringEnabled: false,
			Monitors: []model.Monitor{
				{MonitorType: "node_exporter", Enabled: true},
			},
		},
	}

	e := New(staticSource(snapshot), t.TempDir(), testLogger())
	report, _, err := e.Run(context.Background(), ModeDownload)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Records != 1 {
		t.Errorf("records = %d, want 1 (disabled monitor and device excluded)", report.Records)
	}
	if report.DevicesSeen != 1 {
		t.Errorf("devices seen = %d, want 1", report.DevicesSeen)
	}
}

func TestExporter_StaleCleanup(t *testing.T) {
	root := t.TempDir()

	// Unrelated administrator content that cleanup must not touch.
	if err := os.MkdirAll(filepath.Join(root, "grafana"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "grafana", "keep.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("export root"), 0o644); err != nil {
		t.Fatal(err)
	}

	e1 := New(staticSource(webServersSnapshot()), root, testLogger())
	if _, _, err := e1.Run(context.Background(), ModeWrite); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	groupFile := filepath.Join(root, "node_exporter", "linux-servers.yaml")
	if _, err := os.Stat(groupFile); err != nil {
		t.Fatalf("first run did not create %s: %v", groupFile, err)
	}

	// Second run: no device feeds node_exporter anymore.
	pingOnly := []model.Device{
		{
			Name:              "ping01",
			DeviceType:        model.DeviceICMPOnly,
			IPAddress:         "10.0.9.1",
			MonitoringEnabled: true,
			Monitors:          []model.Monitor{{MonitorType: "icmp", Enabled: true}},
		},
	}
	e2 := New(staticSource(pingOnly), root, testLogger())
	if _, _, err := e2.Run(context.Background(), ModeWrite); err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if _, err := os.Stat(groupFile); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("stale group file still present after second run: %v", err)
	}
	// The folder itself stays; only files are removed.
	if _, err := os.Stat(filepath.Join(root, "node_exporter")); err != nil {
		t.Errorf("known folder was removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "icmp", "icmp-only.yaml")); err != nil {
		t.Errorf("second run did not write its group: %v", err)
	}
	// Unrelated content untouched.
	if _, err := os.Stat(filepath.Join(root, "grafana", "keep.json")); err != nil {
		t.Errorf("cleanup touched unrelated folder: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "README")); err != nil {
		t.Errorf("cleanup touched root-level file outside known folders: %v", err)
	}
}

func TestExporter_UnwritableRootAborts(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "occupied")
	if err := os.WriteFile(notADir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(staticSource(webServersSnapshot()), notADir, testLogger())
	report, _, err := e.Run(context.Background(), ModeWrite)
	if err == nil {
		t.Fatal("Run() succeeded with an unusable export root")
	}
	var fsErr *FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Run() error = %v, want *FilesystemError", err)
	}
	if report.State != StateFailed {
		t.Errorf("report state = %q, want %q", report.State, StateFailed)
	}
	if report.FilesWritten != 0 {
		t.Errorf("files written = %d, want 0 (abort before any partial write)", report.FilesWritten)
	}
	foundDiag := false
	for _, d := range report.Diagnostics {
		if d.Code == DiagFilesystem {
			foundDiag = true
		}
	}
	if !foundDiag {
		t.Error("report carries no filesystem diagnostic")
	}
}

func TestExporter_MidRunFailureKeepsPriorGroups(t *testing.T) {
	root := t.TempDir()

	// A directory squatting on the node_exporter group's file path makes
	// that group's write fail after the icmp group succeeded.
	if err := os.MkdirAll(filepath.Join(root, "node_exporter", "linux-servers.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	snapshot := append(webServersSnapshot(), model.Device{
		Name:              "ping01",
		DeviceType:        model.DeviceICMPOnly,
		IPAddress:         "10.0.9.1",
		MonitoringEnabled: true,
		Monitors:          []model.Monitor{{MonitorType: "icmp", Enabled: true}},
	})

	e := New(staticSource(snapshot), root, testLogger())
	report, _, err := e.Run(context.Background(), ModeWrite)
	if err == nil {
		t.Fatal("Run() succeeded despite unwritable group path")
	}
	var fsErr *FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Run() error = %v, want *FilesystemError", err)
	}
	if report.State != StateFailed {
		t.Errorf("report state = %q, want %q", report.State, StateFailed)
	}
	// icmp sorts before node_exporter, so its file was already written
	// and stays in place.
	if report.FilesWritten != 1 {
		t.Errorf("files written = %d, want 1", report.FilesWritten)
	}
	if _, err := os.Stat(filepath.Join(root, "icmp", "icmp-only.yaml")); err != nil {
		t.Errorf("previously written group was not kept: %v", err)
	}
}

func TestExporter_MalformedContainment(t *testing.T) {
	snapshot := append(webServersSnapshot(), model.Device{
		Name:              "badaddr",
		DeviceType:        model.DeviceLinuxServerPhysical,
		IPAddress:         "10.0.0.7:9100",
		MonitoringEnabled: true,
		Monitors:          []model.Monitor{{MonitorType: "node_exporter", Enabled: true}},
	})

	root := t.TempDir()
	e := New(staticSource(snapshot), root, testLogger())
	report, _, err := e.Run(context.Background(), ModeWrite)
	if err != nil {
		t.Fatalf("Run() error = %v (data errors must not abort)", err)
	}
	if report.Records != 2 || report.Skipped != 1 {
		t.Errorf("records/skipped = %d/%d, want 2/1", report.Records, report.Skipped)
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", report.Diagnostics)
	}
	d := report.Diagnostics[0]
	if d.Code != DiagData || d.Device != "badaddr" {
		t.Errorf("diagnostic = %+v, want data_error for badaddr", d)
	}

	blocks := readBlocks(t, filepath.Join(root, "node_exporter", "linux-servers.yaml"))
	for _, b := range blocks {
		if b.Labels["device_name"] == "badaddr" {
			t.Error("malformed device leaked into rendered output")
		}
	}
	if len(blocks) != 2 {
		t.Errorf("sibling records = %d, want 2", len(blocks))
	}
}

func TestExporter_UnknownTypesFallBack(t *testing.T) {
	snapshot := []model.Device{
		{
			Name:              "strange",
			DeviceType:        "mainframe",
			IPAddress:         "10.0.0.50",
			MonitoringEnabled: true,
			Monitors:          []model.Monitor{{MonitorType: "node_exporter", Enabled: true}},
		},
		{
			Name:              "web01",
			DeviceType:        model.DeviceLinuxServerPhysical,
			IPAddress:         "10.0.0.5",
			MonitoringEnabled: true,
			Monitors:          []model.Monitor{{MonitorType: "wmi", Enabled: true}},
		},
	}

	root := t.TempDir()
	e := New(staticSource(snapshot), root, testLogger())
	report, _, err := e.Run(context.Background(), ModeWrite)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Records != 2 {
		t.Errorf("records = %d, want 2 (fallbacks still export)", report.Records)
	}
	if len(report.Diagnostics) != 2 {
		t.Errorf("diagnostics = %d, want 2 config errors", len(report.Diagnostics))
	}
	for _, d := range report.Diagnostics {
		if d.Code != DiagConfig {
			t.Errorf("diagnostic code = %q, want %q", d.Code, DiagConfig)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "node_exporter", "other.yaml")); err != nil {
		t.Errorf("unknown device type did not land in node_exporter/other.yaml: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "other", "linux-servers.yaml")); err != nil {
		t.Errorf("unknown monitor type did not land in other/linux-servers.yaml: %v", err)
	}
}

func TestExporter_InvalidMode(t *testing.T) {
	e := New(staticSource(nil), t.TempDir(), testLogger())
	report, archive, err := e.Run(context.Background(), "stream")
	if err == nil {
		t.Fatal("Run() accepted an unknown mode")
	}
	if report != nil || archive != nil {
		t.Errorf("Run() = (%v, %v), want nil report and archive", report, archive)
	}
}

func TestExporter_SourceError(t *testing.T) {
	src := &mockSource{
		ListFunc: func(ctx context.Context) ([]model.Device, error) {
			return nil, errors.New("connection refused")
		},
	}
	e := New(src, t.TempDir(), testLogger())
	report, _, err := e.Run(context.Background(), ModeWrite)
	if err == nil {
		t.Fatal("Run() succeeded despite source failure")
	}
	if report.State != StateFailed {
		t.Errorf("report state = %q, want %q", report.State, StateFailed)
	}
}

func TestExporter_EmptySnapshotCleansKnownFolders(t *testing.T) {
	root := t.TempDir()
	e1 := New(staticSource(webServersSnapshot()), root, testLogger())
	if _, _, err := e1.Run(context.Background(), ModeWrite); err != nil {
		t.Fatalf("seed run error = %v", err)
	}

	e2 := New(staticSource(nil), root, testLogger())
	report, _, err := e2.Run(context.Background(), ModeWrite)
	if err != nil {
		t.Fatalf("empty run error = %v", err)
	}
	if report.FilesWritten != 0 || report.Groups != 0 {
		t.Errorf("files/groups = %d/%d, want 0/0", report.FilesWritten, report.Groups)
	}
	if _, err := os.Stat(filepath.Join(root, "node_exporter", "linux-servers.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("empty snapshot left a stale group file behind")
	}
}
