package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 8080
  read_timeout_ms: 5000
  shutdown_timeout_ms: 2000
database:
  host: localhost
  port: 5432
  user: inventory
  password: secret
  dbname: inventory
  ssl_mode: disable
export:
  root: /var/lib/targets
discovery:
  max_workers: 16
logging:
  level: info
  format: text
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Export.Root != "/var/lib/targets" {
		t.Errorf("export root = %q", cfg.Export.Root)
	}
	if got := cfg.Server.GetReadTimeout(); got != 5*time.Second {
		t.Errorf("read timeout = %v, want 5s", got)
	}
	if got := cfg.Server.GetShutdownTimeout(); got != 2*time.Second {
		t.Errorf("shutdown timeout = %v, want 2s", got)
	}

	dsn := cfg.Database.GetDSN()
	for _, part := range []string{"host=localhost", "dbname=inventory", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("dsn %q misses %q", dsn, part)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INV_DATABASE_HOST", "db.lan")
	t.Setenv("INV_SERVER_PORT", "9090")
	t.Setenv("INV_EXPORT_ROOT", "/mnt/prometheus")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "db.lan" {
		t.Errorf("database host = %q, want db.lan", cfg.Database.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Export.Root != "/mnt/prometheus" {
		t.Errorf("export root = %q, want /mnt/prometheus", cfg.Export.Root)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		wantErr string
	}{
		{
			"bad port",
			func(s string) string { return strings.Replace(s, "port: 8080", "port: 0", 1) },
			"server port",
		},
		{
			"missing export root",
			func(s string) string { return strings.Replace(s, "root: /var/lib/targets", "root: \"\"", 1) },
			"export root",
		},
		{
			"bad log level",
			func(s string) string { return strings.Replace(s, "level: info", "level: loud", 1) },
			"log level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mangle(sampleConfig)))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestDefaultTimeouts(t *testing.T) {
	var s ServerConfig
	if got := s.GetShutdownTimeout(); got != 30*time.Second {
		t.Errorf("zero shutdown timeout = %v, want 30s", got)
	}
	var d DiscoveryConfig
	if got := d.GetProbeTimeout(); got != 1500*time.Millisecond {
		t.Errorf("zero probe timeout = %v, want 1.5s", got)
	}
}
