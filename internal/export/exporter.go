// Package export turns the inventory into Prometheus file-based
// service discovery configuration, grouped by monitor type and device
// bucket, written to a directory tree or packed into a zip archive.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/homelabops/inventory/internal/model"
	"golang.org/x/sync/errgroup"
)

// Export modes.
const (
	ModeWrite    = "write"
	ModeDownload = "download"
)

// Source supplies the read-only inventory snapshot for one run:
// monitoring-enabled devices with their monitors and denormalized
// vendor, model and location names.
type Source interface {
	ListEnabledDevicesWithMonitors(ctx context.Context) ([]model.Device, error)
}

// Exporter executes export invocations against a snapshot source.
type Exporter struct {
	source Source
	root   string
	logger *slog.Logger

	// writeMu serializes write-mode sink phases across invocations
	// so two runs never mutate the export root concurrently.
	writeMu sync.Mutex
}

func New(source Source, root string, logger *slog.Logger) *Exporter {
	return &Exporter{source: source, root: root, logger: logger}
}

// Root returns the configured export root directory.
func (e *Exporter) Root() string {
	return e.root
}

// Run executes one export invocation. The returned bytes are the zip
// archive in download mode and nil in write mode. The report is
// non-nil whenever the mode is valid, including failed runs.
func (e *Exporter) Run(ctx context.Context, mode string) (*Report, []byte, error) {
	if mode != ModeWrite && mode != ModeDownload {
		return nil, nil, fmt.Errorf("unknown export mode %q", mode)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Mode:      mode,
		State:     StateBuilding,
		StartedAt: time.Now().UTC(),
	}
	logger := e.logger.With(
		slog.String("run_id", report.RunID),
		slog.String("mode", mode),
	)
	logger.InfoContext(ctx, "Export run starting")

	devices, err := e.source.ListEnabledDevicesWithMonitors(ctx)
	if err != nil {
		report.State = StateFailed
		report.FinishedAt = time.Now().UTC()
		return report, nil, fmt.Errorf("load inventory snapshot: %w", err)
	}

	index := e.build(devices, report)

	report.State = StateRendering
	groups := index.Groups()
	report.Groups = len(groups)

	rendered := make([]RenderedGroup, len(groups))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			data, err := Render(g)
			if err != nil {
				return err
			}
			rendered[i] = RenderedGroup{Path: g.Key.Path(), Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		report.State = StateFailed
		report.FinishedAt = time.Now().UTC()
		return report, nil, fmt.Errorf("render groups: %w", err)
	}

	report.State = StateSinking
	var archive []byte
	switch mode {
	case ModeWrite:
		e.writeMu.Lock()
		sink := &DirSink{Root: e.root}
		written, sinkErr := sink.Write(rendered)
		e.writeMu.Unlock()
		report.FilesWritten = written
		if sinkErr != nil {
			report.Diagnostics = append(report.Diagnostics, diagnose(sinkErr))
			report.State = StateFailed
			report.FinishedAt = time.Now().UTC()
			logger.ErrorContext(ctx, "Export run failed",
				slog.String("error", sinkErr.Error()),
				slog.Int("files_written", written),
			)
			return report, nil, sinkErr
		}
	case ModeDownload:
		archive, err = BuildZip(rendered)
		if err != nil {
			report.State = StateFailed
			report.FinishedAt = time.Now().UTC()
			return report, nil, err
		}
		report.FilesWritten = len(rendered)
	}

	report.State = StateDone
	report.FinishedAt = time.Now().UTC()
	logger.InfoContext(ctx, "Export run finished",
		slog.Int("devices", report.DevicesSeen),
		slog.Int("records", report.Records),
		slog.Int("skipped", report.Skipped),
		slog.Int("groups", report.Groups),
		slog.Int("files", report.FilesWritten),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, archive, nil
}

// build walks the snapshot, emits target records and assigns them to
// groups, accumulating per-record diagnostics and counts in the report.
func (e *Exporter) build(devices []model.Device, report *Report) *Index {
	index := NewIndex()
	for i := range devices {
		d := &devices[i]
		if !d.MonitoringEnabled {
			continue
		}
		report.DevicesSeen++

		for j := range d.Monitors {
			m := &d.Monitors[j]
			if !m.Enabled {
				continue
			}
			report.MonitorsSeen++

			rec, err := BuildRecord(d, m)
			if err != nil {
				report.Diagnostics = append(report.Diagnostics, diagnose(err))
				report.Skipped++
				continue
			}
			if rec == nil {
				report.Skipped++
				continue
			}

			folder, known := FolderFor(m.MonitorType)
			if !known {
				report.Diagnostics = append(report.Diagnostics, diagnose(&ConfigError{
					Device:  d.Name,
					Monitor: m.MonitorType,
					Value:   m.MonitorType,
					Reason:  "unknown monitor type",
				}))
			}
			bucket, known := BucketFor(d.DeviceType)
			if !known {
				report.Diagnostics = append(report.Diagnostics, diagnose(&ConfigError{
					Device:  d.Name,
					Monitor: m.MonitorType,
					Value:   d.DeviceType,
					Reason:  "unknown device type",
				}))
			}

			index.Add(Key{Folder: folder, Bucket: bucket}, *rec)
			report.Records++
		}
	}
	return index
}
