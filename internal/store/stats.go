package store

import (
	"context"
	"fmt"

	"github.com/homelabops/inventory/internal/model"
)

// GetStats aggregates inventory-wide counts for the stats endpoint.
func (s *Postgres) GetStats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{
		DeviceTypeCounts: make(map[string]int),
		MonitorTypeCount: make(map[string]int),
	}

	err := s.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE monitoring_enabled),
		       count(*) FILTER (WHERE NOT monitoring_enabled)
		FROM devices`).
		Scan(&stats.TotalDevices, &stats.EnabledDevices, &stats.DisabledDevices)
	if err != nil {
		return model.Stats{}, fmt.Errorf("count devices: %w", err)
	}

	rows, err := s.db.Query(ctx,
		"SELECT device_type, count(*) FROM devices GROUP BY device_type")
	if err != nil {
		return model.Stats{}, fmt.Errorf("count device types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return model.Stats{}, fmt.Errorf("scan device type count: %w", err)
		}
		stats.DeviceTypeCounts[t] = n
	}
	if err := rows.Err(); err != nil {
		return model.Stats{}, err
	}

	mrows, err := s.db.Query(ctx,
		"SELECT monitor_type, count(*) FROM monitors GROUP BY monitor_type")
	if err != nil {
		return model.Stats{}, fmt.Errorf("count monitor types: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var t string
		var n int
		if err := mrows.Scan(&t, &n); err != nil {
			return model.Stats{}, fmt.Errorf("scan monitor type count: %w", err)
		}
		stats.MonitorTypeCount[t] = n
		stats.TotalMonitors += n
	}
	return stats, mrows.Err()
}
