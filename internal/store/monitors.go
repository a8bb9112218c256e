package store

import (
	"context"
	"fmt"

	"github.com/homelabops/inventory/internal/model"
	"github.com/jackc/pgx/v5"
)

const monitorColumns = "id, device_id, monitor_type, endpoint, port, enabled, notes, created_at"

func scanMonitor(row pgx.Row) (model.Monitor, error) {
	var m model.Monitor
	err := row.Scan(&m.ID, &m.DeviceID, &m.MonitorType, &m.Endpoint, &m.Port, &m.Enabled, &m.Notes, &m.CreatedAt)
	return m, err
}

// ListMonitors returns a device's monitors in creation order.
func (s *Postgres) ListMonitors(ctx context.Context, deviceID int) ([]model.Monitor, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+monitorColumns+" FROM monitors WHERE device_id = $1 ORDER BY id", deviceID)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer rows.Close()

	var monitors []model.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monitor: %w", err)
		}
		monitors = append(monitors, m)
	}
	return monitors, rows.Err()
}

// CreateMonitor attaches a monitor to a device. A missing device
// surfaces as ErrBadReference via the foreign key.
func (s *Postgres) CreateMonitor(ctx context.Context, deviceID int, req model.CreateMonitorRequest) (model.Monitor, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO monitors (device_id, monitor_type, endpoint, port, enabled, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+monitorColumns,
		deviceID, req.MonitorType, req.Endpoint, req.Port, monitorEnabled(req), req.Notes)
	m, err := scanMonitor(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Monitor{}, fmt.Errorf("%w: device %d", ErrBadReference, deviceID)
		}
		return model.Monitor{}, fmt.Errorf("create monitor: %w", err)
	}
	return m, nil
}

func (s *Postgres) UpdateMonitor(ctx context.Context, id int, req model.UpdateMonitorRequest) (model.Monitor, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE monitors
		SET monitor_type = $2, endpoint = $3, port = $4, enabled = $5, notes = $6
		WHERE id = $1
		RETURNING `+monitorColumns,
		id, req.MonitorType, req.Endpoint, req.Port, monitorEnabled(req), req.Notes)
	m, err := scanMonitor(row)
	if err != nil {
		return model.Monitor{}, err
	}
	return m, nil
}

func (s *Postgres) DeleteMonitor(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM monitors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// monitorEnabled defaults an absent flag to true, matching the column
// default.
func monitorEnabled(req model.CreateMonitorRequest) bool {
	return req.Enabled == nil || *req.Enabled
}
