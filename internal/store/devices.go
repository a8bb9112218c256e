package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/homelabops/inventory/internal/model"
	"github.com/jackc/pgx/v5"
)

// deviceColumns is the select list shared by every device read,
// including the denormalized vendor/model/location names.
const deviceColumns = `
	d.id, d.name, d.device_type, d.ip_address, d.function,
	d.vendor_id, d.model_id, d.location_id,
	d.serial_number, d.networks, d.interface_type,
	d.poe_powered, d.poe_standards, d.monitoring_enabled,
	d.created_at, d.updated_at,
	COALESCE(v.name, ''), COALESCE(m.name, ''), COALESCE(l.name, '')`

const deviceJoins = `
	FROM devices d
	LEFT JOIN vendors v ON v.id = d.vendor_id
	LEFT JOIN models m ON m.id = d.model_id
	LEFT JOIN locations l ON l.id = d.location_id`

func scanDevice(row pgx.Row) (model.Device, error) {
	var d model.Device
	err := row.Scan(
		&d.ID, &d.Name, &d.DeviceType, &d.IPAddress, &d.Function,
		&d.VendorID, &d.ModelID, &d.LocationID,
		&d.SerialNumber, &d.Networks, &d.InterfaceType,
		&d.PoEPowered, &d.PoEStandards, &d.MonitoringEnabled,
		&d.CreatedAt, &d.UpdatedAt,
		&d.VendorName, &d.ModelName, &d.LocationName,
	)
	return d, err
}

// buildDeviceWhere translates a DeviceFilter into a WHERE clause and
// its positional arguments.
func buildDeviceWhere(f DeviceFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.DeviceType != "" {
		add("d.device_type = $%d", f.DeviceType)
	}
	if f.VendorID != nil {
		add("d.vendor_id = $%d", *f.VendorID)
	}
	if f.ModelID != nil {
		add("d.model_id = $%d", *f.ModelID)
	}
	if f.LocationID != nil {
		add("d.location_id = $%d", *f.LocationID)
	}
	if f.MonitoringEnabled != nil {
		add("d.monitoring_enabled = $%d", *f.MonitoringEnabled)
	}
	if f.PoEPowered != nil {
		add("d.poe_powered = $%d", *f.PoEPowered)
	}
	if f.HasIP != nil {
		if *f.HasIP {
			conds = append(conds, "d.ip_address <> ''")
		} else {
			conds = append(conds, "d.ip_address = ''")
		}
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(d.name ILIKE $%d OR d.ip_address ILIKE $%d OR d.function ILIKE $%d OR d.serial_number ILIKE $%d OR d.networks ILIKE $%d)",
			n, n, n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListDevices returns devices matching the filter plus the total count
// before paging.
func (s *Postgres) ListDevices(ctx context.Context, f DeviceFilter) ([]model.Device, int, error) {
	where, args := buildDeviceWhere(f)

	var total int
	countSQL := "SELECT count(*)" + deviceJoins + where
	if err := s.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count devices: %w", err)
	}

	listSQL := "SELECT" + deviceColumns + deviceJoins + where + " ORDER BY d.name"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		listSQL += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, f.Offset)
		listSQL += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, total, rows.Err()
}

// GetDevice returns one device with its monitors and denormalized
// names. Missing devices surface as pgx.ErrNoRows.
func (s *Postgres) GetDevice(ctx context.Context, id int) (model.Device, error) {
	row := s.db.QueryRow(ctx, "SELECT"+deviceColumns+deviceJoins+" WHERE d.id = $1", id)
	d, err := scanDevice(row)
	if err != nil {
		return model.Device{}, err
	}
	d.Monitors, err = s.ListMonitors(ctx, d.ID)
	if err != nil {
		return model.Device{}, err
	}
	return d, nil
}

func (s *Postgres) GetDeviceByName(ctx context.Context, name string) (model.Device, error) {
	row := s.db.QueryRow(ctx, "SELECT"+deviceColumns+deviceJoins+" WHERE d.name = $1", name)
	return scanDevice(row)
}

const insertDeviceSQL = `
	INSERT INTO devices (
		name, device_type, ip_address, function,
		vendor_id, model_id, location_id,
		serial_number, networks, interface_type,
		poe_powered, poe_standards, monitoring_enabled
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

// CreateDevice inserts a device and records a "created" history entry
// in the same transaction.
func (s *Postgres) CreateDevice(ctx context.Context, req model.CreateDeviceRequest) (model.Device, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.Device{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, insertDeviceSQL,
		req.Name, req.DeviceType, strings.TrimSpace(req.IPAddress), req.Function,
		req.VendorID, req.ModelID, req.LocationID,
		req.SerialNumber, req.Networks, req.InterfaceType,
		req.PoEPowered, req.PoEStandards, monitoringEnabled(req),
	).Scan(&id)
	if err != nil {
		return model.Device{}, mapDeviceWriteError(err)
	}

	if err := appendHistory(ctx, tx, id, "created", nil, "created device "+req.Name); err != nil {
		return model.Device{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Device{}, fmt.Errorf("commit: %w", err)
	}
	return s.GetDevice(ctx, id)
}

const updateDeviceSQL = `
	UPDATE devices SET
		name = $2, device_type = $3, ip_address = $4, function = $5,
		vendor_id = $6, model_id = $7, location_id = $8,
		serial_number = $9, networks = $10, interface_type = $11,
		poe_powered = $12, poe_standards = $13, monitoring_enabled = $14,
		updated_at = now()
	WHERE id = $1`

// UpdateDevice replaces a device's state and records an "updated"
// history entry carrying the field diff.
func (s *Postgres) UpdateDevice(ctx context.Context, id int, req model.UpdateDeviceRequest) (model.Device, error) {
	old, err := s.GetDevice(ctx, id)
	if err != nil {
		return model.Device{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.Device{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, updateDeviceSQL, id,
		req.Name, req.DeviceType, strings.TrimSpace(req.IPAddress), req.Function,
		req.VendorID, req.ModelID, req.LocationID,
		req.SerialNumber, req.Networks, req.InterfaceType,
		req.PoEPowered, req.PoEStandards, monitoringEnabled(req),
	)
	if err != nil {
		return model.Device{}, mapDeviceWriteError(err)
	}

	diff := deviceDiff(old, req)
	if len(diff) > 0 {
		summary := fmt.Sprintf("updated device %s (%d fields)", req.Name, len(diff))
		if err := appendHistory(ctx, tx, id, "updated", diff, summary); err != nil {
			return model.Device{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Device{}, fmt.Errorf("commit: %w", err)
	}
	return s.GetDevice(ctx, id)
}

// DeleteDevice removes a device. The history row is written first so
// the ON DELETE SET NULL constraint detaches rather than drops it.
func (s *Postgres) DeleteDevice(ctx context.Context, id int) error {
	d, err := s.GetDevice(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := appendHistory(ctx, tx, id, "deleted", nil, "deleted device "+d.Name); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM devices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

// UpsertDeviceByName creates the device when the name is new, otherwise
// replaces the existing row's state. The second return reports whether
// a row was created.
func (s *Postgres) UpsertDeviceByName(ctx context.Context, req model.CreateDeviceRequest) (model.Device, bool, error) {
	existing, err := s.GetDeviceByName(ctx, req.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		d, err := s.CreateDevice(ctx, req)
		return d, true, err
	}
	if err != nil {
		return model.Device{}, false, err
	}
	d, err := s.UpdateDevice(ctx, existing.ID, req)
	return d, false, err
}

// ListDeviceHistory returns a device's change log, newest first.
func (s *Postgres) ListDeviceHistory(ctx context.Context, deviceID, limit int) ([]model.DeviceHistory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, device_id, change_type, diff, summary, created_at
		FROM device_history
		WHERE device_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list device history: %w", err)
	}
	defer rows.Close()

	var history []model.DeviceHistory
	for rows.Next() {
		var h model.DeviceHistory
		if err := rows.Scan(&h.ID, &h.DeviceID, &h.ChangeType, &h.Diff, &h.Summary, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// ListEnabledDevicesWithMonitors is the export engine's snapshot: every
// monitoring-enabled device with its enabled monitors attached.
func (s *Postgres) ListEnabledDevicesWithMonitors(ctx context.Context) ([]model.Device, error) {
	return s.listDevicesWithMonitors(ctx, true)
}

// ListAllDevicesWithMonitors is the bulk-export dump: every device with
// every monitor, enabled or not.
func (s *Postgres) ListAllDevicesWithMonitors(ctx context.Context) ([]model.Device, error) {
	return s.listDevicesWithMonitors(ctx, false)
}

func (s *Postgres) listDevicesWithMonitors(ctx context.Context, enabledOnly bool) ([]model.Device, error) {
	deviceSQL := "SELECT" + deviceColumns + deviceJoins
	monitorSQL := "SELECT " + monitorColumns + " FROM monitors"
	if enabledOnly {
		deviceSQL += " WHERE d.monitoring_enabled"
		monitorSQL += " WHERE enabled"
	}
	deviceSQL += " ORDER BY d.name"
	monitorSQL += " ORDER BY device_id, id"

	rows, err := s.db.Query(ctx, deviceSQL)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	byID := make(map[int]int)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		byID[d.ID] = len(devices)
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	mrows, err := s.db.Query(ctx, monitorSQL)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		m, err := scanMonitor(mrows)
		if err != nil {
			return nil, fmt.Errorf("scan monitor: %w", err)
		}
		if i, ok := byID[m.DeviceID]; ok {
			devices[i].Monitors = append(devices[i].Monitors, m)
		}
	}
	return devices, mrows.Err()
}

// monitoringEnabled defaults an absent flag to true, matching the
// column default.
func monitoringEnabled(req model.CreateDeviceRequest) bool {
	return req.MonitoringEnabled == nil || *req.MonitoringEnabled
}

// mapDeviceWriteError translates constraint violations into the store's
// sentinel errors.
func mapDeviceWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: device name taken", ErrDuplicateName)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: vendor, model or location", ErrBadReference)
	default:
		return fmt.Errorf("write device: %w", err)
	}
}

// deviceDiff compares a device's stored state against the requested one
// and returns the changed fields.
func deviceDiff(old model.Device, req model.UpdateDeviceRequest) map[string]model.FieldChange {
	diff := make(map[string]model.FieldChange)
	cmp := func(field string, o, n any) {
		if o != n {
			diff[field] = model.FieldChange{Old: o, New: n}
		}
	}
	cmpRef := func(field string, o, n *int) {
		ov, nv := 0, 0
		if o != nil {
			ov = *o
		}
		if n != nil {
			nv = *n
		}
		if ov != nv {
			diff[field] = model.FieldChange{Old: o, New: n}
		}
	}

	cmp("name", old.Name, req.Name)
	cmp("device_type", old.DeviceType, req.DeviceType)
	cmp("ip_address", old.IPAddress, strings.TrimSpace(req.IPAddress))
	cmp("function", old.Function, req.Function)
	cmpRef("vendor_id", old.VendorID, req.VendorID)
	cmpRef("model_id", old.ModelID, req.ModelID)
	cmpRef("location_id", old.LocationID, req.LocationID)
	cmp("serial_number", old.SerialNumber, req.SerialNumber)
	cmp("networks", old.Networks, req.Networks)
	cmp("interface_type", old.InterfaceType, req.InterfaceType)
	cmp("poe_powered", old.PoEPowered, req.PoEPowered)
	cmp("poe_standards", old.PoEStandards, req.PoEStandards)
	cmp("monitoring_enabled", old.MonitoringEnabled, monitoringEnabled(req))
	return diff
}

// appendHistory writes one change-log row inside the caller's
// transaction. A nil diff stores SQL NULL.
func appendHistory(ctx context.Context, tx pgx.Tx, deviceID int, changeType string, diff map[string]model.FieldChange, summary string) error {
	var diffArg any
	if len(diff) > 0 {
		diffArg = diff
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO device_history (device_id, change_type, diff, summary)
		VALUES ($1, $2, $3, $4)`, deviceID, changeType, diffArg, summary)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
