package store

import (
	"context"
	"fmt"

	"github.com/homelabops/inventory/internal/model"
	"github.com/jackc/pgx/v5"
)

// Vendors

func (s *Postgres) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, created_at FROM vendors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (s *Postgres) GetVendor(ctx context.Context, id int) (model.Vendor, error) {
	var v model.Vendor
	err := s.db.QueryRow(ctx, "SELECT id, name, created_at FROM vendors WHERE id = $1", id).
		Scan(&v.ID, &v.Name, &v.CreatedAt)
	return v, err
}

func (s *Postgres) CreateVendor(ctx context.Context, name string) (model.Vendor, error) {
	var v model.Vendor
	err := s.db.QueryRow(ctx,
		"INSERT INTO vendors (name) VALUES ($1) RETURNING id, name, created_at", name).
		Scan(&v.ID, &v.Name, &v.CreatedAt)
	if isUniqueViolation(err) {
		return model.Vendor{}, fmt.Errorf("%w: vendor %q", ErrDuplicateName, name)
	}
	return v, err
}

func (s *Postgres) UpdateVendor(ctx context.Context, id int, name string) (model.Vendor, error) {
	var v model.Vendor
	err := s.db.QueryRow(ctx,
		"UPDATE vendors SET name = $2 WHERE id = $1 RETURNING id, name, created_at", id, name).
		Scan(&v.ID, &v.Name, &v.CreatedAt)
	if isUniqueViolation(err) {
		return model.Vendor{}, fmt.Errorf("%w: vendor %q", ErrDuplicateName, name)
	}
	return v, err
}

func (s *Postgres) DeleteVendor(ctx context.Context, id int) error {
	return s.deleteReferenced(ctx, "vendors", "vendor_id", id)
}

// Models

const modelColumns = `m.id, m.name, m.vendor_id, COALESCE(v.name, ''), m.created_at
	FROM models m LEFT JOIN vendors v ON v.id = m.vendor_id`

func scanModel(row pgx.Row) (model.HardwareModel, error) {
	var hm model.HardwareModel
	err := row.Scan(&hm.ID, &hm.Name, &hm.VendorID, &hm.VendorName, &hm.CreatedAt)
	return hm, err
}

func (s *Postgres) ListModels(ctx context.Context, vendorID *int) ([]model.HardwareModel, error) {
	sql := "SELECT " + modelColumns
	var args []any
	if vendorID != nil {
		sql += " WHERE m.vendor_id = $1"
		args = append(args, *vendorID)
	}
	sql += " ORDER BY m.name"

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []model.HardwareModel
	for rows.Next() {
		hm, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, hm)
	}
	return models, rows.Err()
}

func (s *Postgres) GetModel(ctx context.Context, id int) (model.HardwareModel, error) {
	return scanModel(s.db.QueryRow(ctx, "SELECT "+modelColumns+" WHERE m.id = $1", id))
}

func (s *Postgres) CreateModel(ctx context.Context, req model.CreateModelRequest) (model.HardwareModel, error) {
	var id int
	err := s.db.QueryRow(ctx,
		"INSERT INTO models (name, vendor_id) VALUES ($1, $2) RETURNING id",
		req.Name, req.VendorID).Scan(&id)
	switch {
	case isUniqueViolation(err):
		return model.HardwareModel{}, fmt.Errorf("%w: model %q for vendor %d", ErrDuplicateName, req.Name, req.VendorID)
	case isForeignKeyViolation(err):
		return model.HardwareModel{}, fmt.Errorf("%w: vendor %d", ErrBadReference, req.VendorID)
	case err != nil:
		return model.HardwareModel{}, fmt.Errorf("create model: %w", err)
	}
	return s.GetModel(ctx, id)
}

func (s *Postgres) UpdateModel(ctx context.Context, id int, req model.CreateModelRequest) (model.HardwareModel, error) {
	tag, err := s.db.Exec(ctx,
		"UPDATE models SET name = $2, vendor_id = $3 WHERE id = $1",
		id, req.Name, req.VendorID)
	switch {
	case isUniqueViolation(err):
		return model.HardwareModel{}, fmt.Errorf("%w: model %q for vendor %d", ErrDuplicateName, req.Name, req.VendorID)
	case isForeignKeyViolation(err):
		return model.HardwareModel{}, fmt.Errorf("%w: vendor %d", ErrBadReference, req.VendorID)
	case err != nil:
		return model.HardwareModel{}, fmt.Errorf("update model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.HardwareModel{}, pgx.ErrNoRows
	}
	return s.GetModel(ctx, id)
}

func (s *Postgres) DeleteModel(ctx context.Context, id int) error {
	return s.deleteReferenced(ctx, "models", "model_id", id)
}

// Locations

func (s *Postgres) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, created_at FROM locations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *Postgres) GetLocation(ctx context.Context, id int) (model.Location, error) {
	var l model.Location
	err := s.db.QueryRow(ctx, "SELECT id, name, created_at FROM locations WHERE id = $1", id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	return l, err
}

func (s *Postgres) CreateLocation(ctx context.Context, name string) (model.Location, error) {
	var l model.Location
	err := s.db.QueryRow(ctx,
		"INSERT INTO locations (name) VALUES ($1) RETURNING id, name, created_at", name).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if isUniqueViolation(err) {
		return model.Location{}, fmt.Errorf("%w: location %q", ErrDuplicateName, name)
	}
	return l, err
}

func (s *Postgres) UpdateLocation(ctx context.Context, id int, name string) (model.Location, error) {
	var l model.Location
	err := s.db.QueryRow(ctx,
		"UPDATE locations SET name = $2 WHERE id = $1 RETURNING id, name, created_at", id, name).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if isUniqueViolation(err) {
		return model.Location{}, fmt.Errorf("%w: location %q", ErrDuplicateName, name)
	}
	return l, err
}

func (s *Postgres) DeleteLocation(ctx context.Context, id int) error {
	return s.deleteReferenced(ctx, "locations", "location_id", id)
}

// deleteReferenced deletes one row from table after checking no device
// still points at it. The reference count is included in the error so
// the API can report why the delete was refused.
func (s *Postgres) deleteReferenced(ctx context.Context, table, fkColumn string, id int) error {
	var refs int
	err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM devices WHERE "+fkColumn+" = $1", id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d devices", ErrInUse, refs)
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced concurrently", ErrInUse)
		}
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
