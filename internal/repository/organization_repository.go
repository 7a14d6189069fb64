package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// OrganizationRepo provides read access to student organizations.
type OrganizationRepo struct {
	db *sql.DB
}

// NewOrganizationRepo returns an OrganizationRepo bound to the given database.
func NewOrganizationRepo(db *sql.DB) *OrganizationRepo { return &OrganizationRepo{db: db} }

// GetByID returns a single organization or ErrOrganizationNotFound.
func (r *OrganizationRepo) GetByID(ctx context.Context, id uint64) (*model.Organization, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM organizations WHERE id = ?`
	var org model.Organization
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&org.ID, &org.Name, &org.IsActive, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// List returns all active organizations ordered by name.
func (r *OrganizationRepo) List(ctx context.Context) ([]*model.Organization, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM organizations
	           WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Organization, 0)
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.IsActive, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
