package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

// HostelRepository manages persistence for hostels.
type HostelRepository struct {
	db *sqlx.DB
}

// NewHostelRepository constructs a HostelRepository.
func NewHostelRepository(db *sqlx.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

// List returns all hostels.
func (r *HostelRepository) List(ctx context.Context) ([]models.Hostel, error) {
	const query = `SELECT hostel_id, name FROM hostels ORDER BY hostel_id`
	var hostels []models.Hostel
	if err := r.db.SelectContext(ctx, &hostels, query); err != nil {
		return nil, fmt.Errorf("list hostels: %w", err)
	}
	return hostels, nil
}

// FindByID fetches a hostel by ID.
func (r *HostelRepository) FindByID(ctx context.Context, id int) (*models.Hostel, error) {
	const query = `SELECT hostel_id, name FROM hostels WHERE hostel_id = $1`
	var hostel models.Hostel
	if err := r.db.GetContext(ctx, &hostel, query, id); err != nil {
		return nil, err
	}
	return &hostel, nil
}

// Create inserts a hostel and returns its generated ID.
func (r *HostelRepository) Create(ctx context.Context, name string) (*models.Hostel, error) {
	const query = `INSERT INTO hostels (name) VALUES ($1) RETURNING hostel_id, name`
	var hostel models.Hostel
	if err := r.db.GetContext(ctx, &hostel, query, name); err != nil {
		return nil, fmt.Errorf("create hostel: %w", err)
	}
	return &hostel, nil
}

// Update renames a hostel.
func (r *HostelRepository) Update(ctx context.Context, hostel *models.Hostel) error {
	result, err := r.db.ExecContext(ctx, `UPDATE hostels SET name = $2 WHERE hostel_id = $1`, hostel.HostelID, hostel.Name)
	if err != nil {
		return fmt.Errorf("update hostel: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a hostel unless students still reference it.
func (r *HostelRepository) Delete(ctx context.Context, id int) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin hostel delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var residents int
	if err = tx.GetContext(ctx, &residents, `SELECT COUNT(*) FROM students WHERE hostel_id = $1`, id); err != nil {
		return fmt.Errorf("count residents: %w", err)
	}
	if residents > 0 {
		err = appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("hostel %d still has %d residents", id, residents))
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM hostels WHERE hostel_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hostel: %w", err)
	}
	if affected, aerr := result.RowsAffected(); aerr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit hostel delete: %w", err)
	}
	return nil
}
