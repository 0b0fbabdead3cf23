package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hostelworks/hms-api/internal/models"
)

// ReportRepository exposes read-optimised aggregate queries consumed by
// the dashboard. All counts are derived live from base tables.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// TotalStudents returns the number of admitted students.
func (r *ReportRepository) TotalStudents(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// PendingFees returns the count and volume of unpaid fees.
func (r *ReportRepository) PendingFees(ctx context.Context) (*models.FeeTotals, error) {
	const query = `SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount FROM fees WHERE status = $1`
	var totals struct {
		Count  int     `db:"count"`
		Amount float64 `db:"amount"`
	}
	if err := r.db.GetContext(ctx, &totals, query, models.FeeStatusPending); err != nil {
		return nil, fmt.Errorf("pending fees: %w", err)
	}
	return &models.FeeTotals{Count: totals.Count, Amount: totals.Amount}, nil
}

// RoomTypeDistribution aggregates rooms grouped by type.
func (r *ReportRepository) RoomTypeDistribution(ctx context.Context) ([]models.RoomTypeCount, error) {
	const query = `SELECT room_type, COUNT(*) AS count FROM rooms GROUP BY room_type ORDER BY count DESC`
	var counts []models.RoomTypeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("room type distribution: %w", err)
	}
	return counts, nil
}

// HostelOccupancy aggregates resident counts per hostel.
func (r *ReportRepository) HostelOccupancy(ctx context.Context) ([]models.HostelOccupancy, error) {
	const query = `SELECT h.hostel_id, h.name, COUNT(s.student_id) AS students
        FROM hostels h
        LEFT JOIN students s ON s.hostel_id = h.hostel_id
        GROUP BY h.hostel_id, h.name
        ORDER BY h.hostel_id`
	var occupancy []models.HostelOccupancy
	if err := r.db.SelectContext(ctx, &occupancy, query); err != nil {
		return nil, fmt.Errorf("hostel occupancy: %w", err)
	}
	return occupancy, nil
}

// CapacityUtilisation returns room totals and remaining beds across
// the estate in one pass over the derived occupancy view.
func (r *ReportRepository) CapacityUtilisation(ctx context.Context) (totalRooms, roomsAtCapacity, availableBeds int, err error) {
	const query = `SELECT COUNT(*) AS total_rooms,
        COUNT(*) FILTER (WHERE occ.occupancy >= occ.capacity) AS rooms_at_capacity,
        COALESCE(SUM(occ.capacity - occ.occupancy), 0) AS available_beds
        FROM (
            SELECT r.room_no, r.capacity, COUNT(s.student_id) AS occupancy
            FROM rooms r
            LEFT JOIN students s ON s.room_no = r.room_no
            GROUP BY r.room_no, r.capacity
        ) occ`
	var result struct {
		TotalRooms      int `db:"total_rooms"`
		RoomsAtCapacity int `db:"rooms_at_capacity"`
		AvailableBeds   int `db:"available_beds"`
	}
	if err = r.db.GetContext(ctx, &result, query); err != nil {
		return 0, 0, 0, fmt.Errorf("capacity utilisation: %w", err)
	}
	return result.TotalRooms, result.RoomsAtCapacity, result.AvailableBeds, nil
}
