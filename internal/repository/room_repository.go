package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

// RoomRepository manages persistence for rooms and exposes the derived
// occupancy view. Occupancy is always recomputed from student rows.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching the provided filters.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	base := "FROM rooms"
	var conditions []string
	var args []interface{}

	if filter.RoomType != "" {
		conditions = append(conditions, fmt.Sprintf("room_type = $%d", len(args)+1))
		args = append(args, filter.RoomType)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"room_no":  "room_no",
		"capacity": "capacity",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "room_no"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT room_no, capacity, room_type %s ORDER BY %s %s LIMIT %d OFFSET %d",
		base+clause, column, order, size, offset)

	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}
	return rooms, total, nil
}

// FindByNo fetches a room by its number.
func (r *RoomRepository) FindByNo(ctx context.Context, roomNo int) (*models.Room, error) {
	const query = `SELECT room_no, capacity, room_type FROM rooms WHERE room_no = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, roomNo); err != nil {
		return nil, err
	}
	return &room, nil
}

// Occupancy returns the room together with its current occupant count,
// derived with a single aggregate query.
func (r *RoomRepository) Occupancy(ctx context.Context, roomNo int) (*models.RoomOccupancy, error) {
	const query = `SELECT r.room_no, r.capacity, COUNT(s.student_id) AS occupancy
        FROM rooms r
        LEFT JOIN students s ON s.room_no = r.room_no
        WHERE r.room_no = $1
        GROUP BY r.room_no, r.capacity`
	var occ models.RoomOccupancy
	if err := r.db.GetContext(ctx, &occ, query, roomNo); err != nil {
		return nil, err
	}
	return &occ, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	const query = `INSERT INTO rooms (room_no, capacity, room_type) VALUES (:room_no, :capacity, :room_type)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies capacity and type. The room row is locked while the
// current occupancy is compared so capacity can never drop below the
// committed occupant count.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin room update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current int
	if err = tx.GetContext(ctx, &current, `SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`, room.RoomNo); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room %d not found", room.RoomNo))
		}
		return fmt.Errorf("lock room: %w", err)
	}

	var occupancy int
	if err = tx.GetContext(ctx, &occupancy, `SELECT COUNT(*) FROM students WHERE room_no = $1`, room.RoomNo); err != nil {
		return fmt.Errorf("count occupants: %w", err)
	}
	if room.Capacity < occupancy {
		err = appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("capacity %d below current occupancy %d", room.Capacity, occupancy))
		return err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE rooms SET capacity = $2, room_type = $3 WHERE room_no = $1`,
		room.RoomNo, room.Capacity, room.RoomType); err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit room update: %w", err)
	}
	return nil
}

// Delete removes a room. Rooms with occupants are never deleted; the
// row lock keeps a concurrent admission from slipping in between the
// count and the delete.
func (r *RoomRepository) Delete(ctx context.Context, roomNo int) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin room delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	if err = tx.GetContext(ctx, &capacity, `SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`, roomNo); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room %d not found", roomNo))
		}
		return fmt.Errorf("lock room: %w", err)
	}

	var occupancy int
	if err = tx.GetContext(ctx, &occupancy, `SELECT COUNT(*) FROM students WHERE room_no = $1`, roomNo); err != nil {
		return fmt.Errorf("count occupants: %w", err)
	}
	if occupancy > 0 {
		err = appErrors.Clone(appErrors.ErrRoomOccupied, fmt.Sprintf("room %d has %d occupants", roomNo, occupancy))
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM rooms WHERE room_no = $1`, roomNo); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit room delete: %w", err)
	}
	return nil
}
