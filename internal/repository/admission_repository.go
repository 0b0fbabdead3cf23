package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

// AdmissionRepository executes the transactional check-and-reserve
// sequences that keep room occupancy within capacity. Every operation
// runs as a single transaction: the room row is locked with FOR UPDATE
// before the occupant count is read, so two admissions racing for the
// last slot serialise on the lock and the loser observes the committed
// insert.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs an AdmissionRepository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// Admit inserts the student after verifying the target room has space.
// The capacity check and the insert commit or roll back as one unit.
func (r *AdmissionRepository) Admit(ctx context.Context, student *models.Student) (err error) {
	if student.RoomNo == nil {
		return appErrors.Clone(appErrors.ErrValidation, "room number is required")
	}
	roomNo := *student.RoomNo

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr(err, "begin admission")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	capacity, occupancy, err := lockRoomAndCount(ctx, tx, roomNo)
	if err != nil {
		return err
	}
	if occupancy >= capacity {
		err = appErrors.Clone(appErrors.ErrRoomFull, fmt.Sprintf("room %d is full", roomNo))
		return err
	}

	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const insertQuery = `INSERT INTO students (student_id, name, course, mess_plan, laundry_plan, hostel_id, room_no, created_at, updated_at)
        VALUES (:student_id, :name, :course, :mess_plan, :laundry_plan, :hostel_id, :room_no, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, student); err != nil {
		err = classifyWriteErr(err, "insert student")
		return err
	}

	if err = tx.Commit(); err != nil {
		return storageErr(err, "commit admission")
	}
	return nil
}

// Reassign moves the student to a new room. The target room row is
// locked before its occupancy is checked, so the move either fully
// happens or leaves the student where they were.
func (r *AdmissionRepository) Reassign(ctx context.Context, studentID string, newRoomNo int) (student *models.Student, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageErr(err, "begin reassignment")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Student
	const selectQuery = `SELECT student_id, name, course, mess_plan, laundry_plan, hostel_id, room_no, created_at, updated_at
        FROM students WHERE student_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, selectQuery, studentID); err != nil {
		if err == sql.ErrNoRows {
			err = appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
			return nil, err
		}
		return nil, storageErr(err, "load student")
	}

	if current.RoomNo != nil && *current.RoomNo == newRoomNo {
		if err = tx.Commit(); err != nil {
			return nil, storageErr(err, "commit reassignment")
		}
		return &current, nil
	}

	// Only the target room needs the lock: the vacated room's derived
	// count can only shrink, which never violates its capacity.
	capacity, occupancy, err := lockRoomAndCount(ctx, tx, newRoomNo)
	if err != nil {
		return nil, err
	}
	if occupancy >= capacity {
		err = appErrors.Clone(appErrors.ErrRoomFull, fmt.Sprintf("room %d is full", newRoomNo))
		return nil, err
	}

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `UPDATE students SET room_no = $2, updated_at = $3 WHERE student_id = $1`,
		studentID, newRoomNo, now); err != nil {
		err = classifyWriteErr(err, "move student")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, storageErr(err, "commit reassignment")
	}
	current.RoomNo = &newRoomNo
	current.UpdatedAt = now
	return &current, nil
}

// Release deletes the student, vacating their room slot. The delete and
// the occupancy decrement are one and the same statement because the
// count is derived from student rows.
func (r *AdmissionRepository) Release(ctx context.Context, studentID string) (*int, error) {
	var roomNo sql.NullInt64
	const query = `DELETE FROM students WHERE student_id = $1 RETURNING room_no`
	if err := r.db.GetContext(ctx, &roomNo, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, storageErr(err, "release student")
	}
	if !roomNo.Valid {
		return nil, nil
	}
	vacated := int(roomNo.Int64)
	return &vacated, nil
}

// lockRoomAndCount takes the per-room lock and reads the derived
// occupant count under it. Callers must hold the returned lock until
// their write commits.
func lockRoomAndCount(ctx context.Context, tx *sqlx.Tx, roomNo int) (capacity, occupancy int, err error) {
	if err = tx.GetContext(ctx, &capacity, `SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`, roomNo); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room %d not found", roomNo))
		}
		return 0, 0, storageErr(err, "lock room")
	}
	if err = tx.GetContext(ctx, &occupancy, `SELECT COUNT(*) FROM students WHERE room_no = $1`, roomNo); err != nil {
		return 0, 0, storageErr(err, "count occupants")
	}
	return capacity, occupancy, nil
}

// classifyWriteErr maps PostgreSQL constraint violations onto the
// domain error taxonomy.
func classifyWriteErr(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return appErrors.Wrap(err, appErrors.ErrDuplicateStudent.Code, appErrors.ErrDuplicateStudent.Status, appErrors.ErrDuplicateStudent.Message)
		case "23503":
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "referenced room or hostel does not exist")
		case "23514":
			return appErrors.Wrap(err, appErrors.ErrStorageIntegrity.Code, appErrors.ErrStorageIntegrity.Status, appErrors.ErrStorageIntegrity.Message)
		}
	}
	return storageErr(err, op)
}

// storageErr tags transport-level failures as retryable; anything else
// is wrapped for the service layer to surface.
func storageErr(err error, op string) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
