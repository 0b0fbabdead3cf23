package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func intPtr(v int) *int { return &v }

func testTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-06-01T08:00:00Z")
	require.NoError(t, err)
	return ts
}

func TestAdmissionRepositoryAdmit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("S-100", "Asha Rao", "B.Tech", "VEG", "WEEKLY", 1, 101, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Admit(context.Background(), &models.Student{
		StudentID:   "S-100",
		Name:        "Asha Rao",
		Course:      "B.Tech",
		MessPlan:    "VEG",
		LaundryPlan: "WEEKLY",
		HostelID:    1,
		RoomNo:      intPtr(101),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryAdmitRoomFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Admit(context.Background(), &models.Student{
		StudentID: "S-100",
		Name:      "Asha Rao",
		HostelID:  1,
		RoomNo:    intPtr(101),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryAdmitRoomMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Admit(context.Background(), &models.Student{
		StudentID: "S-100",
		Name:      "Asha Rao",
		HostelID:  1,
		RoomNo:    intPtr(999),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryAdmitDuplicateStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Admit(context.Background(), &models.Student{
		StudentID: "S-100",
		Name:      "Asha Rao",
		HostelID:  1,
		RoomNo:    intPtr(101),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateStudent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryAdmitNilRoom(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	err := repo.Admit(context.Background(), &models.Student{StudentID: "S-100", Name: "Asha Rao", HostelID: 1})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAdmissionRepositoryReassign(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	studentRows := sqlmock.NewRows([]string{"student_id", "name", "course", "mess_plan", "laundry_plan", "hostel_id", "room_no", "created_at", "updated_at"}).
		AddRow("S-100", "Asha Rao", "B.Tech", "VEG", "WEEKLY", 1, 101, testTime(t), testTime(t))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id = $1 FOR UPDATE")).
		WithArgs("S-100").
		WillReturnRows(studentRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(102).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(102).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET room_no = $2, updated_at = $3 WHERE student_id = $1`)).
		WithArgs("S-100", 102, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student, err := repo.Reassign(context.Background(), "S-100", 102)
	require.NoError(t, err)
	require.NotNil(t, student.RoomNo)
	assert.Equal(t, 102, *student.RoomNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryReassignSameRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	studentRows := sqlmock.NewRows([]string{"student_id", "name", "course", "mess_plan", "laundry_plan", "hostel_id", "room_no", "created_at", "updated_at"}).
		AddRow("S-100", "Asha Rao", "B.Tech", "VEG", "WEEKLY", 1, 101, testTime(t), testTime(t))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id = $1 FOR UPDATE")).
		WithArgs("S-100").
		WillReturnRows(studentRows)
	mock.ExpectCommit()

	student, err := repo.Reassign(context.Background(), "S-100", 101)
	require.NoError(t, err)
	require.NotNil(t, student.RoomNo)
	assert.Equal(t, 101, *student.RoomNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryReassignTargetFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	studentRows := sqlmock.NewRows([]string{"student_id", "name", "course", "mess_plan", "laundry_plan", "hostel_id", "room_no", "created_at", "updated_at"}).
		AddRow("S-100", "Asha Rao", "B.Tech", "VEG", "WEEKLY", 1, 101, testTime(t), testTime(t))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id = $1 FOR UPDATE")).
		WithArgs("S-100").
		WillReturnRows(studentRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(102).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(102).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, err := repo.Reassign(context.Background(), "S-100", 102)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryReassignStudentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id = $1 FOR UPDATE")).
		WithArgs("S-404").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Reassign(context.Background(), "S-404", 101)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryRelease(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM students WHERE student_id = $1 RETURNING room_no`)).
		WithArgs("S-100").
		WillReturnRows(sqlmock.NewRows([]string{"room_no"}).AddRow(101))

	vacated, err := repo.Release(context.Background(), "S-100")
	require.NoError(t, err)
	require.NotNil(t, vacated)
	assert.Equal(t, 101, *vacated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryReleaseUnassigned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM students WHERE student_id = $1 RETURNING room_no`)).
		WithArgs("S-100").
		WillReturnRows(sqlmock.NewRows([]string{"room_no"}).AddRow(nil))

	vacated, err := repo.Release(context.Background(), "S-100")
	require.NoError(t, err)
	assert.Nil(t, vacated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryReleaseMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM students WHERE student_id = $1 RETURNING room_no`)).
		WithArgs("S-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Release(context.Background(), "S-404")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
