package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

func TestRoomRepositoryOccupancy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"room_no", "capacity", "occupancy"}).
		AddRow(101, 3, 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.room_no, r.capacity, COUNT(s.student_id) AS occupancy")).
		WithArgs(101).
		WillReturnRows(rows)

	occ, err := repo.Occupancy(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, 101, occ.RoomNo)
	assert.Equal(t, 3, occ.Capacity)
	assert.Equal(t, 2, occ.Occupancy)
	assert.True(t, occ.HasSpace())
}

func TestRoomRepositoryOccupancyEmptyRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"room_no", "capacity", "occupancy"}).
		AddRow(102, 2, 0)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.room_no, r.capacity, COUNT(s.student_id) AS occupancy")).
		WithArgs(102).
		WillReturnRows(rows)

	occ, err := repo.Occupancy(context.Background(), 102)
	require.NoError(t, err)
	assert.Equal(t, 0, occ.Occupancy)
	assert.True(t, occ.HasSpace())
}

func TestRoomRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"room_no", "capacity", "room_type"}).
		AddRow(101, 2, models.RoomTypeDouble).
		AddRow(102, 1, models.RoomTypeSingle)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT room_no, capacity, room_type FROM rooms ORDER BY room_no ASC")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, 2, total)
}

func TestRoomRepositoryUpdateRejectsShrinkBelowOccupancy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Room{RoomNo: 101, Capacity: 1, RoomType: models.RoomTypeSingle})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET capacity = $2, room_type = $3 WHERE room_no = $1`)).
		WithArgs(101, 3, models.RoomTypeTriple).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Room{RoomNo: 101, Capacity: 3, RoomType: models.RoomTypeTriple})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDeleteOccupied(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 101)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomOccupied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms WHERE room_no = $1 FOR UPDATE`)).
		WithArgs(105).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE room_no = $1`)).
		WithArgs(105).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE room_no = $1`)).
		WithArgs(105).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 105)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByNoMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT room_no, capacity, room_type FROM rooms WHERE room_no = $1`)).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByNo(context.Background(), 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
