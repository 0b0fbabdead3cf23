package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

// fakeAdmissionStore mimics the database's transactional behaviour: a
// single mutex serialises every check-and-write, the way the row lock
// does in PostgreSQL.
type fakeAdmissionStore struct {
	mu       sync.Mutex
	rooms    map[int]int // room_no -> capacity
	students map[string]int
}

func newFakeAdmissionStore(rooms map[int]int) *fakeAdmissionStore {
	return &fakeAdmissionStore{rooms: rooms, students: make(map[string]int)}
}

func (f *fakeAdmissionStore) occupancy(roomNo int) int {
	count := 0
	for _, r := range f.students {
		if r == roomNo {
			count++
		}
	}
	return count
}

func (f *fakeAdmissionStore) Admit(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	roomNo := *student.RoomNo
	capacity, ok := f.rooms[roomNo]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room %d not found", roomNo))
	}
	if _, exists := f.students[student.StudentID]; exists {
		return appErrors.Clone(appErrors.ErrDuplicateStudent, "student already admitted")
	}
	if f.occupancy(roomNo) >= capacity {
		return appErrors.Clone(appErrors.ErrRoomFull, fmt.Sprintf("room %d is full", roomNo))
	}
	f.students[student.StudentID] = roomNo
	return nil
}

func (f *fakeAdmissionStore) Reassign(ctx context.Context, studentID string, newRoomNo int) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.students[studentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if current == newRoomNo {
		room := current
		return &models.Student{StudentID: studentID, RoomNo: &room}, nil
	}
	capacity, ok := f.rooms[newRoomNo]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}
	if f.occupancy(newRoomNo) >= capacity {
		return nil, appErrors.Clone(appErrors.ErrRoomFull, fmt.Sprintf("room %d is full", newRoomNo))
	}
	f.students[studentID] = newRoomNo
	room := newRoomNo
	return &models.Student{StudentID: studentID, RoomNo: &room}, nil
}

func (f *fakeAdmissionStore) Release(ctx context.Context, studentID string) (*int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	roomNo, ok := f.students[studentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	delete(f.students, studentID)
	return &roomNo, nil
}

type fakeHostelReader struct {
	hostels map[int]models.Hostel
}

func (f *fakeHostelReader) FindByID(ctx context.Context, id int) (*models.Hostel, error) {
	if h, ok := f.hostels[id]; ok {
		return &h, nil
	}
	return nil, sql.ErrNoRows
}

func admitRequest(studentID string, roomNo int) AdmitStudentRequest {
	return AdmitStudentRequest{
		StudentID:   studentID,
		Name:        "Asha Rao",
		Course:      "B.Tech",
		MessPlan:    "VEG",
		LaundryPlan: "WEEKLY",
		HostelID:    1,
		RoomNo:      roomNo,
	}
}

func newTestAdmissionService(store *fakeAdmissionStore) *AdmissionService {
	hostels := &fakeHostelReader{hostels: map[int]models.Hostel{1: {HostelID: 1, Name: "North Block"}}}
	return NewAdmissionService(store, hostels, nil, nil, nil, nil)
}

func TestAdmissionServiceAdmit(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 2})
	svc := newTestAdmissionService(store)

	student, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)
	require.NotNil(t, student.RoomNo)
	assert.Equal(t, 101, *student.RoomNo)
	assert.Equal(t, 101, store.students["S-100"])
}

func TestAdmissionServiceAdmitValidation(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 2})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), AdmitStudentRequest{StudentID: "S-100"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, store.students)
}

func TestAdmissionServiceAdmitUnknownHostel(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 2})
	svc := newTestAdmissionService(store)

	req := admitRequest("S-100", 101)
	req.HostelID = 99
	_, err := svc.Admit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAdmissionServiceAdmitRoomFull(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)

	_, err = svc.Admit(context.Background(), admitRequest("S-101", 101))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	assert.Len(t, store.students, 1)
}

func TestAdmissionServiceAdmitDuplicate(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 5})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)

	_, err = svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateStudent))
}

func TestAdmissionServiceConcurrentAdmitsNeverOverfill(t *testing.T) {
	const capacity = 5
	const contenders = 40

	store := newFakeAdmissionStore(map[int]int{101: capacity})
	svc := newTestAdmissionService(store)

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Admit(context.Background(), admitRequest(fmt.Sprintf("S-%03d", i), 101))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
			continue
		}
		assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	}
	assert.Equal(t, capacity, admitted)
	assert.Len(t, store.students, capacity)
}

func TestAdmissionServiceConcurrentAdmitsLastSlot(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1})
	svc := newTestAdmissionService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Admit(context.Background(), admitRequest(fmt.Sprintf("S-%d", i), 101))
		}(i)
	}
	wg.Wait()

	if errs[0] == nil {
		require.Error(t, errs[1])
		assert.True(t, appErrors.Is(errs[1], appErrors.ErrRoomFull))
	} else {
		require.NoError(t, errs[1])
		assert.True(t, appErrors.Is(errs[0], appErrors.ErrRoomFull))
	}
	assert.Len(t, store.students, 1)
}

func TestAdmissionServiceReassign(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1, 102: 1})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)

	student, err := svc.Reassign(context.Background(), "S-100", ReassignStudentRequest{RoomNo: 102})
	require.NoError(t, err)
	assert.Equal(t, 102, *student.RoomNo)
	assert.Equal(t, 102, store.students["S-100"])
}

func TestAdmissionServiceReassignFullTarget(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1, 102: 1})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)
	_, err = svc.Admit(context.Background(), admitRequest("S-101", 102))
	require.NoError(t, err)

	_, err = svc.Reassign(context.Background(), "S-100", ReassignStudentRequest{RoomNo: 102})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	assert.Equal(t, 101, store.students["S-100"])
}

func TestAdmissionServiceReleaseThenAdmit(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1})
	svc := newTestAdmissionService(store)

	_, err := svc.Admit(context.Background(), admitRequest("S-100", 101))
	require.NoError(t, err)

	require.NoError(t, svc.Release(context.Background(), "S-100"))

	_, err = svc.Admit(context.Background(), admitRequest("S-101", 101))
	require.NoError(t, err)
}

func TestAdmissionServiceRoomLifecycle(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 2})
	svc := newTestAdmissionService(store)
	ctx := context.Background()

	_, err := svc.Admit(ctx, admitRequest("S-1", 101))
	require.NoError(t, err)
	assert.Equal(t, 1, store.occupancy(101))

	_, err = svc.Admit(ctx, admitRequest("S-2", 101))
	require.NoError(t, err)
	assert.Equal(t, 2, store.occupancy(101))

	_, err = svc.Admit(ctx, admitRequest("S-3", 101))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomFull))
	assert.Equal(t, 2, store.occupancy(101))

	require.NoError(t, svc.Release(ctx, "S-1"))
	assert.Equal(t, 1, store.occupancy(101))

	_, err = svc.Admit(ctx, admitRequest("S-3", 101))
	require.NoError(t, err)
	assert.Equal(t, 2, store.occupancy(101))
}

func TestAdmissionServiceReleaseMissing(t *testing.T) {
	store := newFakeAdmissionStore(map[int]int{101: 1})
	svc := newTestAdmissionService(store)

	err := svc.Release(context.Background(), "S-404")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
