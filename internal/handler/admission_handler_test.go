package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/hms-api/internal/models"
	"github.com/hostelworks/hms-api/internal/service"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
	"github.com/hostelworks/hms-api/pkg/response"
)

type admissionServiceMock struct {
	admitResp    *models.Student
	admitErr     error
	reassignResp *models.Student
	reassignErr  error
	releaseErr   error
	lastAdmit    service.AdmitStudentRequest
	releasedID   string
}

func (m *admissionServiceMock) Admit(ctx context.Context, req service.AdmitStudentRequest) (*models.Student, error) {
	m.lastAdmit = req
	return m.admitResp, m.admitErr
}

func (m *admissionServiceMock) Reassign(ctx context.Context, studentID string, req service.ReassignStudentRequest) (*models.Student, error) {
	return m.reassignResp, m.reassignErr
}

func (m *admissionServiceMock) Release(ctx context.Context, studentID string) error {
	m.releasedID = studentID
	return m.releaseErr
}

func admissionRouter(svc admissionOperations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAdmissionHandler(svc)
	r.POST("/admissions", h.Admit)
	r.PUT("/students/:id/reassign", h.Reassign)
	r.DELETE("/students/:id", h.Release)
	return r
}

func TestAdmissionHandlerAdmit(t *testing.T) {
	roomNo := 101
	mockSvc := &admissionServiceMock{admitResp: &models.Student{StudentID: "S-100", Name: "Asha Rao", RoomNo: &roomNo}}
	r := admissionRouter(mockSvc)

	body, err := json.Marshal(service.AdmitStudentRequest{
		StudentID: "S-100", Name: "Asha Rao", Course: "B.Tech",
		MessPlan: "VEG", LaundryPlan: "WEEKLY", HostelID: 1, RoomNo: 101,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "S-100", mockSvc.lastAdmit.StudentID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
}

func TestAdmissionHandlerAdmitRoomFull(t *testing.T) {
	mockSvc := &admissionServiceMock{admitErr: appErrors.Clone(appErrors.ErrRoomFull, "room 101 is full")}
	r := admissionRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admissions", bytes.NewReader([]byte(`{"student_id":"S-100"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "ROOM_FULL", envelope.Error.Code)
}

func TestAdmissionHandlerAdmitBadJSON(t *testing.T) {
	r := admissionRouter(&admissionServiceMock{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admissions", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmissionHandlerReassign(t *testing.T) {
	roomNo := 102
	mockSvc := &admissionServiceMock{reassignResp: &models.Student{StudentID: "S-100", RoomNo: &roomNo}}
	r := admissionRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/students/S-100/reassign", bytes.NewReader([]byte(`{"room_no":102}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmissionHandlerRelease(t *testing.T) {
	mockSvc := &admissionServiceMock{}
	r := admissionRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/students/S-100", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "S-100", mockSvc.releasedID)
}

func TestAdmissionHandlerReleaseMissing(t *testing.T) {
	mockSvc := &admissionServiceMock{releaseErr: appErrors.Clone(appErrors.ErrNotFound, "student S-404 not found")}
	r := admissionRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/students/S-404", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
