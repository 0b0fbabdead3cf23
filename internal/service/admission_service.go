package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

const dashboardCachePattern = "dashboard:*"

type admissionRepository interface {
	Admit(ctx context.Context, student *models.Student) error
	Reassign(ctx context.Context, studentID string, newRoomNo int) (*models.Student, error)
	Release(ctx context.Context, studentID string) (*int, error)
}

type hostelReader interface {
	FindByID(ctx context.Context, id int) (*models.Hostel, error)
}

// AdmitStudentRequest describes an admission payload.
type AdmitStudentRequest struct {
	StudentID   string `json:"student_id" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=100"`
	Course      string `json:"course" validate:"required,max=50"`
	MessPlan    string `json:"mess_plan" validate:"required,max=30"`
	LaundryPlan string `json:"laundry_plan" validate:"required,max=30"`
	HostelID    int    `json:"hostel_id" validate:"required,min=1"`
	RoomNo      int    `json:"room_no" validate:"required,min=1"`
}

// ReassignStudentRequest describes a room move payload.
type ReassignStudentRequest struct {
	RoomNo int `json:"room_no" validate:"required,min=1"`
}

// AdmissionService orchestrates the admit, reassign and release flows.
// The capacity decision itself lives in the repository transaction; the
// service validates input, resolves references and keeps the dashboard
// cache honest.
type AdmissionService struct {
	repo      admissionRepository
	hostels   hostelReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdmissionService constructs an AdmissionService.
func NewAdmissionService(repo admissionRepository, hostels hostelReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{repo: repo, hostels: hostels, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Admit places a student into a room, rejecting the request when the
// room is at capacity or the student identifier already exists.
func (s *AdmissionService) Admit(ctx context.Context, req AdmitStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}

	if _, err := s.hostels.FindByID(ctx, req.HostelID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hostel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hostel")
	}

	roomNo := req.RoomNo
	student := &models.Student{
		StudentID:   req.StudentID,
		Name:        req.Name,
		Course:      req.Course,
		MessPlan:    req.MessPlan,
		LaundryPlan: req.LaundryPlan,
		HostelID:    req.HostelID,
		RoomNo:      &roomNo,
	}

	if err := s.repo.Admit(ctx, student); err != nil {
		s.recordOutcome("admit", err)
		return nil, err
	}
	s.recordOutcome("admit", nil)
	s.invalidateDashboard(ctx)

	s.logger.Info("student admitted",
		zap.String("student_id", student.StudentID),
		zap.Int("room_no", roomNo),
		zap.Int("hostel_id", student.HostelID))
	return student, nil
}

// Reassign moves a student to another room when it has space.
func (s *AdmissionService) Reassign(ctx context.Context, studentID string, req ReassignStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassignment payload")
	}

	student, err := s.repo.Reassign(ctx, studentID, req.RoomNo)
	if err != nil {
		s.recordOutcome("reassign", err)
		return nil, err
	}
	s.recordOutcome("reassign", nil)
	s.invalidateDashboard(ctx)

	s.logger.Info("student reassigned",
		zap.String("student_id", studentID),
		zap.Int("room_no", req.RoomNo))
	return student, nil
}

// Release removes a student, vacating their room slot.
func (s *AdmissionService) Release(ctx context.Context, studentID string) error {
	vacated, err := s.repo.Release(ctx, studentID)
	if err != nil {
		s.recordOutcome("release", err)
		return err
	}
	s.recordOutcome("release", nil)
	s.invalidateDashboard(ctx)

	fields := []zap.Field{zap.String("student_id", studentID)}
	if vacated != nil {
		fields = append(fields, zap.Int("vacated_room", *vacated))
	}
	s.logger.Info("student released", fields...)
	return nil
}

func (s *AdmissionService) recordOutcome(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case appErrors.Is(err, appErrors.ErrRoomFull):
		outcome = "room_full"
	case appErrors.Is(err, appErrors.ErrDuplicateStudent):
		outcome = "duplicate"
	case appErrors.Is(err, appErrors.ErrNotFound):
		outcome = "not_found"
	case appErrors.Is(err, appErrors.ErrStorageUnavailable):
		outcome = "storage_unavailable"
	default:
		outcome = "error"
	}
	s.metrics.RecordAdmission(operation, outcome)
}

func (s *AdmissionService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, dashboardCachePattern)
}
