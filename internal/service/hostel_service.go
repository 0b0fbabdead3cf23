package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

type hostelRepository interface {
	List(ctx context.Context) ([]models.Hostel, error)
	FindByID(ctx context.Context, id int) (*models.Hostel, error)
	Create(ctx context.Context, name string) (*models.Hostel, error)
	Update(ctx context.Context, hostel *models.Hostel) error
	Delete(ctx context.Context, id int) error
}

// HostelRequest describes a hostel create or rename payload.
type HostelRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// HostelService manages hostel buildings.
type HostelService struct {
	repo      hostelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHostelService constructs a HostelService.
func NewHostelService(repo hostelRepository, validate *validator.Validate, logger *zap.Logger) *HostelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostelService{repo: repo, validator: validate, logger: logger}
}

// List returns all hostels.
func (s *HostelService) List(ctx context.Context) ([]models.Hostel, error) {
	hostels, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hostels")
	}
	return hostels, nil
}

// Get returns a single hostel.
func (s *HostelService) Get(ctx context.Context, id int) (*models.Hostel, error) {
	hostel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hostel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hostel")
	}
	return hostel, nil
}

// Create registers a new hostel.
func (s *HostelService) Create(ctx context.Context, req HostelRequest) (*models.Hostel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel payload")
	}
	hostel, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hostel")
	}
	s.logger.Info("hostel created", zap.Int("hostel_id", hostel.HostelID), zap.String("name", hostel.Name))
	return hostel, nil
}

// Update renames a hostel.
func (s *HostelService) Update(ctx context.Context, id int, req HostelRequest) (*models.Hostel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel payload")
	}
	hostel := &models.Hostel{HostelID: id, Name: req.Name}
	if err := s.repo.Update(ctx, hostel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hostel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hostel")
	}
	return hostel, nil
}

// Delete removes a hostel without residents.
func (s *HostelService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
