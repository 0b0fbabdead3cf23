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

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByNo(ctx context.Context, roomNo int) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, roomNo int) error
}

// RoomRequest describes a room create or update payload.
type RoomRequest struct {
	RoomNo   int    `json:"room_no" validate:"required,min=1"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	RoomType string `json:"room_type" validate:"required,oneof=Single Double Triple Dormitory"`
}

// RoomService manages room inventory. Capacity changes and deletions
// defer to the repository's locked occupancy checks.
type RoomService struct {
	repo      roomRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns rooms with pagination metadata.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single room.
func (s *RoomService) Get(ctx context.Context, roomNo int) (*models.Room, error) {
	room, err := s.repo.FindByNo(ctx, roomNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create registers a new room.
func (s *RoomService) Create(ctx context.Context, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := &models.Room{RoomNo: req.RoomNo, Capacity: req.Capacity, RoomType: req.RoomType}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("room created", zap.Int("room_no", room.RoomNo), zap.Int("capacity", room.Capacity))
	return room, nil
}

// Update changes capacity or type. Shrinking below current occupancy
// is rejected by the repository.
func (s *RoomService) Update(ctx context.Context, roomNo int, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := &models.Room{RoomNo: roomNo, Capacity: req.Capacity, RoomType: req.RoomType}
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	return room, nil
}

// Delete removes an empty room.
func (s *RoomService) Delete(ctx context.Context, roomNo int) error {
	if err := s.repo.Delete(ctx, roomNo); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("room deleted", zap.Int("room_no", roomNo))
	return nil
}

func (s *RoomService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, dashboardCachePattern)
}
