package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

type occupancyReader interface {
	Occupancy(ctx context.Context, roomNo int) (*models.RoomOccupancy, error)
}

// OccupancyService answers questions about how full a room is. Every
// answer is recomputed from student rows at read time, so a reading
// taken after a commit always reflects that commit.
type OccupancyService struct {
	rooms  occupancyReader
	logger *zap.Logger
}

// NewOccupancyService constructs an OccupancyService.
func NewOccupancyService(rooms occupancyReader, logger *zap.Logger) *OccupancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccupancyService{rooms: rooms, logger: logger}
}

// Of returns the room together with its live occupant count.
func (s *OccupancyService) Of(ctx context.Context, roomNo int) (*models.RoomOccupancy, error) {
	occ, err := s.rooms.Occupancy(ctx, roomNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room occupancy")
	}
	return occ, nil
}

// CapacityOf returns the configured capacity of a room.
func (s *OccupancyService) CapacityOf(ctx context.Context, roomNo int) (int, error) {
	occ, err := s.Of(ctx, roomNo)
	if err != nil {
		return 0, err
	}
	return occ.Capacity, nil
}

// HasSpace reports whether the room can take another occupant.
func (s *OccupancyService) HasSpace(ctx context.Context, roomNo int) (bool, error) {
	occ, err := s.Of(ctx, roomNo)
	if err != nil {
		return false, err
	}
	return occ.HasSpace(), nil
}
