package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

const dashboardSummaryKey = "dashboard:summary"

type dashboardReportRepository interface {
	TotalStudents(ctx context.Context) (int, error)
	PendingFees(ctx context.Context) (*models.FeeTotals, error)
	RoomTypeDistribution(ctx context.Context) ([]models.RoomTypeCount, error)
	HostelOccupancy(ctx context.Context) ([]models.HostelOccupancy, error)
	CapacityUtilisation(ctx context.Context) (totalRooms, roomsAtCapacity, availableBeds int, err error)
}

// DashboardService composes the admin dashboard summary. The payload
// is cached briefly; every mutation of students or rooms invalidates
// it, so a stale read never outlives the TTL.
type DashboardService struct {
	reports  dashboardReportRepository
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(reports dashboardReportRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{reports: reports, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// Summary returns the dashboard aggregates, served from cache when warm.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var cached models.DashboardSummary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, dashboardSummaryKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardSummaryKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*models.DashboardSummary, error) {
	totalStudents, err := s.reports.TotalStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	pending, err := s.reports.PendingFees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate pending fees")
	}

	roomTypes, err := s.reports.RoomTypeDistribution(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate room types")
	}

	hostelOccupancy, err := s.reports.HostelOccupancy(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate hostel occupancy")
	}

	totalRooms, atCapacity, availableBeds, err := s.reports.CapacityUtilisation(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate capacity utilisation")
	}

	return &models.DashboardSummary{
		TotalStudents:   totalStudents,
		PendingFees:     *pending,
		RoomTypes:       roomTypes,
		HostelOccupancy: hostelOccupancy,
		RoomsAtCapacity: atCapacity,
		TotalRooms:      totalRooms,
		AvailableBeds:   availableBeds,
	}, nil
}
