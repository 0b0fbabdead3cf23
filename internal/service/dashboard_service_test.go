package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
)

type fakeReportRepo struct {
	calls int
}

func (f *fakeReportRepo) TotalStudents(ctx context.Context) (int, error) {
	f.calls++
	return 42, nil
}

func (f *fakeReportRepo) PendingFees(ctx context.Context) (*models.FeeTotals, error) {
	return &models.FeeTotals{Count: 5, Amount: 22500}, nil
}

func (f *fakeReportRepo) RoomTypeDistribution(ctx context.Context) ([]models.RoomTypeCount, error) {
	return []models.RoomTypeCount{{RoomType: models.RoomTypeDouble, Count: 10}}, nil
}

func (f *fakeReportRepo) HostelOccupancy(ctx context.Context) ([]models.HostelOccupancy, error) {
	return []models.HostelOccupancy{{HostelID: 1, Name: "North Block", Students: 42}}, nil
}

func (f *fakeReportRepo) CapacityUtilisation(ctx context.Context) (int, int, int, error) {
	return 20, 4, 8, nil
}

type memoryCacheRepo struct {
	values map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string][]byte)
	return nil
}

func TestDashboardServiceSummary(t *testing.T) {
	reports := &fakeReportRepo{}
	svc := NewDashboardService(reports, nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, summary.TotalStudents)
	assert.Equal(t, 5, summary.PendingFees.Count)
	assert.Equal(t, 4, summary.RoomsAtCapacity)
	assert.Equal(t, 8, summary.AvailableBeds)
}

func TestDashboardServiceSummaryCached(t *testing.T) {
	reports := &fakeReportRepo{}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(reports, cache, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, reports.calls)
}

func TestDashboardServiceSummaryInvalidation(t *testing.T) {
	reports := &fakeReportRepo{}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(reports, cache, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(context.Background(), dashboardCachePattern))

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reports.calls)
}
