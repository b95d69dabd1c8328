package services

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type CarsAndResults struct {
	Cars    []*domain.CarWithAchievements `json:"cars"`
	Results []*domain.Result              `json:"results"`
}

type ResultService interface {
	ListByEventID(ctx context.Context, eventID int64) ([]*domain.Result, error)
	CarsAndResults(ctx context.Context, eventID int64) (*CarsAndResults, error)
}

type resultService struct {
	log             *logger.Logger
	carRepo         repos.CarRepo
	resultRepo      repos.ResultRepo
	achievementRepo repos.AchievementRepo
}

func NewResultService(log *logger.Logger, carRepo repos.CarRepo, resultRepo repos.ResultRepo, achievementRepo repos.AchievementRepo) ResultService {
	serviceLog := log.With("service", "ResultService")
	return &resultService{
		log:             serviceLog,
		carRepo:         carRepo,
		resultRepo:      resultRepo,
		achievementRepo: achievementRepo,
	}
}

func (rs *resultService) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Result, error) {
	results, err := rs.resultRepo.ListByEventID(ctx, nil, eventID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

// CarsAndResults returns an event's cars, each with its achievements joined
// by ", ", alongside every recorded heat result.
func (rs *resultService) CarsAndResults(ctx context.Context, eventID int64) (*CarsAndResults, error) {
	cars, err := rs.carRepo.ListByEventID(ctx, nil, eventID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	carIDs := lo.Map(cars, func(c *domain.Car, _ int) int64 { return c.CarID })
	achs, err := rs.achievementRepo.ListByCarIDs(ctx, nil, carIDs)
	if err != nil {
		return nil, apierr.Store(err)
	}
	byCar := lo.GroupBy(achs, func(a *domain.Achievement) int64 { return a.CarID })

	out := &CarsAndResults{
		Cars: lo.Map(cars, func(c *domain.Car, _ int) *domain.CarWithAchievements {
			row := &domain.CarWithAchievements{Car: *c}
			if group := byCar[c.CarID]; len(group) > 0 {
				names := lo.Uniq(lo.Map(group, func(a *domain.Achievement, _ int) string { return a.Achievement }))
				joined := strings.Join(names, ", ")
				row.AllAchs = &joined
			}
			return row
		}),
	}

	out.Results, err = rs.resultRepo.ListByEventID(ctx, nil, eventID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return out, nil
}
