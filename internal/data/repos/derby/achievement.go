package derby

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type AchievementRepo interface {
	ListByCarIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) ListByCarIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*domain.Achievement
	if len(carIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"carId": carIDs}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "carId"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "achievement"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
