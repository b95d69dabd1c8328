package derby

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type ResultRepo interface {
	ListByEventID(ctx context.Context, tx *gorm.DB, eventID int64) ([]*domain.Result, error)
}

type resultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResultRepo(db *gorm.DB, baseLog *logger.Logger) ResultRepo {
	repoLog := baseLog.With("repo", "ResultRepo")
	return &resultRepo{db: db, log: repoLog}
}

func (rr *resultRepo) ListByEventID(ctx context.Context, tx *gorm.DB, eventID int64) ([]*domain.Result, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*domain.Result
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"eventId": eventID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "heatNumber"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "lane"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
