package checkin

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type ListFilter struct {
	NotAdded bool
	Since    *time.Time
}

type CheckInRepo interface {
	Create(ctx context.Context, tx *gorm.DB, checkIn *domain.CheckIn) (*domain.CheckIn, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, checkInIDs []string) ([]*domain.CheckIn, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*domain.CheckIn, error)
	MarkAdded(ctx context.Context, tx *gorm.DB, checkInID string, eventID *int64) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, checkInID string) error
}

type checkInRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	repoLog := baseLog.With("repo", "CheckInRepo")
	return &checkInRepo{db: db, log: repoLog}
}

func (cr *checkInRepo) Create(ctx context.Context, tx *gorm.DB, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(checkIn).Error; err != nil {
		return nil, err
	}
	return checkIn, nil
}

func (cr *checkInRepo) GetByIDs(ctx context.Context, tx *gorm.DB, checkInIDs []string) ([]*domain.CheckIn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.CheckIn
	if len(checkInIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"checkInId": checkInIDs}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *checkInRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*domain.CheckIn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	q := transaction.WithContext(ctx).Model(&domain.CheckIn{})
	if filter.NotAdded {
		q = q.Where(map[string]any{"addedToEventId": nil})
	}
	if filter.Since != nil {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "time"}, Value: *filter.Since})
	}

	var results []*domain.CheckIn
	if err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}, Desc: true}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *checkInRepo) MarkAdded(ctx context.Context, tx *gorm.DB, checkInID string, eventID *int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.CheckIn{}).
		Where(map[string]any{"checkInId": checkInID}).
		Update("addedToEventId", eventID)
	return res.RowsAffected, res.Error
}

// Delete removes a check-in row; used to roll back when the photo cannot be stored.
func (cr *checkInRepo) Delete(ctx context.Context, tx *gorm.DB, checkInID string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where(map[string]any{"checkInId": checkInID}).
		Delete(&domain.CheckIn{}).Error
}
