package derby

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

// EventFilter narrows List. From is inclusive and Until exclusive; both
// compare against eventDate.
type EventFilter struct {
	ShowHidden bool
	From       *time.Time
	Until      *time.Time
}

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *domain.Event) (*domain.Event, error)
	List(ctx context.Context, tx *gorm.DB, filter EventFilter) ([]*domain.Event, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []int64) ([]*domain.Event, error)
	Update(ctx context.Context, tx *gorm.DB, eventID int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, eventID int64) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *domain.Event) (*domain.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (er *eventRepo) List(ctx context.Context, tx *gorm.DB, filter EventFilter) ([]*domain.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	q := transaction.WithContext(ctx).Model(&domain.Event{})
	if !filter.ShowHidden {
		q = q.Where(map[string]any{"hidden": false})
	}
	if filter.From != nil {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "eventDate"}, Value: *filter.From})
	}
	if filter.Until != nil {
		q = q.Where(clause.Lt{Column: clause.Column{Name: "eventDate"}, Value: *filter.Until})
	}

	var results []*domain.Event
	if err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "eventDate"}, Desc: true}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []int64) ([]*domain.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*domain.Event
	if len(eventIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"eventId": eventIDs}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) Update(ctx context.Context, tx *gorm.DB, eventID int64, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Event{}).
		Where(map[string]any{"eventId": eventID}).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (er *eventRepo) Delete(ctx context.Context, tx *gorm.DB, eventID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	res := transaction.WithContext(ctx).
		Where(map[string]any{"eventId": eventID}).
		Delete(&domain.Event{})
	return res.RowsAffected, res.Error
}
