package derby

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type CarRepo interface {
	Create(ctx context.Context, tx *gorm.DB, car *domain.Car) (*domain.Car, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Car, error)
	ListByEventID(ctx context.Context, tx *gorm.DB, eventID int64) ([]*domain.Car, error)
	Update(ctx context.Context, tx *gorm.DB, carID int64, fields map[string]any) (int64, error)
	BumpImageVersion(ctx context.Context, tx *gorm.DB, carID int64) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, carID int64) (int64, error)
}

type carRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCarRepo(db *gorm.DB, baseLog *logger.Logger) CarRepo {
	repoLog := baseLog.With("repo", "CarRepo")
	return &carRepo{db: db, log: repoLog}
}

func (cr *carRepo) Create(ctx context.Context, tx *gorm.DB, car *domain.Car) (*domain.Car, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(car).Error; err != nil {
		return nil, err
	}
	return car, nil
}

func (cr *carRepo) GetByIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Car, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Car
	if len(carIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"carId": carIDs}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *carRepo) ListByEventID(ctx context.Context, tx *gorm.DB, eventID int64) ([]*domain.Car, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Car
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"eventId": eventID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "carId"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *carRepo) Update(ctx context.Context, tx *gorm.DB, carID int64, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Car{}).
		Where(map[string]any{"carId": carID}).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// BumpImageVersion increments imageVersion so clients refetch the photo.
func (cr *carRepo) BumpImageVersion(ctx context.Context, tx *gorm.DB, carID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Car{}).
		Where(map[string]any{"carId": carID}).
		UpdateColumn("imageVersion", gorm.Expr("? + 1", clause.Column{Name: "imageVersion"}))
	return res.RowsAffected, res.Error
}

func (cr *carRepo) Delete(ctx context.Context, tx *gorm.DB, carID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where(map[string]any{"carId": carID}).
		Delete(&domain.Car{})
	return res.RowsAffected, res.Error
}
