package user

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *domain.User) (*domain.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*domain.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) ([]*domain.User, error)
	Update(ctx context.Context, tx *gorm.DB, userID int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, userID int64) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *domain.User) (*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*domain.User
	if err := transaction.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "userId"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*domain.User
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where(map[string]any{"userId": userIDs}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*domain.User
	if err := transaction.WithContext(ctx).
		Where(map[string]any{"username": username}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Update applies fields (column name to value) and reports the number of
// matched rows.
func (ur *userRepo) Update(ctx context.Context, tx *gorm.DB, userID int64, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.User{}).
		Where(map[string]any{"userId": userID}).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (ur *userRepo) Delete(ctx context.Context, tx *gorm.DB, userID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	res := transaction.WithContext(ctx).
		Where(map[string]any{"userId": userID}).
		Delete(&domain.User{})
	return res.RowsAffected, res.Error
}
