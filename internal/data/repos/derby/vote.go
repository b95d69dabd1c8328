package derby

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type VoteRepo interface {
	Increment(ctx context.Context, tx *gorm.DB, carID int64) error
	GetByCarIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Vote, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	repoLog := baseLog.With("repo", "VoteRepo")
	return &voteRepo{db: db, log: repoLog}
}

// Increment inserts a first vote for carID or adds one to its tally.
func (vr *voteRepo) Increment(ctx context.Context, tx *gorm.DB, carID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "carId"}},
			DoUpdates: clause.Assignments(map[string]any{
				"Votes": gorm.Expr("? + 1", clause.Column{Table: "Votes", Name: "Votes"}),
			}),
		}).
		Create(&domain.Vote{CarID: carID, Votes: 1}).Error
}

func (vr *voteRepo) GetByCarIDs(ctx context.Context, tx *gorm.DB, carIDs []int64) ([]*domain.Vote, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []*domain.Vote
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
