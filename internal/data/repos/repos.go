package repos

import (
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/repos/checkin"
	"github.com/ericman314/pinewood-server/internal/data/repos/derby"
	"github.com/ericman314/pinewood-server/internal/data/repos/user"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type UserRepo = user.UserRepo

type EventRepo = derby.EventRepo
type EventFilter = derby.EventFilter
type CarRepo = derby.CarRepo
type ResultRepo = derby.ResultRepo
type AchievementRepo = derby.AchievementRepo
type VoteRepo = derby.VoteRepo

type CheckInRepo = checkin.CheckInRepo
type CheckInFilter = checkin.ListFilter

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return derby.NewEventRepo(db, baseLog)
}
func NewCarRepo(db *gorm.DB, baseLog *logger.Logger) CarRepo { return derby.NewCarRepo(db, baseLog) }
func NewResultRepo(db *gorm.DB, baseLog *logger.Logger) ResultRepo {
	return derby.NewResultRepo(db, baseLog)
}
func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return derby.NewAchievementRepo(db, baseLog)
}
func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo { return derby.NewVoteRepo(db, baseLog) }

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	return checkin.NewCheckInRepo(db, baseLog)
}
