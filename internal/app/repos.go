package app

import (
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Event       repos.EventRepo
	Car         repos.CarRepo
	Result      repos.ResultRepo
	Achievement repos.AchievementRepo
	Vote        repos.VoteRepo
	CheckIn     repos.CheckInRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Event:       repos.NewEventRepo(db, log),
		Car:         repos.NewCarRepo(db, log),
		Result:      repos.NewResultRepo(db, log),
		Achievement: repos.NewAchievementRepo(db, log),
		Vote:        repos.NewVoteRepo(db, log),
		CheckIn:     repos.NewCheckInRepo(db, log),
	}
}
