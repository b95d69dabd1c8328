package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Event    services.EventService
	Car      services.CarService
	Result   services.ResultService
	CheckIn  services.CheckInService
	Vote     services.VoteService
	CarImage services.CarImageService
	DataLoad services.DataLoadService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, media localmedia.Store) (Services, error) {
	log.Info("Wiring services...")

	tokens, err := services.NewJWTCodec([]byte(cfg.JWTSecretKey), cfg.AccessTokenTTL, nil)
	if err != nil {
		return Services{}, fmt.Errorf("init token codec: %w", err)
	}
	if cfg.LegacySecret == "" {
		log.Warn("LEGACY_SECRET is not set; check-in list, image upload and data load are disabled")
	}
	guard := services.NewSecretGuard(cfg.LegacySecret)

	return Services{
		Auth:     services.NewAuthService(log, repos.User, tokens),
		User:     services.NewUserService(db, log, repos.User),
		Event:    services.NewEventService(db, log, repos.Event, nil),
		Car:      services.NewCarService(db, log, repos.Car),
		Result:   services.NewResultService(log, repos.Car, repos.Result, repos.Achievement),
		CheckIn:  services.NewCheckInService(log, repos.CheckIn, media, guard, nil),
		Vote:     services.NewVoteService(log, repos.Vote),
		CarImage: services.NewCarImageService(log, repos.Car, media, guard),
		DataLoad: services.NewDataLoadService(db, log, guard),
	}, nil
}
