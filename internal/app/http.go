package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http"
	httpH "github.com/ericman314/pinewood-server/internal/http/handlers"
	httpMW "github.com/ericman314/pinewood-server/internal/http/middleware"
	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/services"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Event    *httpH.EventHandler
	Car      *httpH.CarHandler
	Result   *httpH.ResultHandler
	CheckIn  *httpH.CheckInHandler
	Vote     *httpH.VoteHandler
	Media    *httpH.MediaHandler
	DataLoad *httpH.DataLoadHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.Hub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(hub),
		Auth:     httpH.NewAuthHandler(log, services.Auth),
		User:     httpH.NewUserHandler(log, services.User),
		Event:    httpH.NewEventHandler(log, services.Event),
		Car:      httpH.NewCarHandler(log, services.Car),
		Result:   httpH.NewResultHandler(log, services.Result),
		CheckIn:  httpH.NewCheckInHandler(log, services.CheckIn),
		Vote:     httpH.NewVoteHandler(log, services.Vote, metrics),
		Media:    httpH.NewMediaHandler(log, services.CarImage),
		DataLoad: httpH.NewDataLoadHandler(log, services.DataLoad),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, emitter services.ChangeEmitter, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
		if serviceName == "" {
			serviceName = "pinewood-server"
		}
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		Emitter:         emitter,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		EventHandler:    handlers.Event,
		CarHandler:      handlers.Car,
		ResultHandler:   handlers.Result,
		CheckInHandler:  handlers.CheckIn,
		VoteHandler:     handlers.Vote,
		MediaHandler:    handlers.Media,
		DataLoadHandler: handlers.DataLoad,
		RealtimeHandler: handlers.Realtime,
		HealthHandler:   handlers.Health,
	})
}
