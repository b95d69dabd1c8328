package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/ericman314/pinewood-server/internal/http/handlers"
	httpMW "github.com/ericman314/pinewood-server/internal/http/middleware"
	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Emitter     services.ChangeEmitter

	// MaxBodyBytes caps request bodies; zero means 1MB.
	MaxBodyBytes int64

	// Metrics, when set, instruments requests and serves /metrics.
	Metrics *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	EventHandler    *httpH.EventHandler
	CarHandler      *httpH.CarHandler
	ResultHandler   *httpH.ResultHandler
	CheckInHandler  *httpH.CheckInHandler
	VoteHandler     *httpH.VoteHandler
	MediaHandler    *httpH.MediaHandler
	DataLoadHandler *httpH.DataLoadHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxBodyBytes))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.NotifyChanges(cfg.Emitter))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	v4 := r.Group("/api/v4")
	v3 := r.Group("/api/v3")

	requireUser := passThrough
	requireAdmin := passThrough
	if cfg.AuthMiddleware != nil {
		requireUser = cfg.AuthMiddleware.RequireUser()
		requireAdmin = cfg.AuthMiddleware.RequireAdmin()
	}

	// Auth
	if cfg.AuthHandler != nil {
		v4.POST("/user/login", cfg.AuthHandler.Login)
		v4.GET("/user/verify", requireUser, cfg.AuthHandler.Verify)
	}

	// Users
	if cfg.UserHandler != nil {
		v4.GET("/user/all", requireAdmin, cfg.UserHandler.List)
		v4.POST("/user/create", requireAdmin, cfg.UserHandler.Create)
		v4.POST("/user/update", requireAdmin, cfg.UserHandler.Update)
		v4.POST("/user/delete", requireAdmin, cfg.UserHandler.Delete)
	}

	// Events
	if cfg.EventHandler != nil {
		v4.GET("/event/all", cfg.EventHandler.List)
		v4.GET("/event/get", cfg.EventHandler.Get)
		v4.POST("/event/create", requireAdmin, cfg.EventHandler.Create)
		v4.POST("/event/update", requireAdmin, cfg.EventHandler.Update)
		v4.POST("/event/delete", requireAdmin, cfg.EventHandler.Delete)
	}

	// Cars
	if cfg.CarHandler != nil {
		v4.GET("/car/getByEventId", cfg.CarHandler.GetByEventID)
		v4.POST("/car/create", requireAdmin, cfg.CarHandler.Create)
		v4.POST("/car/update", requireAdmin, cfg.CarHandler.Update)
		v4.POST("/car/delete", requireAdmin, cfg.CarHandler.Delete)
	}

	// Results
	if cfg.ResultHandler != nil {
		v4.GET("/result/getByEventId", cfg.ResultHandler.GetByEventID)
		both(v4, v3, "GET", "/carsAndResultsByEventId", cfg.ResultHandler.CarsAndResults)
	}

	// Kiosk and race-day endpoints, still served under /api/v3 for older clients.
	if cfg.CheckInHandler != nil {
		both(v4, v3, "POST", "/checkin", cfg.CheckInHandler.CheckIn)
		both(v4, v3, "POST", "/checkinadded", cfg.CheckInHandler.MarkAdded)
		both(v4, v3, "GET", "/checkinlist", cfg.CheckInHandler.List)
	}
	if cfg.VoteHandler != nil {
		both(v4, v3, "POST", "/vote", cfg.VoteHandler.Vote)
	}
	if cfg.MediaHandler != nil {
		both(v4, v3, "POST", "/carImage", cfg.MediaHandler.UploadCarImage)
		both(v4, v3, "GET", "/cars/:file", cfg.MediaHandler.CarImage)
		both(v4, v3, "GET", "/checkin/:file", cfg.MediaHandler.CheckInImage)
	}
	if cfg.DataLoadHandler != nil {
		both(v4, v3, "POST", "/mysqldump", cfg.DataLoadHandler.Load)
	}

	// Realtime
	if cfg.RealtimeHandler != nil {
		v4.GET("/realtime/ws", cfg.RealtimeHandler.WebSocket)
		v4.GET("/realtime/sse", cfg.RealtimeHandler.SSEStream)
		v4.POST("/subscribe", cfg.RealtimeHandler.Subscribe)
	}
	if cfg.HealthHandler != nil {
		v4.GET("/realtime/sessions", requireAdmin, cfg.HealthHandler.Sessions)
	}

	r.NoRoute(response.RespondNotFound)

	return r
}

func both(v4, v3 *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	v4.Handle(method, path, h)
	v3.Handle(method, path, h)
}

func passThrough(c *gin.Context) { c.Next() }
