package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/db"
	"github.com/ericman314/pinewood-server/internal/http"
	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/realtime/bus"
	"github.com/ericman314/pinewood-server/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	Bus      bus.Bus
	Emitter  services.ChangeEmitter
	Metrics  *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	store, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	theDB := store.DB()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	hub := wireHub(log, cfg.Realtime, metrics)
	b, err := wireBus(log, cfg.Realtime)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}
	emitter := wireEmitter(log, cfg.Realtime, hub, b)

	media := localmedia.New(log, cfg.MediaDir)
	if err := media.EnsureDirs(context.Background()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("init media dir: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, media)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, hub, metrics)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware, emitter, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       &http.Server{Engine: router},
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		Bus:          b,
		Emitter:      emitter,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background loops: the bus forwarder and the metrics
// collectors. It is a no-op when called twice.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Bus != nil {
		hub := a.Hub
		if err := a.Bus.StartForwarder(ctx, func(env bus.Envelope) {
			bus.Deliver(hub, env)
		}); err != nil {
			return fmt.Errorf("start realtime forwarder: %w", err)
		}
	}

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.Cfg.Realtime.Bus == BusRedis {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.Realtime.RedisAddr)
		}
	}
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	addr := ":" + a.Cfg.Port
	a.Log.Info("Listening", "addr", addr, "bus", a.Cfg.Realtime.Bus, "driver", a.Cfg.DB.Driver)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Run(gctx, addr, a.Cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Hub.CloseAll()
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Hub != nil {
		a.Hub.CloseAll()
	}
	if be, ok := a.Emitter.(*services.BusEmitter); ok {
		be.Close()
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("Realtime bus close failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("Store close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
