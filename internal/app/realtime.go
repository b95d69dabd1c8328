package app

import (
	"fmt"

	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/realtime/bus"
	"github.com/ericman314/pinewood-server/internal/services"
)

func wireHub(log *logger.Logger, cfg RealtimeConfig, metrics *observability.Metrics) *realtime.Hub {
	opts := []realtime.Option{
		realtime.WithBufferSize(cfg.BufferSize),
		realtime.WithHeartbeat(cfg.Heartbeat),
	}
	if metrics != nil {
		opts = append(opts, realtime.WithObserver(metrics))
	}
	hub := realtime.NewHub(log, opts...)
	metrics.SetSessionSource(hub.Len)
	return hub
}

// wireBus returns nil when the deployment is a single process.
func wireBus(log *logger.Logger, cfg RealtimeConfig) (bus.Bus, error) {
	switch cfg.Bus {
	case BusRedis:
		b, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
		if err != nil {
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
		return b, nil
	case BusNATS:
		b, err := bus.NewNATSBus(log, bus.NATSConfig{URL: cfg.NATSURL, Subject: cfg.NATSSubject})
		if err != nil {
			return nil, fmt.Errorf("init nats bus: %w", err)
		}
		return b, nil
	default:
		return nil, nil
	}
}

func wireEmitter(log *logger.Logger, cfg RealtimeConfig, hub *realtime.Hub, b bus.Bus) services.ChangeEmitter {
	if b == nil {
		return &services.HubEmitter{Hub: hub}
	}
	return services.NewBusEmitter(log, b, cfg.PublishQueue)
}
