package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericman314/pinewood-server/internal/data/db"
	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/envutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

const (
	BusNone  = "none"
	BusRedis = "redis"
	BusNATS  = "nats"
)

type Config struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	DB db.Config `yaml:"db"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	JWTSecretFile  string        `yaml:"jwt_secret_file"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	// LegacySecret gates the kiosk and race-day endpoints.
	LegacySecret string `yaml:"legacy_secret"`

	MediaDir string `yaml:"media_dir"`

	Realtime RealtimeConfig `yaml:"realtime"`

	Metrics MetricsConfig            `yaml:"metrics"`
	Otel    observability.OtelConfig `yaml:"otel"`
}

type RealtimeConfig struct {
	Bus          string        `yaml:"bus"`
	RedisAddr    string        `yaml:"redis_addr"`
	RedisChannel string        `yaml:"redis_channel"`
	NATSURL      string        `yaml:"nats_url"`
	NATSSubject  string        `yaml:"nats_subject"`
	BufferSize   int           `yaml:"buffer_size"`
	PublishQueue int           `yaml:"publish_queue"`
	Heartbeat    time.Duration `yaml:"heartbeat"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoadConfig reads CONFIG_FILE when set, lets the environment override it,
// then fills defaults.
func LoadConfig(log *logger.Logger) (Config, error) {
	var cfg Config
	if path := envutil.String("CONFIG_FILE", "", log); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg, log)
	applyDefaults(&cfg)

	if cfg.JWTSecretKey == "" && cfg.JWTSecretFile != "" {
		raw, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return cfg, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecretKey = strings.TrimSpace(string(raw))
	}
	if cfg.JWTSecretKey == "" {
		return cfg, fmt.Errorf("JWT_SECRET_KEY or JWT_SECRET_FILE is required")
	}
	switch cfg.Realtime.Bus {
	case BusNone, BusRedis, BusNATS:
	default:
		return cfg, fmt.Errorf("unknown REALTIME_BUS %q", cfg.Realtime.Bus)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, log)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins, log)
	cfg.MaxBodyBytes = int64(envutil.Int("MAX_BODY_BYTES", int(cfg.MaxBodyBytes), log))

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.DSN = envutil.String("DB_DSN", cfg.DB.DSN, log)
	cfg.DB.Host = envutil.String("DB_HOST", cfg.DB.Host, log)
	cfg.DB.Port = envutil.String("DB_PORT", cfg.DB.Port, log)
	cfg.DB.User = envutil.String("DB_USER", cfg.DB.User, log)
	cfg.DB.Password = envutil.String("DB_PASSWORD", cfg.DB.Password, log)
	cfg.DB.Name = envutil.String("DB_NAME", cfg.DB.Name, log)
	cfg.DB.Migrate = envutil.Bool("DB_MIGRATE", cfg.DB.Migrate, log)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	cfg.JWTSecretFile = envutil.String("JWT_SECRET_FILE", cfg.JWTSecretFile, log)
	cfg.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL, log)
	cfg.LegacySecret = envutil.String("LEGACY_SECRET", cfg.LegacySecret, log)
	cfg.MediaDir = envutil.String("MEDIA_DIR", cfg.MediaDir, log)

	rt := &cfg.Realtime
	rt.Bus = strings.ToLower(envutil.String("REALTIME_BUS", rt.Bus, log))
	rt.RedisAddr = envutil.String("REDIS_ADDR", rt.RedisAddr, log)
	rt.RedisChannel = envutil.String("REDIS_CHANNEL", rt.RedisChannel, log)
	rt.NATSURL = envutil.String("NATS_URL", rt.NATSURL, log)
	rt.NATSSubject = envutil.String("NATS_SUBJECT", rt.NATSSubject, log)
	rt.BufferSize = envutil.Int("REALTIME_BUFFER", rt.BufferSize, log)
	rt.PublishQueue = envutil.Int("REALTIME_PUBLISH_QUEUE", rt.PublishQueue, log)
	rt.Heartbeat = envutil.Duration("REALTIME_HEARTBEAT", rt.Heartbeat, log)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled, log)
	cfg.Metrics.Addr = envutil.String("METRICS_ADDR", cfg.Metrics.Addr, log)

	ot := &cfg.Otel
	ot.Enabled = envutil.Bool("OTEL_ENABLED", ot.Enabled, log)
	ot.ServiceName = envutil.String("OTEL_SERVICE_NAME", ot.ServiceName, log)
	ot.Environment = envutil.String("OTEL_ENVIRONMENT", ot.Environment, log)
	ot.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ot.Endpoint, log)
	ot.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", ot.Insecure, log)
	if h := observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)); h != nil {
		ot.Headers = h
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = db.DriverMySQL
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "pinewood"
	}
	if cfg.JWTSecretFile == "" {
		if _, err := os.Stat("secret.key"); err == nil {
			cfg.JWTSecretFile = "secret.key"
		}
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = "media"
	}
	if cfg.Realtime.Bus == "" {
		cfg.Realtime.Bus = BusNone
	}
	if cfg.Realtime.RedisChannel == "" {
		cfg.Realtime.RedisChannel = "pinewood:realtime"
	}
	if cfg.Realtime.NATSSubject == "" {
		cfg.Realtime.NATSSubject = "pinewood.realtime"
	}
}
