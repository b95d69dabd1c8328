package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericman314/pinewood-server/internal/data/db"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "k")
	t.Setenv("REALTIME_BUS", "")
	t.Setenv("MAX_BODY_BYTES", "")

	cfg, err := LoadConfig(testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, db.DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "pinewood", cfg.DB.Name)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.Equal(t, BusNone, cfg.Realtime.Bus)
	assert.Equal(t, "pinewood:realtime", cfg.Realtime.RedisChannel)
	assert.Equal(t, "pinewood.realtime", cfg.Realtime.NATSSubject)
	assert.EqualValues(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
shutdown_timeout: 3s
cors_origins: ["https://derby.example"]
db:
  driver: sqlite
  dsn: derby.db
jwt_secret_key: from-file
realtime:
  bus: redis
  redis_addr: localhost:6379
  heartbeat: 5s
metrics:
  enabled: true
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("REALTIME_BUS", "")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MAX_BODY_BYTES", "2048")

	cfg, err := LoadConfig(testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.EqualValues(t, 2048, cfg.MaxBodyBytes)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "derby.db", cfg.DB.DSN)
	assert.Equal(t, "from-file", cfg.JWTSecretKey)
	assert.Equal(t, BusRedis, cfg.Realtime.Bus)
	assert.Equal(t, 5*time.Second, cfg.Realtime.Heartbeat)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigSecretFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.key"), []byte("  disk-secret\n"), 0o600))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET_FILE", "")
	t.Setenv("REALTIME_BUS", "")

	cfg, err := LoadConfig(testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "disk-secret", cfg.JWTSecretKey)
}

func TestLoadConfigErrors(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_FILE", "")

	t.Setenv("JWT_SECRET_KEY", "")
	_, err := LoadConfig(testLogger(t))
	require.Error(t, err)

	t.Setenv("JWT_SECRET_KEY", "k")
	t.Setenv("REALTIME_BUS", "kafka")
	_, err = LoadConfig(testLogger(t))
	require.ErrorContains(t, err, "kafka")
}
