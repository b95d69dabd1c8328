package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

const defaultScrapeInterval = 15 * time.Second

// Metrics holds the server's Prometheus series. A nil *Metrics is a valid
// no-op, so callers never check whether metrics are enabled.
type Metrics struct {
	apiRequests *Vec
	apiLatency  *Histogram
	apiInflight *Vec

	pushes   *Vec
	sessions *Vec
	votes    *Vec

	dbPool  *Vec
	redisUp *Vec

	mu            sync.RWMutex
	sessionSource func() int
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("pinewood_api_requests_total", "API requests by method/route/status.", "method", "route", "status"),
		apiLatency: NewHistogram("pinewood_api_request_duration_seconds", "API request latency in seconds.",
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}, "method", "route"),
		apiInflight: NewGaugeVec("pinewood_api_inflight_requests", "In-flight API requests."),
		pushes:      NewCounterVec("pinewood_realtime_messages_total", "Realtime messages by event and outcome.", "event", "outcome"),
		sessions:    NewGaugeVec("pinewood_realtime_sessions", "Live realtime sessions."),
		votes:       NewCounterVec("pinewood_votes_total", "Ballot entries recorded."),
		dbPool:      NewGaugeVec("pinewood_db_pool", "Database pool statistics.", "stat"),
		redisUp:     NewGaugeVec("pinewood_realtime_bus_redis_up", "Whether the realtime bus redis answers pings."),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Add(-1)
	}
}

// ObserveDelivery counts one realtime message hand-off.
func (m *Metrics) ObserveDelivery(event string, delivered bool) {
	if m == nil {
		return
	}
	outcome := "dropped"
	if delivered {
		outcome = "delivered"
	}
	m.pushes.Inc(event, outcome)
}

func (m *Metrics) AddVotes(n int) {
	if m != nil && n > 0 {
		m.votes.Add(float64(n))
	}
}

// SetSessionSource registers the function sampled for the sessions gauge at
// scrape time.
func (m *Metrics) SetSessionSource(fn func() int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.sessionSource = fn
	m.mu.Unlock()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	src := m.sessionSource
	m.mu.RUnlock()
	if src != nil {
		m.sessions.Set(float64(src()))
	}
	for _, s := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.pushes, m.sessions, m.votes,
		m.dbPool, m.redisUp,
	} {
		if err := s.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// StartServer exposes /metrics on its own listener until ctx ends.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && log != nil {
			log.Error("Metrics server failed", "error", err, "addr", addr)
		}
	}()
}

// StartDBCollector samples the connection pool until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("Metrics: no sql.DB for pool stats", "error", err)
		}
		return
	}
	go func() {
		ticker := time.NewTicker(defaultScrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				m.dbPool.Set(float64(stats.OpenConnections), "open")
				m.dbPool.Set(float64(stats.InUse), "in_use")
				m.dbPool.Set(float64(stats.Idle), "idle")
				m.dbPool.Set(float64(stats.WaitCount), "wait_count")
			}
		}
	}()
}

// StartRedisCollector pings the realtime bus redis until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil || strings.TrimSpace(addr) == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(defaultScrapeInterval)
		defer ticker.Stop()
		defer rdb.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("Metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
			}
		}
	}()
}
