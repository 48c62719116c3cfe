package health

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/adapter/queue"
	"github.com/seu-repo/voxwallet/internal/infrastructure/circuitbreaker"
)

// Status classifies a probe result. Degraded sits between the other
// two: a dependency is limping but the service can still take traffic.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Each readiness probe gets this long before it is written off.
const checkTimeout = 5 * time.Second

// CheckResult is one probe's outcome as reported on /readyz.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse is the readiness payload, one entry per probe.
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker is a readiness probe. Callers outside this package register
// extra ones through RegisterChecker, the way main wires the wallet
// engine ping.
type Checker func(ctx context.Context) CheckResult

// Service runs the liveness and readiness probes. Readiness covers
// what a transfer actually needs: Postgres, Redis, the event broker,
// and the outbound circuit breakers.
type Service struct {
	db        *sql.DB
	redis     *redis.Client
	mq        queue.MessageQueue
	breakers  *circuitbreaker.Manager
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// Config lists the dependencies to probe. Nil entries are skipped, so
// a stack without Redis simply has no redis check.
type Config struct {
	Version  string
	DB       *sql.DB
	Redis    *redis.Client
	Queue    queue.MessageQueue
	Breakers *circuitbreaker.Manager
}

func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		db:        config.DB,
		redis:     config.Redis,
		mq:        config.Queue,
		breakers:  config.Breakers,
		startTime: time.Now(),
		version:   config.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if config.DB != nil {
		s.registerProbe("database", s.pingDatabase)
	}
	if config.Redis != nil {
		s.registerProbe("redis", s.pingRedis)
	}
	if config.Queue != nil {
		s.registerProbe("queue", s.checkBroker)
	}
	if config.Breakers != nil {
		s.registerProbe("circuit_breakers", s.openBreakers)
	}

	return s
}

// RegisterChecker adds a probe under name, replacing any existing one.
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// registerProbe wraps a bare status function with the timing and
// naming bookkeeping every CheckResult carries.
func (s *Service) registerProbe(name string, fn func(ctx context.Context) (Status, string)) {
	s.RegisterChecker(name, func(ctx context.Context) CheckResult {
		start := time.Now()
		status, msg := fn(ctx)
		return CheckResult{
			Name:      name,
			Status:    status,
			Message:   msg,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	})
}

// Health is the liveness probe: process up, nothing else. Dependency
// state belongs to Ready.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every probe concurrently and folds the results. Degraded
// probes keep the service ready; unhealthy ones fail readiness and
// take the pod out of rotation.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for name, fn := range s.checkers {
		checkers[name] = fn
	}
	s.mu.RUnlock()

	type namedResult struct {
		name   string
		result CheckResult
	}

	out := make(chan namedResult, len(checkers))
	for name, fn := range checkers {
		go func(name string, fn Checker) {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			out <- namedResult{name: name, result: fn(checkCtx)}
		}(name, fn)
	}

	ready := true
	overall := StatusHealthy
	checks := make(map[string]CheckResult, len(checkers))
	for range checkers {
		r := <-out
		checks[r.name] = r.result
		switch r.result.Status {
		case StatusUnhealthy:
			ready = false
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

func (s *Service) pingDatabase(ctx context.Context) (Status, string) {
	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn("Postgres readiness ping failed", zap.Error(err))
		return StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
	}
	return StatusHealthy, "connection ok"
}

func (s *Service) pingRedis(ctx context.Context) (Status, string) {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		s.log.Warn("Redis readiness ping failed", zap.Error(err))
		return StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
	}
	return StatusHealthy, "connection ok"
}

func (s *Service) checkBroker(ctx context.Context) (Status, string) {
	if !s.mq.IsConnected() {
		s.log.Warn("Event broker readiness check failed")
		return StatusUnhealthy, "not connected"
	}
	return StatusHealthy, "connected"
}

// openBreakers reports open circuits. An open circuit means a
// dependency is failing, not this process, so it degrades readiness
// instead of failing it.
func (s *Service) openBreakers(ctx context.Context) (Status, string) {
	var open []string
	for name, st := range s.breakers.Status() {
		if st.State == "open" {
			open = append(open, name)
		}
	}
	if len(open) == 0 {
		return StatusHealthy, "all circuits closed"
	}
	sort.Strings(open)
	return StatusDegraded, fmt.Sprintf("open: %s", strings.Join(open, ", "))
}
