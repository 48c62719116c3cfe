// Package circuitbreaker guards the service's outbound dependencies, most
// importantly the wallet engine. Submissions and balance reads go through a
// named breaker so a struggling engine fails fast instead of stacking up
// blocked dialogues; the fiber middleware's inbound breaker is separate and
// uses gobreaker directly.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts is the request tally for the current window. It resets whenever
// the breaker changes state or a closed-state interval rolls over.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Settings configures one breaker. Zero values get defaults from New.
type Settings struct {
	Name string

	// MaxRequests caps probe requests while half-open.
	MaxRequests uint32

	// Interval rolls the closed-state counts so old failures age out.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that opens the
	// circuit.
	FailureThreshold uint32

	// SuccessThreshold is the consecutive-success count that closes it
	// again from half-open.
	SuccessThreshold uint32

	// OnStateChange, when set, observes transitions in addition to the
	// breaker's own log line.
	OnStateChange func(name string, from State, to State)
}

func (s Settings) withDefaults() Settings {
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.Interval == 0 {
		s.Interval = 60 * time.Second
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
	return s
}

// DefaultSettings are the breaker defaults used for the wallet engine.
func DefaultSettings() Settings {
	return Settings{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}
}

// CircuitBreaker tracks consecutive failures against one dependency.
//
// Each state change (and each closed-state interval) starts a new window,
// identified by a generation counter. A request settles into the window it
// started in; if the breaker has moved on, the late result is dropped
// rather than polluting the new window's counts.
type CircuitBreaker struct {
	settings Settings
	log      *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	expiry     time.Time
}

func New(settings Settings, log *zap.Logger) *CircuitBreaker {
	cb := &CircuitBreaker{
		settings: settings.withDefaults(),
		log:      log,
	}
	cb.newWindow(time.Now())
	return cb
}

// Execute runs fn if the breaker admits the request.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.ExecuteCtx(context.Background(), func(context.Context) (interface{}, error) {
		return fn()
	})
}

// ExecuteCtx runs fn if the breaker admits the request. A panic counts
// as a failure before it propagates.
func (cb *CircuitBreaker) ExecuteCtx(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	generation, err := cb.admit()
	if err != nil {
		return nil, err
	}

	defer func() {
		if e := recover(); e != nil {
			cb.settle(generation, false)
			panic(e)
		}
	}()

	result, err := fn(ctx)
	cb.settle(generation, err == nil)
	return result, err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(time.Now())
	return state
}

func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) Name() string {
	return cb.settings.Name
}

// admit decides whether a request may proceed and returns the window it
// belongs to.
func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(time.Now())

	switch state {
	case StateOpen:
		return generation, ErrCircuitOpen
	case StateHalfOpen:
		if cb.counts.Requests >= cb.settings.MaxRequests {
			return generation, ErrTooManyRequests
		}
	}

	cb.counts.Requests++
	return generation, nil
}

// settle records a request outcome, unless the window it started in has
// already rolled over.
func (cb *CircuitBreaker) settle(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.recordSuccess(state, now)
	} else {
		cb.recordFailure(state, now)
	}
}

func (cb *CircuitBreaker) recordSuccess(state State, now time.Time) {
	cb.counts.TotalSuccesses++
	cb.counts.ConsecutiveSuccesses++
	cb.counts.ConsecutiveFailures = 0

	if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.settings.SuccessThreshold {
		cb.setState(StateClosed, now)
	}
}

func (cb *CircuitBreaker) recordFailure(state State, now time.Time) {
	switch state {
	case StateClosed:
		cb.counts.TotalFailures++
		cb.counts.ConsecutiveFailures++
		cb.counts.ConsecutiveSuccesses = 0
		if cb.counts.ConsecutiveFailures >= cb.settings.FailureThreshold {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		// One failed probe is enough evidence the dependency is still down.
		cb.setState(StateOpen, now)
	}
}

// currentState applies any due timer transition before reporting.
func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if cb.expiry.Before(now) {
			cb.newWindow(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.newWindow(now)

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.settings.Name, prev, state)
	}

	cb.log.Info("Circuit breaker state changed",
		zap.String("name", cb.settings.Name),
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)
}

func (cb *CircuitBreaker) newWindow(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	switch cb.state {
	case StateClosed:
		cb.expiry = now.Add(cb.settings.Interval)
	case StateOpen:
		cb.expiry = now.Add(cb.settings.Timeout)
	default:
		// Half-open has no timer; it resolves through probe outcomes.
		cb.expiry = time.Time{}
	}
}

// Execute runs fn through cb when only an error matters.
func Execute(cb *CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// ExecuteWithResult runs fn through cb, keeping fn's result type.
func ExecuteWithResult[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// IsCircuitOpen reports whether err came from an open circuit.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsTooManyRequests reports whether err came from the half-open probe cap.
func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}

// Manager hands out named breakers so every caller hitting the same
// dependency shares one failure history, and health checks can walk them.
type Manager struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
	log      *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		breakers: make(map[string]*CircuitBreaker),
		log:      log,
	}
}

// Get returns the breaker registered under name, creating it from settings
// on first use. Later calls ignore settings.
func (m *Manager) Get(name string, settings Settings) *CircuitBreaker {
	m.mu.RLock()
	cb, exists := m.breakers[name]
	m.mu.RUnlock()
	if exists {
		return cb
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, exists = m.breakers[name]; exists {
		return cb
	}

	settings.Name = name
	cb = New(settings, m.log)
	m.breakers[name] = cb
	return cb
}

// BreakerStatus is one breaker's snapshot as reported on /readyz.
type BreakerStatus struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Counts Counts `json:"counts"`
}

// Status snapshots every registered breaker.
func (m *Manager) Status() map[string]BreakerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]BreakerStatus, len(m.breakers))
	for name, cb := range m.breakers {
		status[name] = BreakerStatus{
			Name:   name,
			State:  cb.State().String(),
			Counts: cb.Counts(),
		}
	}
	return status
}
