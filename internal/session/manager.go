package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type entry struct {
	controller *Controller
	owner      string
	courseID   string
	lastSeen   time.Time
}

// Manager keeps the open sessions of the process. A session belongs to the user who
// opened it and is closed on request, on idle timeout, or on shutdown.
type Manager struct {
	store       Store
	logger      *slog.Logger
	idleTTL     time.Duration
	now         func() time.Time
	controllers []Option

	mu       sync.Mutex
	sessions map[string]*entry
	cron     *cron.Cron
}

type ManagerConfig struct {
	IdleTTL time.Duration
	Logger  *slog.Logger
	// Now overrides the clock used for idle tracking
	Now func() time.Time
}

// NewManager creates a manager; opts are applied to every controller it opens.
func NewManager(store Store, cfg ManagerConfig, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		logger:      cfg.Logger,
		idleTTL:     cfg.IdleTTL,
		now:         cfg.Now,
		controllers: opts,
		sessions:    make(map[string]*entry),
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Open starts a session for identity on courseID and loads its catalog. Catalog faults
// stay on the session as a notice; only a missing course id prevents the session.
func (m *Manager) Open(ctx context.Context, identity Identity, courseID string) (string, *Controller, error) {
	opts := append([]Option{WithLogger(m.logger)}, m.controllers...)
	ctrl := NewController(m.store, identity, opts...)

	if err := ctrl.LoadCatalog(ctx, courseID); err != nil {
		if errors.Is(err, ErrMissingCourseID) {
			ctrl.Close()
			return "", nil, err
		}
		m.logger.Debug("Session opened with load notice", "course_id", courseID, "error", err)
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &entry{
		controller: ctrl,
		owner:      identity.UserID,
		courseID:   courseID,
		lastSeen:   m.now(),
	}
	m.mu.Unlock()

	m.logger.Info("Session opened", "session_id", id, "course_id", courseID, "user_id", identity.UserID)
	return id, ctrl, nil
}

// Get returns the session's controller if identity owns it.
func (m *Manager) Get(id string, identity Identity) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if e.owner != identity.UserID {
		return nil, ErrSessionForbidden
	}
	e.lastSeen = m.now()
	return e.controller, nil
}

// Close stops the session's timer and forgets it.
func (m *Manager) Close(id string, identity Identity) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if e.owner != identity.UserID {
		m.mu.Unlock()
		return ErrSessionForbidden
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	e.controller.Close()
	m.logger.Info("Session closed", "session_id", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ReapIdle closes sessions not used within the idle TTL and returns how many were closed.
func (m *Manager) ReapIdle() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var idle []*entry
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range idle {
		e.controller.Close()
	}
	return len(idle)
}

// StartReaper schedules ReapIdle with a cron spec such as "@every 1m".
func (m *Manager) StartReaper(schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		if n := m.ReapIdle(); n > 0 {
			m.logger.Info("Reaped idle sessions", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("invalid reaper schedule %q: %w", schedule, err)
	}

	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()

	c.Start()
	m.logger.Info("Session reaper started", "schedule", schedule, "idle_ttl", m.idleTTL.String())
	return nil
}

// Stop halts the reaper and closes every session.
func (m *Manager) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, e := range sessions {
		e.controller.Close()
	}
}
