package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salonworks/pos-terminal/internal/cart"
	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/internal/pricing"
	"github.com/salonworks/pos-terminal/pkg/backend"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
	"github.com/salonworks/pos-terminal/pkg/metrics"
)

// Directory is the slice of the salon backend the verification workflow
// talks to.
type Directory interface {
	VerifyByPhone(ctx context.Context, phone string) (*backend.CustomerRecord, error)
	GetMemberships(ctx context.Context, customerID string) ([]backend.MembershipRecord, error)
	ValidateMembership(ctx context.Context, membershipID string, serviceIDs []string) (*backend.MembershipValidation, error)
}

type snapshotStore interface {
	StoreCartSnapshot(ctx context.Context, sessionID, payload string, ttl time.Duration) error
	GetCartSnapshot(ctx context.Context, sessionID string) (string, error)
	DeleteCartSnapshot(ctx context.Context, sessionID string) error
}

// Config carries the session lifecycle and verification tunables.
type Config struct {
	TTL            time.Duration
	SweepInterval  time.Duration
	DebounceWindow time.Duration
	LookupTimeout  time.Duration
}

// Manager owns every live terminal session. Sessions idle past the TTL are
// swept out.
type Manager struct {
	cfg       Config
	directory Directory
	store     snapshotStore
	logger    *logger.Logger
	registerM *metrics.RegisterMetrics

	mu       sync.RWMutex
	sessions map[string]*Session

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewManager validates dependencies and starts the idle sweeper.
func NewManager(cfg Config, directory Directory, store snapshotStore, logg *logger.Logger, registerM *metrics.RegisterMetrics) (*Manager, error) {
	if directory == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl required")
	}
	if cfg.LookupTimeout <= 0 {
		return nil, fmt.Errorf("verification lookup timeout required")
	}
	m := &Manager{
		cfg:       cfg,
		directory: directory,
		store:     store,
		logger:    logg,
		registerM: registerM,
		sessions:  map[string]*Session{},
		stopCh:    make(chan struct{}),
	}
	if cfg.SweepInterval > 0 {
		go m.sweepLoop()
	}
	return m, nil
}

// Open creates a session for the cashier and, when a cart snapshot survives
// from an earlier run under the same id, resumes it.
func (m *Manager) Open(ctx context.Context, id, branchID, cashier, employeeID string, admin bool) (*Session, error) {
	if cashier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier required")
	}
	if !admin && branchID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch required")
	}
	if id == "" {
		id = uuid.NewString()
	}

	workflow, err := customers.NewWorkflow(m.directory, m.cfg.DebounceWindow, m.cfg.LookupTimeout, m.logger, m.registerM)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:         id,
		BranchID:   branchID,
		Cashier:    cashier,
		EmployeeID: employeeID,
		Admin:      admin,
		CreatedAt:  now,
		store:      m.store,
		ttl:        m.cfg.TTL,
		logger:     m.logger,
		lastActive: now,
		cart:       cart.New(),
		workflow:   workflow,
		engine:     pricing.NewEngine(nil, m.registerM),
	}
	sess.resumeCart(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "session already open")
	}
	m.sessions[id] = sess
	m.registerM.SessionOpened()
	return sess, nil
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return sess, nil
}

// Close ends a session and drops its cart snapshot.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	m.registerM.SessionClosed()
	sess.workflow.Reset()
	if m.store != nil {
		if err := m.store.DeleteCartSnapshot(ctx, id); err != nil && m.logger != nil {
			m.logger.Warn(ctx, "cart snapshot delete failed")
		}
	}
	return nil
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.cfg.TTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.LastActive().Before(cutoff) {
			sess.workflow.Reset()
			delete(m.sessions, id)
			m.registerM.SessionClosed()
			removed++
		}
	}
	return removed
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stopCh:
			return
		}
	}
}

// Stop halts the idle sweeper. Live sessions stay usable.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}
