package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// defaultLockTTL bounds how long a crashed replica can hold a distributed
// lock before it expires on its own.
const defaultLockTTL = 30 * time.Second

// threadLock serializes turns on one thread. holders counts the goroutines
// queued on or inside the gate, so idle entries can be dropped from the map.
type threadLock struct {
	gate    sync.Mutex
	holders int
}

// Manager layers turn-taking on top of a HistoryStore. Within one process a
// per-thread mutex orders concurrent turns; configure WithLocker to extend
// the same guarantee across replicas.
type Manager struct {
	store ports.HistoryStore

	mu    sync.Mutex
	locks map[string]*threadLock

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option adjusts a Manager at construction time.
type Option func(*Manager)

// WithLocker adds a cluster-wide lock taken around every thread operation.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger sets the logger used when a deferred unlock fails.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a thread Manager over the given persistence store.
func NewManager(store ports.HistoryStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*threadLock),
		lockTTL: defaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// checkout returns the gate for threadID, creating it on first use, and
// records one more holder. Every checkout must be paired with a checkin.
func (m *Manager) checkout(threadID string) *threadLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	tl := m.locks[threadID]
	if tl == nil {
		tl = &threadLock{}
		m.locks[threadID] = tl
	}
	tl.holders++
	return tl
}

// checkin drops one holder and frees the entry once nobody is left, keeping
// the map from growing with every thread ever touched.
func (m *Manager) checkin(threadID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tl := m.locks[threadID]
	if tl == nil {
		return
	}
	if tl.holders--; tl.holders <= 0 {
		delete(m.locks, threadID)
	}
}

// Load retrieves an existing thread from the store.
func (m *Manager) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	var thread *domain.Thread
	err := m.WithLock(ctx, threadID, func(ctx context.Context) error {
		var err error
		thread, err = m.store.Load(ctx, threadID)
		return err
	})
	return thread, err
}

// LoadOrStart tries to load a thread. If not found, it initializes a new one
// and persists it immediately to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, threadID string) (*domain.Thread, error) {
	var thread *domain.Thread
	err := m.WithLock(ctx, threadID, func(ctx context.Context) error {
		var err error
		thread, err = m.store.Load(ctx, threadID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrThreadNotFound) {
			return fmt.Errorf("checking for thread %s: %w", threadID, err)
		}

		thread = domain.NewThread(threadID)
		if err := m.store.Save(ctx, thread); err != nil {
			return fmt.Errorf("reserving thread %s: %w", threadID, err)
		}
		return nil
	})
	return thread, err
}

// Save persists the thread.
func (m *Manager) Save(ctx context.Context, thread *domain.Thread) error {
	return m.WithLock(ctx, thread.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, thread)
	})
}

// Delete removes the thread from the store.
func (m *Manager) Delete(ctx context.Context, threadID string) error {
	return m.WithLock(ctx, threadID, func(ctx context.Context) error {
		return m.store.Delete(ctx, threadID)
	})
}

// List returns the IDs of every stored thread.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying history store.
func (m *Manager) Store() ports.HistoryStore {
	return m.store
}

// WithLock runs fn while holding the thread's turn lock. The distributed
// lock, when configured, is taken after the local gate, so at most one
// goroutine per process ever polls the backend for the same thread.
func (m *Manager) WithLock(ctx context.Context, threadID string, fn func(context.Context) error) error {
	tl := m.checkout(threadID)
	tl.gate.Lock()
	defer func() {
		tl.gate.Unlock()
		m.checkin(threadID)
	}()

	if m.locker == nil {
		return fn(ctx)
	}

	unlock, err := m.locker.Lock(ctx, threadID, m.lockTTL)
	if err != nil {
		return fmt.Errorf("locking thread %s across replicas: %w", threadID, err)
	}
	defer func() {
		if uerr := unlock(ctx); uerr != nil {
			m.logger.Warn("Distributed lock not released cleanly, TTL will reap it",
				"thread_id", threadID,
				"err", uerr,
			)
		}
	}()

	return fn(ctx)
}
