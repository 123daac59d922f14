package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Committer prunes stale answers after a change.
// *questflow.Engine satisfies it.
type Committer interface {
	Commit(ctx context.Context, answers domain.Answers) (domain.Answers, error)
}

// Patch is a partial session update.
type Patch struct {
	// Answers are merged shallowly over the stored ones.
	Answers domain.Answers
	// Skipped replaces the stored skip list when non-nil.
	Skipped *[]string
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker    ports.DistributedLocker
	lockTTL   time.Duration
	committer Committer
	newID     func() string
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithCommitter prunes answers on every Create and Update.
func WithCommitter(c Committer) Option {
	return func(m *Manager) {
		m.committer = c
	}
}

// WithIDGenerator replaces the UUID generator for new sessions.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		newID:   uuid.NewString,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// activeLocks reports how many sessions currently hold a lock entry.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) commit(ctx context.Context, answers domain.Answers) (domain.Answers, error) {
	if m.committer == nil {
		return answers, nil
	}
	pruned, err := m.committer.Commit(ctx, answers)
	if err != nil {
		return nil, fmt.Errorf("failed to prune answers: %w", err)
	}
	return pruned, nil
}

// Create starts a new session with optional initial answers and skipped questions,
// stored in a single write.
func (m *Manager) Create(ctx context.Context, answers domain.Answers, skipped []string) (*domain.Session, error) {
	id := m.newID()

	var sess *domain.Session
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		pruned, err := m.commit(ctx, answers)
		if err != nil {
			return err
		}
		sess = domain.NewSession(id, pruned)
		if skipped != nil {
			sess.Skipped = append([]string{}, skipped...)
		}
		if err := m.store.Save(ctx, id, sess); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("session created", "session_id", id, "answers", len(sess.Answers))
	return sess, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		return err
	})
	return sess, err
}

// LoadOrCreate loads a session, creating an empty one under sessionID if none exists.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string) (*domain.Session, bool, error) {
	var (
		sess    *domain.Session
		created bool
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess = domain.NewSession(sessionID, nil)
		created = true
		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return sess, created, err
}

// Update applies a patch to a session and prunes stale answers.
// It returns the previous and the updated snapshots.
func (m *Manager) Update(ctx context.Context, sessionID string, patch Patch) (before, after *domain.Session, err error) {
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		before = current.Snapshot()

		next := current.Snapshot()
		next.Answers = current.Answers.Merge(patch.Answers)
		if patch.Skipped != nil {
			next.Skipped = append([]string{}, (*patch.Skipped)...)
		}

		next.Answers, err = m.commit(ctx, next.Answers)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now().UTC()

		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		after = next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if removed := domain.Removed(before.Answers.Merge(patch.Answers), after.Answers); len(removed) > 0 {
		m.logger.Debug("session answers pruned", "session_id", sessionID, "pruned", removed)
	}
	return before, after, nil
}

// Save persists the session as-is.
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	return m.WithLock(ctx, sess.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, sess.ID, sess)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
