package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/adapters/file"
	"github.com/aretw0/questflow/pkg/adapters/memory"
	"github.com/aretw0/questflow/pkg/adapters/redis"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/observability"
	"github.com/aretw0/questflow/pkg/persistence/middleware"
	"github.com/aretw0/questflow/pkg/ports"
	"github.com/aretw0/questflow/pkg/session"
)

// LockPrefix namespaces distributed session locks in Redis.
const LockPrefix = "questflow:lock:"

// NewLogger configures the application logger from the log level option.
// Logs go to Stderr so they never mix with flow output or JSON-RPC on Stdout.
func NewLogger(opts Options) (*slog.Logger, error) {
	if opts.LogLevel == "" {
		return logging.New(slog.LevelWarn), nil
	}
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// NewEngine initializes the engine for the configured flow document.
// Debug logging hooks are always attached; extra hook sets run after them.
func NewEngine(opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*questflow.Engine, error) {
	if opts.FlowPath == "" {
		return nil, fmt.Errorf("no flow document: pass --flow or set %s", EnvFlow)
	}

	sets := append([]domain.LifecycleHooks{observability.LogHooks(logger)}, hooks...)
	eng, err := questflow.New(opts.FlowPath,
		questflow.WithLogger(logger),
		questflow.WithLifecycleHooks(observability.Combine(sets...)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, nil
}

// Persistence is a configured session store with its optional locker.
type Persistence struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases backend connections.
func (p *Persistence) Close() error {
	if p == nil || p.close == nil {
		return nil
	}
	return p.close()
}

// NewPersistence builds the session store chosen by opts, wrapped with the
// PII and encryption middlewares when enabled.
func NewPersistence(ctx context.Context, opts Options, logger *slog.Logger) (*Persistence, error) {
	p := &Persistence{}

	switch kind := opts.StoreKind(); kind {
	case StoreMemory:
		p.Store = memory.NewStore()
	case StoreFile:
		p.Store = file.NewStore(opts.SessionDir)
	case StoreRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires an address: pass --redis-addr or set %s", EnvRedisAddr)
		}
		rs := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDatabase(), redis.WithTTL(opts.TTL()))

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", opts.RedisAddr, err)
		}

		p.Store = rs
		p.Locker = redis.NewLocker(rs.Client(), LockPrefix)
		p.close = rs.Close
	default:
		return nil, fmt.Errorf("unknown store %q (supported: memory, file, redis)", kind)
	}

	var mws []middleware.Middleware
	if opts.MaskingPII() {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	if opts.EncryptionKey != "" {
		key, err := middleware.ParseKey(opts.EncryptionKey)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	p.Store = middleware.Chain(p.Store, mws...)

	logger.Debug("Session store ready", "store", opts.StoreKind(), "encrypted", opts.EncryptionKey != "", "mask_pii", opts.MaskingPII())
	return p, nil
}

// NewSessionManager wires a session manager that prunes through eng.
func NewSessionManager(p *Persistence, eng session.Committer, logger *slog.Logger) *session.Manager {
	opts := []session.Option{
		session.WithCommitter(eng),
		session.WithLogger(logger),
	}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}
	return session.NewManager(p.Store, opts...)
}
