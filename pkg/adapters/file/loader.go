package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/domain"
)

// Loader implements ports.FlowLoader and ports.Watchable for a flow document on disk.
type Loader struct {
	path   string
	logger *slog.Logger
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger configures a logger for watch events.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for the flow document at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:   filepath.Clean(path),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the document location.
func (l *Loader) Path() string { return l.path }

// LoadFlow reads and decodes the flow document.
func (l *Loader) LoadFlow(ctx context.Context) (*domain.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow %s: %w", l.path, err)
	}

	flow, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return flow, nil
}

// Watch signals when the document is written or replaced.
// The parent directory is watched so that editors saving through a rename are seen.
// Bursts collapse into one pending signal. The channel is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	if _, err := os.Stat(l.path); err != nil {
		return nil, fmt.Errorf("failed to watch flow %s: %w", l.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch flow %s: %w", l.path, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != l.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				l.logger.Debug("flow changed", "path", l.path, "op", event.Op.String())

				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("flow watch failed", "path", l.path, "err", err)
			}
		}
	}()
	return ch, nil
}
