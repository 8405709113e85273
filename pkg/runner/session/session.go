// Package session opens the app.Service every command works against.
package session

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/history"
	"tableflip.dev/tabtree/pkg/live"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/store"
	"tableflip.dev/tabtree/pkg/tabs"
)

// Session is an open app.Service plus the config and transport behind it.
type Session struct {
	*app.Service
	Config    store.Config
	Logger    *logrus.Logger
	transport store.Transport
}

// Options configure Open. Zero values load from the environment.
type Options struct {
	Config    store.Config
	Logger    *logrus.Logger
	Transport store.Transport
}

// Open loads the config, opens the configured transport and the service on
// top of it. A first run seeds the live group from the snapshot file, when
// one is configured.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(cfg.LogLevel())
	}
	t := opts.Transport
	if t == nil {
		var err error
		if t, err = store.Open(cfg); err != nil {
			return nil, err
		}
	}

	policy := history.DefaultPolicy()
	if n := cfg.HistoryLimit(); n > 0 {
		policy.Limit = n
	}

	svc, err := app.Open(ctx, app.Options{
		Transport: t,
		Policy:    policy,
		Logger:    logger,
		Live:      snapshot(cfg, logger),
	})
	if err != nil {
		closeTransport(t)
		return nil, err
	}
	return &Session{Service: svc, Config: cfg, Logger: logger, transport: t}, nil
}

func snapshot(cfg store.Config, logger *logrus.Logger) []tabs.Window {
	if cfg.SnapshotPath() == "" {
		return nil
	}
	windows, err := live.NewTracker(cfg.SnapshotPath(), logging.Component(logger, "live")).Read()
	if err != nil {
		logger.WithError(err).Debug("no live snapshot to seed from")
		return nil
	}
	return windows
}

// Tracker follows the configured snapshot file. It is nil when none is set.
func (s *Session) Tracker() *live.Tracker {
	if s.Config.SnapshotPath() == "" {
		return nil
	}
	return live.NewTracker(s.Config.SnapshotPath(), logging.Component(s.Logger, "live"))
}

// Close flushes pending writes and releases the transport. A write that
// failed in the background is reported here.
func (s *Session) Close(ctx context.Context) error {
	err := s.Service.Close(ctx)
	if werr := s.Service.LastWriteError(); werr != nil && !errors.Is(werr, store.ErrClosed) {
		err = errors.Join(err, werr)
	}
	return errors.Join(err, closeTransport(s.transport))
}

func closeTransport(t store.Transport) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
