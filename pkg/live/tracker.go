// Package live follows the snapshot of open browser windows that the native
// host writes to disk.
package live

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/tabs"
)

// DefaultDelay is how long a burst of writes is coalesced for.
const DefaultDelay = 100 * time.Millisecond

// ErrNoSnapshot reports that the snapshot file does not exist yet.
var ErrNoSnapshot = errors.New("live: no snapshot")

// Snapshot is one reading of the open windows.
type Snapshot struct {
	Windows []tabs.Window
	Err     error
}

// Tracker reads and watches one snapshot file.
type Tracker struct {
	path  string
	delay time.Duration
	log   *logrus.Entry
}

// NewTracker returns a tracker for path.
func NewTracker(path string, log *logrus.Entry) *Tracker {
	if log == nil {
		log = logging.Component(nil, "live")
	}
	return &Tracker{path: filepath.Clean(path), delay: DefaultDelay, log: log}
}

// Path is the watched snapshot file.
func (t *Tracker) Path() string { return t.path }

// Read parses the snapshot file as it is now.
func (t *Tracker) Read() ([]tabs.Window, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, t.path)
	}
	if err != nil {
		return nil, fmt.Errorf("live: read %s: %w", t.path, err)
	}
	windows, err := tabs.UnmarshalWindows(data)
	if err != nil {
		return nil, fmt.Errorf("live: parse %s: %w", t.path, err)
	}
	return windows, nil
}

// Watch emits a snapshot now, if the file exists, and after every burst of
// changes to it until ctx is cancelled. The channel is closed on return.
// The parent directory is watched so editors and hosts that replace the
// file by rename are followed.
func (t *Tracker) Watch(ctx context.Context) (<-chan Snapshot, error) {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("live: ensure %s: %w", dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("live: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				t.log.WithError(err).Warn("watcher close")
			}
		})
	}
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("live: watch %s: %w", dir, err)
	}

	out := make(chan Snapshot, 1)
	ready := make(chan struct{}, 1)
	signal := func() {
		select {
		case ready <- struct{}{}:
		default:
		}
	}

	go func() {
		defer close(out)
		defer closeWatcher()

		throttle := newThrottle(t.delay)
		defer throttle.Stop()

		if _, err := os.Stat(t.path); err == nil {
			signal()
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				t.log.WithError(err).Warn("watcher error, rereading snapshot")
				throttle.Enqueue(signal)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != t.path || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(signal)
			case <-ready:
				windows, err := t.Read()
				if errors.Is(err, ErrNoSnapshot) {
					// renamed away; the replacement triggers another read
					continue
				}
				if err != nil {
					t.log.WithError(err).Warn("snapshot unreadable")
				}
				select {
				case out <- Snapshot{Windows: windows, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
