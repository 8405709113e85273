package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/tabs"
)

// ErrClosed reports a save after Close.
var ErrClosed = errors.New("store: bridge closed")

// Bridge is the only I/O boundary of a session. Saves are queued and written
// by one background goroutine; only the latest queued record is written.
type Bridge struct {
	transport Transport
	log       *logrus.Entry

	mu       sync.Mutex
	queued   []byte
	seq      uint64 // records queued so far
	written  uint64 // seq of the last record the writer finished with
	lastErr  error
	progress chan struct{} // closed and replaced whenever written advances
	closed   bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewBridge starts the writer for t.
func NewBridge(t Transport, log *logrus.Entry) *Bridge {
	if log == nil {
		log = logging.Component(nil, "store")
	}
	b := &Bridge{
		transport: t,
		log:       log,
		progress:  make(chan struct{}),
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Load reads the record. When there is none yet, it seeds the live and
// duplicates groups around the given live windows and queues that seed.
func (b *Bridge) Load(ctx context.Context, live []tabs.Window) (*tabs.Collection, bool, error) {
	data, err := b.transport.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		c := tabs.Seed(uuid.NewString(), uuid.NewString(), time.Now().UnixMilli(), live)
		b.log.Info("no record found, seeding")
		b.Save(c)
		return c, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: load: %w", err)
	}
	c, err := tabs.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("store: load: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, false, fmt.Errorf("store: load: %w", err)
	}
	b.log.WithField("groups", len(c.Available)).Debug("loaded")
	return c, false, nil
}

// Save queues c for writing and returns immediately. A newer save replaces
// an older one that has not been written yet.
func (b *Bridge) Save(c *tabs.Collection) {
	data, err := tabs.Marshal(c)
	if err != nil {
		b.fail(fmt.Errorf("store: encode: %w", err))
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.fail(ErrClosed)
		return
	}
	b.queued = data
	b.seq++
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Flush waits until everything queued before the call has been written, and
// returns the error of the write that covered it.
func (b *Bridge) Flush(ctx context.Context) error {
	b.mu.Lock()
	target := b.seq
	for b.written < target {
		ch := b.progress
		b.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
		b.mu.Lock()
	}
	err := b.lastErr
	b.mu.Unlock()
	return err
}

// LastError is the error of the most recent write, nil after a success.
func (b *Bridge) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Close writes what is queued, stops the writer and closes the transport if
// it holds resources.
func (b *Bridge) Close(ctx context.Context) error {
	err := b.Flush(ctx)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return err
	}
	b.closed = true
	b.mu.Unlock()

	close(b.stop)
	b.wg.Wait()
	if c, ok := b.transport.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("store: close: %w", cerr)
		}
	}
	return err
}

func (b *Bridge) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stop:
			b.writeLatest()
			return
		case <-b.wake:
			b.writeLatest()
		}
	}
}

func (b *Bridge) writeLatest() {
	b.mu.Lock()
	data, seq := b.queued, b.seq
	b.queued = nil
	b.mu.Unlock()
	if data == nil {
		return
	}

	err := b.transport.Set(context.Background(), data)
	if err != nil {
		b.log.WithError(err).Error("write failed, keeping state in memory")
	}

	b.mu.Lock()
	b.lastErr = err
	if seq > b.written {
		b.written = seq
	}
	close(b.progress)
	b.progress = make(chan struct{})
	b.mu.Unlock()
}

func (b *Bridge) fail(err error) {
	b.log.WithError(err).Error("save failed")
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
}
