package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RecordKey is the single key the collection is stored under.
const RecordKey = "collection"

// ErrNotFound reports that no record has been written yet.
var ErrNotFound = errors.New("store: record not found")

// Transport moves the serialized record in and out of storage. Writes replace
// the whole record.
type Transport interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, data []byte) error
}

// Open returns the transport the config asks for. A nil config is loaded
// from the environment.
func Open(cfg Config) (Transport, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	switch cfg.Backend() {
	case BackendDiskv:
		return OpenDiskv(cfg.BasePath())
	case BackendSQLite:
		return OpenSQLite(cfg.BasePath())
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
}

// Memory keeps the record in process. It backs tests and --backend memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
	sets int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Set(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.sets++
	return nil
}

// Sets counts the writes that reached the transport.
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
