package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores the record as a single file under a diskv base directory.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDiskv prepares basePath for the record.
func OpenDiskv(basePath string) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		TempDir:           filepath.Join(basePath, ".tmp"),
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

func (p *Diskv) Get(ctx context.Context) ([]byte, error) {
	if !p.d.Has(RecordKey) {
		return nil, ErrNotFound
	}
	val, err := p.d.Read(RecordKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", RecordKey, err)
	}
	return val, nil
}

// Set writes through a temp file so a crash never leaves half a record.
func (p *Diskv) Set(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.d.Write(RecordKey, data); err != nil {
		return fmt.Errorf("store: write %s: %w", RecordKey, err)
	}
	return nil
}

// BasePath is the directory holding the record.
func (p *Diskv) BasePath() string { return p.basePath }

// keyToPathTransform keeps every key at the top of the base directory.
func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: s}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
