package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const fileName = "storage.json"

// ErrCorrupt wraps a storage document that cannot be decoded.
var ErrCorrupt = errors.New("storage file is corrupt")

// FileStore keeps all keys in one JSON document inside dir. Writes go to a
// temp file that is renamed over the old document. Reads of a corrupt
// document fail with ErrCorrupt; the next write replaces it.
type FileStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, fileName), logger: logger}, nil
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.loadForWrite()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("Discarding corrupt storage file")
		return f.save(map[string]string{})
	}
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

// loadForWrite starts over from an empty document when the current one is
// corrupt, so a write is never blocked by it.
func (f *FileStore) loadForWrite() (map[string]string, error) {
	values, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("Discarding corrupt storage file")
		return make(map[string]string), nil
	}
	return values, err
}

func (f *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading storage file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding storage file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing storage file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing storage file: %w", err)
	}
	return nil
}
