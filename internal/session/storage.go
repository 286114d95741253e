package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNoRecord is returned by Storage.Load when nothing is persisted.
	ErrNoRecord = errors.New("session: no record")
	// ErrCorrupt is returned by Storage.Load when the persisted record cannot be authenticated or decoded.
	ErrCorrupt = errors.New("session: corrupt record")
)

// Storage persists one serialized record under a fixed key.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// MemoryStorage keeps the record in memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemoryStorage) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// DefaultFileName is the fixed key used by the terminal client.
const DefaultFileName = "session.json"

// FileStorage keeps the record in a single file, written atomically with mode 0600.
type FileStorage struct {
	Path string
}

// NewFileStorage returns a FileStorage at <dir>/<name>. An empty dir means the user's config
// directory under "bloodbank".
func NewFileStorage(dir, name string) (*FileStorage, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("session: config dir: %w", err)
		}
		dir = filepath.Join(base, "bloodbank")
	}
	if name == "" {
		name = DefaultFileName
	}
	return &FileStorage{Path: filepath.Join(dir, name)}, nil
}

func (f *FileStorage) Load(context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoRecord
	}
	return b, err
}

func (f *FileStorage) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

func (f *FileStorage) Delete(context.Context) error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
