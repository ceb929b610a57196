package builder

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys used by the auto-saver. The whole document is one blob
// under KeyPortfolioData; the selected template is stored beside it.
const (
	KeyPortfolioData   = "portfolioData"
	KeyCurrentTemplate = "currentTemplate"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("key not found")

// Storage is the persistence backend for the auto-saver. Implementations
// must be safe for concurrent use.
type Storage interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
}

// MemoryStorage keeps blobs in a map. Used in tests and as a scratch
// backend.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (m *MemoryStorage) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.blobs[key] = buf
	return nil
}

func (m *MemoryStorage) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// FileStorage writes each key as a file in a directory, the closest
// server-side analogue to a browser's local storage.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Save(key string, data []byte) error {
	return os.WriteFile(filepath.Join(f.dir, key+".json"), data, 0o644)
}

func (f *FileStorage) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
