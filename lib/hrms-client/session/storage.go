package session

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// TokenStorage keeps the encoded session between process runs.
type TokenStorage interface {
	// Get reports found=false when the key is absent.
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// NewFileStorage stores every key as a file under dir, readable by the owner only.
func NewFileStorage(dir string) TokenStorage {
	return &fileStorage{dir: dir}
}

type fileStorage struct {
	dir string
}

func (s *fileStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *fileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "session file read failed")
	}
	return string(data), true, nil
}

func (s *fileStorage) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, "session dir create failed")
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "session file create failed")
	}
	defer os.Remove(tmp.Name())
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "session file chmod failed")
	}
	if _, err = tmp.WriteString(value); err != nil {
		tmp.Close()
		return errors.Wrap(err, "session file write failed")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "session file write failed")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path(key)), "session file replace failed")
}

func (s *fileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "session file remove failed")
	}
	return nil
}

// NewMemoryStorage keeps values for the lifetime of the process.
func NewMemoryStorage() TokenStorage {
	return &memoryStorage{values: map[string]string{}}
}

type memoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func (s *memoryStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *memoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
