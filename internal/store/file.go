package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/harunnryd/planboard/internal/pathutil"

	"github.com/natefinch/atomic"
)

// FileStore keeps all keys in one JSON object file. Writes are serialized by
// a sibling .lock file and land atomically.
type FileStore struct {
	path     string
	lockPath string
	lockCfg  FileLockConfig
	mu       sync.Mutex
}

func NewFileStore(path string, lockCfg FileLockConfig) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	if err := pathutil.EnsureParent(path, 0700); err != nil {
		return nil, err
	}
	return &FileStore{
		path:     path,
		lockPath: path + ".lock",
		lockCfg:  lockCfg,
	}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, err := AcquireFileLock(context.Background(), s.lockPath, s.lockCfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	values, err := s.read()
	if err != nil {
		slog.Warn("Storage file unreadable, rewriting", "path", s.path, "error", err)
		values = make(map[string]string)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write storage %s: %w", s.path, err)
	}
	return os.Chmod(s.path, 0600)
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse storage %s: %w", s.path, err)
	}
	return values, nil
}
