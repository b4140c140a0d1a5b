package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harunnryd/planboard/internal/config"

	"github.com/gofrs/flock"
)

type FileLock struct {
	fileLock   *flock.Flock
	lockPath   string
	acquiredAt time.Time
}

type FileLockConfig struct {
	LockTimeout time.Duration
	LockRetry   time.Duration
}

func DefaultFileLockConfig() FileLockConfig {
	lockTimeout, _ := config.DurationOrDefault(config.DefaultSessionLockTimeout, config.DefaultSessionLockTimeout)
	lockRetry, _ := config.DurationOrDefault(config.DefaultSessionLockRetry, config.DefaultSessionLockRetry)

	return FileLockConfig{
		LockTimeout: lockTimeout,
		LockRetry:   lockRetry,
	}
}

// FileLockConfigFrom parses the session section of the config.
func FileLockConfigFrom(cfg config.SessionConfig) (FileLockConfig, error) {
	lockTimeout, err := config.DurationOrDefault(cfg.LockTimeout, config.DefaultSessionLockTimeout)
	if err != nil {
		return FileLockConfig{}, fmt.Errorf("session lock timeout: %w", err)
	}
	lockRetry, err := config.DurationOrDefault(cfg.LockRetry, config.DefaultSessionLockRetry)
	if err != nil {
		return FileLockConfig{}, fmt.Errorf("session lock retry: %w", err)
	}
	return FileLockConfig{LockTimeout: lockTimeout, LockRetry: lockRetry}, nil
}

// AcquireFileLock blocks until the lock at lockPath is held or cfg.LockTimeout passes.
func AcquireFileLock(ctx context.Context, lockPath string, cfg FileLockConfig) (*FileLock, error) {
	if cfg.LockTimeout <= 0 || cfg.LockRetry <= 0 {
		cfg = DefaultFileLockConfig()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.LockTimeout)
	defer cancel()

	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(ctx, cfg.LockRetry)
	if err != nil {
		return nil, fmt.Errorf("storage %s is locked by another instance (timeout after %v): %w",
			lockPath, cfg.LockTimeout, err)
	}
	if !locked {
		return nil, fmt.Errorf("storage %s is locked by another instance", lockPath)
	}

	fl := &FileLock{
		fileLock:   fileLock,
		lockPath:   lockPath,
		acquiredAt: time.Now(),
	}
	slog.Debug("Storage lock acquired", "path", lockPath)
	return fl, nil
}

func (fl *FileLock) IsLocked() bool {
	return fl != nil && fl.fileLock != nil && fl.fileLock.Locked()
}

func (fl *FileLock) HeldFor() time.Duration {
	if !fl.IsLocked() {
		return 0
	}
	return time.Since(fl.acquiredAt)
}

func (fl *FileLock) Unlock() {
	if fl == nil || fl.fileLock == nil {
		return
	}

	held := fl.HeldFor()
	if err := fl.fileLock.Unlock(); err != nil {
		slog.Error("Failed to release storage lock",
			"path", fl.lockPath,
			"error", err,
		)
	} else {
		slog.Debug("Storage lock released",
			"path", fl.lockPath,
			"held_duration_ms", held.Milliseconds(),
		)
	}

	fl.fileLock = nil
}
