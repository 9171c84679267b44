package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const webhookSecretKey = "WEBHOOK_SECRET"

// SecretSource hands out the current webhook secret. Implementations must be safe
// for concurrent use since it is consulted once per request.
type SecretSource interface {
	Secret() string
}

// SecretStore is a SecretSource whose value can be swapped at runtime.
type SecretStore struct {
	value atomic.Pointer[string]
}

func NewSecretStore(secret string) *SecretStore {
	s := &SecretStore{}
	s.Set(secret)
	return s
}

func (s *SecretStore) Secret() string {
	if p := s.value.Load(); p != nil {
		return *p
	}
	return ""
}

func (s *SecretStore) Set(secret string) {
	s.value.Store(&secret)
}

// StaticSecret is a fixed SecretSource, mostly useful in tests.
type StaticSecret string

func (s StaticSecret) Secret() string { return string(s) }

// ReloadSecret re-reads path and stores its WEBHOOK_SECRET. It reports whether the
// stored value changed. A file without the key leaves the store untouched.
func ReloadSecret(path string, store *SecretStore) (bool, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return false, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	secret, ok := values[webhookSecretKey]
	if !ok {
		return false, nil
	}
	if secret == store.Secret() {
		return false, nil
	}
	store.Set(secret)
	return true, nil
}

// WatchSecret watches the env file at path and pushes WEBHOOK_SECRET changes into
// store until ctx is done. The parent directory is watched so editors that replace
// the file atomically are still picked up.
func WatchSecret(ctx context.Context, path string, store *SecretStore, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	log.Info("Watching env file for webhook secret changes", zap.String("path", absPath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			changed, err := ReloadSecret(absPath, store)
			if err != nil {
				log.Warn("Failed to reload webhook secret", zap.Error(err))
				continue
			}
			if changed {
				log.Info("Webhook secret reloaded", zap.String("path", absPath))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Warn("Env file watcher overflowed, forcing reload")
				if _, rerr := ReloadSecret(absPath, store); rerr != nil {
					log.Warn("Failed to reload webhook secret", zap.Error(rerr))
				}
				continue
			}
			log.Error("Env file watcher error", zap.Error(err))
		}
	}
}
