// Package kv provides the string key-value stores the inventory persists to.
//
// Three backends share one contract: Get returns a value and whether it exists,
// Put writes a batch so that either all or none of it becomes visible, and
// Delete removes keys, ignoring missing ones.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file the sqlite backend creates in its directory.
const SQLiteFileName = "inventory.sqlite"

// Error variables for store operations.
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidKey     = errors.New("invalid key")
	ErrClosed         = errors.New("store is closed")
	ErrDirEmpty       = errors.New("data directory is empty")
)

// Store is a key-value backend.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// IsBackend reports whether name is an accepted backend.
func IsBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}

	return false
}

// Open returns the named backend rooted at dir. dir is ignored for memory.
func Open(ctx context.Context, backend, dir string) (Store, error) {
	switch backend {
	case BackendFile:
		return OpenFile(dir)
	case BackendSQLite:
		if dir == "" {
			return nil, ErrDirEmpty
		}

		return OpenSQLite(ctx, filepath.Join(dir, SQLiteFileName))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Keys double as file names in the file backend, so they are restricted to a
// portable character set.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}

func validateKeys(entries map[string]string) error {
	for key := range entries {
		err := validateKey(key)
		if err != nil {
			return err
		}
	}

	return nil
}
