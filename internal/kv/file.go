package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// File stores one file per key in a directory. Each file is replaced
// atomically, and a Put batch runs under an exclusive directory lock. If a
// write in the batch fails, the files already written are restored to their
// previous contents.
type File struct {
	dir         string
	lockTimeout time.Duration
}

// OpenFile creates dir if needed and returns a store rooted there.
func OpenFile(dir string) (*File, error) {
	if dir == "" {
		return nil, ErrDirEmpty
	}

	err := os.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &File{dir: filepath.Clean(dir), lockTimeout: LockTimeout}, nil
}

// Dir returns the store's directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key)
}

// Get implements [Store].
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	err := validateKey(key)
	if err != nil {
		return "", false, err
	}

	return f.read(key)
}

func (f *File) read(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	return string(data), true, nil
}

type previous struct {
	value  string
	exists bool
}

// Put implements [Store].
func (f *File) Put(ctx context.Context, entries map[string]string) error {
	err := validateKeys(entries)
	if err != nil {
		return err
	}

	lock, err := acquireDirLock(ctx, f.dir, f.lockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer lock.release()

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	written := make(map[string]previous, len(keys))

	for _, key := range keys {
		value, exists, readErr := f.read(key)
		if readErr != nil {
			return errors.Join(readErr, f.restore(written))
		}

		writeErr := atomic.WriteFile(f.path(key), strings.NewReader(entries[key]))
		if writeErr != nil {
			return errors.Join(fmt.Errorf("write %s: %w", key, writeErr), f.restore(written))
		}

		written[key] = previous{value: value, exists: exists}
	}

	return nil
}

// restore puts back the values captured before a failed batch.
func (f *File) restore(written map[string]previous) error {
	var errs []error

	for key, prev := range written {
		if !prev.exists {
			err := os.Remove(f.path(key))
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("rollback %s: %w", key, err))
			}

			continue
		}

		err := atomic.WriteFile(f.path(key), strings.NewReader(prev.value))
		if err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

// Delete implements [Store].
func (f *File) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		err := validateKey(key)
		if err != nil {
			return err
		}
	}

	lock, err := acquireDirLock(ctx, f.dir, f.lockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer lock.release()

	for _, key := range keys {
		err := os.Remove(f.path(key))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	return nil
}

// Close implements [Store]. File holds no open handles between calls.
func (*File) Close() error {
	return nil
}
