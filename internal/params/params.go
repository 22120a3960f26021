// Package params is a durable key-value settings store backed by one
// file per key. Writes are atomic (temp file plus rename) and guarded
// by an advisory lock so concurrent writers on the same host cannot
// interleave.
package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrInvalidKey is returned for empty keys or keys containing a path
// separator.
var ErrInvalidKey = errors.New("invalid params key")

// Store persists keys as files under a base directory.
type Store struct {
	dir string
}

// Open creates the base directory if needed and returns a store over
// it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating params dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory of the store.
func (s *Store) Dir() string { return s.dir }

// Put writes a value for key, replacing any previous value atomically.
func (s *Store) Put(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp_"+key+"_*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing value: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing value: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("committing value: %w", err)
	}
	return nil
}

// Get returns the value for key, or os.ErrNotExist if the key has
// never been written.
func (s *Store) Get(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, key))
}

// PutBool writes a boolean flag, stored as "1" or "0".
func (s *Store) PutBool(key string, value bool) error {
	v := []byte("0")
	if value {
		v = []byte("1")
	}
	return s.Put(key, v)
}

// GetBool reads a boolean flag. Missing keys read as false.
func (s *Store) GetBool(key string) (bool, error) {
	v, err := s.Get(key)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(v)) == "1", nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// lock takes the store-wide advisory lock and returns the release
// function.
func (s *Store) lock() (func(), error) {
	f, err := os.OpenFile(filepath.Join(s.dir, ".lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking store: %w", err)
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsRune(key, os.PathSeparator) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}
