// Package store reads and writes the subscription file on disk.
//
// Writes go through a temporary file in the target directory followed by a
// rename, so a failed save leaves the previous content in place. Nothing here
// locks the file: two processes saving the same path concurrently race and the
// last rename wins.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is matched by IOErrors caused by a missing path.
	ErrNotFound = errors.New("file not found")
	// ErrPermissionDenied is matched by IOErrors caused by insufficient permissions.
	ErrPermissionDenied = errors.New("permission denied")
)

// IOError describes a failed filesystem operation on the subscription file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is maps the underlying fs error onto ErrNotFound and ErrPermissionDenied.
func (e *IOError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return errors.Is(e.Err, fs.ErrNotExist)
	case ErrPermissionDenied:
		return errors.Is(e.Err, fs.ErrPermission)
	}
	return false
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// FileStore is the filesystem-backed document store.
type FileStore struct{}

// NewFileStore creates a FileStore.
func NewFileStore() FileStore {
	return FileStore{}
}

// Load returns the raw contents of path.
func (FileStore) Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", wrap("load", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", wrap("load", path, err)
	}
	return string(data), nil
}

// Save replaces the contents of path with text.
func (FileStore) Save(path, text string) error {
	return wrap("save", path, writeFileAtomic(path, []byte(text)))
}

// EnsureDefault writes seed to path if nothing exists there yet.
// It reports whether the file was created.
func (FileStore) EnsureDefault(path, seed string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, wrap("stat", path, err)
	}
	if err := writeFileAtomic(path, []byte(seed)); err != nil {
		return false, wrap("create", path, err)
	}
	return true, nil
}

// CopyTo copies src to target and returns the path written. When target is an
// existing directory the file keeps its base name inside it. Copying a file
// onto itself leaves it untouched.
func (FileStore) CopyTo(src, target string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", wrap("copy", src, err)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, filepath.Base(src))
	}
	if info, err := os.Stat(target); err == nil && os.SameFile(srcInfo, info) {
		return target, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", wrap("copy", src, err)
	}
	if err := writeFileAtomic(target, data); err != nil {
		return "", wrap("copy", target, err)
	}
	return target, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	perm := os.FileMode(filePerm)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
