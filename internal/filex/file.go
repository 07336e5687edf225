// Package filex contains the file primitives behind the file storage backend:
// directory setup, line-oriented append logs, atomic snapshot rewrites and
// a pluggable record codec.
package filex

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// EnsureDir creates base/sub (and parents) when missing and returns its path.
// A relative base is resolved against the working directory.
func EnsureDir(base, sub string) (string, error) {
	if !filepath.IsAbs(base) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = filepath.Join(cwd, base)
	}

	dir := filepath.Join(base, sub)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// AppendLine appends data followed by '\n' to path, creating the file if
// needed. A single record is written with one write call under O_APPEND.
func AppendLine(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}

	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return f.Close()
}

// WriteLinesAtomic replaces path with the given lines. The content is written
// to a temporary file in the same directory and renamed over path, so readers
// see either the old or the new snapshot.
func WriteLinesAtomic(path string, lines [][]byte) error {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.Write(l)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadLines calls fn for every non-empty line of path, in file order. Lines
// have no length limit, and a final line without '\n' is still delivered.
// A missing file is treated as empty. fn returning an error stops the scan.
func ReadLines(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
		line = bytes.TrimSuffix(line, []byte{'\n'})
		if len(line) > 0 {
			if err := fn(line); err != nil {
				return err
			}
		}
		if readErr != nil {
			return nil
		}
	}
}

// Locks hands out one mutex per key, so writers to the same file are
// serialized while writers to different files are not.
type Locks struct {
	m sync.Map
}

// For returns the mutex guarding key.
func (l *Locks) For(key string) *sync.Mutex {
	mu, _ := l.m.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
