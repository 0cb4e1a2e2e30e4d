// Package fsutil provides the file access used by the command-line tools,
// with an in-memory implementation for tests.
package fsutil

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSystem abstracts the file operations the tools need.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// Exists checks if a file exists.
	Exists(name string) bool
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

func (OSFileSystem) Open(name string) (fs.File, error) { return os.Open(filepath.Clean(name)) }

func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Clean(name))
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(filepath.Clean(name)) }

func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filepath.Clean(name), data, perm)
}

func (OSFileSystem) Exists(name string) bool {
	_, err := os.Stat(filepath.Clean(name))
	return err == nil
}

// MemoryFileSystem is a flat in-memory FileSystem. Paths are cleaned but
// directories are not modelled.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

// Open returns a reader over a snapshot of the file.
func (m *MemoryFileSystem) Open(name string) (fs.File, error) {
	data, err := m.read("open", name)
	if err != nil {
		return nil, err
	}
	return &memFile{Reader: bytes.NewReader(data), name: filepath.Base(name), size: int64(len(data))}, nil
}

// Create truncates name; written bytes become visible on Close.
func (m *MemoryFileSystem) Create(name string) (io.WriteCloser, error) {
	name = filepath.Clean(name)
	m.mu.Lock()
	m.files[name] = []byte{}
	m.mu.Unlock()
	return &memWriter{fs: m, name: name}, nil
}

// ReadFile returns a copy of the file's contents.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	return m.read("read", name)
}

// WriteFile stores a copy of data. perm is ignored.
func (m *MemoryFileSystem) WriteFile(name string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(name)] = bytes.Clone(data)
	return nil
}

// Exists checks if a file exists.
func (m *MemoryFileSystem) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(name)]
	return ok
}

func (m *MemoryFileSystem) read(op, name string) ([]byte, error) {
	name = filepath.Clean(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(data), nil
}

type memFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memFile) Close() error { return nil }

func (f *memFile) Stat() (fs.FileInfo, error) { return memFileInfo{name: f.name, size: f.size}, nil }

type memWriter struct {
	fs   *MemoryFileSystem
	name string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.files[w.name] = bytes.Clone(w.buf.Bytes())
	return nil
}

// memFileInfo implements fs.FileInfo.
type memFileInfo struct {
	name string
	size int64
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() os.FileMode  { return 0o644 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() any           { return nil }
