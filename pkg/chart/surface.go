package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Surface receives a chart's output. Each redraw calls Clear and then Draw
// with the complete document.
type Surface interface {
	Clear() error
	Draw(doc []byte) error
}

// MemorySurface keeps the latest document in memory.
type MemorySurface struct {
	mu     sync.Mutex
	doc    []byte
	clears int
	draws  int
}

// Clear discards the current document.
func (s *MemorySurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.clears++
	return nil
}

// Draw stores a copy of doc.
func (s *MemorySurface) Draw(doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = append([]byte(nil), doc...)
	s.draws++
	return nil
}

// Bytes returns the current document, or nil when blank.
func (s *MemorySurface) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Counts returns how many times Clear and Draw were called.
func (s *MemorySurface) Counts() (clears, draws int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears, s.draws
}

// FileSurface writes each document to Path, replacing the previous one
// atomically.
type FileSurface struct {
	Path string
}

// NewFileSurface returns a surface writing to path.
func NewFileSurface(path string) *FileSurface {
	return &FileSurface{Path: path}
}

// Clear removes the file. A missing file is not an error.
func (s *FileSurface) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Draw writes doc to a temporary file and renames it into place.
func (s *FileSurface) Draw(doc []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".draw-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
