package generator

import (
	"os"
	"path/filepath"
	"sort"
)

// Writer persists one generated file.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// DiskWriter writes to the filesystem, creating parent directories.
type DiskWriter struct{}

func (DiskWriter) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MemoryWriter keeps generated files in memory. The zero value is ready to use.
type MemoryWriter struct {
	Files map[string][]byte
}

func (w *MemoryWriter) WriteFile(path string, data []byte) error {
	if w.Files == nil {
		w.Files = make(map[string][]byte)
	}
	w.Files[path] = append([]byte(nil), data...)
	return nil
}

// Paths returns the written paths in sorted order.
func (w *MemoryWriter) Paths() []string {
	out := make([]string, 0, len(w.Files))
	for p := range w.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
