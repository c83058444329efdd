package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk layout of a schema snapshot.
type snapshotFile struct {
	Tables Tables `yaml:"tables" msgpack:"tables"`
}

// Snapshot is a Provider backed by a table list previously dumped to disk.
// The format follows the file extension: .yaml/.yml or .msgpack/.mp.
type Snapshot struct {
	Path string
}

func (s *Snapshot) ListTables(context.Context) (Tables, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var f snapshotFile
	switch format(s.Path) {
	case "yaml":
		err = yaml.Unmarshal(data, &f)
	case "msgpack":
		err = msgpack.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", s.Path, err)
	}
	return f.Tables, nil
}

// Dump writes tables to path, creating parent directories as needed.
func Dump(path string, tables Tables) error {
	var (
		data []byte
		err  error
		f    = snapshotFile{Tables: tables}
	)
	switch format(path) {
	case "yaml":
		data, err = yaml.Marshal(f)
	case "msgpack":
		data, err = msgpack.Marshal(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".msgpack", ".mp":
		return "msgpack"
	}
	return ""
}
