package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrUnknownFormat = errors.New("unknown snapshot format")
)

// Column is one column of a live table. DBType is the driver-specific type
// identifier, e.g. "varchar(255)" or "bigint unsigned".
type Column struct {
	Name   string `yaml:"name" json:"name" msgpack:"name"`
	DBType string `yaml:"type" json:"type" msgpack:"type"`
}

type Table struct {
	Name    string   `yaml:"name" json:"name" msgpack:"name"`
	Columns []Column `yaml:"columns" json:"columns" msgpack:"columns"`
}

// Tables is the immutable table list shared by every file of a run.
type Tables []Table

// Find returns the table whose name matches exactly.
func (ts Tables) Find(name string) (Table, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ListTables lets a fixed table list act as its own Provider.
func (ts Tables) ListTables(context.Context) (Tables, error) {
	return ts, nil
}

// Provider supplies the table list. It is called once per run.
type Provider interface {
	ListTables(ctx context.Context) (Tables, error)
}

// Config selects a Provider. A Snapshot path wins over a live connection;
// with neither set the run has no schema.
type Config struct {
	Driver   string `json:"driver,omitempty" yaml:"driver,omitempty" mapstructure:"driver,omitempty"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn,omitempty"`
	Schema   string `json:"schema,omitempty" yaml:"schema,omitempty" mapstructure:"schema,omitempty"`
	Snapshot string `json:"snapshot,omitempty" yaml:"snapshot,omitempty" mapstructure:"snapshot,omitempty"`
}

// Open builds the Provider described by cfg. The returned closer releases any
// database connection and is never nil.
func Open(cfg Config) (Provider, io.Closer, error) {
	switch {
	case cfg.Snapshot != "":
		return &Snapshot{Path: cfg.Snapshot}, nopCloser{}, nil
	case cfg.DSN != "":
		in, err := OpenInspector(strings.ToLower(cfg.Driver), cfg.DSN, cfg.Schema)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s inspector: %w", cfg.Driver, err)
		}
		return in, in, nil
	default:
		return Tables{}, nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
