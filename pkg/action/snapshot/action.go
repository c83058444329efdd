package snapshot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmmoran/eloquentts/internal/schema"
)

var ErrNoDatabase = errors.New("no database connection configured")

// Generate inspects the live database described by db and writes its table
// list to out, so later runs can generate offline with schema.Config.Snapshot.
func Generate(ctx context.Context, db schema.Config, out string) (schema.Tables, error) {
	if db.DSN == "" {
		return nil, ErrNoDatabase
	}
	db.Snapshot = ""

	provider, closer, err := schema.Open(db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()

	tables, err := provider.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if err := schema.Dump(out, tables); err != nil {
		return nil, err
	}
	slog.With("file", out, "tables", len(tables)).Info("schema snapshot written")
	return tables, nil
}

// List reads back a snapshot.
func List(ctx context.Context, path string) (schema.Tables, error) {
	return (&schema.Snapshot{Path: path}).ListTables(ctx)
}
