package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names accepted by OpenInspector and NewInspector.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Inspector reads the table list of a live database through atlas.
type Inspector struct {
	db      *sql.DB
	dialect string
	schema  string
	owned   bool
}

// OpenInspector connects to dsn with the database/sql driver registered for
// dialect. The connection is released by Close.
func OpenInspector(dialect, dsn, schemaName string) (*Inspector, error) {
	switch dialect {
	case SQLite, MySQL, Postgres:
	case "sqlite3":
		dialect = SQLite
	case "postgresql", "pgsql":
		dialect = Postgres
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}
	in := NewInspector(db, dialect, schemaName)
	in.owned = true
	return in, nil
}

// NewInspector wraps an open connection. An empty schemaName means the
// connection's current schema.
func NewInspector(db *sql.DB, dialect, schemaName string) *Inspector {
	if dialect == SQLite && schemaName == "" {
		schemaName = "main"
	}
	return &Inspector{db: db, dialect: dialect, schema: schemaName}
}

func (i *Inspector) driver() (migrate.Driver, error) {
	switch i.dialect {
	case SQLite:
		return sqlite.Open(i.db)
	case MySQL:
		return mysql.Open(i.db)
	case Postgres:
		return postgres.Open(i.db)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, i.dialect)
	}
}

// ListTables inspects the configured schema once and converts it.
func (i *Inspector) ListTables(ctx context.Context) (Tables, error) {
	drv, err := i.driver()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i.dialect, err)
	}
	s, err := drv.InspectSchema(ctx, i.schema, &atlas.InspectOptions{Mode: atlas.InspectTables})
	if err != nil {
		return nil, fmt.Errorf("inspect schema %q: %w", i.schema, err)
	}

	tables := make(Tables, 0, len(s.Tables))
	for _, t := range s.Tables {
		table := Table{Name: t.Name, Columns: make([]Column, 0, len(t.Columns))}
		for _, c := range t.Columns {
			table.Columns = append(table.Columns, Column{Name: c.Name, DBType: columnType(c)})
		}
		slog.With("table", t.Name, "columns", len(table.Columns)).Debug("inspected table")
		tables = append(tables, table)
	}
	return tables, nil
}

// Close releases the connection if the Inspector opened it.
func (i *Inspector) Close() error {
	if !i.owned {
		return nil
	}
	return i.db.Close()
}

// columnType returns the raw type as the database reported it, falling back
// to the type atlas parsed when no raw text is available. Postgres reports
// "ARRAY" and "USER-DEFINED" as raw text; the parsed type is used for those.
func columnType(c *atlas.Column) string {
	if c.Type == nil {
		return ""
	}
	switch t := c.Type.Type.(type) {
	case *atlas.EnumType:
		// native enums carry their own type name, which is never a mapped type
		return "enum"
	case *postgres.ArrayType:
		if t.T != "" {
			return t.T
		}
		if elem := columnType(&atlas.Column{Type: &atlas.ColumnType{Type: t.Type}}); elem != "" {
			return elem + "[]"
		}
	}
	if raw := c.Type.Raw; raw != "" && !placeholderType(raw) {
		return raw
	}
	switch t := c.Type.Type.(type) {
	case *atlas.IntegerType:
		return t.T
	case *atlas.FloatType:
		return t.T
	case *atlas.DecimalType:
		return t.T
	case *atlas.StringType:
		return t.T
	case *atlas.BoolType:
		return t.T
	case *atlas.TimeType:
		return t.T
	case *atlas.JSONType:
		return t.T
	case *atlas.BinaryType:
		return t.T
	case *atlas.UUIDType:
		return t.T
	case *atlas.SpatialType:
		return t.T
	case *postgres.UserDefinedType:
		return t.T
	case *atlas.UnsupportedType:
		return t.T
	}
	return c.Type.Raw
}

func placeholderType(raw string) bool {
	switch strings.ToUpper(raw) {
	case "ARRAY", "USER-DEFINED":
		return true
	}
	return false
}
