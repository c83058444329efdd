package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/eloquentts/internal/schema"
	"github.com/cmmoran/eloquentts/pkg/generator"
)

// flagKey ties a command line flag to its configuration key. Flags are bound
// right before a command runs so several commands can share the same keys.
type flagKey struct {
	flag, key string
}

var (
	generatorKeys = []flagKey{
		{"sources", "generator.sources"},
		{"classes-dir", "generator.classes_dir"},
		{"enums-dir", "generator.enums_dir"},
		{"source-ext", "generator.source_ext"},
		{"output-ext", "generator.output_ext"},
		{"enum-bases", "generator.enum_bases"},
		{"add-uuid", "generator.add_uuid"},
		{"infer-table-names", "generator.infer_table_names"},
		{"exclude-classes", "generator.exclude_classes"},
		{"exclude-columns", "generator.exclude_columns"},
		{"type-override", "generator.type_overrides"},
		{"manifest", "generator.manifest"},
		{"indent", "generator.render.indent"},
		{"semicolons", "generator.render.semicolons"},
		{"quote", "generator.render.quote"},
		{"emit-base-type", "generator.render.emit_base_type"},
	}
	databaseKeys = []flagKey{
		{"driver", "database.driver"},
		{"dsn", "database.dsn"},
		{"db-schema", "database.schema"},
		{"snapshot", "database.snapshot"},
	}
)

func addGeneratorFlags(c *cobra.Command) {
	d := generator.NewOptions()
	f := c.Flags()
	f.StringSliceP("sources", "s", d.Sources, "directories scanned for model classes, in order")
	f.StringP("classes-dir", "o", d.ClassesDir, "directory for generated classes")
	f.StringP("enums-dir", "e", d.EnumsDir, "directory for generated enums (defaults to the classes directory)")
	f.String("source-ext", d.SourceExt, "extension of model source files")
	f.String("output-ext", d.OutputExt, "extension of generated files")
	f.StringSlice("enum-bases", d.EnumBases, "base classes that make a class an enum")
	f.Bool("add-uuid", d.AddUUID, "give every class a client-side uuid member")
	f.Bool("infer-table-names", d.InferTableNames, "derive table names for models that declare none")
	f.StringSliceP("exclude-classes", "x", nil, "class names to skip")
	f.StringSlice("exclude-columns", nil, "columns never merged, as table:column or column")
	f.StringToString("type-override", nil, "column type to TypeScript type, ex: tinyint=boolean")
	f.StringP("manifest", "m", d.Manifest, "manifest recording generated files (empty disables)")
	f.String("indent", d.Render.Indent, "spaces per indentation level, or tab")
	f.Bool("semicolons", d.Render.Semicolons, "terminate statements with semicolons")
	f.String("quote", d.Render.Quote, "string quote style (double, single)")
	f.Bool("emit-base-type", d.Render.EmitBaseType, "keep the PHP base class as an extends clause")
}

func addDatabaseFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("driver", schema.MySQL, "database driver (mysql, postgres, sqlite)")
	f.String("dsn", "", "database connection string")
	f.String("db-schema", "", "schema to inspect (defaults to the connection's)")
	f.String("snapshot", "", "read the schema from a snapshot file instead of the database")
}

func bindFlags(c *cobra.Command, keys ...[]flagKey) error {
	for _, ks := range keys {
		for _, k := range ks {
			f := c.Flags().Lookup(k.flag)
			if f == nil {
				continue
			}
			if err := viper.BindPFlag(k.key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", k.flag, err)
			}
		}
	}
	return nil
}

// config is the layout of eloquentts.yaml.
type config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Generator *generator.Options `mapstructure:"generator"`
	Database  schema.Config      `mapstructure:"database"`
}

// loadOptions resolves flags, environment and config files, highest
// priority first.
func loadOptions() (*generator.Options, schema.Config, error) {
	cfg := config{Generator: generator.NewOptions()}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, schema.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	cfg.Generator.Normalize()
	return cfg.Generator, cfg.Database, nil
}
