package generator

import (
	"path/filepath"
	"strings"

	"github.com/cmmoran/eloquentts/internal/render"
)

// Options control discovery, merging and output.
//
// Sources         – directories scanned (non-recursively) for PHP classes, in order.
// ClassesDir      – destination for ordinary classes.
// EnumsDir        – destination for enums and enum-like classes.
// SourceExt       – extension of input files, case-insensitive (default ".php").
// OutputExt       – extension of generated files (default ".ts").
// EnumBases       – base classes that make a class enum-like (default "Enum").
// AddUUID         – give every class a client-side uuid member.
// InferTableNames – derive a table name for models that declare none.
// ExcludeClasses  – class names to skip (case-insensitive).
// ExcludeColumns  – "table:column" or "column" entries never merged.
// TypeOverrides   – column type → TypeScript type, ahead of the built-in mapping.
// Manifest        – where the generate action records its outputs ("" disables).
// Render          – cosmetic output options.
type Options struct {
	Sources         []string          `json:"sources,omitempty" yaml:"sources,omitempty" mapstructure:"sources,omitempty"`
	ClassesDir      string            `json:"classes_dir,omitempty" yaml:"classes_dir,omitempty" mapstructure:"classes_dir,omitempty"`
	EnumsDir        string            `json:"enums_dir,omitempty" yaml:"enums_dir,omitempty" mapstructure:"enums_dir,omitempty"`
	SourceExt       string            `json:"source_ext,omitempty" yaml:"source_ext,omitempty" mapstructure:"source_ext,omitempty"`
	OutputExt       string            `json:"output_ext,omitempty" yaml:"output_ext,omitempty" mapstructure:"output_ext,omitempty"`
	EnumBases       []string          `json:"enum_bases,omitempty" yaml:"enum_bases,omitempty" mapstructure:"enum_bases,omitempty"`
	AddUUID         bool              `json:"add_uuid,omitempty" yaml:"add_uuid,omitempty" mapstructure:"add_uuid,omitempty"`
	InferTableNames bool              `json:"infer_table_names,omitempty" yaml:"infer_table_names,omitempty" mapstructure:"infer_table_names,omitempty"`
	ExcludeClasses  []string          `json:"exclude_classes,omitempty" yaml:"exclude_classes,omitempty" mapstructure:"exclude_classes,omitempty"`
	ExcludeColumns  []string          `json:"exclude_columns,omitempty" yaml:"exclude_columns,omitempty" mapstructure:"exclude_columns,omitempty"`
	TypeOverrides   map[string]string `json:"type_overrides,omitempty" yaml:"type_overrides,omitempty" mapstructure:"type_overrides,omitempty"`
	Manifest        string            `json:"manifest,omitempty" yaml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	Render          render.Options    `json:"render,omitempty" yaml:"render,omitempty" mapstructure:"render,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		Sources:    []string{"app/Models"},
		ClassesDir: "resources/js/models",
		EnumsDir:   "resources/js/enums",
		SourceExt:  ".php",
		OutputExt:  ".ts",
		EnumBases:  []string{"Enum"},
		AddUUID:    true,
		Render:     render.DefaultOptions(),
	}
}

// Normalize fills empty fields with defaults and cleans paths. Entries of
// comma-separated list flags are split and trimmed.
func (o *Options) Normalize() {
	o.Sources = splitList(o.Sources)
	o.EnumBases = splitList(o.EnumBases)
	o.ExcludeClasses = splitList(o.ExcludeClasses)
	o.ExcludeColumns = splitList(o.ExcludeColumns)

	for i, s := range o.Sources {
		o.Sources[i] = filepath.Clean(s)
	}
	if len(o.ClassesDir) == 0 {
		o.ClassesDir = "resources/js/models"
	}
	o.ClassesDir = filepath.Clean(o.ClassesDir)
	if len(o.EnumsDir) == 0 {
		o.EnumsDir = o.ClassesDir
	}
	o.EnumsDir = filepath.Clean(o.EnumsDir)

	o.SourceExt = dotted(o.SourceExt, ".php")
	o.OutputExt = dotted(o.OutputExt, ".ts")
	if len(o.EnumBases) == 0 {
		o.EnumBases = []string{"Enum"}
	}

	def := render.DefaultOptions()
	if o.Render.Indent == "" {
		o.Render.Indent = def.Indent
	}
	if o.Render.Quote == "" {
		o.Render.Quote = def.Quote
	}
}

func dotted(ext, def string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return def
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithSources(dirs ...string) Option { return func(o *Options) { o.Sources = dirs } }
func WithClassesDir(d string) Option    { return func(o *Options) { o.ClassesDir = d } }
func WithEnumsDir(d string) Option      { return func(o *Options) { o.EnumsDir = d } }
func WithSourceExt(ext string) Option   { return func(o *Options) { o.SourceExt = ext } }
func WithOutputExt(ext string) Option   { return func(o *Options) { o.OutputExt = ext } }
func WithEnumBases(bases ...string) Option {
	return func(o *Options) { o.EnumBases = bases }
}
func WithoutUUID() Option             { return func(o *Options) { o.AddUUID = false } }
func WithInferTableNames() Option     { return func(o *Options) { o.InferTableNames = true } }
func WithManifest(path string) Option { return func(o *Options) { o.Manifest = path } }
func WithExcludeClasses(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeClasses = append(o.ExcludeClasses, strings.TrimSpace(n))
		}
	}
}
func WithExcludeColumns(cols ...string) Option {
	return func(o *Options) { o.ExcludeColumns = append(o.ExcludeColumns, cols...) }
}
func WithTypeOverride(dbType, tsType string) Option {
	return func(o *Options) {
		if o.TypeOverrides == nil {
			o.TypeOverrides = make(map[string]string)
		}
		o.TypeOverrides[dbType] = tsType
	}
}
func WithRender(r render.Options) Option { return func(o *Options) { o.Render = r } }
