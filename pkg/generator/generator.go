package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmmoran/eloquentts/internal/merge"
	"github.com/cmmoran/eloquentts/internal/model"
	"github.com/cmmoran/eloquentts/internal/parser"
	"github.com/cmmoran/eloquentts/internal/region"
	"github.com/cmmoran/eloquentts/internal/render"
	"github.com/cmmoran/eloquentts/internal/schema"
)

// Generator runs the pipeline (parse, classify, merge, extract, render,
// write) over every source file. Files are processed one at a time in
// directory listing order; the table list is loaded once and shared.
type Generator struct {
	Opts *Options

	provider schema.Provider
	merger   *merge.Merger
	writer   Writer

	tables schema.Tables
	loaded bool
}

// New builds a Generator from defaults plus opts.
func New(provider schema.Provider, opts ...Option) (*Generator, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return NewWithOpts(provider, o)
}

// NewWithOpts builds a Generator from fully specified options. A nil
// provider means no schema.
func NewWithOpts(provider schema.Provider, o *Options) (*Generator, error) {
	if o == nil {
		o = NewOptions()
	}
	o.Normalize()
	if strings.EqualFold(o.SourceExt, o.OutputExt) {
		return nil, fmt.Errorf("source and output extension are both %q", o.SourceExt)
	}
	if provider == nil {
		provider = schema.Tables{}
	}
	return &Generator{
		Opts:     o,
		provider: provider,
		merger: merge.New(merge.Options{
			InferTableNames: o.InferTableNames,
			ExcludeColumns:  o.ExcludeColumns,
			TypeOverrides:   o.TypeOverrides,
		}),
		writer: DiskWriter{},
	}, nil
}

// UseWriter replaces the destination of generated files, e.g. with a
// MemoryWriter for a dry run.
func (g *Generator) UseWriter(w Writer) *Generator {
	g.writer = w
	return g
}

// Tables loads the table list on first use and returns the same value after.
func (g *Generator) Tables(ctx context.Context) (schema.Tables, error) {
	if g.loaded {
		return g.tables, nil
	}
	tables, err := g.provider.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	slog.With("tables", len(tables)).Debug("schema loaded")
	g.tables, g.loaded = tables, true
	return tables, nil
}

// Generate converts every source file. Per-file failures are recorded in the
// report; the returned error is a schema load failure or a *WriteError, both
// of which stop the run.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	report := &Report{}
	if _, err := g.Tables(ctx); err != nil {
		return report, err
	}

	for _, dir := range g.Opts.Sources {
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.With("dir", dir, "error", err).Warn("unable to list source directory")
			report.add(Result{Source: dir, Status: StatusFailed, Err: &FileError{Path: dir, Err: err}})
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isSource(e.Name(), g.Opts) {
				continue
			}
			res, err := g.ConvertFile(ctx, filepath.Join(dir, e.Name()))
			report.add(res)
			if err != nil {
				return report, err
			}
		}
	}

	slog.With(
		"generated", len(report.Generated()),
		"skipped", len(report.Skipped()),
		"failed", len(report.Failed()),
	).Info("generation finished")
	return report, nil
}

// ConvertFile runs the pipeline for one source file. The error is non-nil
// only when the run must stop; everything else is described by the Result.
func (g *Generator) ConvertFile(ctx context.Context, path string) (Result, error) {
	res := Result{Source: path}
	l := slog.With("file", path)

	tables, err := g.Tables(ctx)
	if err != nil {
		return res.fail(err), err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		l.With("error", err).Error("unable to read source")
		return res.fail(err), nil
	}

	class, err := parser.Parse(string(src))
	if errors.Is(err, parser.ErrNoMatch) {
		l.Debug("no class declaration, skipped")
		res.Status = StatusSkipped
		return res, nil
	}
	if err != nil {
		l.With("error", err).Error("unable to parse source")
		return res.fail(err), nil
	}
	res.Class = class.Name
	if shouldOmitClass(class, g.Opts) {
		l.With("class", class.Name).Debug("class excluded, skipped")
		res.Status = StatusSkipped
		return res, nil
	}

	dest := g.Opts.ClassesDir
	if isEnumLike(class, g.Opts) {
		class.Kind = model.KindEnum
		dest = g.Opts.EnumsDir
	} else if g.Opts.AddUUID {
		addUUID(class)
	}
	res.Kind = class.Kind
	res.Output = filepath.Join(dest, class.Name+g.Opts.OutputExt)

	res.Outcome, err = g.merger.Merge(class, tables)
	if err != nil {
		l.With("class", class.Name, "error", err).Error("schema merge failed, file not generated")
		return res.fail(err), nil
	}

	regions, err := region.Extract(res.Output)
	if err != nil {
		// never overwrite a file whose user regions could not be read
		l.With("output", res.Output, "error", err).Error("unable to read existing output")
		return res.fail(err), nil
	}
	if len(regions.Malformed) > 0 {
		l.With("output", res.Output, "regions", regions.Malformed).Warn("unpaired region markers, region treated as empty")
	}
	res.Malformed = regions.Malformed
	class.PreservedImports = regions.Imports
	class.PreservedDeclarations = regions.Declarations

	text := render.Render(class, g.Opts.Render)
	if err := g.writer.WriteFile(res.Output, []byte(text)); err != nil {
		werr := &WriteError{Path: res.Output, Err: err}
		res.Status, res.Err = StatusFailed, werr
		return res, werr
	}

	l.With("class", class.Name, "kind", class.Kind.String(), "output", res.Output, "schema", res.Outcome.String()).Info("generated")
	res.Status = StatusGenerated
	return res, nil
}

// addUUID gives a class the client-side identifier every generated model
// carries: `public uuid: string = uuid()` plus its import.
func addUUID(c *model.Class) {
	c.AddImport(&model.Import{Name: "uuid", Target: "uuidv4"})
	c.SetMember(&model.Member{
		Name:            "uuid",
		Type:            model.TypeExpr{Name: "string"},
		AccessModifiers: []string{"public"},
		InitialValue:    "uuid()",
	})
}
