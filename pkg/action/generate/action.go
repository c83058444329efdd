package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmmoran/eloquentts/internal/schema"
	"github.com/cmmoran/eloquentts/pkg/generator"
	"github.com/cmmoran/eloquentts/pkg/manifest"
)

// Run opens the schema described by db, regenerates every model and, when
// opts.Manifest is set, records the outputs under version (a UTC timestamp
// when empty). Per-file failures are left in the report; the error is set
// only when the run was aborted.
func Run(ctx context.Context, opts *generator.Options, db schema.Config, version string) (*generator.Report, error) {
	provider, closer, err := schema.Open(db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()

	g, err := generator.NewWithOpts(provider, opts)
	if err != nil {
		return nil, err
	}
	report, err := g.Generate(ctx)
	if err != nil {
		return report, err
	}

	if g.Opts.Manifest != "" {
		if err := Record(g.Opts.Manifest, version, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Record adds the generated files of report to the manifest at path.
func Record(path, version string, report *generator.Report) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if version == "" {
		version = now.Format("20060102T150405Z")
	}
	r := manifest.Run{Version: version, Time: now}
	for _, res := range report.Generated() {
		r.Entries = append(r.Entries, manifest.Entry{
			Class:  res.Class,
			Kind:   res.Kind.String(),
			Source: res.Source,
			Output: res.Output,
			Schema: res.Outcome.String(),
		})
	}
	m.AddRun(r)

	if err := m.Save(path); err != nil {
		return err
	}
	if stale := m.Stale(); len(stale) > 0 {
		slog.With("files", stale).Warn("outputs from the previous run were not regenerated")
	}
	slog.With("manifest", path, "version", version, "entries", len(r.Entries)).Debug("manifest updated")
	return nil
}

// Summary renders one line per non-generated file plus totals.
func Summary(report *generator.Report) string {
	var s string
	for _, res := range report.Results {
		switch res.Status {
		case generator.StatusFailed:
			s += fmt.Sprintf("failed   %v\n", res.Err)
		case generator.StatusSkipped:
			s += fmt.Sprintf("skipped  %s\n", res.Source)
		}
	}
	return s + fmt.Sprintf("%d generated, %d skipped, %d failed\n",
		len(report.Generated()), len(report.Skipped()), len(report.Failed()))
}
