package diff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/eloquentts/internal/schema"
	"github.com/cmmoran/eloquentts/pkg/generator"
)

// FileDiff is the pending change to one output file.
type FileDiff struct {
	Path string
	New  bool   // the file does not exist yet
	Diff string // cmp.Diff of current and regenerated text
}

// Result is a dry run: what generate would change, without writing anything.
type Result struct {
	Report  *generator.Report
	Changes []FileDiff
}

// Run regenerates into memory and compares every output with the file on
// disk. Unchanged files are left out of Changes.
func Run(ctx context.Context, opts *generator.Options, db schema.Config) (*Result, error) {
	provider, closer, err := schema.Open(db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()

	g, err := generator.NewWithOpts(provider, opts)
	if err != nil {
		return nil, err
	}
	mem := &generator.MemoryWriter{}
	report, err := g.UseWriter(mem).Generate(ctx)
	if err != nil {
		return nil, err
	}

	paths := mem.Paths()
	diffs := make([]*FileDiff, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			d, err := compare(p, mem.Files[p])
			if err != nil {
				return err
			}
			diffs[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Report: report}
	for _, d := range diffs {
		if d != nil {
			res.Changes = append(res.Changes, *d)
		}
	}
	return res, nil
}

// compare returns nil when the file on disk already matches want.
func compare(path string, want []byte) (*FileDiff, error) {
	have, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &FileDiff{Path: path, New: true, Diff: cmp.Diff("", string(want))}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if d := cmp.Diff(string(have), string(want)); d != "" {
		return &FileDiff{Path: path, Diff: d}, nil
	}
	return nil, nil
}

// Format renders the changes the way the diff command prints them.
func (r *Result) Format() string {
	if len(r.Changes) == 0 {
		return "no changes\n"
	}
	var b strings.Builder
	for _, c := range r.Changes {
		state := "modified"
		if c.New {
			state = "new"
		}
		fmt.Fprintf(&b, "--- %s (%s)\n%s\n", c.Path, state, c.Diff)
	}
	return b.String()
}
