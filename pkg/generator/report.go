package generator

import (
	"errors"

	"github.com/cmmoran/eloquentts/internal/merge"
	"github.com/cmmoran/eloquentts/internal/model"
)

type Status int

const (
	StatusGenerated Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result describes what happened to one source file.
type Result struct {
	Source    string
	Output    string // "" when the file never got that far
	Class     string
	Kind      model.ClassKind
	Outcome   merge.Outcome
	Status    Status
	Err       error
	Malformed []string // region tags whose markers were unpaired
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	if _, ok := err.(*FileError); !ok {
		err = &FileError{Path: r.Source, Err: err}
	}
	r.Err = err
	return r
}

// Report collects the Results of a run in processing order.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

func (r *Report) filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) Generated() []Result { return r.filter(StatusGenerated) }
func (r *Report) Skipped() []Result   { return r.filter(StatusSkipped) }
func (r *Report) Failed() []Result    { return r.filter(StatusFailed) }

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}
