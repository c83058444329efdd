package merge

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/eloquentts/internal/model"
	"github.com/cmmoran/eloquentts/internal/schema"
)

// TableMember is the class member naming the backing table.
const TableMember = "table"

// Outcome describes what a merge did. Only OutcomeMerged touched the class.
type Outcome int

const (
	OutcomeMerged Outcome = iota
	OutcomeNotDatabaseBacked
	OutcomeNoSchema
	OutcomeTableNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMerged:
		return "merged"
	case OutcomeNotDatabaseBacked:
		return "not database backed"
	case OutcomeNoSchema:
		return "no schema"
	case OutcomeTableNotFound:
		return "table not found"
	}
	return "unknown"
}

// Options tune the merger. The zero value follows the plain algorithm.
type Options struct {
	// InferTableNames derives a table name (plural snake_case class name) for
	// classes that declare none.
	InferTableNames bool
	// ExcludeColumns lists "table:column" or bare "column" entries to skip.
	ExcludeColumns []string
	// TypeOverrides maps column types to TypeScript types ahead of the
	// built-in table.
	TypeOverrides map[string]string
}

// Merger overlays schema columns and parsed relations onto a class.
type Merger struct {
	mapper  *TypeMapper
	infer   bool
	exclude map[string]struct{}
}

func New(opts Options) *Merger {
	m := &Merger{
		mapper:  NewTypeMapper(opts.TypeOverrides),
		infer:   opts.InferTableNames,
		exclude: make(map[string]struct{}, len(opts.ExcludeColumns)),
	}
	for _, c := range opts.ExcludeColumns {
		if c = strings.TrimSpace(c); c != "" {
			m.exclude[strings.ToLower(c)] = struct{}{}
		}
	}
	return m
}

// Merge mutates class in place. Columns overwrite same-named members, then
// relations overwrite whatever is there, so a relation field replaces a
// column of the same name. When a column type cannot be mapped the class is
// left untouched and the error is returned.
func (m *Merger) Merge(class *model.Class, tables schema.Tables) (Outcome, error) {
	name, ok := m.tableName(class)
	if !ok {
		return OutcomeNotDatabaseBacked, nil
	}
	if len(tables) == 0 {
		return OutcomeNoSchema, nil
	}
	table, ok := tables.Find(name)
	if !ok {
		slog.With("class", class.Name, "table", name).Debug("table not found, schema merge skipped")
		return OutcomeTableNotFound, nil
	}

	columns := make([]*model.Member, 0, len(table.Columns))
	for _, c := range table.Columns {
		if m.excluded(table.Name, c.Name) {
			continue
		}
		ts, err := m.mapper.Convert(c)
		if err != nil {
			var ue *UnsupportedColumnTypeError
			if errors.As(err, &ue) {
				ue.Table = table.Name
			}
			return OutcomeMerged, err
		}
		columns = append(columns, &model.Member{
			Name:            c.Name,
			Type:            model.TypeExpr{Name: ts},
			AccessModifiers: []string{"public"},
		})
	}
	for _, member := range columns {
		class.SetMember(member)
	}

	for _, r := range class.Relations {
		class.SetMember(&model.Member{
			Name:            inflect.Underscore(r.Name),
			Type:            model.TypeExpr{Name: r.TargetClassName, IsCollection: r.Kind.IsCollection()},
			AccessModifiers: []string{"public"},
		})
		if r.TargetClassName != class.Name {
			class.AddImport(&model.Import{Name: r.TargetClassName, Target: "./" + r.TargetClassName})
		}
	}

	return OutcomeMerged, nil
}

// tableName reads the declared table member, or infers one when allowed.
func (m *Merger) tableName(class *model.Class) (string, bool) {
	if member, ok := class.Members.Get(TableMember); ok {
		return member.StringValue(), true
	}
	if !m.infer || class.IsEnum() {
		return "", false
	}
	return inflection.Plural(inflect.Underscore(class.Name)), true
}

func (m *Merger) excluded(table, column string) bool {
	if len(m.exclude) == 0 {
		return false
	}
	column = strings.ToLower(column)
	if _, ok := m.exclude[column]; ok {
		return true
	}
	_, ok := m.exclude[strings.ToLower(table)+":"+column]
	return ok
}
