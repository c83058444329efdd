package model

import (
	"strings"
)

// Class is the in-memory representation of one parsed class or enum declaration.
// It is created by the parser, mutated by the merger and the region extractor,
// and consumed once by the renderer.
type Class struct {
	Name         string // declared class name
	BaseTypeName string // "" when the declaration extends nothing
	Kind         ClassKind

	Members   *OrderedMap[string, *Member]
	Relations []Relation
	Imports   *OrderedMap[string, *Import]
	Uses      map[string]string // PHP use alias → fully-qualified name

	PreservedImports      string // user text between the import markers
	PreservedDeclarations string // user text between the declaration markers
}

// NewClass returns an empty ordinary class named name.
func NewClass(name string) *Class {
	return &Class{
		Name:    name,
		Kind:    KindClass,
		Members: NewOrderedMap[string, *Member](),
		Imports: NewOrderedMap[string, *Import](),
		Uses:    make(map[string]string),
	}
}

// HasMember reports whether a member called name exists.
func (c *Class) HasMember(name string) bool {
	return c.Members.Has(name)
}

// SetMember adds m or overwrites the member with the same name in place.
func (c *Class) SetMember(m *Member) {
	c.Members.Set(m.Name, m)
}

// AddImport registers an import, overwriting any import of the same symbol.
func (c *Class) AddImport(i *Import) {
	c.Imports.Set(i.Name, i)
}

// IsEnum reports whether the class renders as an enum.
func (c *Class) IsEnum() bool {
	return c.Kind == KindEnum
}

type TypeExpr struct {
	Name         string // "number", "string", "Order", ...
	IsCollection bool   // zero-or-many of Name
}

// String renders the type the way TypeScript spells it.
func (t TypeExpr) String() string {
	name := t.Name
	if name == "" {
		name = "any"
	}
	if t.IsCollection {
		return name + "[]"
	}
	return name
}

type Member struct {
	Name            string
	Type            TypeExpr
	AccessModifiers []string // e.g. ["public"], ["protected", "static"]
	InitialValue    string   // verbatim source text, "" when absent
	IsConst         bool
}

// StringValue returns the unquoted value of a string-literal initial value.
// Non-string initial values are returned trimmed but otherwise untouched.
func (m *Member) StringValue() string {
	v := strings.TrimSpace(m.InitialValue)
	if s, ok := UnquoteString(v); ok {
		return s
	}
	return v
}

// UnquoteString unquotes a single- or double-quoted PHP string literal, or a
// heredoc/nowdoc.
func UnquoteString(v string) (string, bool) {
	if strings.HasPrefix(v, "<<<") {
		return unquoteHeredoc(v)
	}
	if len(v) < 2 {
		return "", false
	}
	q := v[0]
	if (q != '\'' && q != '"') || v[len(v)-1] != q {
		return "", false
	}
	body := v[1 : len(v)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == q {
			// an unescaped quote means this is not a single literal ('a' . 'b')
			return "", false
		}
		if c == '\\' && i+1 < len(body) {
			n := body[i+1]
			switch {
			case n == q || n == '\\':
				b.WriteByte(n)
				i++
				continue
			case q == '"' && n == 'n':
				b.WriteByte('\n')
				i++
				continue
			case q == '"' && n == 't':
				b.WriteByte('\t')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String(), true
}

// unquoteHeredoc returns the body of <<<ID ... ID with the closing
// identifier's indentation removed from every line. Escapes and
// interpolation are kept as written.
func unquoteHeredoc(v string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(v, "\r", ""), "\n")
	if len(lines) < 2 {
		return "", false
	}
	label := strings.TrimSpace(strings.TrimPrefix(lines[0], "<<<"))
	if n := len(label); n >= 2 && (label[0] == '"' || label[0] == '\'') && label[n-1] == label[0] {
		label = label[1 : n-1]
	}
	last := lines[len(lines)-1]
	closing := strings.TrimLeft(last, " \t")
	if label == "" || closing != label {
		return "", false
	}
	indent := last[:len(last)-len(closing)]
	body := lines[1 : len(lines)-1]
	for i, l := range body {
		body[i] = strings.TrimPrefix(l, indent)
	}
	return strings.Join(body, "\n"), true
}

type Relation struct {
	Name            string // method name declaring the relation
	Kind            RelationKind
	TargetClassName string // short class name, namespace stripped
}

type Import struct {
	Name   string // imported symbol, e.g. "Order" or "{ uuid }"
	Target string // module, e.g. "./Order"
}
