package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cmmoran/eloquentts/internal/model"
	"github.com/cmmoran/eloquentts/internal/region"
)

const (
	QuoteDouble = "double"
	QuoteSingle = "single"
	IndentTab   = "tab"
)

// Options are purely cosmetic.
//
// Indent       – number of spaces per level, or "tab".
// Semicolons   – terminate statements with ';'.
// Quote        – "double" or "single" quotes for string literals and import paths.
// EmitBaseType – keep the PHP base class as an extends clause.
type Options struct {
	Indent       string `json:"indent,omitempty" yaml:"indent,omitempty" mapstructure:"indent,omitempty"`
	Semicolons   bool   `json:"semicolons,omitempty" yaml:"semicolons,omitempty" mapstructure:"semicolons,omitempty"`
	Quote        string `json:"quote,omitempty" yaml:"quote,omitempty" mapstructure:"quote,omitempty"`
	EmitBaseType bool   `json:"emit_base_type,omitempty" yaml:"emit_base_type,omitempty" mapstructure:"emit_base_type,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		Indent:     "4",
		Semicolons: true,
		Quote:      QuoteDouble,
	}
}

func (o Options) indent() string {
	if strings.EqualFold(o.Indent, IndentTab) || o.Indent == "\t" {
		return "\t"
	}
	n, err := strconv.Atoi(strings.TrimSpace(o.Indent))
	if err != nil || n < 0 {
		n = 4
	}
	return strings.Repeat(" ", n)
}

func (o Options) quoter() quoter {
	if strings.EqualFold(o.Quote, QuoteSingle) {
		return '\''
	}
	return '"'
}

func (o Options) end() string {
	if o.Semicolons {
		return ";"
	}
	return ""
}

// Render writes class as a TypeScript module. The output is a pure function
// of its inputs:
//
//	generated imports
//	import marker pair around the preserved imports
//
//	export class|enum Name {
//	    generated members in merge order
//
//	    declaration marker pair around the preserved declarations
//	}
func Render(class *model.Class, opts Options) string {
	var (
		b      strings.Builder
		indent = opts.indent()
		q      = opts.quoter()
		end    = opts.end()
	)

	// enums only carry constants, so nothing they render needs an import
	if !class.IsEnum() {
		preserved := importedSymbols(class.PreservedImports)
		for _, imp := range class.Imports.Values() {
			if preserved[imp.Name] {
				continue
			}
			b.WriteString("import { " + imp.Name + " } from " + q.quote(imp.Target) + end + "\n")
		}
	}
	writeRegion(&b, "", region.ImportsTag, class.PreservedImports)
	b.WriteString("\n")

	written := 0
	if class.IsEnum() {
		b.WriteString("export enum " + class.Name + " {\n")
		for _, m := range class.Members.Values() {
			if !m.IsConst {
				continue
			}
			b.WriteString(indent + m.Name)
			if v := literal(m.InitialValue, class.Name, q); v != "" {
				b.WriteString(" = " + v)
			}
			b.WriteString(",\n")
			written++
		}
	} else {
		b.WriteString("export class " + class.Name)
		if opts.EmitBaseType && class.BaseTypeName != "" {
			b.WriteString(" extends " + class.BaseTypeName)
		}
		b.WriteString(" {\n")
		for _, m := range class.Members.Values() {
			b.WriteString(indent + member(m, class.Name, q) + end + "\n")
			written++
		}
	}
	if written > 0 {
		b.WriteString("\n")
	}
	writeRegion(&b, indent, region.DeclarationsTag, class.PreservedDeclarations)
	b.WriteString("}\n")

	return b.String()
}

func member(m *model.Member, class string, q quoter) string {
	var b strings.Builder
	for _, mod := range m.AccessModifiers {
		b.WriteString(mod + " ")
	}
	b.WriteString(m.Name + ": " + m.Type.String())
	if v := literal(m.InitialValue, class, q); v != "" {
		b.WriteString(" = " + v)
	}
	return b.String()
}

// writeRegion emits a marker pair with text between it verbatim.
func writeRegion(b *strings.Builder, indent, tag, text string) {
	b.WriteString(indent + region.StartMarker(tag) + "\n")
	if text != "" {
		b.WriteString(text + "\n")
	}
	b.WriteString(indent + region.EndMarker(tag) + "\n")
}

var importClauseRe = regexp.MustCompile(`(?s)\bimport\s+(?:type\s+)?(.+?)\s+from\s*['"]`)

// importedSymbols returns the local names bound by import statements in text.
func importedSymbols(text string) map[string]bool {
	out := make(map[string]bool)
	for _, clause := range importClauseRe.FindAllStringSubmatch(text, -1) {
		c := clause[1]
		if i := strings.Index(c, "* as "); i >= 0 {
			out[strings.TrimSpace(c[i+5:])] = true
			continue
		}
		for _, part := range strings.FieldsFunc(c, func(r rune) bool { return r == ',' || r == '{' || r == '}' }) {
			// "Order", "type Order", "Order as O": the last word is the local name
			if fields := strings.Fields(part); len(fields) > 0 {
				out[fields[len(fields)-1]] = true
			}
		}
	}
	return out
}
