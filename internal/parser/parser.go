package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/cmmoran/eloquentts/internal/model"
)

var (
	// ErrNoMatch reports that the input holds no recognisable class or enum
	// declaration. It is a skip signal, not a failure.
	ErrNoMatch = errors.New("no class declaration")
)

var (
	classDeclRe = regexp.MustCompile(`(?:^|[^:\w$>\\])(?:(?:abstract|final|readonly)\s+)*class\s+([A-Za-z_]\w*)(?:\s+extends\s+([\\\w]+))?(?:\s+implements\s+[\\\w,\s]+?)?\s*\{`)
	enumDeclRe  = regexp.MustCompile(`(?:^|[^:\w$>\\])enum\s+([A-Za-z_]\w*)(?:\s*:\s*\w+)?(?:\s+implements\s+[\\\w,\s]+?)?\s*\{`)
	useRe       = regexp.MustCompile(`(?m)^\s*use\s+\\?([\\\w]+)(?:\s+as\s+(\w+))?\s*;`)

	constRe    = regexp.MustCompile(`(?s)^((?:(?:public|protected|private|final)\s+)*)const\s+(.*)$`)
	constDefRe = regexp.MustCompile(`(?s)^(?:[?\\\w|]+\s+)?([A-Za-z_]\w*)\s*=\s*(.*)$`)
	caseRe     = regexp.MustCompile(`(?s)^case\s+([A-Za-z_]\w*)(?:\s*=\s*(.*))?$`)
	propRe     = regexp.MustCompile(`(?s)^((?:(?:public|protected|private|var|static|readonly)\s+)+)(\??[\\\w|]+(?:\[\])?\s+)?(\$.*)$`)
	propDefRe  = regexp.MustCompile(`(?s)^\$([A-Za-z_]\w*)\s*(?:=\s*(.*))?$`)
	funcRe     = regexp.MustCompile(`\bfunction\s+&?\s*([A-Za-z_]\w*)\s*\(`)
	varDocRe   = regexp.MustCompile(`@var\s+([^\s*]+)`)
	relationRe = regexp.MustCompile(`\$this\s*->\s*(` + relationCalls + `)\s*\(\s*([^,)]+)`)
)

const relationCalls = `hasManyThrough|hasMany|belongsToMany|morphMany|morphToMany|morphedByMany|hasOneThrough|hasOne|belongsTo|morphOne`

// relationKinds tags each relation-producing call with its cardinality.
var relationKinds = map[string]model.RelationKind{
	"hasMany":        model.ToMany,
	"hasManyThrough": model.ToMany,
	"belongsToMany":  model.ToMany,
	"morphMany":      model.ToMany,
	"morphToMany":    model.ToMany,
	"morphedByMany":  model.ToMany,
	"hasOne":         model.ToOne,
	"hasOneThrough":  model.ToOne,
	"belongsTo":      model.ToOne,
	"morphOne":       model.ToOne,
}

// phpScalars maps declared PHP types onto TypeScript.
var phpScalars = map[string]string{
	"int":      "number",
	"integer":  "number",
	"float":    "number",
	"double":   "number",
	"string":   "string",
	"bool":     "boolean",
	"boolean":  "boolean",
	"true":     "boolean",
	"false":    "boolean",
	"mixed":    "any",
	"object":   "any",
	"callable": "any",
	"null":     "any",

	"datetime":          "Date",
	"datetimeinterface": "Date",
	"datetimeimmutable": "Date",
	"carbon":            "Date",
	"carbonimmutable":   "Date",
}

// Parse converts PHP source text into a Class. The first class or enum
// declaration in the file wins; namespace, use, declare and comment
// boilerplate around it is ignored. Input without a declaration yields
// ErrNoMatch.
func Parse(src string) (*model.Class, error) {
	m := mask(src)

	var (
		loc  []int
		kind = model.KindClass
	)
	if cl := classDeclRe.FindStringSubmatchIndex(m.code); cl != nil {
		loc = cl
	}
	if en := enumDeclRe.FindStringSubmatchIndex(m.code); en != nil && (loc == nil || en[0] < loc[0]) {
		loc = en
		kind = model.KindEnum
	}
	if loc == nil {
		return nil, ErrNoMatch
	}

	class := model.NewClass(src[loc[2]:loc[3]])
	class.Kind = kind
	if kind == model.KindClass && len(loc) > 5 && loc[4] >= 0 {
		class.BaseTypeName = shortName(src[loc[4]:loc[5]])
	}

	for _, u := range useRe.FindAllStringSubmatch(m.code[:loc[0]], -1) {
		alias := shortName(u[1])
		if u[2] != "" {
			alias = u[2]
		}
		class.Uses[alias] = u[1]
	}

	open := loc[1] - 1
	closeAt := matchClose(m.code, open, '{', '}')
	bodyEnd := closeAt
	if bodyEnd > open+1 && m.code[bodyEnd-1] == '}' {
		bodyEnd--
	}

	for _, seg := range m.splitBody(open+1, bodyEnd) {
		parseSegment(class, m, seg)
	}

	return class, nil
}

// parseSegment dispatches one top-level class body statement.
func parseSegment(class *model.Class, m *masked, seg segment) {
	from := m.leadingSpace(seg.start, seg.end)
	if from >= seg.end {
		return
	}
	doc := m.docBefore(seg.start, from+1)

	headEnd := seg.end
	if seg.block {
		headEnd = seg.head
	}
	code := strings.TrimSpace(m.code[from:headEnd])

	switch {
	case strings.HasPrefix(code, "use "):
		// trait import
	case funcRe.MatchString(code):
		if seg.block {
			parseMethod(class, m, code, seg)
		}
	case caseRe.MatchString(code):
		parseCase(class, m, from, headEnd)
	case constRe.MatchString(code):
		parseConst(class, m, from, headEnd)
	case propRe.MatchString(code):
		parseProperty(class, m, doc, from, headEnd)
	}
}

// parseMethod records the relation established by a method body, if any.
func parseMethod(class *model.Class, m *masked, head string, seg segment) {
	name := funcRe.FindStringSubmatch(head)[1]
	body := m.noComment[seg.head:seg.end]
	match := relationRe.FindStringSubmatch(body)
	if match == nil {
		return
	}
	target := resolveTarget(class, strings.TrimSpace(match[2]))
	if target == "" {
		return
	}
	class.Relations = append(class.Relations, model.Relation{
		Name:            name,
		Kind:            relationKinds[match[1]],
		TargetClassName: target,
	})
}

// resolveTarget turns a relation target argument (Order::class, '\App\Order',
// "App\\Order", self::class) into a short class name.
func resolveTarget(class *model.Class, arg string) string {
	switch {
	case strings.HasSuffix(arg, "::class"):
		arg = strings.TrimSpace(strings.TrimSuffix(arg, "::class"))
		if arg == "self" || arg == "static" {
			return class.Name
		}
	default:
		s, ok := model.UnquoteString(arg)
		if !ok {
			return ""
		}
		arg = strings.ReplaceAll(s, `\\`, `\`)
	}
	if !strings.Contains(arg, `\`) {
		if fq, ok := class.Uses[arg]; ok {
			arg = fq
		}
	}
	return shortName(arg)
}

func parseCase(class *model.Class, m *masked, from, to int) {
	match := caseRe.FindStringSubmatch(strings.TrimSpace(m.noComment[from:to]))
	value := strings.TrimSpace(match[2])
	class.SetMember(&model.Member{
		Name:            match[1],
		Type:            literalType(value),
		AccessModifiers: []string{"public", "static", "readonly"},
		InitialValue:    value,
		IsConst:         true,
	})
}

func parseConst(class *model.Class, m *masked, from, to int) {
	code := m.code[from:to]
	loc := constRe.FindStringSubmatchIndex(code)
	modifiers := normalizeModifiers(strings.Fields(code[loc[2]:loc[3]]), "static", "readonly")
	for _, sp := range m.splitTopLevel(from+loc[4], to) {
		def := constDefRe.FindStringSubmatch(strings.TrimSpace(m.noComment[sp.start:sp.end]))
		if def == nil {
			continue
		}
		value := strings.TrimSpace(def[2])
		class.SetMember(&model.Member{
			Name:            def[1],
			Type:            literalType(value),
			AccessModifiers: modifiers,
			InitialValue:    value,
			IsConst:         true,
		})
	}
}

func parseProperty(class *model.Class, m *masked, doc string, from, to int) {
	code := m.code[from:to]
	loc := propRe.FindStringSubmatchIndex(code)
	modifiers := normalizeModifiers(strings.Fields(code[loc[2]:loc[3]]))

	declared := ""
	if loc[4] >= 0 {
		declared = strings.TrimSpace(code[loc[4]:loc[5]])
	} else if v := varDocRe.FindStringSubmatch(doc); v != nil {
		declared = v[1]
	}

	for _, sp := range m.splitTopLevel(from+loc[6], to) {
		def := propDefRe.FindStringSubmatch(strings.TrimSpace(m.noComment[sp.start:sp.end]))
		if def == nil {
			continue
		}
		value := strings.TrimSpace(def[2])
		typ := phpType(declared)
		if declared == "" {
			typ = literalType(value)
		}
		class.SetMember(&model.Member{
			Name:            def[1],
			Type:            typ,
			AccessModifiers: modifiers,
			InitialValue:    value,
		})
	}
}

// normalizeModifiers orders modifiers the way TypeScript requires them
// (visibility, static, readonly), maps var to public and defaults to public.
func normalizeModifiers(mods []string, extra ...string) []string {
	var (
		visibility = "public"
		static     bool
		readonly   bool
	)
	for _, mod := range append(mods, extra...) {
		switch mod {
		case "public", "protected", "private":
			visibility = mod
		case "static":
			static = true
		case "readonly":
			readonly = true
		}
	}
	out := []string{visibility}
	if static {
		out = append(out, "static")
	}
	if readonly {
		out = append(out, "readonly")
	}
	return out
}

// phpType maps a declared PHP type (from a typed property or @var tag) onto a
// TypeScript type expression.
func phpType(declared string) model.TypeExpr {
	declared = strings.TrimPrefix(strings.TrimSpace(declared), "?")
	if declared == "" {
		return model.TypeExpr{Name: "any"}
	}
	// string|null → string
	parts := strings.Split(declared, "|")
	declared = parts[0]
	for _, p := range parts {
		if !strings.EqualFold(p, "null") {
			declared = p
			break
		}
	}

	collection := false
	if strings.HasSuffix(declared, "[]") {
		collection = true
		declared = strings.TrimSuffix(declared, "[]")
	}
	declared = shortName(declared)
	lower := strings.ToLower(declared)
	switch lower {
	case "array", "iterable":
		return model.TypeExpr{Name: "any", IsCollection: true}
	}
	if ts, ok := phpScalars[lower]; ok {
		return model.TypeExpr{Name: ts, IsCollection: collection}
	}
	return model.TypeExpr{Name: declared, IsCollection: collection}
}

var numberRe = regexp.MustCompile(`^-?(?:\d[\d_]*)(?:\.\d+)?(?:[eE][-+]?\d+)?$`)

// literalType infers a TypeScript type from a PHP literal initial value.
func literalType(value string) model.TypeExpr {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	switch {
	case lower == "true" || lower == "false":
		return model.TypeExpr{Name: "boolean"}
	case numberRe.MatchString(v), strings.HasPrefix(lower, "0x"):
		return model.TypeExpr{Name: "number"}
	case strings.HasPrefix(v, "[") || strings.HasPrefix(lower, "array("):
		if strings.Contains(v, "=>") {
			// keyed arrays become object literals
			return model.TypeExpr{Name: "any"}
		}
		return model.TypeExpr{Name: "any", IsCollection: true}
	}
	if _, ok := model.UnquoteString(v); ok {
		return model.TypeExpr{Name: "string"}
	}
	return model.TypeExpr{Name: "any"}
}

// shortName strips a PHP namespace: \App\Models\Order → Order.
func shortName(fq string) string {
	fq = strings.TrimSpace(fq)
	if i := strings.LastIndex(fq, `\`); i >= 0 {
		return fq[i+1:]
	}
	return fq
}
