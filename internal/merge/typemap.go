package merge

import (
	"regexp"
	"strings"

	"github.com/cmmoran/eloquentts/internal/schema"
)

// TypeScript type names produced by the mapper.
const (
	TSNumber  = "number"
	TSString  = "string"
	TSBoolean = "boolean"
	TSDate    = "Date"
	TSAny     = "any"
)

// columnTypes covers MySQL, PostgreSQL, SQLite and SQL Server spellings plus
// the Doctrine DBAL type names.
var columnTypes = map[string]string{
	// numeric
	"tinyint":          TSNumber,
	"smallint":         TSNumber,
	"mediumint":        TSNumber,
	"int":              TSNumber,
	"integer":          TSNumber,
	"bigint":           TSNumber,
	"int2":             TSNumber,
	"int4":             TSNumber,
	"int8":             TSNumber,
	"serial":           TSNumber,
	"smallserial":      TSNumber,
	"bigserial":        TSNumber,
	"decimal":          TSNumber,
	"dec":              TSNumber,
	"numeric":          TSNumber,
	"fixed":            TSNumber,
	"float":            TSNumber,
	"float4":           TSNumber,
	"float8":           TSNumber,
	"double":           TSNumber,
	"double precision": TSNumber,
	"real":             TSNumber,
	"money":            TSNumber,
	"smallmoney":       TSNumber,
	"year":             TSNumber,

	// character, identifiers, binary
	"char":              TSString,
	"character":         TSString,
	"varchar":           TSString,
	"character varying": TSString,
	"nchar":             TSString,
	"nvarchar":          TSString,
	"varchar2":          TSString,
	"text":              TSString,
	"tinytext":          TSString,
	"mediumtext":        TSString,
	"longtext":          TSString,
	"ntext":             TSString,
	"citext":            TSString,
	"clob":              TSString,
	"string":            TSString,
	"ascii_string":      TSString,
	"uuid":              TSString,
	"guid":              TSString,
	"uniqueidentifier":  TSString,
	"enum":              TSString,
	"set":               TSString,
	"binary":            TSString,
	"varbinary":         TSString,
	"blob":              TSString,
	"tinyblob":          TSString,
	"mediumblob":        TSString,
	"longblob":          TSString,
	"bytea":             TSString,
	"inet":              TSString,
	"cidr":              TSString,
	"macaddr":           TSString,
	"xml":               TSString,
	"interval":          TSString,
	"dateinterval":      TSString,

	// boolean
	"bool":    TSBoolean,
	"boolean": TSBoolean,
	"bit":     TSBoolean,

	// date and time
	"date":                        TSDate,
	"date_immutable":              TSDate,
	"datetime":                    TSDate,
	"datetime2":                   TSDate,
	"datetime_immutable":          TSDate,
	"datetimetz":                  TSDate,
	"datetimetz_immutable":        TSDate,
	"datetimeoffset":              TSDate,
	"smalldatetime":               TSDate,
	"timestamp":                   TSDate,
	"timestamptz":                 TSDate,
	"timestamp with time zone":    TSDate,
	"timestamp without time zone": TSDate,
	"time":                        TSDate,
	"timetz":                      TSDate,
	"time_immutable":              TSDate,
	"time with time zone":         TSDate,
	"time without time zone":      TSDate,

	// structured
	"json":         TSAny,
	"jsonb":        TSAny,
	"array":        TSAny,
	"simple_array": TSAny,
	"object":       TSAny,
}

var (
	typeArgsRe  = regexp.MustCompile(`\s*\([^)]*\)`)
	typeFlagsRe = regexp.MustCompile(`\b(?:unsigned|signed|zerofill)\b`)
	boolIntRe   = regexp.MustCompile(`^tinyint\s*\(\s*1\s*\)`)
)

// TypeMapper converts database column types to TypeScript type names.
type TypeMapper struct {
	overrides map[string]string
}

// NewTypeMapper returns a mapper whose overrides, keyed by column type, take
// precedence over the built-in table. Keys are matched after normalisation.
func NewTypeMapper(overrides map[string]string) *TypeMapper {
	m := &TypeMapper{overrides: make(map[string]string, len(overrides))}
	for k, v := range overrides {
		m.overrides[NormalizeType(k)] = v
	}
	return m
}

// Convert maps c.DBType. Unknown types fail with *UnsupportedColumnTypeError;
// there is no default.
func (m *TypeMapper) Convert(c schema.Column) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(c.DBType))
	norm := NormalizeType(raw)

	if m != nil {
		if ts, ok := m.overrides[norm]; ok {
			return ts, nil
		}
	}
	if boolIntRe.MatchString(raw) {
		return TSBoolean, nil
	}

	array := strings.HasSuffix(norm, "[]")
	norm = strings.TrimSuffix(norm, "[]")
	ts, ok := columnTypes[norm]
	if !ok {
		return "", &UnsupportedColumnTypeError{Column: c.Name, DBType: c.DBType}
	}
	if array {
		return ts + "[]", nil
	}
	return ts, nil
}

// NormalizeType lower-cases a column type and strips length, precision and
// sign arguments: "DECIMAL(10,2) UNSIGNED" becomes "decimal".
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = typeArgsRe.ReplaceAllString(t, "")
	t = typeFlagsRe.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}
