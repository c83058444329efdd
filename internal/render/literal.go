package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cmmoran/eloquentts/internal/model"
)

var (
	identRe     = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	classConstR = regexp.MustCompile(`^(self|static)::([A-Za-z_]\w*)$`)
)

// literal translates a PHP initial value into TypeScript. Scalars, string
// literals and array literals are rewritten; anything else is copied as is.
func literal(v string, class string, q quoter) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	switch lower := strings.ToLower(v); lower {
	case "true", "false", "null":
		return lower
	}
	if s, ok := model.UnquoteString(v); ok {
		return q.quote(s)
	}
	if m := classConstR.FindStringSubmatch(v); m != nil {
		return class + "." + m[2]
	}
	if body, ok := arrayBody(v); ok {
		return array(body, class, q)
	}
	return v
}

// arrayBody returns the inside of [ ... ] or array( ... ) when v is exactly
// one such literal.
func arrayBody(v string) (string, bool) {
	switch {
	case strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]"):
		if closeAt(v, 0) != len(v)-1 {
			return "", false
		}
		return v[1 : len(v)-1], true
	case len(v) > 6 && strings.EqualFold(v[:5], "array") && strings.HasSuffix(v, ")"):
		open := strings.IndexByte(v, '(')
		if open < 0 || strings.TrimSpace(v[5:open]) != "" || closeAt(v, open) != len(v)-1 {
			return "", false
		}
		return v[open+1 : len(v)-1], true
	}
	return "", false
}

// array renders a PHP array body as a TS array, or as an object literal when
// any element is keyed.
func array(body, class string, q quoter) string {
	elems := split(body, ",")
	if n := len(elems); n > 0 && strings.TrimSpace(elems[n-1]) == "" {
		elems = elems[:n-1]
	}
	if len(elems) == 0 {
		return "[]"
	}

	keyed := false
	for _, e := range elems {
		if len(split(e, "=>")) == 2 {
			keyed = true
			break
		}
	}

	out := make([]string, 0, len(elems))
	for i, e := range elems {
		if !keyed {
			out = append(out, literal(e, class, q))
			continue
		}
		kv := split(e, "=>")
		if len(kv) != 2 {
			// positional entry inside a keyed array keeps its index as key
			out = append(out, strconv.Itoa(i)+": "+literal(e, class, q))
			continue
		}
		out = append(out, q.key(objectKey(kv[0]))+": "+literal(kv[1], class, q))
	}
	if keyed {
		return "{ " + strings.Join(out, ", ") + " }"
	}
	return "[" + strings.Join(out, ", ") + "]"
}

func objectKey(k string) string {
	k = strings.TrimSpace(k)
	if s, ok := model.UnquoteString(k); ok {
		return s
	}
	return k
}

// split cuts s on sep where sep is not nested in brackets or quotes.
func split(s, sep string) []string {
	var (
		out   []string
		depth int
		start int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				out = append(out, s[start:i])
				start = i + len(sep)
				i += len(sep) - 1
			}
		}
	}
	return append(out, s[start:])
}

// closeAt returns the index of the bracket closing the one at open, skipping
// quoted text, or -1.
func closeAt(s string, open int) int {
	var (
		depth int
		quote byte
	)
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// quoter writes string literals in the configured quote style.
type quoter byte

func (q quoter) quote(s string) string {
	var b strings.Builder
	b.WriteByte(byte(q))
	for _, r := range s {
		switch r {
		case rune(q), '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(byte(q))
	return b.String()
}

// key renders an object key bare when it is a valid identifier or a number.
func (q quoter) key(k string) string {
	if identRe.MatchString(k) || isDigits(k) {
		return k
	}
	return q.quote(k)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
