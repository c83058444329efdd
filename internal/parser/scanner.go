package parser

import (
	"regexp"
	"strings"
)

var heredocOpenRe = regexp.MustCompile(`^<<<[ \t]*(["']?)([A-Za-z_]\w*)(["']?)\r?\n`)

// span is a half-open byte range [start, end) in the source text.
type span struct {
	start, end int
}

// masked holds three byte-for-byte aligned views of the same source text.
// Every offset valid in one view is valid in the others.
type masked struct {
	src       string // original text
	code      string // comments and string contents blanked
	noComment string // comments blanked, strings intact
	docs      []span // /** ... */ docblocks
}

// mask blanks comments and string bodies with spaces while keeping newlines,
// so that structural scanning never trips over braces or semicolons that live
// inside a literal or a comment.
func mask(src string) *masked {
	code := []byte(src)
	noComment := []byte(src)
	m := &masked{src: src}

	blank := func(buf []byte, from, to int) {
		for i := from; i < to && i < len(buf); i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}

	n := len(src)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/', c == '#' && !(i+1 < n && src[i+1] == '['):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			blank(code, i, end)
			blank(noComment, i, end)
			i = end
		case c == '#' && i+1 < n && src[i+1] == '[':
			// attribute: #[Name(...)]
			end := matchClose(src, i+1, '[', ']')
			blank(code, i, end)
			blank(noComment, i, end)
			i = end
		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			if i+2 < n && src[i+2] == '*' {
				m.docs = append(m.docs, span{i, end})
			}
			blank(code, i, end)
			blank(noComment, i, end)
			i = end
		case c == '<' && strings.HasPrefix(src[i:], "<<<"):
			end, ok := heredocEnd(src, i)
			if !ok {
				i += 3
				continue
			}
			// keep the <<< so the code view still shows a literal was here
			blank(code, i+3, end)
			i = end
		case c == '\'' || c == '"':
			end := i + 1
			for end < n && src[end] != c {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end < n {
				end++
			}
			// keep the quotes so the code view still shows a literal was here
			blank(code, i+1, end-1)
			i = end
		default:
			i++
		}
	}

	m.code = string(code)
	m.noComment = string(noComment)
	return m
}

// heredocEnd returns the offset just past the closing identifier of the
// heredoc or nowdoc starting at i. The closing identifier may be indented and
// must not be followed by an identifier character.
func heredocEnd(src string, i int) (int, bool) {
	open := heredocOpenRe.FindStringSubmatch(src[i:])
	if open == nil || open[1] != open[3] {
		return 0, false
	}
	label := open[2]
	for pos := i + len(open[0]); pos < len(src); {
		line := src[pos:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if rest, ok := strings.CutPrefix(trimmed, label); ok && (rest == "" || !isIdentByte(rest[0])) {
			return pos + len(line) - len(rest), true
		}
		pos += len(line) + 1
	}
	return len(src), true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// matchClose returns the offset just past the bracket closing the one at open,
// or len(s) when it is never closed. Only the given bracket pair is counted.
func matchClose(s string, open int, lb, rb byte) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case lb:
			depth++
		case rb:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// docBefore returns the text of the last docblock that ends inside [from, to).
func (m *masked) docBefore(from, to int) string {
	doc := ""
	for _, d := range m.docs {
		if d.end > from && d.end <= to {
			doc = m.src[d.start:d.end]
		}
	}
	return doc
}

// segment is one top-level statement of a class body.
type segment struct {
	span
	block bool // ends with a {...} body rather than a ';'
	head  int  // offset of the '{' opening the block body
}

// splitBody cuts the class body [from, to) of the code view into top-level
// statements. Semicolons and braces nested in parentheses or brackets do not
// split, so default parameter values and array literals stay intact.
func (m *masked) splitBody(from, to int) []segment {
	var (
		out   []segment
		start = from
		paren int
	)
	s := m.code
	for i := from; i < to; i++ {
		switch s[i] {
		case '(', '[':
			paren++
		case ')', ']':
			if paren > 0 {
				paren--
			}
		case ';':
			if paren == 0 {
				out = append(out, segment{span: span{start, i}})
				start = i + 1
			}
		case '{':
			if paren == 0 {
				end := matchClose(s[:to], i, '{', '}')
				out = append(out, segment{span: span{start, end}, block: true, head: i})
				start = end
				i = end - 1
			}
		}
	}
	if strings.TrimSpace(s[start:to]) != "" {
		out = append(out, segment{span: span{start, to}})
	}
	return out
}

// splitTopLevel splits [from, to) on commas that are not nested inside
// parentheses, brackets or braces, and returns the resulting spans.
func (m *masked) splitTopLevel(from, to int) []span {
	var (
		out   []span
		depth int
		start = from
	)
	s := m.code
	for i := from; i < to; i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, span{start, i})
				start = i + 1
			}
		}
	}
	return append(out, span{start, to})
}

// leadingSpace returns the offset of the first non-space byte of the code view
// in [from, to), or to when there is none.
func (m *masked) leadingSpace(from, to int) int {
	for i := from; i < to; i++ {
		switch m.code[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return i
	}
	return to
}
