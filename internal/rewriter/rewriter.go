// Package rewriter applies a frozen symbol table to source text. The
// file is shielded first, every resolvable occurrence is replaced with
// word-boundary-safe matching, multipart selector names are replaced
// atomically or not at all, and shielded regions are restored untouched.
package rewriter

import (
	"sort"
	"strings"

	"github.com/cloakwork/objcloak/internal/extractor"
	"github.com/cloakwork/objcloak/internal/shield"
	"github.com/cloakwork/objcloak/internal/symtab"
)

// Rewrite transforms one file. The table must be frozen; rewriting only
// reads it, so files can be rewritten concurrently.
func Rewrite(fileText string, dialect extractor.Dialect, table *symtab.Table) string {
	clean, regions := shield.Shield(fileText, dialect)

	for _, e := range table.Entries() {
		if e.Obfuscated == e.Original {
			continue
		}
		if e.Multipart {
			clean = rewriteMultipart(clean, e)
		} else {
			clean = rewriteWord(clean, dialect, e)
		}
	}

	return shield.Restore(clean, regions)
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// boundaryAt reports whether [start, end) sits on identifier boundaries.
func boundaryAt(text string, start, end int) bool {
	if start > 0 && isIdentChar(text[start-1]) {
		return false
	}
	if end < len(text) && isIdentChar(text[end]) {
		return false
	}
	return true
}

// rewriteWord replaces whole-word occurrences of a simple (non-colon)
// name. For Objective-C method names an occurrence directly followed by
// a colon is a keyword segment of some other selector, never the bare
// method, so it is skipped. The rule is scoped to methods: every other
// kind sits before a colon in ordinary syntax (`@interface Foo: Bar`,
// `case kConst:`, Swift `var host: String`) and is renamed there too.
func rewriteWord(text string, dialect extractor.Dialect, e symtab.Entry) string {
	var sb strings.Builder
	name := e.Original
	i := 0
	for {
		j := strings.Index(text[i:], name)
		if j < 0 {
			sb.WriteString(text[i:])
			break
		}
		start := i + j
		end := start + len(name)
		skip := !boundaryAt(text, start, end)
		if !skip && dialect == extractor.DialectObjC && e.Kind == extractor.KindMethod &&
			end < len(text) && text[end] == ':' {
			skip = true
		}
		if skip {
			sb.WriteString(text[i:end])
			i = end
			continue
		}
		sb.WriteString(text[i:start])
		sb.WriteString(e.Obfuscated)
		i = end
	}
	return sb.String()
}

// span marks one identifier occurrence to replace.
type span struct {
	start, end  int
	replacement string
}

// rewriteMultipart replaces every complete occurrence of a multipart
// selector. A match requires each segment, in order, at the same bracket
// nesting level within one statement; anything less is left untouched so
// a call site is never half-renamed.
func rewriteMultipart(text string, e symtab.Entry) string {
	segs := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		segs[i] = strings.TrimSuffix(p, ":")
	}
	newSegs := strings.Split(strings.TrimSuffix(e.Obfuscated, ":"), ":")
	if len(newSegs) != len(segs) {
		return text
	}

	var spans []span
	i := 0
	for {
		j := strings.Index(text[i:], segs[0])
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(segs[0])
		if !boundaryAt(text, start, end) || end >= len(text) || text[end] != ':' {
			i = start + 1
			continue
		}

		matched := []span{{start: start, end: end, replacement: newSegs[0]}}
		pos := end + 1
		ok := true
		for k := 1; k < len(segs); k++ {
			s, next, found := findSegment(text, pos, segs[k])
			if !found {
				ok = false
				break
			}
			matched = append(matched, span{start: s, end: s + len(segs[k]), replacement: newSegs[k]})
			pos = next
		}

		if ok {
			spans = append(spans, matched...)
			i = pos
		} else {
			i = start + 1
		}
	}

	return applySpans(text, spans)
}

// findSegment scans forward for the next selector segment at the same
// nesting level. It gives up at a statement or scope boundary: a
// semicolon or brace at the starting level, or a bracket that closes the
// enclosing expression. Returns the segment start and the position just
// past its colon.
func findSegment(text string, from int, seg string) (int, int, bool) {
	depth := 0
	for i := from; i < len(text); i++ {
		c := text[i]
		switch c {
		case '[', '(', '{':
			if c == '{' && depth == 0 {
				return 0, 0, false // method body begins; signature is over
			}
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return 0, 0, false // closed the enclosing call
			}
		case ';':
			if depth == 0 {
				return 0, 0, false
			}
		default:
			if depth == 0 && c == seg[0] && strings.HasPrefix(text[i:], seg) {
				end := i + len(seg)
				if boundaryAt(text, i, end) && end < len(text) && text[end] == ':' {
					return i, end + 1, true
				}
			}
		}
	}
	return 0, 0, false
}

// applySpans rewrites the collected identifier spans, right to left so
// earlier offsets stay valid.
func applySpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })
	for _, sp := range spans {
		text = text[:sp.start] + sp.replacement + text[sp.end:]
	}
	return text
}
