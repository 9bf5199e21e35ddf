package extractor

import (
	"regexp"
	"strings"
)

var (
	objcInterfaceRe      = regexp.MustCompile(`^\s*@interface\s+([A-Za-z_]\w*)\s*(\(([A-Za-z_]\w*)?\))?`)
	objcImplementationRe = regexp.MustCompile(`^\s*@implementation\s+([A-Za-z_]\w*)\s*(\(([A-Za-z_]\w*)\))?`)
	objcProtocolRe       = regexp.MustCompile(`^\s*@protocol\s+([A-Za-z_]\w*)`)
	objcPropertyRe       = regexp.MustCompile(`^\s*@property\s*(\([^)]*\))?\s*[^;]*?[\s*]([A-Za-z_]\w*)\s*;`)
	objcNsEnumRe         = regexp.MustCompile(`typedef\s+NS_(?:ENUM|OPTIONS)\s*\(\s*\w+\s*,\s*([A-Za-z_]\w*)\s*\)`)
	objcEnumRe           = regexp.MustCompile(`^\s*enum\s+([A-Za-z_]\w*)\s*\{`)
	objcDefineRe         = regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_]\w*)\b`)
	objcConstRe          = regexp.MustCompile(`^\s*(?:static|extern|FOUNDATION_EXPORT|FOUNDATION_EXTERN|UIKIT_EXTERN)\b[^;=]*\bconst\b[^;=]*?([A-Za-z_]\w*)\s*(?:=|;)`)
	identRe              = regexp.MustCompile(`^[A-Za-z_]\w*`)
)

// extractObjC scans Objective-C header/implementation text line by line.
func extractObjC(clean, file string) []Symbol {
	var syms []Symbol
	lines := strings.Split(clean, "\n")
	enclosing := ""

	for ln := 0; ln < len(lines); ln++ {
		line := lines[ln]
		trimmed := strings.TrimSpace(line)
		lineNo := ln + 1

		switch {
		case strings.HasPrefix(trimmed, "@end"):
			enclosing = ""

		case strings.HasPrefix(trimmed, "@interface"):
			m := objcInterfaceRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			enclosing = m[1]
			if m[2] == "" {
				syms = append(syms, Symbol{Name: m[1], Kind: KindClass, DeclaringFile: file, Line: lineNo})
			} else if m[3] != "" {
				// @interface Foo (Category); a bare () is a class extension
				syms = append(syms, Symbol{Name: m[3], Kind: KindCategory, DeclaringFile: file, Line: lineNo, EnclosingType: m[1]})
			}

		case strings.HasPrefix(trimmed, "@implementation"):
			m := objcImplementationRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			enclosing = m[1]
			if m[3] != "" {
				syms = append(syms, Symbol{Name: m[3], Kind: KindCategory, DeclaringFile: file, Line: lineNo, EnclosingType: m[1]})
			} else {
				syms = append(syms, Symbol{Name: m[1], Kind: KindClass, DeclaringFile: file, Line: lineNo})
			}

		case strings.HasPrefix(trimmed, "@protocol"):
			// skip forward declarations: @protocol A, B;
			if strings.HasSuffix(trimmed, ";") {
				continue
			}
			if m := objcProtocolRe.FindStringSubmatch(line); m != nil {
				enclosing = m[1]
				syms = append(syms, Symbol{Name: m[1], Kind: KindProtocol, DeclaringFile: file, Line: lineNo})
			}

		case strings.HasPrefix(trimmed, "@property"):
			if m := objcPropertyRe.FindStringSubmatch(line); m != nil {
				syms = append(syms, Symbol{Name: m[2], Kind: KindProperty, DeclaringFile: file, Line: lineNo, EnclosingType: enclosing})
			}

		case strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+"):
			sig, consumed := joinSignature(lines, ln)
			if sym, ok := parseSelector(sig); ok {
				sym.DeclaringFile = file
				sym.Line = lineNo
				sym.EnclosingType = enclosing
				syms = append(syms, sym)
			}
			ln += consumed

		case strings.HasPrefix(trimmed, "#"):
			if m := objcDefineRe.FindStringSubmatch(line); m != nil {
				syms = append(syms, Symbol{Name: m[1], Kind: KindConstant, DeclaringFile: file, Line: lineNo})
			}

		default:
			if m := objcNsEnumRe.FindStringSubmatch(line); m != nil {
				syms = append(syms, Symbol{Name: m[1], Kind: KindEnum, DeclaringFile: file, Line: lineNo})
			} else if m := objcEnumRe.FindStringSubmatch(line); m != nil {
				syms = append(syms, Symbol{Name: m[1], Kind: KindEnum, DeclaringFile: file, Line: lineNo})
			} else if m := objcConstRe.FindStringSubmatch(line); m != nil {
				syms = append(syms, Symbol{Name: m[1], Kind: KindConstant, DeclaringFile: file, Line: lineNo})
			}
		}
	}
	return syms
}

// joinSignature merges a method signature that wraps across lines until a
// terminating ';' or '{' is found. Returns the joined text and how many
// extra lines were consumed. Bounded so a malformed file cannot swallow
// the rest of the input.
func joinSignature(lines []string, start int) (string, int) {
	const maxJoin = 8
	sig := lines[start]
	consumed := 0
	for !strings.ContainsAny(sig, ";{") && consumed < maxJoin && start+consumed+1 < len(lines) {
		consumed++
		sig += " " + lines[start+consumed]
	}
	return sig, consumed
}

// parseSelector parses an Objective-C method signature into a method
// symbol. Parameter types and parameter names are dropped: the symbol
// name is the concatenation of each segment with its trailing colon.
// A signature with no colon-terminated segments yields the bare selector.
func parseSelector(sig string) (Symbol, bool) {
	s := strings.TrimSpace(sig)
	if len(s) == 0 || (s[0] != '-' && s[0] != '+') {
		return Symbol{}, false
	}
	s = strings.TrimSpace(s[1:])

	// return type annotation
	if strings.HasPrefix(s, "(") {
		rest, ok := skipBalanced(s, '(', ')')
		if !ok {
			return Symbol{}, false
		}
		s = strings.TrimSpace(rest)
	}

	var parts []string
	for {
		s = strings.TrimSpace(s)
		id := identRe.FindString(s)
		if id == "" {
			break
		}
		s = s[len(id):]
		trimmed := strings.TrimSpace(s)
		if !strings.HasPrefix(trimmed, ":") {
			if len(parts) == 0 {
				// no-argument form: a single bare identifier
				return Symbol{Name: id, Kind: KindMethod, Parts: []string{id}}, true
			}
			break
		}
		parts = append(parts, id+":")
		s = strings.TrimSpace(trimmed[1:])

		// drop the parameter type annotation, if present
		if strings.HasPrefix(s, "(") {
			rest, ok := skipBalanced(s, '(', ')')
			if !ok {
				break
			}
			s = strings.TrimSpace(rest)
		}
		// drop the parameter name
		if pn := identRe.FindString(s); pn != "" {
			s = s[len(pn):]
		}
		if t := strings.TrimSpace(s); t == "" || t[0] == ';' || t[0] == '{' || t[0] == ',' {
			break
		}
	}

	if len(parts) == 0 {
		return Symbol{}, false
	}
	return Symbol{
		Name:      strings.Join(parts, ""),
		Kind:      KindMethod,
		Multipart: true,
		Parts:     parts,
	}, true
}

// skipBalanced skips a balanced open..close run at the start of s and
// returns what follows it.
func skipBalanced(s string, open, close byte) (string, bool) {
	if len(s) == 0 || s[0] != open {
		return s, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[i+1:], true
			}
		}
	}
	return s, false
}
