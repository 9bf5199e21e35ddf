package extractor

import (
	"regexp"
	"strings"
)

var (
	swiftTypeRe = regexp.MustCompile(`\b(class|struct|protocol|enum|extension|actor)\s+([A-Za-z_]\w*)`)
	swiftFuncRe = regexp.MustCompile(`\bfunc\s+([A-Za-z_]\w*)\s*[(<]`)
	swiftVarRe  = regexp.MustCompile(`\b(var|let)\s+([A-Za-z_]\w*)`)

	// "class func"/"class var" declare members, not a nested type
	swiftDeclKeywords = map[string]bool{"func": true, "var": true, "let": true}
)

// swiftKindFor maps a Swift declaration keyword onto the shared symbol
// kinds. Structs and actors rename like classes; extensions rename like
// categories.
func swiftKindFor(keyword string) Kind {
	switch keyword {
	case "protocol":
		return KindProtocol
	case "enum":
		return KindEnum
	case "extension":
		return KindCategory
	default:
		return KindClass
	}
}

// extractSwift scans Swift source line by line, tracking brace depth so
// that only type members and file-scope declarations are recorded; local
// variables inside function bodies are not renameable symbols.
func extractSwift(clean, file string) []Symbol {
	var syms []Symbol
	lines := strings.Split(clean, "\n")

	type scope struct {
		name  string
		depth int // brace depth of the scope body
	}
	depth := 0
	var typeStack []scope

	enclosing := func() string {
		if len(typeStack) == 0 {
			return ""
		}
		return typeStack[len(typeStack)-1].name
	}
	// a declaration is a member when it sits at file scope or directly
	// inside the innermost type body
	atMemberDepth := func() bool {
		if len(typeStack) == 0 {
			return depth == 0
		}
		return depth == typeStack[len(typeStack)-1].depth
	}

	for ln, line := range lines {
		trimmed := strings.TrimSpace(line)
		lineNo := ln + 1

		if trimmed != "" && !strings.HasPrefix(trimmed, "@") {
			if m := swiftTypeRe.FindStringSubmatch(trimmed); m != nil && !swiftDeclKeywords[m[2]] && atMemberDepth() {
				kind := swiftKindFor(m[1])
				sym := Symbol{Name: m[2], Kind: kind, DeclaringFile: file, Line: lineNo, EnclosingType: enclosing()}
				if kind == KindCategory {
					// an extension extends an existing type; provenance
					// points at the extended type itself
					sym.EnclosingType = m[2]
				}
				syms = append(syms, sym)
				if strings.Contains(line, "{") {
					typeStack = append(typeStack, scope{name: m[2], depth: depth + 1})
				}
			} else if m := swiftFuncRe.FindStringSubmatch(trimmed); m != nil && atMemberDepth() {
				syms = append(syms, Symbol{Name: m[1], Kind: KindMethod, DeclaringFile: file, Line: lineNo, EnclosingType: enclosing()})
			} else if m := swiftVarRe.FindStringSubmatch(trimmed); m != nil && atMemberDepth() {
				kind := KindProperty
				if m[1] == "let" {
					kind = KindConstant
				}
				syms = append(syms, Symbol{Name: m[2], Kind: kind, DeclaringFile: file, Line: lineNo, EnclosingType: enclosing()})
			}
		}

		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '{':
				depth++
			case '}':
				depth--
				for len(typeStack) > 0 && depth < typeStack[len(typeStack)-1].depth {
					typeStack = typeStack[:len(typeStack)-1]
				}
			}
		}
	}
	return syms
}
