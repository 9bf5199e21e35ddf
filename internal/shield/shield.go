// Package shield protects comment and string-literal regions of a source
// file from symbol scanning and rewriting. Recognized regions are swapped
// for unique placeholder tokens before any other processing and restored
// byte-for-byte afterwards.
package shield

import (
	"fmt"
	"strings"

	"github.com/cloakwork/objcloak/internal/extractor"
)

// RegionKind classifies a shielded region.
type RegionKind int

const (
	KindComment RegionKind = iota
	KindString
)

func (k RegionKind) String() string {
	if k == KindComment {
		return "comment"
	}
	return "string"
}

// Region is one shielded span of the original text.
type Region struct {
	Placeholder string
	Original    string
	Kind        RegionKind
}

// Placeholders are bracketed with \x01 so they can never collide with a
// real source token and never match an identifier word boundary.
const placeholderMark = "\x01"

func placeholder(kind RegionKind, n int) string {
	c := "S"
	if kind == KindComment {
		c = "C"
	}
	return fmt.Sprintf("%sOCK%s%d%s", placeholderMark, c, n, placeholderMark)
}

// lexer states
type state int

const (
	stCode state = iota
	stLineComment
	stBlockComment
	stString
)

// Shield replaces every comment and string literal in text with a unique
// placeholder and returns the cleaned text plus the regions needed to
// restore it. An unterminated comment or string extends to end of input
// rather than being an error.
//
// Recognized syntax:
//   - // line comments
//   - /* block comments */; these nest in Swift only, a C-family
//     block comment ends at the first */
//   - "..." and @"..." with backslash escapes
//   - '...' character literals with escapes
//   - """...""" multiline strings
//   - \( ... ) interpolation inside double-quoted strings; the whole run
//     including the interpolation body is shielded as one literal
func Shield(text string, dialect extractor.Dialect) (string, []Region) {
	var (
		out      strings.Builder
		regions  []Region
		st       = stCode
		start    = 0 // start of the current region, valid outside stCode
		depth    = 0 // block comment nesting
		quote    byte
		triple   bool
		interp   = 0 // paren depth inside \( ... )
		n        = len(text)
		regionNo = 0
	)
	out.Grow(n)

	emit := func(kind RegionKind, end int) {
		ph := placeholder(kind, regionNo)
		regionNo++
		regions = append(regions, Region{Placeholder: ph, Original: text[start:end], Kind: kind})
		out.WriteString(ph)
	}

	i := 0
	for i < n {
		c := text[i]
		switch st {
		case stCode:
			switch {
			case c == '/' && i+1 < n && text[i+1] == '/':
				st = stLineComment
				start = i
				i += 2
			case c == '/' && i+1 < n && text[i+1] == '*':
				st = stBlockComment
				start = i
				depth = 1
				i += 2
			case c == '"' && i+2 < n && text[i+1] == '"' && text[i+2] == '"':
				st = stString
				start = i
				quote = '"'
				triple = true
				interp = 0
				i += 3
			case c == '"' || c == '\'':
				st = stString
				start = i
				quote = c
				triple = false
				interp = 0
				i++
			case c == '@' && i+1 < n && text[i+1] == '"':
				st = stString
				start = i
				quote = '"'
				triple = false
				interp = 0
				i += 2
			default:
				out.WriteByte(c)
				i++
			}

		case stLineComment:
			if c == '\n' {
				emit(KindComment, i)
				out.WriteByte('\n')
				st = stCode
			}
			i++

		case stBlockComment:
			if c == '/' && i+1 < n && text[i+1] == '*' && dialect == extractor.DialectSwift {
				depth++
				i += 2
			} else if c == '*' && i+1 < n && text[i+1] == '/' {
				depth--
				i += 2
				if depth == 0 {
					emit(KindComment, i)
					st = stCode
				}
			} else {
				i++
			}

		case stString:
			switch {
			case c == '\\' && i+1 < n && text[i+1] == '(' && quote == '"':
				// interpolation opener; swallow up to the balancing paren
				interp++
				i += 2
			case interp > 0:
				if c == '(' {
					interp++
				} else if c == ')' {
					interp--
				}
				i++
			case c == '\\' && i+1 < n:
				i += 2 // escaped char, including \" and \'
			case triple && c == '"' && i+2 < n && text[i+1] == '"' && text[i+2] == '"':
				i += 3
				emit(KindString, i)
				st = stCode
			case !triple && c == quote:
				i++
				emit(KindString, i)
				st = stCode
			default:
				i++
			}
		}
	}

	// unterminated region runs to EOF
	if st != stCode {
		kind := KindString
		if st == stLineComment || st == stBlockComment {
			kind = KindComment
		}
		emit(kind, n)
	}

	return out.String(), regions
}

// Restore substitutes every placeholder back with its original text.
// It fully inverts Shield for placeholders the rewriter left untouched.
func Restore(text string, regions []Region) string {
	if len(regions) == 0 {
		return text
	}
	for _, r := range regions {
		text = strings.Replace(text, r.Placeholder, r.Original, 1)
	}
	return text
}
