// Package extractor scans shielded source text and emits the symbols a
// project declares. It is a structural line scanner, not a compiler front
// end: it locates declarations and their call-site shapes and skips
// anything it cannot parse.
package extractor

import (
	"path/filepath"
	"strings"
)

// Kind is the category of a declared symbol.
type Kind string

const (
	KindClass    Kind = "class"
	KindProtocol Kind = "protocol"
	KindCategory Kind = "category"
	KindEnum     Kind = "enum"
	KindMethod   Kind = "method"
	KindProperty Kind = "property"
	KindConstant Kind = "constant"
)

// AllKinds lists every symbol kind, in a stable order.
var AllKinds = []Kind{
	KindClass, KindProtocol, KindCategory, KindEnum,
	KindMethod, KindProperty, KindConstant,
}

// ParseKind converts a string to a Kind. The empty string and "auto" are
// accepted as the unspecified kind used by whitelist imports.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return "", true
	}
	for _, k := range AllKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Symbol is one declared identifier.
//
// For keyword-style multipart method names, Name is the concatenation of
// every colon-terminated segment ("doThing:second:") and Parts holds the
// individual segments. Multipart symbols are always renamed as a whole.
type Symbol struct {
	Name          string   `json:"name"`
	Kind          Kind     `json:"kind"`
	Multipart     bool     `json:"multipart,omitempty"`
	Parts         []string `json:"parts,omitempty"`
	DeclaringFile string   `json:"declaring_file,omitempty"`
	Line          int      `json:"line,omitempty"`
	EnclosingType string   `json:"enclosing_type,omitempty"`
}

// Dialect selects which scanner handles a file.
type Dialect string

const (
	DialectObjC  Dialect = "objc"
	DialectSwift Dialect = "swift"
)

// DialectForFile maps a file path to its dialect by extension.
func DialectForFile(path string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".m", ".mm":
		return DialectObjC, true
	case ".swift":
		return DialectSwift, true
	}
	return "", false
}

// Extract scans shielded text and returns the symbols it declares.
// The input must already have comments and string literals shielded;
// the scanner itself never inspects literal content.
func Extract(clean string, dialect Dialect, file string) []Symbol {
	switch dialect {
	case DialectObjC:
		return extractObjC(clean, file)
	case DialectSwift:
		return extractSwift(clean, file)
	}
	return nil
}
