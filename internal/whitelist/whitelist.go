// Package whitelist decides which symbol names must never be renamed.
// Lookup is tier-ordered: built-in platform names, then names derived
// from dependency manifests, then user-maintained custom entries. The
// first tier containing a name wins.
package whitelist

import (
	"strings"

	"github.com/cloakwork/objcloak/internal/extractor"
)

// Tier identifies which whitelist level an entry belongs to.
type Tier string

const (
	TierBuiltIn    Tier = "builtin"
	TierThirdParty Tier = "third_party"
	TierCustom     Tier = "custom"
)

// Entry is one protected name. An empty Kind protects the name for every
// symbol kind; a set Kind protects only that kind.
type Entry struct {
	Name   string         `json:"name"`
	Kind   extractor.Kind `json:"kind,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Resolver answers "is this name protected" for one run. Built-in and
// third-party tiers are derived and read-only; only the custom tier is
// user-editable, and it is consulted last.
type Resolver struct {
	thirdParty map[string]Entry
	custom     map[string]Entry
	extra      map[string]bool // from config extra_protected, treated as custom tier
}

// NewResolver builds a resolver for one run. thirdParty comes from
// ScanManifests; custom from a loaded CustomList; extra from
// configuration.
func NewResolver(thirdParty map[string]Entry, custom *CustomList, extra []string) *Resolver {
	r := &Resolver{
		thirdParty: thirdParty,
		custom:     make(map[string]Entry),
		extra:      make(map[string]bool),
	}
	if r.thirdParty == nil {
		r.thirdParty = map[string]Entry{}
	}
	if custom != nil {
		for _, e := range custom.Entries {
			r.custom[e.Name] = e
		}
	}
	for _, name := range extra {
		r.extra[name] = true
	}
	return r
}

// IsProtected reports whether name/kind is protected by any tier.
func (r *Resolver) IsProtected(name string, kind extractor.Kind) bool {
	_, ok := r.Lookup(name, kind)
	return ok
}

// Lookup returns the tier that protects name/kind, if any. Tier order is
// BuiltIn, ThirdParty, Custom; the first match short-circuits.
func (r *Resolver) Lookup(name string, kind extractor.Kind) (Tier, bool) {
	if isBuiltIn(name, kind) {
		return TierBuiltIn, true
	}
	if e, ok := r.thirdParty[name]; ok && kindMatches(e.Kind, kind) {
		return TierThirdParty, true
	}
	if e, ok := r.custom[name]; ok && kindMatches(e.Kind, kind) {
		return TierCustom, true
	}
	if r.extra[name] {
		return TierCustom, true
	}
	return "", false
}

func kindMatches(entryKind, symbolKind extractor.Kind) bool {
	return entryKind == "" || entryKind == symbolKind
}

// isBuiltIn checks the shipped platform tables: exact names per kind,
// kind-agnostic names, and vendor prefixes for type-like kinds.
func isBuiltIn(name string, kind extractor.Kind) bool {
	if builtinAnyKind[name] {
		return true
	}
	switch kind {
	case extractor.KindClass, extractor.KindProtocol, extractor.KindCategory, extractor.KindEnum:
		if builtinTypes[name] {
			return true
		}
		for _, p := range builtinTypePrefixes {
			if strings.HasPrefix(name, p) && len(name) > len(p) {
				return true
			}
		}
	case extractor.KindMethod:
		if builtinSelectors[name] {
			return true
		}
	case extractor.KindProperty:
		if builtinProperties[name] {
			return true
		}
	case extractor.KindConstant:
		for _, p := range builtinConstantPrefixes {
			if strings.HasPrefix(name, p) && len(name) > len(p) {
				return true
			}
		}
	}
	return false
}
