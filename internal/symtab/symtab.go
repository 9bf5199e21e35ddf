// Package symtab holds the project-wide rename map. The table is built
// once, after every file has been scanned, and frozen before any
// rewriting starts; that ordering is what guarantees a symbol declared
// in one file and referenced in another is renamed identically
// everywhere.
package symtab

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cloakwork/objcloak/internal/extractor"
)

// Entry is one resolved rename.
type Entry struct {
	Original      string         `json:"original"`
	Obfuscated    string         `json:"obfuscated"`
	Kind          extractor.Kind `json:"kind"`
	FirstSeenFile string         `json:"first_seen_file,omitempty"`
	Multipart     bool           `json:"-"`
	Parts         []string       `json:"-"`
}

// Table maps original names to their obfuscated replacements.
type Table struct {
	mu      sync.RWMutex
	entries map[string]Entry
	frozen  bool
}

// New returns an empty, unfrozen table.
func New() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Insert records a rename. Inserting after Freeze is a programming
// error and is rejected. Inserting the same original twice keeps the
// first entry; callers are expected to deduplicate by name beforehand.
func (t *Table) Insert(sym extractor.Symbol, obfuscated string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return fmt.Errorf("symbol table is frozen; cannot insert %q", sym.Name)
	}
	if _, exists := t.entries[sym.Name]; exists {
		return nil
	}
	t.entries[sym.Name] = Entry{
		Original:      sym.Name,
		Obfuscated:    obfuscated,
		Kind:          sym.Kind,
		FirstSeenFile: sym.DeclaringFile,
		Multipart:     sym.Multipart,
		Parts:         sym.Parts,
	}
	return nil
}

// Resolve returns the obfuscated name for an original, if present.
func (t *Table) Resolve(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[name]
	if !ok {
		return "", false
	}
	return e.Obfuscated, true
}

// Lookup returns the full entry for an original name.
func (t *Table) Lookup(name string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[name]
	return e, ok
}

// ReverseLookup finds the entry whose obfuscated name matches.
func (t *Table) ReverseLookup(obfuscated string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.Obfuscated == obfuscated {
			return e, true
		}
	}
	return Entry{}, false
}

// Freeze makes the table read-only for the rest of the run.
func (t *Table) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns all entries sorted by original name, longest name
// first within equal prefixes so rewriters can match greedily.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Original) != len(out[j].Original) {
			return len(out[i].Original) > len(out[j].Original)
		}
		return out[i].Original < out[j].Original
	})
	return out
}
