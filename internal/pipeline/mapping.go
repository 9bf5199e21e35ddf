package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloakwork/objcloak/internal/symtab"
)

const mappingFormatVersion = 1

// Mapping is the persisted rename table of one run. It is what `whatis`
// reads to reverse an obfuscated name back to its original. The file
// carries no timestamp so two runs with the same seed over the same
// sources produce byte-identical output.
type Mapping struct {
	FormatVersion int            `json:"format_version"`
	Seed          int64          `json:"seed"`
	Entries       []symtab.Entry `json:"entries"`
}

// WriteMapping saves the frozen table next to the rewritten sources.
func WriteMapping(path string, seed int64, table *symtab.Table) error {
	m := Mapping{
		FormatVersion: mappingFormatVersion,
		Seed:          seed,
		Entries:       table.Entries(),
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating mapping directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing mapping file %s: %w", path, err)
	}
	return nil
}

// LoadMapping reads a mapping file written by a previous run.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", path, err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	if m.FormatVersion != mappingFormatVersion {
		return nil, fmt.Errorf("mapping file %s has unsupported format version %d", path, m.FormatVersion)
	}
	return &m, nil
}

// ReverseLookup finds the entry whose obfuscated name matches.
func (m *Mapping) ReverseLookup(obfuscated string) (symtab.Entry, bool) {
	for _, e := range m.Entries {
		if e.Obfuscated == obfuscated {
			return e, true
		}
	}
	return symtab.Entry{}, false
}

// Lookup finds the entry for an original name.
func (m *Mapping) Lookup(original string) (symtab.Entry, bool) {
	for _, e := range m.Entries {
		if e.Original == original {
			return e, true
		}
	}
	return symtab.Entry{}, false
}
