package whitelist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloakwork/objcloak/internal/extractor"
)

// customFormatVersion guards the persisted custom-list layout.
const customFormatVersion = 1

// CustomList is the only user-editable whitelist tier. It persists as a
// small JSON document with a format version and an updated timestamp.
type CustomList struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []Entry   `json:"entries"`

	path string
}

// LoadCustomList reads a persisted custom list. A missing file yields an
// empty list bound to the path; a malformed file yields an empty list
// plus an error the caller should surface as a warning, never treat as
// fatal.
func LoadCustomList(path string) (*CustomList, error) {
	list := &CustomList{Version: customFormatVersion, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return list, nil
		}
		return list, fmt.Errorf("reading custom whitelist %s: %w", path, err)
	}
	if err := json.Unmarshal(data, list); err != nil {
		return &CustomList{Version: customFormatVersion, path: path},
			fmt.Errorf("malformed custom whitelist %s: %w", path, err)
	}
	list.path = path
	return list, nil
}

// Save writes the list back to its path, bumping the updated timestamp.
func (l *CustomList) Save() error {
	if l.path == "" {
		return fmt.Errorf("custom whitelist has no backing path")
	}
	l.Version = customFormatVersion
	l.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding custom whitelist: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating whitelist directory: %w", err)
		}
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("writing custom whitelist %s: %w", l.path, err)
	}
	return nil
}

func (l *CustomList) find(name string) int {
	for i := range l.Entries {
		if l.Entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Add appends a new entry. Adding an existing name is an error; use Edit.
func (l *CustomList) Add(name string, kind extractor.Kind, reason string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("whitelist entry name must not be empty")
	}
	if l.find(name) >= 0 {
		return fmt.Errorf("whitelist entry %q already exists", name)
	}
	l.Entries = append(l.Entries, Entry{Name: name, Kind: kind, Reason: reason})
	return nil
}

// Edit replaces the kind and reason of an existing entry.
func (l *CustomList) Edit(name string, kind extractor.Kind, reason string) error {
	i := l.find(name)
	if i < 0 {
		return fmt.Errorf("whitelist entry %q not found", name)
	}
	l.Entries[i].Kind = kind
	l.Entries[i].Reason = reason
	return nil
}

// Delete removes an entry by name.
func (l *CustomList) Delete(name string) error {
	i := l.find(name)
	if i < 0 {
		return fmt.Errorf("whitelist entry %q not found", name)
	}
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	return nil
}

// Import merges entries from an external file into the list. The file
// may be either a structured JSON document (the same layout Save writes)
// or a plain newline-delimited name list where lines starting with '#'
// are comments; plain names import with the unspecified kind and a
// generic reason.
//
// An imported entry whose name collides with an existing entry is
// renamed with an incrementing suffix ("name_1", "name_2", ...) rather
// than overwriting. Returns how many entries were imported.
func (l *CustomList) Import(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading import file %s: %w", path, err)
	}

	var incoming []Entry
	var doc CustomList
	if json.Unmarshal(data, &doc) == nil && len(doc.Entries) > 0 {
		incoming = doc.Entries
	} else {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			incoming = append(incoming, Entry{Name: line, Reason: "imported name list"})
		}
	}

	imported := 0
	for _, e := range incoming {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		name := e.Name
		for suffix := 1; l.find(name) >= 0; suffix++ {
			name = fmt.Sprintf("%s_%d", e.Name, suffix)
		}
		e.Name = name
		l.Entries = append(l.Entries, e)
		imported++
	}
	return imported, nil
}

// Export writes the current entries to an external file in the
// structured JSON form.
func (l *CustomList) Export(path string) error {
	out := CustomList{
		Version:   customFormatVersion,
		UpdatedAt: time.Now().UTC(),
		Entries:   l.Entries,
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding whitelist export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing whitelist export %s: %w", path, err)
	}
	return nil
}
