// Package messages resolves API error codes to user-facing text.
//
// Tables are JSON documents keyed by error code. The "default" entry is the
// generic message used for unknown codes.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
)

// DefaultKey names the generic fallback entry.
const DefaultKey = "default"

// InvalidCredentialsKey names the login failure message.
const InvalidCredentialsKey = "invalid_credentials"

//go:embed locales/*.json
var locales embed.FS

// Table maps error codes to messages for one locale.
type Table struct {
	locale  string
	entries map[string]string
}

// Load reads the embedded table for locale and overlays the file at path, if any.
func Load(locale, path string) (*Table, error) {
	raw, err := locales.ReadFile("locales/" + locale + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown messages locale %q", locale)
	}
	t := &Table{locale: locale, entries: map[string]string{}}
	if err := json.Unmarshal(raw, &t.entries); err != nil {
		return nil, fmt.Errorf("decode %s messages: %w", locale, err)
	}

	if path == "" {
		return t, nil
	}
	override, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages override: %w", err)
	}
	extra := map[string]string{}
	if err := json.Unmarshal(override, &extra); err != nil {
		return nil, fmt.Errorf("decode messages override: %w", err)
	}
	for k, v := range extra {
		t.entries[k] = v
	}
	return t, nil
}

// MustLoad is Load for the embedded tables, which are known to be valid.
func MustLoad(locale string) *Table {
	t, err := Load(locale, "")
	if err != nil {
		panic(err)
	}
	return t
}

// Locale returns the table locale.
func (t *Table) Locale() string { return t.locale }

// Lookup returns the message for code, if the table has one.
func (t *Table) Lookup(code string) (string, bool) {
	msg, ok := t.entries[code]
	return msg, ok
}

// Resolve returns the message for code, or the generic message when code is unknown.
func (t *Table) Resolve(code string) string {
	if msg, ok := t.entries[code]; ok && code != "" {
		return msg
	}
	return t.entries[DefaultKey]
}
