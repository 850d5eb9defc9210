// Package state persists per-document reading positions as one JSON file
// per document identifier under an explicit state directory.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
)

// Position is the persisted reading checkpoint for one document.
type Position struct {
	Identifier   string `json:"identifier"`
	SectionIndex int    `json:"section_index"`
	WordIndex    int    `json:"word_index"`
}

// Load reads the persisted position for identifier from dir. A missing or
// unreadable file, corrupt JSON, or nonsense indices all yield the default
// position at the start of the document; resuming never fails.
func Load(dir, identifier string) Position {
	def := Position{Identifier: identifier}

	data, err := os.ReadFile(fileFor(dir, identifier))
	if err != nil {
		return def
	}
	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return def
	}
	if pos.SectionIndex < 0 || pos.WordIndex < 0 {
		return def
	}
	pos.Identifier = identifier
	return pos
}

// Store writes the position to dir, creating the directory if needed. The
// caller reports failures; the in-memory position stays authoritative.
func (p Position) Store(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fileFor(dir, p.Identifier), data, 0644)
}

// DefaultDir returns XDG_STATE_HOME/skim or ~/.local/state/skim.
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "skim")
}

// fileFor maps an identifier to its file. Identifiers are usually content
// hashes and safe as-is; anything else is hashed to stay filesystem-safe.
func fileFor(dir, identifier string) string {
	name := identifier
	if !safeName(identifier) {
		sum := sha256.Sum256([]byte(identifier))
		name = hex.EncodeToString(sum[:16])
	}
	return filepath.Join(dir, name+".json")
}

func safeName(s string) bool {
	if s == "" || len(s) > 128 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
