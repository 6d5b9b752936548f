package addon

import (
	"fmt"
	"time"
)

// Variant is the game flavour a package is installed for.
type Variant string

const (
	Retail  Variant = "retail"
	Classic Variant = "classic"
)

// Variants lists every supported variant.
var Variants = []Variant{Retail, Classic}

// ParseVariant validates s as a Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case Retail, Classic:
		return v, nil
	default:
		return "", fmt.Errorf("unknown game variant %q (expected retail or classic)", s)
	}
}

// Hash algorithms a Directory can be recorded with.
const (
	HashNone = "none"
)

// DirectoryHash is the optional content hash of an installed directory.
type DirectoryHash struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value,omitempty"`
}

// Directory is a top-level path written into the install directory.
type Directory struct {
	Name string        `json:"name"`
	Hash DirectoryHash `json:"hash"`
}

// Provider records which catalog a package came from.
type Provider struct {
	Name       string `json:"name"`
	ExternalID string `json:"externalId"`
	URL        string `json:"url"`
}

// Record is an installed package. Identity is (ID, Variant).
type Record struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Author       string      `json:"author"`
	VersionLabel string      `json:"versionLabel"`
	Variant      Variant     `json:"platformVariant"`
	Directories  []Directory `json:"directories"`
	Provider     Provider    `json:"provider"`
	InstalledAt  time.Time   `json:"installedAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DirectoryNames returns the names of all recorded directories.
func (r Record) DirectoryNames() []string {
	names := make([]string, len(r.Directories))
	for i, d := range r.Directories {
		names[i] = d.Name
	}
	return names
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%s) %s", r.ID, r.Variant, r.VersionLabel)
}
