package addon

import (
	"time"

	"github.com/wowa-cli/wowa/lib/repository"
)

// SchemaVersion is the version Record values are written with.
const SchemaVersion = 3

// recordV1 is the shape written before envelopes existed.
type recordV1 struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	Version     string    `json:"version"`
	GameVersion Variant   `json:"gameVersion"`
	Directories []string  `json:"directories"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"providerId"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// recordV2 carries directories with a hash slot.
type recordV2 struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Author      string      `json:"author"`
	Version     string      `json:"version"`
	GameVersion Variant     `json:"gameVersion"`
	Directories []Directory `json:"directories"`
	Provider    string      `json:"provider"`
	ProviderID  string      `json:"providerId"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func migrateV1ToV2(r recordV1) recordV2 {
	dirs := make([]Directory, len(r.Directories))
	for i, name := range r.Directories {
		dirs[i] = Directory{Name: name, Hash: DirectoryHash{Algorithm: HashNone}}
	}
	return recordV2{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Author:      r.Author,
		Version:     r.Version,
		GameVersion: r.GameVersion,
		Directories: dirs,
		Provider:    r.Provider,
		ProviderID:  r.ProviderID,
		UpdatedAt:   r.UpdatedAt,
	}
}

func migrateV2ToV3(r recordV2) Record {
	id := r.ID
	if id == "" {
		id = r.Slug
	}

	// the first releases only knew CurseForge and did not record a provider
	provider := r.Provider
	if provider == "" {
		provider = ProviderCurse
	}

	return Record{
		ID:           id,
		Name:         r.Name,
		Author:       r.Author,
		VersionLabel: r.Version,
		Variant:      r.GameVersion,
		Directories:  r.Directories,
		Provider: Provider{
			Name:       provider,
			ExternalID: r.ProviderID,
			URL:        ProviderURL(provider, id, r.ProviderID),
		},
		InstalledAt: r.UpdatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// recordMigrations maps every stored Record shape up to SchemaVersion.
var recordMigrations = []repository.Migration{
	repository.Migrate(migrateV1ToV2),
	repository.Migrate(migrateV2ToV3),
}
