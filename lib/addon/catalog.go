package addon

import "context"

// Release is the newest stable file of a candidate for one variant.
type Release struct {
	Variant Variant
	FileID  string
}

// Candidate is a package as listed by a catalog.
type Candidate struct {
	ID         string // stable package id, used as record id
	ExternalID string // the catalog's own id
	Name       string
	Author     string
	URL        string
	Releases   []Release
}

// Release returns the release for variant, if the candidate has one.
func (c Candidate) Release(variant Variant) (Release, bool) {
	for _, r := range c.Releases {
		if r.Variant == variant {
			return r, true
		}
	}
	return Release{}, false
}

// FileMetadata describes a concrete downloadable file.
type FileMetadata struct {
	FileID       string
	VersionLabel string
	DownloadURL  string
	Entries      []string // file names inside the archive, if the catalog lists them
}

// Resolved is a candidate together with the catalog that produced it.
type Resolved struct {
	Catalog   Catalog
	Candidate Candidate
}

// Catalog is a remote source of packages. Every call is single-shot.
type Catalog interface {
	// Name is the provider name recorded in installed records.
	Name() string
	// Accepts converts identifier into a search query if the catalog handles it.
	Accepts(identifier string) (query string, ok bool)
	// SearchByIdentifier returns all candidates matching query.
	SearchByIdentifier(ctx context.Context, query string, variant Variant) ([]Candidate, error)
	// FetchFileMetadata returns the metadata of a file of a package.
	FetchFileMetadata(ctx context.Context, packageID, fileID string) (FileMetadata, error)
	// Download returns the archive bytes of file.
	Download(ctx context.Context, file FileMetadata) ([]byte, error)
}
