// Package curse implements an addon.Catalog backed by the CurseForge API.
package curse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/wowa-cli/wowa/lib/addon"
	"github.com/wowa-cli/wowa/lib/catalog/httpc"
)

var plog = logger.GetLogger("catalog/curse")

// DefaultBaseURL is the CurseForge API endpoint.
const DefaultBaseURL = "https://api.curseforge.com"

const (
	gameIDWarcraft     = 1
	releaseTypeRelease = 1
	sortFieldPopular   = 2
)

// gameVersionTypes maps variants to CurseForge game version type ids.
var gameVersionTypes = map[addon.Variant]int{
	addon.Retail:  517,
	addon.Classic: 67408,
}

// Client talks to the CurseForge API. Every call needs an API token.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// New creates a CurseForge client using token as API key.
func New(token string, opts ...Option) *Client {
	c := &Client{
		http:    httpc.New(),
		baseURL: DefaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return addon.ProviderCurse
}

func (c *Client) Accepts(identifier string) (string, bool) {
	return addon.ParseCurseIdentifier(identifier)
}

func (c *Client) header() (http.Header, error) {
	if c.token == "" {
		return nil, &addon.ConfigError{Setting: "curse.token", Msg: "a CurseForge API token is required"}
	}
	header := http.Header{}
	header.Set("x-api-key", c.token)
	header.Set("Accept", "application/json")
	return header, nil
}

// SearchByIdentifier searches mods by slug.
func (c *Client) SearchByIdentifier(ctx context.Context, slug string, variant addon.Variant) ([]addon.Candidate, error) {
	header, err := c.header()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("gameId", strconv.Itoa(gameIDWarcraft))
	if typeID, ok := gameVersionTypes[variant]; ok {
		params.Set("gameVersionTypeId", strconv.Itoa(typeID))
	}
	params.Set("slug", slug)
	params.Set("index", "0")
	params.Set("sortField", strconv.Itoa(sortFieldPopular))
	params.Set("sortOrder", "desc")

	var resp searchModsResponse
	if err := httpc.GetJSON(ctx, c.http, c.baseURL+"/v1/mods/search?"+params.Encode(), header, &resp); err != nil {
		return nil, err
	}
	plog.Debugf("search %q returned %d mods", slug, len(resp.Data))

	candidates := make([]addon.Candidate, 0, len(resp.Data))
	for _, m := range resp.Data {
		candidates = append(candidates, m.candidate())
	}
	return candidates, nil
}

// FetchFileMetadata returns the metadata of file fileID of mod modID.
func (c *Client) FetchFileMetadata(ctx context.Context, modID, fileID string) (addon.FileMetadata, error) {
	header, err := c.header()
	if err != nil {
		return addon.FileMetadata{}, err
	}

	endpoint := fmt.Sprintf("%s/v1/mods/%s/files/%s", c.baseURL, url.PathEscape(modID), url.PathEscape(fileID))
	var resp modFileResponse
	if err := httpc.GetJSON(ctx, c.http, endpoint, header, &resp); err != nil {
		if httpc.IsNotFound(err) {
			return addon.FileMetadata{}, fmt.Errorf("file %s of mod %s: %w", fileID, modID, addon.ErrNotFound)
		}
		return addon.FileMetadata{}, err
	}

	file := resp.Data
	if file.DownloadURL == "" {
		return addon.FileMetadata{}, fmt.Errorf("file %s of mod %s does not allow third party downloads", fileID, modID)
	}

	entries := make([]string, len(file.Modules))
	for i, m := range file.Modules {
		entries[i] = m.Name
	}
	return addon.FileMetadata{
		FileID:       strconv.Itoa(file.ID),
		VersionLabel: file.DisplayName,
		DownloadURL:  file.DownloadURL,
		Entries:      entries,
	}, nil
}

// Download fetches the archive of file from the CurseForge CDN.
func (c *Client) Download(ctx context.Context, file addon.FileMetadata) ([]byte, error) {
	return httpc.Get(ctx, c.http, file.DownloadURL, nil)
}
