// Package github implements an addon.Catalog serving the latest release of a GitHub repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/wowa-cli/wowa/lib/addon"
	"github.com/wowa-cli/wowa/lib/catalog/httpc"
)

var plog = logger.GetLogger("catalog/github")

// DefaultBaseURL is the GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Asset is a file attached to a release.
type Asset struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Release is a published GitHub release.
type Release struct {
	ID         int     `json:"id"`
	TagName    string  `json:"tag_name"`
	Name       string  `json:"name"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// zipAsset returns the first .zip asset of r.
func (r Release) zipAsset() (Asset, bool) {
	for _, a := range r.Assets {
		if strings.HasSuffix(strings.ToLower(a.Name), ".zip") {
			return a, true
		}
	}
	return Asset{}, false
}

// AssetNamed returns the asset of r called name.
func (r Release) AssetNamed(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Client reads releases through the GitHub API. A token is optional and
// only raises the rate limit.
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

// New creates a GitHub client.
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
	return addon.ProviderGithub
}

func (c *Client) Accepts(identifier string) (string, bool) {
	return addon.ParseGithubIdentifier(identifier)
}

func (c *Client) header(accept string) http.Header {
	header := http.Header{}
	header.Set("Accept", accept)
	if c.token != "" {
		header.Set("Authorization", "token "+c.token)
	}
	return header
}

// SearchByIdentifier returns the repository ("org/name") as single candidate
// if its latest release has a zip asset. The release serves every variant.
func (c *Client) SearchByIdentifier(ctx context.Context, repo string, _ addon.Variant) ([]addon.Candidate, error) {
	latest, err := c.LatestRelease(ctx, repo)
	if errors.Is(err, addon.ErrNotFound) {
		plog.Debugf("%s has no published release", repo)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	zip, ok := latest.zipAsset()
	if !ok {
		plog.Debugf("latest release %s of %s has no zip asset", latest.TagName, repo)
		return nil, nil
	}

	owner, name, _ := strings.Cut(repo, "/")
	id := fileID(latest.ID, zip.ID)
	releases := make([]addon.Release, len(addon.Variants))
	for i, variant := range addon.Variants {
		releases[i] = addon.Release{Variant: variant, FileID: id}
	}
	return []addon.Candidate{{
		ID:         strings.ToLower(name),
		ExternalID: repo,
		Name:       name,
		Author:     owner,
		URL:        addon.GithubURL(repo),
		Releases:   releases,
	}}, nil
}

// FetchFileMetadata resolves a file id of the form "<release id>:<asset id>".
func (c *Client) FetchFileMetadata(ctx context.Context, repo, fileID string) (addon.FileMetadata, error) {
	releaseID, assetID, err := parseFileID(fileID)
	if err != nil {
		return addon.FileMetadata{}, err
	}

	var rel Release
	err = httpc.GetJSON(ctx, c.http, fmt.Sprintf("%s/repos/%s/releases/%d", c.baseURL, repo, releaseID), c.header("application/vnd.github+json"), &rel)
	if httpc.IsNotFound(err) {
		return addon.FileMetadata{}, fmt.Errorf("release %d of %s: %w", releaseID, repo, addon.ErrNotFound)
	}
	if err != nil {
		return addon.FileMetadata{}, err
	}

	for _, a := range rel.Assets {
		if a.ID == assetID {
			return addon.FileMetadata{
				FileID:       fileID,
				VersionLabel: rel.TagName,
				DownloadURL:  a.URL,
			}, nil
		}
	}
	return addon.FileMetadata{}, fmt.Errorf("asset %d of %s: %w", assetID, repo, addon.ErrNotFound)
}

// Download fetches an asset through the assets API.
func (c *Client) Download(ctx context.Context, file addon.FileMetadata) ([]byte, error) {
	return httpc.Get(ctx, c.http, file.DownloadURL, c.header("application/octet-stream"))
}

// LatestRelease returns the latest published release of repo ("org/name").
// A repository without releases yields addon.ErrNotFound.
func (c *Client) LatestRelease(ctx context.Context, repo string) (Release, error) {
	var latest Release
	err := httpc.GetJSON(ctx, c.http, fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo), c.header("application/vnd.github+json"), &latest)
	if httpc.IsNotFound(err) {
		return Release{}, fmt.Errorf("latest release of %s: %w", repo, addon.ErrNotFound)
	}
	if err != nil {
		return Release{}, err
	}
	return latest, nil
}

// DownloadAsset fetches the content of a release asset.
func (c *Client) DownloadAsset(ctx context.Context, a Asset) ([]byte, error) {
	return httpc.Get(ctx, c.http, a.URL, c.header("application/octet-stream"))
}

func fileID(releaseID, assetID int) string {
	return strconv.Itoa(releaseID) + ":" + strconv.Itoa(assetID)
}

func parseFileID(id string) (releaseID, assetID int, err error) {
	rel, ast, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid github file id %q", id)
	}
	if releaseID, err = strconv.Atoi(rel); err != nil {
		return 0, 0, fmt.Errorf("invalid github file id %q: %w", id, err)
	}
	if assetID, err = strconv.Atoi(ast); err != nil {
		return 0, 0, fmt.Errorf("invalid github file id %q: %w", id, err)
	}
	return releaseID, assetID, nil
}
