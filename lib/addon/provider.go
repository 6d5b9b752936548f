package addon

import "strings"

// Provider names.
const (
	ProviderCurse  = "curse"
	ProviderGithub = "github"
)

const (
	curseAddonURL = "https://www.curseforge.com/wow/addons/"
	githubURL     = "https://github.com/"
)

// CurseURL returns the public CurseForge page of slug.
func CurseURL(slug string) string {
	return curseAddonURL + slug
}

// GithubURL returns the public page of repo ("org/name").
func GithubURL(repo string) string {
	return githubURL + repo
}

// ProviderURL returns the identifier a package can be resolved again with.
func ProviderURL(provider, id, externalID string) string {
	switch provider {
	case ProviderCurse:
		return CurseURL(id)
	case ProviderGithub:
		return GithubURL(externalID)
	default:
		return ""
	}
}

// ParseCurseIdentifier extracts a CurseForge slug from "cf:<slug>", a
// CurseForge addon URL or a bare slug.
func ParseCurseIdentifier(identifier string) (string, bool) {
	var slug string
	switch {
	case strings.HasPrefix(identifier, "cf:"):
		slug = strings.TrimPrefix(identifier, "cf:")
	case strings.HasPrefix(identifier, curseAddonURL):
		slug = strings.TrimPrefix(identifier, curseAddonURL)
		slug = strings.TrimSuffix(slug, "/")
	default:
		slug = identifier
	}
	if !isSlug(slug) {
		return "", false
	}
	return slug, true
}

// ParseGithubIdentifier extracts "org/repo" from "gh:org/repo" or a GitHub URL.
func ParseGithubIdentifier(identifier string) (string, bool) {
	var raw string
	switch {
	case strings.HasPrefix(identifier, "gh:"):
		raw = strings.TrimPrefix(identifier, "gh:")
	case strings.HasPrefix(identifier, githubURL):
		raw = strings.TrimPrefix(identifier, githubURL)
	default:
		return "", false
	}

	parts := strings.Split(strings.TrimSuffix(raw, "/"), "/")
	if len(parts) != 2 || !isSlug(parts[0]) || !isSlug(parts[1]) {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}

// isSlug reports whether s is non-empty and only contains [a-zA-Z0-9._-].
func isSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
