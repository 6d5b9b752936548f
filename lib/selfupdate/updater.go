// Package selfupdate replaces the running wowa binary with the latest
// published release.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-version"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/catalog/github"
)

var plog = logger.GetLogger("selfupdate")

// DefaultRepo is the repository wowa releases are published in.
const DefaultRepo = "wowa-cli/wowa"

var (
	// ErrUnsupportedPlatform is returned when no binary is published for the OS.
	ErrUnsupportedPlatform = errors.New("unsupported operating system")
	// ErrMissingAsset is returned when the latest release lacks the binary for the OS.
	ErrMissingAsset = errors.New("release has no binary for this platform")
)

// Source serves releases. *github.Client implements it.
type Source interface {
	LatestRelease(ctx context.Context, repo string) (github.Release, error)
	DownloadAsset(ctx context.Context, a github.Asset) ([]byte, error)
}

// Result describes the outcome of Update. FromVersion and ToVersion are
// equal when nothing was replaced.
type Result struct {
	Updated     bool
	FromVersion string
	ToVersion   string
}

// Updater checks for and installs new releases.
type Updater struct {
	source     Source
	repo       string
	current    string
	fs         afero.Fs
	goos       string
	executable func() (string, error)
}

// Option configures an Updater.
type Option func(*Updater)

// WithRepo overrides DefaultRepo.
func WithRepo(repo string) Option {
	return func(u *Updater) { u.repo = repo }
}

// WithFs sets the file system the binary is replaced on.
func WithFs(fs afero.Fs) Option {
	return func(u *Updater) { u.fs = fs }
}

// WithPlatform overrides runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(u *Updater) { u.goos = goos }
}

// WithExecutable overrides how the path of the running binary is found.
func WithExecutable(fn func() (string, error)) Option {
	return func(u *Updater) { u.executable = fn }
}

// New creates an Updater for a binary of version current.
func New(source Source, current string, opts ...Option) *Updater {
	u := &Updater{
		source:     source,
		repo:       DefaultRepo,
		current:    current,
		fs:         afero.NewOsFs(),
		goos:       runtime.GOOS,
		executable: os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// AssetName returns the name of the release asset built for goos.
func AssetName(goos string) (string, error) {
	switch goos {
	case "windows":
		return "wowa-win64.exe", nil
	case "linux":
		return "wowa-linux64", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// IsNewer reports whether tag names a version above current. Both may carry
// a leading "v".
func IsNewer(tag, current string) (bool, error) {
	latest, err := version.NewVersion(tag)
	if err != nil {
		return false, fmt.Errorf("invalid release tag %q: %w", tag, err)
	}
	running, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", current, err)
	}
	return latest.GreaterThan(running), nil
}

// Check returns the latest release and whether it is newer than the
// running version.
func (u *Updater) Check(ctx context.Context) (github.Release, bool, error) {
	latest, err := u.source.LatestRelease(ctx, u.repo)
	if err != nil {
		return github.Release{}, false, err
	}
	newer, err := IsNewer(latest.TagName, u.current)
	if err != nil {
		return github.Release{}, false, err
	}
	return latest, newer, nil
}

// Update downloads the latest release and replaces the running binary with
// it. The previous binary is kept next to it with a ".backup" suffix and is
// moved back if the new one cannot be written.
func (u *Updater) Update(ctx context.Context) (Result, error) {
	latest, newer, err := u.Check(ctx)
	if err != nil {
		return Result{}, err
	}
	if !newer {
		plog.Debugf("latest release %s is not newer than %s", latest.TagName, u.current)
		return Result{FromVersion: u.current, ToVersion: u.current}, nil
	}

	name, err := AssetName(u.goos)
	if err != nil {
		return Result{}, err
	}
	asset, ok := latest.AssetNamed(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s in %s", ErrMissingAsset, name, latest.TagName)
	}

	data, err := u.source.DownloadAsset(ctx, asset)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download %s: %w", name, err)
	}

	path, err := u.executable()
	if err != nil {
		return Result{}, fmt.Errorf("failed to locate the running binary: %w", err)
	}
	if err := u.replace(path, data); err != nil {
		return Result{}, err
	}

	plog.Infof("replaced %s with %s", path, latest.TagName)
	return Result{Updated: true, FromVersion: u.current, ToVersion: latest.TagName}, nil
}

func (u *Updater) replace(path string, data []byte) error {
	backup := path + ".backup"
	if err := u.fs.Remove(backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old backup %s: %w", backup, err)
	}
	if err := u.fs.Rename(path, backup); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	if err := afero.WriteFile(u.fs, path, data, 0o755); err != nil {
		if restoreErr := u.fs.Rename(backup, path); restoreErr != nil {
			plog.Errorf("failed to restore %s from %s: %v", path, backup, restoreErr)
		}
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
