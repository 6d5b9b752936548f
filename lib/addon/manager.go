package addon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/archive"
	"github.com/wowa-cli/wowa/lib/lockmgr"
)

// Status is the outcome of a successful install attempt.
type Status string

const (
	StatusInstalled        Status = "installed"
	StatusUpdated          Status = "updated"
	StatusReinstalled      Status = "reinstalled"
	StatusAlreadyInstalled Status = "already-installed"
)

// Result is the record written (or found) by an install attempt.
type Result struct {
	Record Record
	Status Status
}

// Settings provides the configured values the manager depends on.
type Settings interface {
	// GameDir returns the game installation root. An empty value means unset.
	GameDir() (string, error)
}

// Decoder turns downloaded archive bytes into entries.
type Decoder func(data []byte) ([]archive.Entry, error)

// action is what the reconciliation decided to do for one package.
type action int

const (
	actionNone action = iota
	actionInstall
	actionUpdate
	actionReinstall
)

func (a action) status() Status {
	switch a {
	case actionInstall:
		return StatusInstalled
	case actionUpdate:
		return StatusUpdated
	case actionReinstall:
		return StatusReinstalled
	default:
		return StatusAlreadyInstalled
	}
}

var installFailures = metrics.NewCounter("wowa_install_failures_total")

func countInstall(status Status) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`wowa_installs_total{status=%q}`, status)).Inc()
}

// Manager reconciles installed package records with remote catalogs and
// the install directories on disk. It is the only writer of package records.
type Manager struct {
	repo        *Repository
	settings    Settings
	catalogs    []Catalog
	fs          afero.Fs
	now         func() time.Time
	concurrency int
	locks       lockmgr.ILockManager
	decode      Decoder
}

// Option configures a Manager.
type Option func(*Manager)

// WithCatalogs sets the catalogs identifiers are resolved against, in order of preference.
func WithCatalogs(catalogs ...Catalog) Option {
	return func(m *Manager) { m.catalogs = catalogs }
}

// WithFs sets the file system packages are installed into.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) { m.fs = fs }
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithConcurrency sets how many packages UpdateAll processes at once.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n < 1 {
			n = 1
		}
		m.concurrency = n
	}
}

// WithLocks sets the lock manager used to serialize operations on the same package.
func WithLocks(locks lockmgr.ILockManager) Option {
	return func(m *Manager) { m.locks = locks }
}

// WithDecoder sets the archive decoder.
func WithDecoder(decode Decoder) Option {
	return func(m *Manager) { m.decode = decode }
}

// NewManager creates a manager writing records through repo.
func NewManager(repo *Repository, settings Settings, opts ...Option) *Manager {
	m := &Manager{
		repo:        repo,
		settings:    settings,
		fs:          afero.NewOsFs(),
		now:         time.Now,
		concurrency: 4,
		locks:       lockmgr.NewLockManager(),
		decode:      archive.Decode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve finds the single candidate identifier refers to.
func (m *Manager) Resolve(ctx context.Context, identifier string, variant Variant) (Resolved, error) {
	for _, catalog := range m.catalogs {
		query, ok := catalog.Accepts(identifier)
		if !ok {
			continue
		}

		candidates, err := catalog.SearchByIdentifier(ctx, query, variant)
		if err != nil {
			return Resolved{}, fmt.Errorf("%s: search %q: %w", catalog.Name(), query, err)
		}

		var matches []Candidate
		for _, c := range candidates {
			if c.ID == query || c.ExternalID == query {
				matches = append(matches, c)
			}
		}

		switch len(matches) {
		case 0:
			return Resolved{}, fmt.Errorf("%s: %q: %w", catalog.Name(), query, ErrNotFound)
		case 1:
			return Resolved{Catalog: catalog, Candidate: matches[0]}, nil
		default:
			return Resolved{}, fmt.Errorf("%s: %q (%d matches): %w", catalog.Name(), query, len(matches), ErrAmbiguous)
		}
	}
	return Resolved{}, fmt.Errorf("%q: %w", identifier, ErrUnsupportedIdentifier)
}

// Install resolves identifier and installs the result for variant.
func (m *Manager) Install(ctx context.Context, identifier string, variant Variant) (Result, error) {
	resolved, err := m.Resolve(ctx, identifier, variant)
	if err != nil {
		installFailures.Inc()
		return Result{}, err
	}
	return m.InstallCandidate(ctx, resolved, variant)
}

// InstallCandidate brings the local state of the resolved package for
// variant in line with the catalog: it installs, updates or reinstalls the
// package, or does nothing if the installed version is current and valid.
func (m *Manager) InstallCandidate(ctx context.Context, resolved Resolved, variant Variant) (Result, error) {
	return m.installCandidate(ctx, resolved, variant, func(Phase) {})
}

func (m *Manager) installCandidate(ctx context.Context, resolved Resolved, variant Variant, report func(Phase)) (result Result, err error) {
	defer func() {
		if err != nil {
			installFailures.Inc()
		}
	}()

	candidate := resolved.Candidate
	err = lockmgr.WithLock(ctx, m.locks, lockKey(candidate.ID, variant), func() error {
		result, err = m.reconcile(ctx, resolved, variant, report)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("%s (%s): %w", candidate.ID, variant, err)
	}

	countInstall(result.Status)
	return result, nil
}

// reconcile runs the install state machine. The caller holds the package lock.
func (m *Manager) reconcile(ctx context.Context, resolved Resolved, variant Variant, report func(Phase)) (Result, error) {
	candidate := resolved.Candidate

	release, ok := candidate.Release(variant)
	if !ok {
		return Result{}, fmt.Errorf("no release for %s: %w", variant, ErrNotFound)
	}

	file, err := resolved.Catalog.FetchFileMetadata(ctx, candidate.ExternalID, release.FileID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch file metadata: %w", err)
	}

	local, exists, err := m.repo.Get(candidate.ID, variant)
	if err != nil {
		return Result{}, err
	}

	act, err := m.decide(local, exists, file.VersionLabel)
	if err != nil {
		return Result{}, err
	}
	if act == actionNone {
		return Result{Record: local, Status: StatusAlreadyInstalled}, nil
	}

	installDir, err := m.installDir(variant)
	if err != nil {
		return Result{}, err
	}

	report(PhaseDownloading)
	data, err := resolved.Catalog.Download(ctx, file)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download %s: %w", file.VersionLabel, err)
	}

	entries, err := m.decode(data)
	if err != nil {
		return Result{}, err
	}

	report(PhaseExtracting)
	if err := m.prepareInstallDir(installDir, local, exists); err != nil {
		return Result{}, err
	}
	directories, err := extract(m.fs, installDir, entries)
	if err != nil {
		return Result{}, err
	}

	now := m.now()
	rec := Record{
		ID:           candidate.ID,
		Name:         candidate.Name,
		Author:       candidate.Author,
		VersionLabel: file.VersionLabel,
		Variant:      variant,
		Directories:  directories,
		Provider: Provider{
			Name:       resolved.Catalog.Name(),
			ExternalID: candidate.ExternalID,
			URL:        candidate.URL,
		},
		InstalledAt: now,
		UpdatedAt:   now,
	}
	if exists {
		rec.InstalledAt = local.InstalledAt
	}

	if err := m.repo.Save(rec); err != nil {
		return Result{}, err
	}
	return Result{Record: rec, Status: act.status()}, nil
}

// decide picks the action for a package whose newest version is label.
func (m *Manager) decide(local Record, exists bool, label string) (action, error) {
	if !exists {
		return actionInstall, nil
	}
	if local.VersionLabel != label {
		return actionUpdate, nil
	}

	valid, err := m.Validate(local)
	if err != nil {
		return actionNone, err
	}
	if !valid {
		return actionReinstall, nil
	}
	return actionNone, nil
}

// prepareInstallDir creates installDir, or removes the directories of the
// previously installed version if it already exists.
func (m *Manager) prepareInstallDir(installDir string, local Record, exists bool) error {
	ok, err := afero.DirExists(m.fs, installDir)
	if err != nil {
		return err
	}
	if !ok {
		return m.fs.MkdirAll(installDir, 0o755)
	}
	if !exists {
		return nil
	}
	return m.removeDirectories(installDir, local.Directories)
}

func (m *Manager) removeDirectories(installDir string, dirs []Directory) error {
	for _, d := range dirs {
		if err := m.fs.RemoveAll(filepath.Join(installDir, d.Name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", d.Name, err)
		}
	}
	return nil
}

// Validate reports whether every directory recorded for rec exists on disk.
// Content hashes are not verified.
func (m *Manager) Validate(rec Record) (bool, error) {
	installDir, err := m.installDir(rec.Variant)
	if err != nil {
		return false, err
	}
	for _, d := range rec.Directories {
		if _, err := m.fs.Stat(filepath.Join(installDir, d.Name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// Remove deletes the directories and the record of an installed package.
// The boolean return value is false if no such package is installed.
func (m *Manager) Remove(ctx context.Context, id string, variant Variant) (removed Record, found bool, err error) {
	err = lockmgr.WithLock(ctx, m.locks, lockKey(id, variant), func() error {
		removed, found, err = m.repo.Get(id, variant)
		if err != nil || !found {
			return err
		}

		installDir, err := m.installDir(variant)
		if err != nil {
			return err
		}
		if err := m.removeDirectories(installDir, removed.Directories); err != nil {
			return err
		}
		return m.repo.Delete(id, variant)
	})
	if err != nil {
		return Record{}, false, err
	}
	return removed, found, nil
}

// List returns the installed packages of variant, or of all variants if variant is empty.
func (m *Manager) List(variant Variant) ([]Record, error) {
	return m.repo.List(variant)
}

func (m *Manager) installDir(variant Variant) (string, error) {
	gameDir, err := m.settings.GameDir()
	if err != nil {
		return "", err
	}
	return InstallDir(gameDir, variant)
}

func lockKey(id string, variant Variant) string {
	return string(variant) + "/" + id
}
