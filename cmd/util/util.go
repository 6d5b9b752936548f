package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wowa-cli/wowa/lib/addon"
	"github.com/wowa-cli/wowa/lib/catalog/curse"
	"github.com/wowa-cli/wowa/lib/catalog/github"
	"github.com/wowa-cli/wowa/lib/config"
	"github.com/wowa-cli/wowa/lib/store"
	"github.com/wowa-cli/wowa/lib/store/fstore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from .env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("wowa")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// DefaultStorePath returns the store location used when --store is not set.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wowa", "wowa.json")
}

// flagNames maps persisted settings to the flag (and env variable) overriding them.
var flagNames = map[string]string{
	config.GameDir:     "game-dir",
	config.CurseToken:  "curse-token",
	config.GithubToken: "github-token",
}

// Settings resolves settings from flags and environment first and from the
// config repository second.
type Settings struct {
	Config *config.Repository
}

// Lookup returns the effective value of a setting.
func (s Settings) Lookup(name string) (string, error) {
	if flag, ok := flagNames[name]; ok {
		if value := viper.GetString(flag); value != "" {
			return value, nil
		}
	}
	value, _, err := s.Config.Get(name)
	return value, err
}

// GameDir implements addon.Settings.
func (s Settings) GameDir() (string, error) {
	dir, err := s.Lookup(config.GameDir)
	if err != nil || dir == "" {
		return "", err
	}
	return homedir.Expand(dir)
}

// Deps are the components commands work with, opened once per process.
type Deps struct {
	Store    store.IStore
	Config   *config.Repository
	Settings Settings
	Packages *addon.Repository
	Manager  *addon.Manager
}

var (
	depsOnce sync.Once
	deps     *Deps
	depsErr  error
)

// Open returns the process wide Deps, opening the store on first use.
func Open() (*Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = openDeps()
	})
	return deps, depsErr
}

func openDeps() (*Deps, error) {
	path := viper.GetString("store")
	if path == "" {
		path = DefaultStorePath()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	s, err := fstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	cfg := config.NewRepository(s)
	settings := Settings{Config: cfg}

	packages, err := addon.NewRepository(s)
	if err != nil {
		return nil, err
	}

	curseToken, err := settings.Lookup(config.CurseToken)
	if err != nil {
		return nil, err
	}
	githubToken, err := settings.Lookup(config.GithubToken)
	if err != nil {
		return nil, err
	}

	manager := addon.NewManager(packages, settings,
		addon.WithCatalogs(github.New(githubToken), curse.New(curseToken)),
		addon.WithConcurrency(viper.GetInt("concurrency")),
	)

	return &Deps{
		Store:    s,
		Config:   cfg,
		Settings: settings,
		Packages: packages,
		Manager:  manager,
	}, nil
}

// ParseKey converts "a/b/c" into a store key.
func ParseKey(s string) store.Key {
	if s == "" {
		return store.Key{}
	}
	return store.Key(strings.Split(s, "/"))
}
