// Package config parses rxp.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

// FileName is the configuration file looked up by Load.
const FileName = "rxp.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// DefaultJournal is the journal path used when store.journal is unset,
// relative to the directory holding rxp.toml.
const DefaultJournal = ".rxp/journal.jsonl"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level rxp.toml configuration.
type Config struct {
	Project   ProjectConfig   `toml:"project"`
	Store     StoreConfig     `toml:"store"`
	Construct ConstructConfig `toml:"construct"`
	TUI       TUIConfig       `toml:"tui"`

	// dir is the directory rxp.toml was loaded from; relative paths resolve
	// against it.
	dir string
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// StoreConfig controls the session journal.
type StoreConfig struct {
	Journal string `toml:"journal"`
	Replay  string `toml:"replay"`  // "strict" or "permissive"
	Backups int    `toml:"backups"` // journal backups kept by compact; 0 = unlimited
}

// ConstructConfig controls pattern construction.
type ConstructConfig struct {
	Flags string `toml:"flags"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
	Watch       bool   `toml:"watch"` // reload when another process edits the journal
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Store.Journal == "" {
		errs = append(errs, fmt.Errorf("store.journal must not be empty"))
	}
	if _, err := history.ParseReplayPolicy(c.Store.Replay); err != nil {
		errs = append(errs, fmt.Errorf("store.replay must be \"strict\" or \"permissive\""))
	}
	if c.Store.Backups < 0 {
		errs = append(errs, fmt.Errorf("store.backups must be >= 0 (0 = unlimited)"))
	}

	if err := rxp.ValidateFlags(c.Construct.Flags); err != nil {
		errs = append(errs, fmt.Errorf("construct.flags: %w", err))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	return errors.Join(errs...)
}

// ReplayPolicy returns the parsed store.replay value. Call Validate first;
// an invalid value yields ReplayStrict.
func (c *Config) ReplayPolicy() history.ReplayPolicy {
	p, err := history.ParseReplayPolicy(c.Store.Replay)
	if err != nil {
		return history.ReplayStrict
	}
	return p
}

// JournalPath returns store.journal resolved against the config directory.
func (c *Config) JournalPath() string {
	if filepath.IsAbs(c.Store.Journal) || c.dir == "" {
		return c.Store.Journal
	}
	return filepath.Join(c.dir, c.Store.Journal)
}

// Dir returns the directory the configuration was loaded from, or "" for
// a Config that was not loaded from a file.
func (c *Config) Dir() string { return c.dir }

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Store: StoreConfig{
			Journal: DefaultJournal,
			Replay:  history.ReplayStrict.String(),
			Backups: 5,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
			Watch:       true,
		},
	}
}

// Load reads rxp.toml from the given path. If path is empty, it walks up
// from the current working directory looking for rxp.toml. Returns an error
// if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	cfg.dir = filepath.Dir(path)
	if cfg.Project.Name == "" {
		cfg.Project.Name = DetectProjectName(cfg.dir)
	}

	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing rxp.toml yields Defaults
// rooted at the working directory.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil || path != "" || !errors.Is(err, ErrNotFound) {
		return cfg, err
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, fmt.Errorf("config: get working directory: %w", wdErr)
	}
	d := Defaults()
	d.dir = wd
	d.Project.Name = DetectProjectName(wd)
	return &d, nil
}

// ErrNotFound is returned by Load when no rxp.toml exists above the
// working directory.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// findConfig walks up from the current directory looking for rxp.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, dir)
		}
		dir = parent
	}
}

// InitFile writes a default rxp.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# rxp.toml: pattern construction project configuration
# Place this file in the root of your project.

[project]
name = ""

[store]
journal = ".rxp/journal.jsonl"
replay = "strict"  # "strict" rejects edits that strand later steps; "permissive" keeps them
backups = 5        # journal backups kept by "rxp compact"; 0 = unlimited

[construct]
flags = ""  # default flags for built patterns, any of "dgimsuy"

[tui]
accent_color = "#7D56F4"  # hex color for header/accent elements
watch = true              # reload when another process edits the journal
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
