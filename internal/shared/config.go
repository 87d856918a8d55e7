package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the preferences loaded from a TOML (or YAML) file.
type Config struct {
	Collection CollectionConfig `toml:"collection" yaml:"collection"`
	Export     ExportConfig     `toml:"export" yaml:"export"`
	Journal    JournalConfig    `toml:"journal" yaml:"journal"`
	Log        LogConfig        `toml:"log" yaml:"log"`
}

// CollectionConfig locates the music collection and its categories.
type CollectionConfig struct {
	Root       string           `toml:"root" yaml:"root"`
	Playlists  string           `toml:"playlists" yaml:"playlists"`
	Categories []CategoryConfig `toml:"categories" yaml:"categories"`
}

// CategoryConfig is one entry of the ordered category list.
type CategoryConfig struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

// ExportConfig contains export destination and encoding settings.
type ExportConfig struct {
	Root           string `toml:"root" yaml:"root"`
	Playlists      string `toml:"playlists" yaml:"playlists"`
	Format         string `toml:"format" yaml:"format"`
	Encoder        string `toml:"encoder" yaml:"encoder"`
	LenientEncoder bool   `toml:"lenient_encoder" yaml:"lenient_encoder"`
}

// JournalConfig locates the export run journal. An empty path disables it.
type JournalConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyDefaults()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyDefaults()
	return &config
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Collection.Playlists == "" {
		c.Collection.Playlists = "Playlists"
	}
	if c.Export.Playlists == "" {
		c.Export.Playlists = "Playlists"
	}
	if c.Export.Format == "" {
		c.Export.Format = string(models.FormatFLAC)
	}
	if c.Export.Encoder == "" {
		c.Export.Encoder = "ffmpeg"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the collection side of the preferences: the root, the playlists directory and
// every category must point at existing directories, and at least one category is required.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Collection.Root) == "" {
		return ConfigError("collection root is required")
	}
	if err := requireDir(c.CollectionRoot()); err != nil {
		return err
	}
	if err := requireDir(c.PlaylistsDir()); err != nil {
		return err
	}
	if len(c.Collection.Categories) == 0 {
		return ConfigError("at least one category is required, add a category (e.g. Artists) with its path")
	}

	seen := make(map[string]bool, len(c.Collection.Categories))
	for i, cat := range c.Collection.Categories {
		if strings.TrimSpace(cat.Name) == "" || strings.TrimSpace(cat.Path) == "" {
			return ConfigError("category #%d needs both a name and a path", i+1)
		}
		if seen[cat.Name] {
			return ConfigError("category %q is declared twice", cat.Name)
		}
		seen[cat.Name] = true
		if err := requireDir(filepath.Join(c.CollectionRoot(), cat.Path)); err != nil {
			return err
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return ConfigError("invalid log level %q", c.Log.Level)
	}
	return nil
}

// ValidateExport runs [Config.Validate] and checks the export settings.
func (c *Config) ValidateExport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Export.Root) == "" {
		return ConfigError("export root is required")
	}
	if err := requireDir(c.ExportRoot()); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Export.Playlists) == "" {
		return ConfigError("export playlists directory is required")
	}
	return nil
}

// CollectionRoot returns the cleaned collection root.
func (c *Config) CollectionRoot() string {
	return filepath.Clean(c.Collection.Root)
}

// PlaylistsDir returns the absolute directory holding the playlists.
func (c *Config) PlaylistsDir() string {
	return filepath.Join(c.CollectionRoot(), c.Collection.Playlists)
}

// Categories returns the categories in their declared order.
func (c *Config) Categories() []models.Category {
	categories := make([]models.Category, 0, len(c.Collection.Categories))
	for _, cat := range c.Collection.Categories {
		categories = append(categories, models.Category{
			Name:   cat.Name,
			Path:   filepath.Join(c.CollectionRoot(), cat.Path),
			Prefix: categoryPrefix(cat.Path),
		})
	}
	return categories
}

// Prefixes returns the display prefixes of every category, in declared order.
func (c *Config) Prefixes() []string {
	prefixes := make([]string, 0, len(c.Collection.Categories))
	for _, cat := range c.Categories() {
		prefixes = append(prefixes, cat.Prefix)
	}
	return prefixes
}

// ExportRoot returns the cleaned export root.
func (c *Config) ExportRoot() string {
	return filepath.Clean(c.Export.Root)
}

// ExportPlaylistsDir returns the directory receiving exported playlists.
func (c *Config) ExportPlaylistsDir() string {
	return filepath.Join(c.ExportRoot(), c.Export.Playlists)
}

// Format parses the configured export format.
func (c *Config) Format() (models.Format, error) {
	f, err := models.ParseFormat(c.Export.Format)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return f, nil
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func categoryPrefix(p string) string {
	return path.Clean(filepath.ToSlash(p)) + "/"
}

func requireDir(p string) error {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return ConfigError("the following path is invalid: %s", p)
	}
	return nil
}
