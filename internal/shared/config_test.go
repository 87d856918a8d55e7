package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLibrary creates a collection root with a playlists dir and the given category dirs.
func writeLibrary(t *testing.T, categories ...string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Playlists"), 0755))
	for _, c := range categories {
		require.NoError(t, os.MkdirAll(filepath.Join(root, c), 0755))
	}
	return root
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		assert.Equal(t, "/music", config.Collection.Root)
		assert.Equal(t, "Playlists", config.Collection.Playlists)
		require.Len(t, config.Collection.Categories, 2)
		assert.Equal(t, "artists", config.Collection.Categories[0].Name)
		assert.Equal(t, "flac", config.Export.Format)
		assert.Equal(t, "ffmpeg", config.Export.Encoder)
		assert.False(t, config.Export.LenientEncoder)
		assert.Equal(t, log.InfoLevel, config.LogLevel())
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "conf", "audious.toml")

		require.NoError(t, CreateConfigFile(configPath))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Collection.Root, config.Collection.Root)

		assert.Error(t, CreateConfigFile(configPath), "creating config file again should fail")
	})

	t.Run("LoadConfig TOML keeps category order", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "audious.toml")
		content := `[collection]
root = "/srv/music/"

[[collection.categories]]
name = "zeta"
path = "Zeta/"

[[collection.categories]]
name = "alpha"
path = "Alpha"

[export]
root = "/mnt/usb"
format = "MP3"
lenient_encoder = true

[log]
level = "debug"
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)

		assert.Equal(t, "Playlists", config.Collection.Playlists, "default playlists dir")
		assert.Equal(t, []string{"Zeta/", "Alpha/"}, config.Prefixes())

		categories := config.Categories()
		require.Len(t, categories, 2)
		assert.Equal(t, filepath.Join("/srv/music", "Zeta"), categories[0].Path)

		format, err := config.Format()
		require.NoError(t, err)
		assert.Equal(t, models.FormatMP3, format)
		assert.True(t, config.Export.LenientEncoder)
		assert.Equal(t, log.DebugLevel, config.LogLevel())
		assert.Equal(t, filepath.Join("/mnt/usb", "Playlists"), config.ExportPlaylistsDir())
	})

	t.Run("LoadConfig YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "audious.yaml")
		content := `collection:
  root: /music
  playlists: Lists
  categories:
    - name: rock
      path: Rock
export:
  root: /export
  format: flac
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/music", "Lists"), config.PlaylistsDir())
		assert.Equal(t, []string{"Rock/"}, config.Prefixes())
	})

	t.Run("LoadConfig errors", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)

		bad := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte("[collection\nroot = "), 0644))
		_, err = LoadConfig(bad)
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid collection", func(t *testing.T) {
		root := writeLibrary(t, "Rock")
		config := &Config{Collection: CollectionConfig{
			Root:       root,
			Playlists:  "Playlists",
			Categories: []CategoryConfig{{Name: "rock", Path: "Rock"}},
		}, Log: LogConfig{Level: "info"}}

		assert.NoError(t, config.Validate())
	})

	t.Run("configuration errors", func(t *testing.T) {
		root := writeLibrary(t, "Rock")
		tests := []struct {
			name   string
			config Config
		}{
			{"missing root", Config{}},
			{"root does not exist", Config{Collection: CollectionConfig{Root: filepath.Join(root, "nope"), Playlists: "Playlists"}}},
			{"no categories", Config{Collection: CollectionConfig{Root: root, Playlists: "Playlists"}}},
			{"category without path", Config{Collection: CollectionConfig{Root: root, Playlists: "Playlists",
				Categories: []CategoryConfig{{Name: "rock"}}}}},
			{"duplicate category", Config{Collection: CollectionConfig{Root: root, Playlists: "Playlists",
				Categories: []CategoryConfig{{Name: "rock", Path: "Rock"}, {Name: "rock", Path: "Rock"}}}}},
			{"category dir missing", Config{Collection: CollectionConfig{Root: root, Playlists: "Playlists",
				Categories: []CategoryConfig{{Name: "jazz", Path: "Jazz"}}}}},
			{"bad log level", Config{Collection: CollectionConfig{Root: root, Playlists: "Playlists",
				Categories: []CategoryConfig{{Name: "rock", Path: "Rock"}}}, Log: LogConfig{Level: "loud"}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.config.Validate()
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfiguration), "expected ErrConfiguration, got %v", err)
				assert.True(t, IsFatal(err))
			})
		}
	})

	t.Run("ValidateExport rejects unsupported format", func(t *testing.T) {
		root := writeLibrary(t, "Rock")
		config := &Config{
			Collection: CollectionConfig{Root: root, Playlists: "Playlists",
				Categories: []CategoryConfig{{Name: "rock", Path: "Rock"}}},
			Export: ExportConfig{Root: t.TempDir(), Playlists: "Playlists", Format: "ogg"},
			Log:    LogConfig{Level: "info"},
		}

		err := config.ValidateExport()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)

		config.Export.Format = "mp3"
		assert.NoError(t, config.ValidateExport())
	})
}
