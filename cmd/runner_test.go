package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/audious/internal/encoder"
	"github.com/desertthunder/audious/internal/shared"
	tu "github.com/desertthunder/audious/internal/testing"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"
)

// fixture is a collection with two albums in the "rock" category, one of them in a playlist.
type fixture struct {
	lib    *tu.Library
	config *shared.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lib := tu.NewLibrary(t)
	tu.WriteFLAC(t, filepath.Join(lib.Music, "Rock", "Artist", "Album1", "01.flac"),
		tu.FLACTags{"TITLE": "Song", "ARTIST": "Artist", "ALBUM": "Album1"}, 3)
	tu.WriteFLAC(t, filepath.Join(lib.Music, "Rock", "Artist", "Album2", "01.flac"),
		tu.FLACTags{"TITLE": "Other", "ARTIST": "Artist", "ALBUM": "Album2"}, 2)
	lib.AddPlaylist(t, "mix.m3u", "Rock/Artist/Album1/01.flac")

	return &fixture{
		lib: lib,
		config: &shared.Config{
			Collection: shared.CollectionConfig{
				Root:       lib.Music,
				Playlists:  "Playlists",
				Categories: []shared.CategoryConfig{{Name: "hard rock", Path: "Rock"}},
			},
			Export: shared.ExportConfig{
				Root:      lib.Export,
				Playlists: "Playlists",
				Format:    "flac",
				Encoder:   "ffmpeg",
			},
			Journal: shared.JournalConfig{Path: filepath.Join(lib.Root, "journal", "audious.db")},
			Log:     shared.LogConfig{Level: "info"},
		},
	}
}

// run executes the app with args, answering prompts with input.
func (f *fixture) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return runApp(t, RunnerOpts{Config: f.config, Input: strings.NewReader(input)}, args...)
}

func runApp(t *testing.T, opts RunnerOpts, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	opts.Output = output
	opts.Logger = shared.NewLogger(&bytes.Buffer{})

	runner := NewRunner(opts)
	app := &cli.Command{Name: "audious", Commands: runner.register()}
	err := app.Run(context.Background(), append([]string{"audious"}, args...))
	return output.String(), err
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, output)
		}
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("y\n")
			transcoder := encoder.NewFFmpeg("ffmpeg", false, logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Input:      input,
				Transcoder: transcoder,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
			if runner.transcoder != transcoder {
				t.Error("expected transcoder to be set")
			}
			if runner.display == nil || runner.display.Writer() != output {
				t.Error("expected display to write to output")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := []string{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names = append(names, cmd.Name)
		}
		if got := strings.Join(names, ","); got != "init,pick,stats,export,history" {
			t.Errorf("unexpected commands: %s", got)
		}
	})

	t.Run("errorMessage", func(t *testing.T) {
		err := shared.RecoverableError("the following song was not found: 'x.flac'", os.ErrNotExist)
		if got := errorMessage(err); !strings.HasPrefix(got, "The following song was not found: 'x.flac'") {
			t.Errorf("unexpected message %q", got)
		}
		if got := errorMessage(errors.New("boom")); got != "Boom" {
			t.Errorf("expected 'Boom', got %q", got)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing preferences file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.toml")

		_, err := runApp(t, RunnerOpts{}, "pick", "--config", path)
		if !errors.Is(err, shared.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
		if !strings.Contains(err.Error(), "audious init") {
			t.Errorf("expected a hint to run init, got %v", err)
		}
	})

	t.Run("loads the file named by --config", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.lib.Root, "config.toml")
		tu.MustWriteFile(t, path, []byte(fmt.Sprintf(`
[collection]
root = %q
playlists = "Playlists"

[[collection.categories]]
name = "rock"
path = "Rock"

[log]
level = "warn"
`, f.lib.Music)))

		output, err := runApp(t, RunnerOpts{}, "pick", "--config", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "Picking albums to listen in 'Rock'")
	})
}

func TestPick(t *testing.T) {
	t.Run("lists unheard albums", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.run(t, "", "pick")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		assertContains(t, output,
			"Picking albums to listen...",
			"1 playlist was found",
			"1 album was found in the playlists",
			"Picking albums to listen in 'Hard Rock'",
			"2 albums were found in this category",
			"1 album is already in the playlists",
			"1 album is not in the playlists",
			"Artist → Album2",
			"Albums in the music collection: 2",
			"Albums in the playlists: 1 (50.00%)",
			"Albums not in the playlists: 1 (50.00%)",
			"Picking albums to listen: done!",
		)
		if strings.Contains(output, "Album1") {
			t.Error("expected the listened album to be left out")
		}
	})

	t.Run("writes picked albums to a file", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.lib.Root, "picks.csv")

		if _, err := f.run(t, "", "pick", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		assertContains(t, tu.MustReadFile(t, path), "hard rock,Rock/Artist/Album2,Artist → Album2")
	})

	t.Run("no playlists", func(t *testing.T) {
		f := newFixture(t)
		if err := os.Remove(filepath.Join(f.lib.Playlists, "mix.m3u")); err != nil {
			t.Fatal(err)
		}

		_, err := f.run(t, "", "pick")
		if !errors.Is(err, shared.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	output, err := f.run(t, "", "stats")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	assertContains(t, output,
		"Providing statistics of the music collection...",
		"1 song was found in the playlists",
		"Total duration of the playlists: 0:00:03",
		"Getting statistics for 'Hard Rock'",
		"2 songs were found in this category",
		"Total duration: 0:00:05",
		"2 albums are in the music collection",
		"2 songs are in the music collection",
		"Total duration of the music collection: 0:00:05",
		"1 album is in the playlists",
		"1 song is in the playlists",
		"Music Collection",
		"Providing statistics of the music collection: done!",
	)
}

func TestExport(t *testing.T) {
	t.Run("exports songs and playlists after confirmation", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.run(t, "y\n", "export")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		assertContains(t, output,
			"Exporting the playlists...",
			"Calculating exportation size",
			"Shall we continue? (y/n): ",
			"Exporting playlists in FLAC",
			"Quantity of songs: 1",
			"Successfully exported (1/1): 'Song' from 'Artist' in 'Album1'",
			"Created directory for playlists",
			"Successfully exported: 'mix.m3u'",
			"1 song was exported",
			"1 playlist was exported",
			"Exporting the playlists: done!",
		)
		tu.AssertFileExists(t, filepath.Join(f.lib.Export, "Rock", "Artist", "Album1", "01.flac"))
		tu.AssertFileExists(t, filepath.Join(f.lib.Export, "Playlists", "mix.m3u"))
		tu.AssertFileMissing(t, filepath.Join(f.lib.Export, "Rock", "Artist", "Album2", "01.flac"))
	})

	t.Run("answering no writes nothing", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.run(t, "n\n", "export")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		assertContains(t, output, "Quitting...")
		entries, err := os.ReadDir(f.lib.Export)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected an empty export root, got %d entries", len(entries))
		}
	})

	t.Run("--yes skips the question", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.run(t, "", "export", "--yes")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "Shall we continue? (y/n): yes", "1 song was exported")
	})

	t.Run("mp3 with a failing encoder", func(t *testing.T) {
		f := newFixture(t)
		f.config.Export.Encoder = tu.FakeEncoder(t, 1)

		output, err := f.run(t, "", "export", "--yes", "--format", "mp3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "Exporting playlists in MP3", "1 song could not be exported")
		if f.config.Export.Format != "flac" {
			t.Error("expected flags not to modify the loaded preferences")
		}
	})

	t.Run("mp3 with a lenient encoder", func(t *testing.T) {
		f := newFixture(t)
		f.config.Export.Encoder = tu.FakeEncoder(t, 1)

		output, err := f.run(t, "", "export", "--yes", "--format", "mp3", "--lenient")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "1 song was exported")
		tu.AssertFileExists(t, filepath.Join(f.lib.Export, "Rock", "Artist", "Album1", "01.mp3"))
	})

	t.Run("non-empty export root", func(t *testing.T) {
		f := newFixture(t)
		tu.Touch(t, filepath.Join(f.lib.Export, "leftover.flac"))

		_, err := f.run(t, "y\n", "export")
		if !errors.Is(err, shared.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.run(t, "y\n", "export", "--format", "ogg")
		if !errors.Is(err, shared.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("another export holds the lock", func(t *testing.T) {
		f := newFixture(t)
		lockPath := f.config.Journal.Path + ".lock"
		tu.MustWriteFile(t, lockPath, nil)

		lock := flock.New(lockPath)
		locked, err := lock.TryLock()
		if err != nil || !locked {
			t.Fatalf("failed to take the lock: %v", err)
		}
		defer lock.Unlock()

		_, err = f.run(t, "y\n", "export")
		if !errors.Is(err, shared.ErrExportLocked) {
			t.Errorf("expected ErrExportLocked, got %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	t.Run("lists recorded runs", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.run(t, "y\n", "export"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		output, err := f.run(t, "", "history", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var records []runRecord
		if err := json.Unmarshal([]byte(output), &records); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 run, got %d", len(records))
		}
		run := records[0]
		if run.Status != "completed" || run.Format != "flac" || run.Songs != 1 || run.Exported != 1 || run.Playlists != 1 {
			t.Errorf("unexpected run: %+v", run)
		}

		output, err = f.run(t, "", "history")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, strings.ToLower(output), "status", "completed", "1/1")

		output, err = f.run(t, "", "history", "--delete", run.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "Deleted export run #1 (flac, completed)")

		output, err = f.run(t, "", "history")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "No export runs were recorded")
	})

	t.Run("deleting an unknown run", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.run(t, "", "history", "--delete", "missing")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("empty journal", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.run(t, "", "history")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertContains(t, output, "No export runs were recorded")
	})

	t.Run("disabled journal", func(t *testing.T) {
		f := newFixture(t)
		f.config.Journal.Path = ""

		_, err := f.run(t, "", "history")
		if !errors.Is(err, shared.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, tempDir)
	defer tu.MustChdir(t, originalDir)

	path := filepath.Join(tempDir, "prefs", "config.toml")

	output, err := runApp(t, RunnerOpts{}, "init", "--config", path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, path)
	tu.AssertFileExists(t, filepath.Join(tempDir, "audious.db"))
	assertContains(t, output, "Preferences written to", "Journal ready at")

	t.Run("keeps an existing file", func(t *testing.T) {
		tu.MustWriteFile(t, path, []byte("[journal]\npath = \"\"\n"))

		output, err := runApp(t, RunnerOpts{}, "init", "--config", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(output, "Preferences written to") {
			t.Error("expected the existing file to be kept")
		}
		if got := tu.MustReadFile(t, path); !strings.Contains(got, `path = ""`) {
			t.Errorf("expected the file to be unchanged, got %s", got)
		}
	})
}
