// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// Touch creates a small placeholder file at path.
func Touch(t *testing.T, path string) {
	t.Helper()
	MustWriteFile(t, path, []byte("audio"))
}

// Library is a throwaway collection on disk:
//
//	<root>/music/<category>/<album>/<song>
//	<root>/music/Playlists/*.m3u
//	<root>/export
type Library struct {
	Root      string
	Music     string
	Playlists string
	Export    string
}

// NewLibrary creates the collection and an empty export directory under t.TempDir.
func NewLibrary(t *testing.T) *Library {
	t.Helper()
	root := t.TempDir()
	l := &Library{
		Root:      root,
		Music:     filepath.Join(root, "music"),
		Playlists: filepath.Join(root, "music", "Playlists"),
		Export:    filepath.Join(root, "export"),
	}
	for _, dir := range []string{l.Music, l.Playlists, l.Export} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return l
}

// AddSong writes a placeholder song at the collection-relative path rel and returns its absolute path.
func (l *Library) AddSong(t *testing.T, rel string) string {
	t.Helper()
	p := filepath.Join(l.Music, filepath.FromSlash(rel))
	Touch(t, p)
	return p
}

// AddPlaylist writes a playlist named name with one line per entry.
func (l *Library) AddPlaylist(t *testing.T, name string, entries ...string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	p := filepath.Join(l.Playlists, name)
	MustWriteFile(t, p, buf.Bytes())
	return p
}

// FLACTags are the vorbis comments written by [WriteFLAC].
type FLACTags map[string]string

// FLACBytes builds a minimal FLAC stream: signature, STREAMINFO and a VORBIS_COMMENT block, no frames.
//
// The stream reports seconds of 44.1kHz stereo audio.
func FLACBytes(tags FLACTags, seconds int) []byte {
	const sampleRate, channels, bps = 44100, 2, 16

	var info bytes.Buffer
	binary.Write(&info, binary.BigEndian, uint16(4096))
	binary.Write(&info, binary.BigEndian, uint16(4096))
	info.Write([]byte{0, 0, 0, 0, 0, 0})
	packed := uint64(sampleRate)<<44 | uint64(channels-1)<<41 | uint64(bps-1)<<36 | uint64(sampleRate*seconds)
	binary.Write(&info, binary.BigEndian, packed)
	info.Write(make([]byte, 16))

	var comments bytes.Buffer
	vendor := "audious test"
	binary.Write(&comments, binary.LittleEndian, uint32(len(vendor)))
	comments.WriteString(vendor)
	binary.Write(&comments, binary.LittleEndian, uint32(len(tags)))
	for k, v := range tags {
		entry := k + "=" + v
		binary.Write(&comments, binary.LittleEndian, uint32(len(entry)))
		comments.WriteString(entry)
	}

	var out bytes.Buffer
	out.WriteString("fLaC")
	writeBlockHeader(&out, false, 0, info.Len())
	out.Write(info.Bytes())
	writeBlockHeader(&out, true, 4, comments.Len())
	out.Write(comments.Bytes())
	return out.Bytes()
}

func writeBlockHeader(w *bytes.Buffer, last bool, typ byte, length int) {
	var head byte = typ
	if last {
		head |= 0x80
	}
	w.WriteByte(head)
	w.Write([]byte{byte(length >> 16), byte(length >> 8), byte(length)})
}

// WriteFLAC writes a minimal tagged FLAC file to path.
func WriteFLAC(t *testing.T, path string, tags FLACTags, seconds int) {
	t.Helper()
	MustWriteFile(t, path, FLACBytes(tags, seconds))
}

// WriteMP3 writes an ID3v2.3 tag followed by filler bytes to path.
func WriteMP3(t *testing.T, path, title, artist, album string) {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(3)
	tag.SetTitle(title)
	tag.SetArtist(artist)
	tag.SetAlbum(album)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("Failed to encode id3 tag: %v", err)
	}
	buf.Write(make([]byte, 128))
	MustWriteFile(t, path, buf.Bytes())
}

// FakeEncoder writes an executable shell script standing in for ffmpeg and returns its path.
//
// The script writes "encoded" to its last argument and exits with code.
func FakeEncoder(t *testing.T, code int) string {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\nfor last; do :; done\nprintf 'encoded' > \"$last\"\nexit %d\n", code)
	p := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(p, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write fake encoder: %v", err)
	}
	return p
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
