// Package encoder runs ffmpeg to transcode FLAC songs to MP3.
//
// One process is run per song, synchronously, with no timeout. Exit statuses are checked unless
// the encoder is lenient.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/shared"
)

// DefaultBinary is looked up in PATH when no encoder is configured.
const DefaultBinary = "ffmpeg"

// ErrEncoderExit is a nonzero encoder exit. It is recoverable: the song is reported and skipped.
var ErrEncoderExit = fmt.Errorf("%w: encoder exited with a failure status", shared.ErrRecoverableIO)

// encoderError wraps encoder failures with the command line and its output
type encoderError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *encoderError) Error() string {
	if e.output == "" {
		return fmt.Sprintf("%s (command: %s)", e.wrapped, e.cmd)
	}
	return fmt.Sprintf("%s (command: %s, output: %s)", e.wrapped, e.cmd, e.output)
}

func (e *encoderError) Unwrap() error {
	return e.wrapped
}

// newEncoderError creates an encoderError with a truncated command line
func newEncoderError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	return &encoderError{cmd: cmdStr, output: string(output), wrapped: err}
}

// Transcoder converts one source file into dest.
type Transcoder interface {
	Encode(ctx context.Context, src, dest string) error
}

// FFmpeg transcodes with an ffmpeg binary.
type FFmpeg struct {
	binary  string
	lenient bool
	logger  *log.Logger
}

// NewFFmpeg creates an encoder for binary (a name looked up in PATH, or a path).
//
// A lenient encoder ignores nonzero exit statuses.
func NewFFmpeg(binary string, lenient bool, logger *log.Logger) *FFmpeg {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FFmpeg{binary: binary, lenient: lenient, logger: logger}
}

// Lenient reports whether exit statuses are ignored.
func (f *FFmpeg) Lenient() bool { return f.lenient }

// Check verifies that the binary can be found.
func (f *FFmpeg) Check() error {
	if _, err := exec.LookPath(f.binary); err != nil {
		return fmt.Errorf("%w: %s not found: %v", shared.ErrEncoderStart, f.binary, err)
	}
	return nil
}

// Args returns the ffmpeg arguments for a highest-quality VBR MP3 with copied metadata and ID3v2.3 tags.
func Args(src, dest string) []string {
	return []string{
		"-v", "quiet",
		"-y",
		"-i", src,
		"-codec:a", "libmp3lame",
		"-qscale:a", "0",
		"-map_metadata", "0",
		"-id3v2_version", "3",
		dest,
	}
}

// Encode transcodes src into dest.
//
// A missing source is recoverable. A process that cannot be started fails with
// [shared.ErrEncoderStart]; a nonzero exit fails with [ErrEncoderExit] unless the encoder is lenient.
func (f *FFmpeg) Encode(ctx context.Context, src, dest string) error {
	if _, err := os.Stat(src); err != nil {
		return shared.RecoverableError(fmt.Sprintf("the following song could not be found: '%s'", src), err)
	}

	cmd := exec.CommandContext(ctx, f.binary, Args(src, dest)...)
	f.logger.Debug("encoding", "cmd", cmd.String())

	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return newEncoderError(cmd, output, fmt.Errorf("%w: %v", shared.ErrEncoderStart, err))
	}
	if f.lenient {
		f.logger.Warn("ignoring encoder exit status", "src", src, "code", exitErr.ExitCode())
		return nil
	}
	return newEncoderError(cmd, output, fmt.Errorf("%w: exit code %d", ErrEncoderExit, exitErr.ExitCode()))
}
