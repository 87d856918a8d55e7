package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/encoder"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/tasks"
	"github.com/desertthunder/audious/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	transcoder encoder.Transcoder
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	display    *ui.Display
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag of each command.
// A nil Transcoder is built from the export preferences.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Transcoder encoder.Transcoder
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		transcoder: opts.Transcoder,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		display:    ui.NewDisplay(opts.Output),
	}
}

// SetLogger replaces the logger, e.g. while a TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		initCommand, pickCommand, statsCommand, exportCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the injected config or loads the file named by --config.
//
// A missing file is a configuration error pointing at `audious init`.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		shared.SetLogLevel(r.logger, r.config.LogLevel())
		return r.config, nil
	}

	path := cmd.String("config")
	if r.configPath != "" && !cmd.IsSet("config") {
		path = r.configPath
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, shared.ConfigError("preferences file not found at %s, run 'audious init' to create one", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, shared.ConfigError("%v", err)
	}
	shared.SetLogLevel(r.logger, config.LogLevel())
	r.logger.Debug("loaded preferences", "path", path)
	return config, nil
}

// progress logs task progress at debug level. User-facing output is written by each command.
func (r *Runner) progress(u tasks.ProgressUpdate) {
	r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
}

// reportErrors writes each recoverable error on the display.
func (r *Runner) reportErrors(errs []error) {
	for _, err := range errs {
		r.display.Error(errorMessage(err))
	}
}

// errorMessage strips the sentinel prefix of recoverable errors and capitalizes the rest.
func errorMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, shared.ErrRecoverableIO) {
		msg = strings.TrimPrefix(msg, shared.ErrRecoverableIO.Error()+": ")
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
