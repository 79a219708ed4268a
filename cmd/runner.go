package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/repositories"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The record store is opened on first use so that commands like setup can run before a database exists.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	db         *sql.DB
	guitars    models.GuitarRepository
	records    models.ServiceRecordRepository
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Guitars and Records bypass the record store when both are set.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Guitars    models.GuitarRepository
	Records    models.ServiceRecordRepository
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
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
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		guitars:    opts.Guitars,
		records:    opts.Records,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, guitarCommand, serviceCommand, exportCommand, importCommand, serveCommand, tuiCommand, mcpCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while a full-screen UI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig reads the file named by --config, falling back to defaults when it does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = path
	r.logger.Debug("configuration loaded", "path", path, "database", config.Database.Path)
	return nil
}

// repos opens the record store on first call and returns the repositories bound to it.
func (r *Runner) repos() (models.GuitarRepository, models.ServiceRecordRepository, error) {
	if r.guitars != nil && r.records != nil {
		return r.guitars, r.records, nil
	}

	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
	}
	r.db = db
	r.guitars = repositories.NewGuitarRepository(db)
	r.records = repositories.NewServiceRecordRepository(db)
	r.logger.Debug("record store opened", "path", r.config.Database.Path)
	return r.guitars, r.records, nil
}

// Close releases the record store if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) currency() string {
	return r.config.Display.Currency
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

// confirm asks a yes/no question on the runner's input. Anything but y or yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
