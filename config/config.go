package config

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	EnvVarPrefix = "BUUP"

	DefaultConfigFile = "buup.toml"
	DefaultLogLevel   = "info"

	MaxGzipFieldLength = 1024
)

var (
	// VERSION gets set during build
	VERSION = "0.0.0"
)

type Config struct {
	CLI  *CLI
	TOML *TOML
}

type TOML struct {
	Log  *TOMLLog  `toml:"log"`
	Gzip *TOMLGzip `toml:"gzip"`
}

type TOMLLog struct {
	Level string `toml:"level"`
}

type TOMLGzip struct {
	Name      string `toml:"name"`
	Comment   string `toml:"comment"`
	HeaderCRC bool   `toml:"header_crc"`
	ZeroMTime bool   `toml:"zero_mtime"`
}

type CLI struct {
	ConfigFile   string           `kong:"help='Path to the TOML config file (default: buup.toml if present)',type='path',short='c'"`
	Debug        bool             `kong:"help='Enable debug output',short='d'"`
	DisableColor bool             `kong:"help='Disable color output',short='C'"`
	Version      kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`

	List ListCmd `kong:"cmd,help='List available transformers'"`
	Run  RunCmd  `kong:"cmd,help='Run a transformer on text, a file or stdin'"`

	// Internal bits
	Ctx *kong.Context `kong:"-"`
}

type ListCmd struct {
	Category string `kong:"arg,optional,help='Only list transformers in this category'"`
}

type RunCmd struct {
	ID     string   `kong:"arg,help='Transformer ID, e.g. gzipcompress'"`
	Text   []string `kong:"arg,optional,help='Input text; joined with spaces'"`
	Input  string   `kong:"help='Read input from this file instead of the arguments or stdin',type='path',short='i'"`
	Output string   `kong:"help='Write output to this file instead of stdout',type='path',short='o'"`
	Trace  bool     `kong:"help='Print the LZ77 parse of the input instead of transforming it'"`
}

// NewConfig reads .env, parses args (without the program name), then
// reads and validates the TOML config file.
func NewConfig(args []string) (*Config, error) {
	// Attempt to load .env
	_ = godotenv.Load(".env")

	cli, err := readCLIArgs(args)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing CLI args")
	}

	tomlConfig, err := readTOML(cli.ConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	return &Config{
		CLI:  cli,
		TOML: tomlConfig,
	}, nil
}

// LogLevel returns the level to log at: debug when --debug is set,
// otherwise the level from the config file.
func (c *Config) LogLevel() logrus.Level {
	if c.CLI != nil && c.CLI.Debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(c.TOML.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func Validate(c *Config) error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	if err := validateCLIArgs(c.CLI); err != nil {
		return errors.Wrap(err, "error validating CLI args")
	}

	if err := validateTOML(c.TOML); err != nil {
		return errors.Wrap(err, "error validating toml config")
	}

	return nil
}

func readCLIArgs(args []string) (*CLI, error) {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("buup"),
		kong.Description("DEFLATE and Gzip text transformers"),
		kong.UsageOnError(),
		kong.DefaultEnvars(EnvVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": VERSION,
		})
	if err != nil {
		return nil, errors.Wrap(err, "error creating CLI parser")
	}

	cli.Ctx, err = parser.Parse(args)
	if err != nil {
		return nil, err
	}

	if err := validateCLIArgs(cli); err != nil {
		return nil, errors.Wrap(err, "error validating args")
	}

	return cli, nil
}

func validateCLIArgs(cli *CLI) error {
	if cli == nil {
		return errors.New("cli args cannot be nil")
	}

	if cli.Run.Input != "" && len(cli.Run.Text) > 0 {
		return errors.New("--input and text arguments are mutually exclusive")
	}

	return nil
}

// readTOML reads file, or DefaultConfigFile when file is empty. Only an
// explicitly named file has to exist.
func readTOML(file string) (*TOML, error) {
	explicit := file != ""
	if !explicit {
		file = DefaultConfigFile
	}

	tomlConfig := &TOML{}

	// Attempt to load file
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, tomlConfig); err != nil {
			return nil, errors.Wrap(err, "error parsing TOML config")
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; use defaults
	default:
		return nil, errors.Wrap(err, "error reading file")
	}

	// Set defaults
	if err := setTOMLDefaults(tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error setting TOML defaults")
	}

	// Validate loaded config
	if err := validateTOML(tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error validating TOML config")
	}

	return tomlConfig, nil
}

func setTOMLDefaults(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if t.Log == nil {
		t.Log = &TOMLLog{}
	}

	if t.Gzip == nil {
		t.Gzip = &TOMLGzip{}
	}

	if t.Log.Level == "" {
		t.Log.Level = DefaultLogLevel
	}

	return nil
}

func validateTOML(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if err := validateTOMLLog(t.Log); err != nil {
		return errors.Wrap(err, "log error(s)")
	}

	if err := validateTOMLGzip(t.Gzip); err != nil {
		return errors.Wrap(err, "gzip error(s)")
	}

	return nil
}

func validateTOMLLog(l *TOMLLog) error {
	if l == nil {
		return errors.New("log cannot be empty")
	}

	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return errors.Errorf("log.level %s is invalid", l.Level)
	}

	return nil
}

func validateTOMLGzip(g *TOMLGzip) error {
	if g == nil {
		return errors.New("gzip cannot be empty")
	}

	if strings.ContainsRune(g.Name, 0) {
		return errors.New("gzip.name cannot contain NUL")
	}

	if strings.ContainsRune(g.Comment, 0) {
		return errors.New("gzip.comment cannot contain NUL")
	}

	if len(g.Name) > MaxGzipFieldLength || len(g.Comment) > MaxGzipFieldLength {
		return errors.Errorf("gzip.name and gzip.comment must be at most %d bytes", MaxGzipFieldLength)
	}

	return nil
}
