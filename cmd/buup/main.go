package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/buupgo/press"
	"github.com/buupgo/press/config"
	"github.com/buupgo/press/flate"
	"github.com/buupgo/press/transform"
)

func main() {
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}

	logrus.SetLevel(cfg.LogLevel())
	if cfg.CLI.Debug {
		logrus.Info("debug mode enabled")
	}

	if cfg.CLI.DisableColor {
		color.NoColor = true
	}

	displayConfig(cfg)

	switch cmd := cfg.CLI.Ctx.Command(); {
	case strings.HasPrefix(cmd, "list"):
		err = list(os.Stdout, cfg.CLI.List.Category)
	case strings.HasPrefix(cmd, "run"):
		err = run(cfg, os.Stdin, os.Stdout)
	default:
		err = errors.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		logrus.Errorf("error during %s: %s", cfg.CLI.Ctx.Command(), err)
		os.Exit(1)
	}
}

func displayConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	logrus.Debug("buup settings:")
	logrus.Debug("  [CLI]")
	logrus.Debugf("  version: %s", config.VERSION)
	logrus.Debugf("  command: %s", cfg.CLI.Ctx.Command())
	logrus.Debugf("  debug: %v", cfg.CLI.Debug)
	logrus.Debugf("  config file: %s", cfg.CLI.ConfigFile)
	logrus.Debugf("  disable color: %v", cfg.CLI.DisableColor)
	logrus.Debugf("  input: %s", cfg.CLI.Run.Input)
	logrus.Debugf("  output: %s", cfg.CLI.Run.Output)
	logrus.Debugf("  trace: %v", cfg.CLI.Run.Trace)
	logrus.Debug("")
	logrus.Debug("  [LOG]")
	logrus.Debugf("  log.level: %s", cfg.TOML.Log.Level)
	logrus.Debug("")
	logrus.Debug("  [GZIP]")
	logrus.Debugf("  gzip.name: %s", cfg.TOML.Gzip.Name)
	logrus.Debugf("  gzip.comment: %s", cfg.TOML.Gzip.Comment)
	logrus.Debugf("  gzip.header_crc: %v", cfg.TOML.Gzip.HeaderCRC)
	logrus.Debugf("  gzip.zero_mtime: %v", cfg.TOML.Gzip.ZeroMTime)
	logrus.Debug("")
}

var categories = []transform.Category{
	transform.Encoders,
	transform.Decoders,
	transform.Formatters,
	transform.Crypto,
	transform.Compression,
	transform.Others,
}

// list prints the transformers grouped by category, or only the ones in
// category when it is not empty.
func list(w io.Writer, category string) error {
	only := -1
	if category != "" {
		c, err := transform.ParseCategory(category)
		if err != nil {
			return err
		}
		only = int(c)
	}

	heading := color.New(color.FgCyan, color.Bold)
	id := color.New(color.FgGreen)

	fmt.Fprintln(w, "Available transformers:")
	groups := transform.Categorized()
	for _, c := range categories {
		if (only >= 0 && int(c) != only) || len(groups[c]) == 0 {
			continue
		}
		fmt.Fprintln(w)
		heading.Fprintf(w, "%s:\n", strings.ToUpper(c.String()))
		for _, t := range groups[c] {
			fmt.Fprintf(w, "  %s - %s\n", id.Sprintf("%-17s", t.ID()), t.Description())
		}
	}

	if only >= 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, `  buup run gzipcompress "Hello, world!"     # Compress text directly`)
	fmt.Fprintln(w, "  buup run deflatedecompress -i data.b64   # Decompress from file")
	fmt.Fprintln(w, `  echo "Hello" | buup run deflatecompress  # Pipe from stdin`)
	fmt.Fprintln(w, `  buup run deflatecompress --trace "abcabcabc" # Show the LZ77 parse`)
	return nil
}

func run(cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	t, err := transform.ByID(cfg.CLI.Run.ID)
	if err != nil {
		return errors.Wrap(err, "try 'buup list' to see available transformers")
	}
	if c, ok := t.(transform.Configurable); ok {
		t = c.Configure(transform.Options{
			GzipName:      cfg.TOML.Gzip.Name,
			GzipComment:   cfg.TOML.Gzip.Comment,
			GzipHeaderCRC: cfg.TOML.Gzip.HeaderCRC,
			GzipZeroMTime: cfg.TOML.Gzip.ZeroMTime,
		})
	}

	input, err := readInput(cfg.CLI.Run, stdin)
	if err != nil {
		return errors.Wrap(err, "error reading input")
	}

	var output string
	if cfg.CLI.Run.Trace {
		b, err := press.Compress(nil, []byte(input), flate.NewMatchFinder(), press.TextEncoder{})
		if err != nil {
			return errors.Wrap(err, "error tracing input")
		}
		output = string(b)
	} else {
		output, err = t.Transform(input)
		if err != nil {
			return errors.Wrap(err, "transformation error")
		}
	}

	if cfg.CLI.Run.Output != "" {
		if err := os.WriteFile(cfg.CLI.Run.Output, []byte(output), 0o644); err != nil {
			return errors.Wrap(err, "error writing output")
		}
		return nil
	}

	_, err = io.WriteString(stdout, output)
	return err
}

func readInput(r config.RunCmd, stdin io.Reader) (string, error) {
	switch {
	case len(r.Text) > 0:
		return strings.Join(r.Text, " "), nil
	case r.Input != "":
		b, err := os.ReadFile(r.Input)
		return string(b), err
	default:
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
}
