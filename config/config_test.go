package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "buup.toml")
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o600))
	return file
}

func TestNewConfigRun(t *testing.T) {
	cfg, err := NewConfig([]string{"run", "gzipcompress", "hello", "world", "--trace"})
	require.NoError(t, err)
	require.Equal(t, "gzipcompress", cfg.CLI.Run.ID)
	require.Equal(t, []string{"hello", "world"}, cfg.CLI.Run.Text)
	require.True(t, cfg.CLI.Run.Trace)
	require.True(t, strings.HasPrefix(cfg.CLI.Ctx.Command(), "run"), cfg.CLI.Ctx.Command())

	// No config file: defaults
	require.Equal(t, DefaultLogLevel, cfg.TOML.Log.Level)
	require.NotNil(t, cfg.TOML.Gzip)
	require.Equal(t, logrus.InfoLevel, cfg.LogLevel())
	require.NoError(t, Validate(cfg))
}

func TestNewConfigList(t *testing.T) {
	cfg, err := NewConfig([]string{"list", "-d", "-C"})
	require.NoError(t, err)
	require.Equal(t, "list", cfg.CLI.Ctx.Command())
	require.True(t, cfg.CLI.Debug)
	require.True(t, cfg.CLI.DisableColor)
	require.Equal(t, logrus.DebugLevel, cfg.LogLevel())
}

func TestNewConfigTOML(t *testing.T) {
	file := writeFile(t, `
[log]
level = "warn"

[gzip]
name = "out.txt"
comment = "made by buup"
header_crc = true
zero_mtime = true
`)
	cfg, err := NewConfig([]string{"-c", file, "run", "gzipcompress", "x"})
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, cfg.LogLevel())
	require.Equal(t, &TOMLGzip{
		Name:      "out.txt",
		Comment:   "made by buup",
		HeaderCRC: true,
		ZeroMTime: true,
	}, cfg.TOML.Gzip)
}

func TestNewConfigEnv(t *testing.T) {
	file := writeFile(t, "[log]\nlevel = \"error\"\n")
	t.Setenv("BUUP_CONFIG_FILE", file)
	cfg, err := NewConfig([]string{"list"})
	require.NoError(t, err)
	require.Equal(t, file, cfg.CLI.ConfigFile)
	require.Equal(t, logrus.ErrorLevel, cfg.LogLevel())
}

func TestNewConfigErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")
	_, err := NewConfig([]string{"-c", missing, "list"})
	require.Error(t, err)

	_, err = NewConfig([]string{"-c", writeFile(t, "[log]\nlevel = \"loud\"\n"), "list"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log.level")

	err = validateTOMLGzip(&TOMLGzip{Name: "a\x00b"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "gzip.name")

	_, err = NewConfig([]string{"-c", writeFile(t, "not toml ["), "list"})
	require.Error(t, err)

	_, err = NewConfig([]string{"run", "deflatecompress", "text", "-i", "in.txt"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")

	_, err = NewConfig([]string{"bogus"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.Error(t, Validate(nil))
	require.Error(t, Validate(&Config{CLI: &CLI{}}))
	require.Error(t, Validate(&Config{CLI: &CLI{}, TOML: &TOML{Log: &TOMLLog{Level: "info"}}}))
	require.NoError(t, Validate(&Config{CLI: &CLI{}, TOML: &TOML{Log: &TOMLLog{Level: "info"}, Gzip: &TOMLGzip{}}}))
}
