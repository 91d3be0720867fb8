package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/buupgo/press/config"
)

func newConfig(t *testing.T, args ...string) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig(args)
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func TestList(t *testing.T) {
	color.NoColor = true
	out := new(bytes.Buffer)
	require.NoError(t, list(out, ""))
	require.Contains(t, out.String(), "COMPRESSION:")
	require.Contains(t, out.String(), "gzipdecompress")
	require.NotContains(t, out.String(), "ENCODERS:")
	require.Contains(t, out.String(), "EXAMPLES:")

	out.Reset()
	require.NoError(t, list(out, "crypto"))
	require.NotContains(t, out.String(), "COMPRESSION:")
	require.NotContains(t, out.String(), "gzipcompress")

	out.Reset()
	require.NoError(t, list(out, "compression"))
	require.Contains(t, out.String(), "COMPRESSION:")
	require.NotContains(t, out.String(), "EXAMPLES:")

	require.Error(t, list(out, "archives"))
}

func TestRunArgs(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, run(newConfig(t, "run", "deflatecompress", "Hello,", "world!"), nil, out))
	require.Equal(t, "80jNycnXUSjPL8pJUQQA", out.String())
}

func TestRunStdinToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.txt")
	cfg := newConfig(t, "run", "deflatedecompress", "-o", file)
	require.NoError(t, run(cfg, strings.NewReader("80jNycnXUSjPL8pJUQQA\n"), nil))

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, "Hello, world!", string(b))
}

func TestRunInputFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(file, []byte("gzip me, gzip me"), 0o600))

	compressed := new(bytes.Buffer)
	require.NoError(t, run(newConfig(t, "run", "gzipcompress", "-i", file), nil, compressed))

	out := new(bytes.Buffer)
	require.NoError(t, run(newConfig(t, "run", "gzipdecompress", compressed.String()), nil, out))
	require.Equal(t, "gzip me, gzip me", out.String())
}

func TestRunTrace(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, run(newConfig(t, "run", "deflatecompress", "--trace", "abcabcabcabc"), nil, out))
	require.Equal(t, "abc<9,3>", out.String())
}

func TestRunErrors(t *testing.T) {
	out := new(bytes.Buffer)
	require.Error(t, run(newConfig(t, "run", "lzwcompress", "x"), nil, out))
	require.Error(t, run(newConfig(t, "run", "gzipdecompress", "%%%"), nil, out))
}
