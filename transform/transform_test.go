package transform

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/buupgo/press/flate"
)

const longText = "This is a slightly longer test string to see how DEFLATE compression handles it."

func TestDeflateCompressVectors(t *testing.T) {
	tests := map[string]string{
		"":                      "AwA=",
		"Hello, world!":         "80jNycnXUSjPL8pJUQQA",
		strings.Repeat("a", 50): "SyQZAAA=",
		longText:                "C8nILFYAokSF4pzM9IySnEqFnPy89NQihZLU4hKF4pKizLx0hZJ8heLUVIWM/HIFF1c3H8cQV4Xk/NyCotTi4sz8PIWMxLyUnFSgOSV6AA==",
	}
	for in, want := range tests {
		got, err := DeflateCompress{}.Transform(in)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", in)

		back, err := DeflateDecompress{}.Transform(got)
		require.NoError(t, err)
		require.Equal(t, in, back)
	}
}

func TestDeflateDecompressStored(t *testing.T) {
	in := base64.StdEncoding.EncodeToString([]byte{0x01, 0x04, 0x00, 0xfb, 0xff, 't', 'e', 's', 't'})
	got, err := DeflateDecompress{}.Transform(in)
	require.NoError(t, err)
	require.Equal(t, "test", got)
}

func TestDecompressTrimsWhitespace(t *testing.T) {
	got, err := DeflateDecompress{}.Transform("  80jNycnXUSjPL8pJUQQA\n")
	require.NoError(t, err)
	require.Equal(t, "Hello, world!", got)
}

func TestDecompressErrors(t *testing.T) {
	for _, tr := range []Transformer{DeflateDecompress{}, GzipDecompress{}} {
		_, err := tr.Transform("not base64!")
		require.True(t, errors.Is(err, ErrInvalidBase64), "%s: %v", tr.ID(), err)
	}

	_, err := DeflateDecompress{}.Transform("BQ==") // BTYPE=10
	require.True(t, errors.Is(err, flate.ErrUnsupported), "%v", err)

	_, err = GzipDecompress{}.Transform(base64.StdEncoding.EncodeToString([]byte("too short")))
	require.True(t, errors.Is(err, flate.ErrMalformed), "%v", err)
}

func TestDecompressInvalidUTF8(t *testing.T) {
	compressed, err := flate.Deflate([]byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)
	_, err = DeflateDecompress{}.Transform(base64.StdEncoding.EncodeToString(compressed))
	require.True(t, errors.Is(err, ErrInvalidUTF8), "%v", err)

	compressed, err = flate.Gzip([]byte{0xc0})
	require.NoError(t, err)
	_, err = GzipDecompress{}.Transform(base64.StdEncoding.EncodeToString(compressed))
	require.True(t, errors.Is(err, ErrInvalidUTF8), "%v", err)
}

func TestGzipRoundTrip(t *testing.T) {
	for _, in := range []string{"", "Hello, Gzip World!", longText, strings.Repeat("héllo wörld ", 500)} {
		compressed, err := GzipCompress{}.Transform(in)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(compressed)
		require.NoError(t, err)
		require.Equal(t, []byte{0x1f, 0x8b, 0x08}, raw[:3])

		out, err := GzipDecompress{}.Transform(compressed)
		require.NoError(t, err)
		require.Equal(t, in, out)
	}
}

func TestGzipCompressConfigure(t *testing.T) {
	tr, err := ByID("gzipcompress")
	require.NoError(t, err)
	c, ok := tr.(Configurable)
	require.True(t, ok)
	tr = c.Configure(Options{
		GzipName:      "hello.txt",
		GzipComment:   "greeting",
		GzipHeaderCRC: true,
		GzipZeroMTime: true,
	})

	compressed, err := tr.Transform("hello")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(compressed)
	require.NoError(t, err)

	out, h, err := flate.GunzipHeader(raw)
	require.NoError(t, err)
	require.Equal(t, "hello", string(out))
	require.Equal(t, "hello.txt", h.Name)
	require.Equal(t, "greeting", h.Comment)
	require.True(t, h.HeaderCRC)
	require.True(t, h.ModTime.IsZero())
	require.Equal(t, byte(flate.OSUnknown), h.OS)
}

func TestGzipCompressBadName(t *testing.T) {
	_, err := GzipCompress{FileName: "a\x00b"}.Transform("x")
	require.True(t, errors.Is(err, flate.ErrHeaderField), "%v", err)
}

func TestCategory(t *testing.T) {
	for _, c := range []Category{Encoders, Decoders, Crypto, Formatters, Compression, Others} {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}
	require.Equal(t, "compression", Compression.String())

	parsed, err := ParseCategory("Compression")
	require.NoError(t, err)
	require.Equal(t, Compression, parsed)

	_, err = ParseCategory("archives")
	require.True(t, errors.Is(err, ErrUnknownCategory))
	require.Equal(t, "unknown", Category(42).String())
}
