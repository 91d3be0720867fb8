// Package transform exposes the compression engine as text transformers:
// every transformer maps a string to a string, and binary data crosses the
// boundary as standard padded Base64.
package transform

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrInvalidBase64      = errors.New("invalid base64 input")
	ErrInvalidUTF8        = errors.New("decompressed data is not valid UTF-8")
	ErrUnknownTransformer = errors.New("unknown transformer")
	ErrUnknownCategory    = errors.New("unknown category")
)

// A Transformer converts text to text.
type Transformer interface {
	// Name is the human-readable name, e.g. "Gzip Compress".
	Name() string

	// ID is the stable identifier used on the command line, e.g. "gzipcompress".
	ID() string

	Description() string
	Category() Category

	Transform(input string) (string, error)
}

// A Configurable transformer takes settings from the config file.
type Configurable interface {
	Transformer
	Configure(o Options) Transformer
}

// Options holds the settings a Configurable transformer may use.
type Options struct {
	GzipName      string
	GzipComment   string
	GzipHeaderCRC bool
	GzipZeroMTime bool
}

type Category int

const (
	Encoders Category = iota
	Decoders
	Crypto
	Formatters
	Compression
	Others
)

var categoryNames = [...]string{
	Encoders:    "encoders",
	Decoders:    "decoders",
	Crypto:      "crypto",
	Formatters:  "formatters",
	Compression: "compression",
	Others:      "others",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory returns the category named s, ignoring case.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%q", s)
}

// decodeBase64 decodes standard padded Base64, ignoring surrounding
// whitespace.
func decodeBase64(input string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(input))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidBase64, err.Error())
	}
	return b, nil
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func toText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
