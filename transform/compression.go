package transform

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/buupgo/press"
	"github.com/buupgo/press/flate"
)

var log = logrus.WithField("pkg", "transform")

// DeflateCompress compresses text into raw DEFLATE and returns it as Base64.
type DeflateCompress struct{}

func (DeflateCompress) Name() string       { return "DEFLATE Compress" }
func (DeflateCompress) ID() string         { return "deflatecompress" }
func (DeflateCompress) Category() Category { return Compression }
func (DeflateCompress) Description() string {
	return "Compresses input using the DEFLATE algorithm (RFC 1951) and encodes the output as Base64."
}

func (t DeflateCompress) Transform(input string) (string, error) {
	src := []byte(input)
	matches := flate.NewMatchFinder().FindMatches(nil, src)
	logParse(t, matches)

	e := flate.NewEncoder()
	compressed, err := e.Encode(e.Header(nil), src, matches)
	if err != nil {
		return "", errors.Wrap(err, "error compressing input")
	}
	logRun(t, len(src), len(compressed))
	return encodeBase64(compressed), nil
}

// DeflateDecompress decodes Base64 and inflates the raw DEFLATE stream in it.
type DeflateDecompress struct{}

func (DeflateDecompress) Name() string       { return "DEFLATE Decompress" }
func (DeflateDecompress) ID() string         { return "deflatedecompress" }
func (DeflateDecompress) Category() Category { return Compression }
func (DeflateDecompress) Description() string {
	return "Decompresses DEFLATE input (RFC 1951). Expects Base64 input."
}

func (t DeflateDecompress) Transform(input string) (string, error) {
	compressed, err := decodeBase64(input)
	if err != nil {
		return "", err
	}
	out, err := flate.Inflate(compressed)
	if err != nil {
		return "", errors.Wrap(err, "error decompressing input")
	}
	logRun(t, len(compressed), len(out))
	return toText(out)
}

// GzipCompress compresses text into a gzip member and returns it as Base64.
// The zero value writes the default header; Configure sets the optional
// fields.
type GzipCompress struct {
	FileName    string
	Comment     string
	HeaderCRC   bool
	ZeroModTime bool
}

func (GzipCompress) Name() string       { return "Gzip Compress" }
func (GzipCompress) ID() string         { return "gzipcompress" }
func (GzipCompress) Category() Category { return Compression }
func (GzipCompress) Description() string {
	return "Compresses input using Gzip (RFC 1952) and encodes the output as Base64."
}

func (t GzipCompress) Configure(o Options) Transformer {
	t.FileName = o.GzipName
	t.Comment = o.GzipComment
	t.HeaderCRC = o.GzipHeaderCRC
	t.ZeroModTime = o.GzipZeroMTime
	return t
}

func (t GzipCompress) header() flate.Header {
	h := flate.DefaultHeader()
	h.Name = t.FileName
	h.Comment = t.Comment
	h.HeaderCRC = t.HeaderCRC
	if t.ZeroModTime {
		h.ModTime = time.Time{}
	}
	return h
}

func (t GzipCompress) Transform(input string) (string, error) {
	src := []byte(input)
	compressed, err := flate.GzipHeader(src, t.header())
	if err != nil {
		return "", errors.Wrap(err, "error compressing input")
	}
	logRun(t, len(src), len(compressed))
	return encodeBase64(compressed), nil
}

// GzipDecompress decodes Base64 and decompresses the gzip member in it.
type GzipDecompress struct{}

func (GzipDecompress) Name() string       { return "Gzip Decompress" }
func (GzipDecompress) ID() string         { return "gzipdecompress" }
func (GzipDecompress) Category() Category { return Compression }
func (GzipDecompress) Description() string {
	return "Decompresses Gzip formatted input (RFC 1952). Expects Base64 input."
}

func (t GzipDecompress) Transform(input string) (string, error) {
	compressed, err := decodeBase64(input)
	if err != nil {
		return "", err
	}
	out, h, err := flate.GunzipHeader(compressed)
	if err != nil {
		return "", errors.Wrap(err, "error decompressing input")
	}
	log.WithFields(logrus.Fields{
		"transformer": t.ID(),
		"name":        h.Name,
		"comment":     h.Comment,
		"mtime":       h.ModTime,
		"os":          h.OS,
	}).Debug("gzip header")
	logRun(t, len(compressed), len(out))
	return toText(out)
}

func logRun(t Transformer, in, out int) {
	log.WithFields(logrus.Fields{
		"transformer":  t.ID(),
		"input_bytes":  in,
		"output_bytes": out,
	}).Debug("transform complete")
}

func logParse(t Transformer, matches []press.Match) {
	s := press.Summarize(matches)
	log.WithFields(logrus.Fields{
		"transformer":   t.ID(),
		"literals":      s.Literals,
		"matches":       s.Matches,
		"matched_bytes": s.MatchedBytes,
	}).Debug("parsed input")
}
