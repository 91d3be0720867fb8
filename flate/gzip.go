package flate

import (
	"math"
	"time"

	"github.com/buupgo/press"
	"github.com/buupgo/press/internal/crc32"
	"github.com/pkg/errors"
)

const (
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8

	flagText     = 1 << 0
	flagHdrCrc   = 1 << 1
	flagExtra    = 1 << 2
	flagName     = 1 << 3
	flagComment  = 1 << 4
	flagReserved = 0xe0

	// OSUnknown is the OS byte written when the operating system is not
	// recorded.
	OSUnknown = 255
)

// The gzip file stores a header giving metadata about the compressed file.
// That header is exposed as the fields of the Header struct.
//
// Strings must be UTF-8 encoded and may only contain Unicode code points
// U+0001 through U+00FF, due to limitations of the gzip file format.
type Header struct {
	Name      string    // file name
	Comment   string    // comment
	Extra     []byte    // "extra data"
	ModTime   time.Time // modification time; the zero value writes MTIME 0
	OS        byte      // operating system type
	Text      bool      // the data is probably text (FTEXT)
	HeaderCRC bool      // write a CRC16 of the header (FHCRC)
}

// DefaultHeader returns the header written by Gzip: no optional fields,
// the current time and an unknown OS.
func DefaultHeader() Header {
	return Header{
		ModTime: time.Now(),
		OS:      OSUnknown,
	}
}

// Gzip compresses src into a single gzip member (RFC 1952) with the
// default header.
func Gzip(src []byte) ([]byte, error) {
	return GzipHeader(src, DefaultHeader())
}

// GzipHeader compresses src into a single gzip member carrying h.
func GzipHeader(src []byte, h Header) ([]byte, error) {
	return press.Compress(nil, src, NewMatchFinder(), NewGZIPEncoder(&h))
}

// NewGZIPEncoder returns an Encoder that wraps the DEFLATE encoder in the
// gzip header and trailer. A nil h means DefaultHeader. Errors in h are
// reported by Encode.
func NewGZIPEncoder(h *Header) press.Encoder {
	if h == nil {
		d := DefaultHeader()
		h = &d
	}
	return &gzipEncoder{
		f:      NewEncoder(),
		header: *h,
	}
}

type gzipEncoder struct {
	f      press.Encoder
	header Header
	err    error
}

func (g *gzipEncoder) Reset() {
	g.f.Reset()
	g.err = nil
}

func (g *gzipEncoder) Header(dst []byte) []byte {
	h := &g.header
	start := len(dst)

	var flg byte
	if h.Text {
		flg |= flagText
	}
	if h.HeaderCRC {
		flg |= flagHdrCrc
	}
	if h.Extra != nil {
		flg |= flagExtra
	}
	if h.Name != "" {
		flg |= flagName
	}
	if h.Comment != "" {
		flg |= flagComment
	}

	dst = append(dst,
		gzipID1, gzipID2, // magic number
		gzipDeflate, // CM = flate
		flg,
	)
	dst = appendUint32(dst, modTime(h.ModTime))
	dst = append(dst,
		0, // XFL
		h.OS,
	)

	if h.Extra != nil {
		if len(h.Extra) > math.MaxUint16 {
			g.err = errors.Wrapf(ErrHeaderField, "extra data is %d bytes", len(h.Extra))
			return dst[:start]
		}
		dst = appendUint16(dst, uint16(len(h.Extra)))
		dst = append(dst, h.Extra...)
	}
	var err error
	if h.Name != "" {
		if dst, err = appendString(dst, h.Name); err != nil {
			g.err = errors.Wrap(err, "name")
			return dst[:start]
		}
	}
	if h.Comment != "" {
		if dst, err = appendString(dst, h.Comment); err != nil {
			g.err = errors.Wrap(err, "comment")
			return dst[:start]
		}
	}
	if h.HeaderCRC {
		dst = appendUint16(dst, uint16(crc32.Checksum(dst[start:])))
	}
	return dst
}

func (g *gzipEncoder) Encode(dst []byte, src []byte, matches []press.Match) ([]byte, error) {
	if g.err != nil {
		return dst, g.err
	}
	dst, err := g.f.Encode(dst, src, matches)
	if err != nil {
		return dst, err
	}
	dst = appendUint32(dst, crc32.Checksum(src))
	dst = appendUint32(dst, uint32(len(src)))
	return dst, nil
}

// modTime converts t to a gzip MTIME. Times that don't fit in 32 bits of
// seconds since the epoch are written as 0 (no time stamp).
func modTime(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	sec := t.Unix()
	if sec < 0 || sec > math.MaxUint32 {
		return 0
	}
	return uint32(sec)
}

// appendString appends s as a NUL-terminated ISO 8859-1 string.
func appendString(dst []byte, s string) ([]byte, error) {
	for _, v := range s {
		if v == 0 || v > 0xff {
			return dst, errors.Wrapf(ErrHeaderField, "%q is not representable in ISO 8859-1 without NUL", s)
		}
		dst = append(dst, byte(v))
	}
	return append(dst, 0), nil
}

func appendUint16(dst []byte, n uint16) []byte {
	return append(dst,
		byte(n),
		byte(n>>8),
	)
}

func appendUint32(dst []byte, n uint32) []byte {
	return append(dst,
		byte(n),
		byte(n>>8),
		byte(n>>16),
		byte(n>>24),
	)
}
