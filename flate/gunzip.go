package flate

import (
	"encoding/binary"
	"time"
	"unicode/utf8"

	"github.com/buupgo/press/internal/crc32"
	"github.com/pkg/errors"
)

const (
	gzipHeaderSize  = 10
	gzipTrailerSize = 8
	gzipMinSize     = gzipHeaderSize + gzipTrailerSize
)

// Gunzip decompresses a single gzip member. The member must fill src
// exactly; trailing bytes are ErrMalformed.
func Gunzip(src []byte) ([]byte, error) {
	out, _, err := GunzipHeader(src)
	return out, err
}

// GunzipHeader is like Gunzip, but it also returns the member's header.
func GunzipHeader(src []byte) ([]byte, Header, error) {
	var h Header
	if len(src) < gzipMinSize {
		return nil, h, errors.Wrapf(ErrMalformed, "gzip member of %d bytes is shorter than %d", len(src), gzipMinSize)
	}
	if src[0] != gzipID1 || src[1] != gzipID2 {
		return nil, h, errors.Wrapf(ErrMalformed, "bad gzip magic %#02x %#02x", src[0], src[1])
	}
	if src[2] != gzipDeflate {
		return nil, h, errors.Wrapf(ErrMalformed, "unsupported compression method %d", src[2])
	}
	flg := src[3]
	if flg&flagReserved != 0 {
		return nil, h, errors.Wrapf(ErrMalformed, "reserved flag bits set: %#02x", flg)
	}
	if t := binary.LittleEndian.Uint32(src[4:8]); t > 0 {
		h.ModTime = time.Unix(int64(t), 0)
	}
	// src[8] is XFL, which carries nothing a decoder needs.
	h.OS = src[9]
	h.Text = flg&flagText != 0

	// Optional fields may not run into the trailer.
	body := src[:len(src)-gzipTrailerSize]
	pos := gzipHeaderSize

	if flg&flagExtra != 0 {
		if len(body)-pos < 2 {
			return nil, h, errors.Wrap(ErrMalformed, "truncated FEXTRA length")
		}
		n := int(binary.LittleEndian.Uint16(body[pos:]))
		pos += 2
		if len(body)-pos < n {
			return nil, h, errors.Wrapf(ErrMalformed, "FEXTRA of %d bytes is truncated", n)
		}
		h.Extra = append([]byte{}, body[pos:pos+n]...)
		pos += n
	}

	var err error
	if flg&flagName != 0 {
		if h.Name, pos, err = readString(body, pos); err != nil {
			return nil, h, errors.Wrap(err, "FNAME")
		}
	}
	if flg&flagComment != 0 {
		if h.Comment, pos, err = readString(body, pos); err != nil {
			return nil, h, errors.Wrap(err, "FCOMMENT")
		}
	}

	if flg&flagHdrCrc != 0 {
		if len(body)-pos < 2 {
			return nil, h, errors.Wrap(ErrMalformed, "truncated FHCRC")
		}
		want := binary.LittleEndian.Uint16(body[pos:])
		if got := uint16(crc32.Checksum(body[:pos])); got != want {
			return nil, h, errors.Wrapf(ErrChecksum, "header CRC16 %#04x, computed %#04x", want, got)
		}
		h.HeaderCRC = true
		pos += 2
	}

	payload := body[pos:]
	out, n, err := inflate(payload)
	if err != nil {
		return nil, h, err
	}
	if n != len(payload) {
		return nil, h, errors.Wrapf(ErrMalformed, "%d bytes of trailing data after the DEFLATE stream", len(payload)-n)
	}

	trailer := src[len(src)-gzipTrailerSize:]
	if want, got := binary.LittleEndian.Uint32(trailer), crc32.Checksum(out); got != want {
		return nil, h, errors.Wrapf(ErrChecksum, "CRC32 %#08x, computed %#08x", want, got)
	}
	if want, got := binary.LittleEndian.Uint32(trailer[4:]), uint32(len(out)); got != want {
		return nil, h, errors.Wrapf(ErrLength, "ISIZE %d, decompressed %d bytes", want, got)
	}
	return out, h, nil
}

// readString reads a NUL-terminated ISO 8859-1 string starting at pos and
// returns it as UTF-8 with the position after the NUL.
func readString(b []byte, pos int) (string, int, error) {
	for i := pos; i < len(b); i++ {
		if b[i] != 0 {
			continue
		}
		raw := b[pos:i]
		s := make([]byte, 0, len(raw))
		for _, v := range raw {
			s = utf8.AppendRune(s, rune(v))
		}
		return string(s), i + 1, nil
	}
	return "", 0, errors.Wrap(ErrMalformed, "unterminated string")
}
