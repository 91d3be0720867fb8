package flate

import (
	"github.com/buupgo/press"
	"github.com/pkg/errors"
)

// NewEncoder returns an Encoder that writes its input as a single final
// DEFLATE block, using the fixed Huffman codes or, when that would not be
// smaller, a stored block.
func NewEncoder() press.Encoder {
	return new(encoder)
}

// NewMatchFinder returns the match finder used by Deflate and Gzip: a greedy
// hash chain over a 32 KiB window.
func NewMatchFinder() press.MatchFinder {
	return press.NewHashChain()
}

// Deflate compresses src into a raw DEFLATE stream (RFC 1951).
func Deflate(src []byte) ([]byte, error) {
	return press.Compress(nil, src, NewMatchFinder(), NewEncoder())
}

type encoder struct {
	w bitWriter
}

func (e *encoder) Reset() {
	e.w.reset(nil)
}

// Header appends nothing; raw DEFLATE has no stream header.
func (e *encoder) Header(dst []byte) []byte {
	return dst
}

func (e *encoder) Encode(dst []byte, src []byte, matches []press.Match) ([]byte, error) {
	size, err := fixedSize(src, matches)
	if err != nil {
		return dst, err
	}

	e.w.reset(dst)
	if size >= storedSize(src) {
		if len(src) > maxStoreBlockSize {
			return dst, errors.Wrapf(ErrInputTooLarge, "%d bytes", len(src))
		}
		e.writeStoredBlock(src)
	} else {
		e.writeFixedBlock(src, matches)
	}
	dst = e.w.bytes()
	e.w.reset(nil)
	return dst, nil
}

// storedSize returns the size in bits of src as a stored block, counting
// the header byte and LEN/NLEN.
func storedSize(in []byte) int {
	return (len(in) + 5) * 8
}

// fixedSize returns the size in bits of a fixed Huffman block holding
// matches: the block header, every code with its extra bits, and the end of
// block marker. It also checks that matches describe src.
func fixedSize(src []byte, matches []press.Match) (int, error) {
	size := 3
	pos := 0
	for _, m := range matches {
		if m.Unmatched < 0 || m.Unmatched > len(src)-pos {
			return 0, errors.Errorf("flate: match list overruns input at %d", pos)
		}
		for _, c := range src[pos : pos+m.Unmatched] {
			size += int(fixed.literal[c].len)
		}
		pos += m.Unmatched

		if m.Length == 0 {
			continue
		}
		if m.Length < baseMatchLength || m.Length > maxMatchLength || m.Length > len(src)-pos {
			return 0, errors.Errorf("flate: invalid match length %d at %d", m.Length, pos)
		}
		if m.Distance < baseMatchOffset || m.Distance > maxMatchOffset || m.Distance > pos {
			return 0, errors.Errorf("flate: invalid match distance %d at %d", m.Distance, pos)
		}
		lc := lengthCode(m.Length)
		oc := offsetCode(m.Distance)
		size += int(fixed.literal[lc+lengthCodesStart].len) + int(lengthExtraBits[lc])
		size += int(fixed.offset[oc].len) + int(offsetExtraBits[oc])
		pos += m.Length
	}
	if pos != len(src) {
		return 0, errors.Errorf("flate: match list covers %d of %d bytes", pos, len(src))
	}
	return size + int(fixed.literal[endBlockMarker].len), nil
}

func (e *encoder) writeStoredBlock(src []byte) {
	e.w.writeBits(1, 3) // BFINAL=1, BTYPE=00
	e.w.alignToByte()
	e.w.writeBits(uint32(len(src)), 16)
	e.w.writeBits(uint32(^uint16(len(src))), 16)
	e.w.writeBytes(src)
}

func (e *encoder) writeFixedBlock(src []byte, matches []press.Match) {
	e.w.writeBits(3, 3) // BFINAL=1, BTYPE=01

	pos := 0
	for _, m := range matches {
		for _, c := range src[pos : pos+m.Unmatched] {
			e.w.writeCode(fixed.literal[c])
		}
		pos += m.Unmatched

		length := m.Length
		if length == 0 {
			continue
		}
		lc := lengthCode(length)
		e.w.writeCode(fixed.literal[lc+lengthCodesStart])
		if n := uint(lengthExtraBits[lc]); n > 0 {
			e.w.writeBits(uint32(length-int(lengthBase[lc])), n)
		}

		offset := m.Distance
		oc := offsetCode(offset)
		e.w.writeCode(fixed.offset[oc])
		if n := uint(offsetExtraBits[oc]); n > 0 {
			e.w.writeBits(uint32(offset-int(offsetBase[oc])), n)
		}
		pos += length
	}
	e.w.writeCode(fixed.literal[endBlockMarker])
}
