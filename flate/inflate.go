package flate

import "github.com/pkg/errors"

// Inflate decompresses a raw DEFLATE stream (RFC 1951) made of stored and
// fixed Huffman blocks. Empty input decodes to empty output. Bytes after
// the final block are ignored; Gunzip is stricter.
func Inflate(src []byte) ([]byte, error) {
	out, _, err := inflate(src)
	return out, err
}

// inflate decodes src and also reports how many bytes of src the stream
// used.
func inflate(src []byte) ([]byte, int, error) {
	out := make([]byte, 0, 4*len(src))
	if len(src) == 0 {
		return out, 0, nil
	}

	r := &bitReader{src: src}
	for {
		final, err := r.readBits(1)
		if err != nil {
			return nil, 0, err
		}
		btype, err := r.readBits(2)
		if err != nil {
			return nil, 0, err
		}

		switch btype {
		case 0:
			out, err = inflateStored(r, out)
		case 1:
			out, err = inflateFixed(r, out)
		case 2:
			err = errors.Wrap(ErrUnsupported, "dynamic Huffman block")
		default:
			err = errors.Wrap(ErrUnsupported, "reserved block type 3")
		}
		if err != nil {
			return nil, 0, err
		}

		if final == 1 {
			return out, r.consumed(), nil
		}
	}
}

func inflateStored(r *bitReader, out []byte) ([]byte, error) {
	r.alignToByte()
	n, err := r.readBits(16)
	if err != nil {
		return nil, err
	}
	nn, err := r.readBits(16)
	if err != nil {
		return nil, err
	}
	if uint16(n) != ^uint16(nn) {
		return nil, errors.Wrapf(ErrMalformed, "stored block LEN %#04x does not match NLEN %#04x", n, nn)
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return nil, err
	}
	return append(out, b...), nil
}

func inflateFixed(r *bitReader, out []byte) ([]byte, error) {
	for {
		sym, err := decodeLiteral(r)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < endBlockMarker:
			out = append(out, byte(sym))
			continue
		case sym == endBlockMarker:
			return out, nil
		}

		lc := sym - lengthCodesStart
		length := int(lengthBase[lc])
		if n := uint(lengthExtraBits[lc]); n > 0 {
			extra, err := r.readBits(n)
			if err != nil {
				return nil, err
			}
			length += int(extra)
		}

		oc, err := decodeOffset(r)
		if err != nil {
			return nil, err
		}
		dist := int(offsetBase[oc])
		if n := uint(offsetExtraBits[oc]); n > 0 {
			extra, err := r.readBits(n)
			if err != nil {
				return nil, err
			}
			dist += int(extra)
		}
		if dist > len(out) {
			return nil, errors.Wrapf(ErrMalformed, "distance %d exceeds output size %d", dist, len(out))
		}

		// The source and destination may overlap, so copy a byte at a time.
		start := len(out) - dist
		for i := 0; i < length; i++ {
			out = append(out, out[start+i])
		}
	}
}

// decodeLiteral reads one literal/length symbol a bit at a time, checking
// the code read so far against the codes of that length.
func decodeLiteral(r *bitReader) (int, error) {
	var code uint32
	for n := uint(1); n <= maxLiteralCodeLen; n++ {
		b, err := r.readBits(1)
		if err != nil {
			return 0, err
		}
		code |= b << (n - 1)
		if sym := fixed.literalDecode[n][code]; sym >= 0 {
			return int(sym), nil
		}
	}
	return 0, errors.Wrapf(ErrMalformed, "invalid literal/length code %#x", code)
}

func decodeOffset(r *bitReader) (int, error) {
	code, err := r.readBits(offsetCodeLen)
	if err != nil {
		return 0, err
	}
	sym := fixed.offsetDecode[code]
	if sym < 0 {
		return 0, errors.Wrapf(ErrMalformed, "invalid distance code %d", reverseBits(uint16(code), offsetCodeLen))
	}
	return int(sym), nil
}
