package press

import "strconv"

// A TextEncoder is an Encoder that produces a human-readable representation of
// the LZ77 compression. Matches are replaced with <Length,Distance> symbols.
type TextEncoder struct{}

func (t TextEncoder) Header(dst []byte) []byte {
	return dst
}

func (t TextEncoder) Reset() {}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []Match) ([]byte, error) {
	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = append(dst, src[pos:pos+m.Unmatched]...)
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(m.Length), 10)
			dst = append(dst, ',')
			dst = strconv.AppendInt(dst, int64(m.Distance), 10)
			dst = append(dst, '>')
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = append(dst, src[pos:]...)
	}
	return dst, nil
}
