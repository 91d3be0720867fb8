// The press package is a small, modular system for DEFLATE-family
// compression.
//
// Compression is split into two parts:
//   - a MatchFinder, which looks for repeated sequences of bytes (LZ77)
//   - an Encoder, which writes the result in its final format
//
// The two parts communicate through a simple intermediate representation,
// a slice of Match values, so that a parse can be inspected, traced or
// re-encoded without involving the bit-level format.
package press

// A Match is the basic unit of LZ77 compression.
//
// It stands for Unmatched literal bytes followed by a back-reference of
// Length bytes copied from Distance bytes earlier. The last Match of a parse
// may have a Length of 0; it then only carries the trailing literals.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// new input.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Header appends the appropriate stream header to dst.
	Header(dst []byte) []byte

	// Encode appends the encoded format of src to dst, using the match
	// information from matches. src is always the complete input.
	Encode(dst []byte, src []byte, matches []Match) ([]byte, error)

	// Reset clears any internal state, preparing the Encoder to be used with
	// new input.
	Reset()
}

// Compress runs src through mf and e, appending the header and the encoded
// data to dst.
func Compress(dst, src []byte, mf MatchFinder, e Encoder) ([]byte, error) {
	mf.Reset()
	e.Reset()
	dst = e.Header(dst)
	matches := mf.FindMatches(nil, src)
	return e.Encode(dst, src, matches)
}

// A Summary counts what a parse is made of.
type Summary struct {
	Literals     int // bytes emitted as literals
	Matches      int // back-references
	MatchedBytes int // bytes covered by back-references
}

// Summarize returns a Summary of matches.
func Summarize(matches []Match) Summary {
	var s Summary
	for _, m := range matches {
		s.Literals += m.Unmatched
		if m.Length > 0 {
			s.Matches++
			s.MatchedBytes += m.Length
		}
	}
	return s
}
