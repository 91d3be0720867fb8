package press

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// HashChain is an implementation of the MatchFinder interface that
// uses hash chaining to find the longest match at each position.
//
// The chains live in two fixed-size arrays: head maps a hash to the most
// recent position with that hash, and prev maps a position (modulo the
// window size) to the previous position with the same hash. After
// allocation, finding matches does not allocate.
type HashChain struct {
	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and maximum) is 32768.
	MaxDistance int

	// MaxLength is the longest match that will be reported.
	// The default is 258.
	MaxLength int

	// Parser chooses among the matches. The default is GreedyParser.
	Parser Parser

	head [hashSize]int32
	prev [windowSize]int32

	src []byte
}

const (
	windowSize = 1 << 15
	windowMask = windowSize - 1

	hashBits = 15
	hashSize = 1 << hashBits
	hashMask = hashSize - 1

	minMatchLength = 3
	maxMatchLength = 258
)

// NewHashChain returns a HashChain with the DEFLATE limits: a 32 KiB window
// and matches of 3 to 258 bytes.
func NewHashChain() *HashChain {
	q := &HashChain{
		MaxDistance: windowSize,
		MaxLength:   maxMatchLength,
		Parser:      GreedyParser{},
	}
	q.Reset()
	return q
}

func (q *HashChain) Reset() {
	for i := range q.head {
		q.head[i] = -1
	}
	for i := range q.prev {
		q.prev[i] = -1
	}
	q.src = nil
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Each call starts from empty chains; matches never refer to data from an
// earlier call.
func (q *HashChain) FindMatches(dst []Match, src []byte) []Match {
	if q.MaxDistance <= 0 || q.MaxDistance > windowSize {
		q.MaxDistance = windowSize
	}
	if q.MaxLength < minMatchLength || q.MaxLength > maxMatchLength {
		q.MaxLength = maxMatchLength
	}
	if q.Parser == nil {
		q.Parser = GreedyParser{}
	}

	q.Reset()
	q.src = src
	dst = q.Parser.Parse(dst, q, 0, len(src))
	q.src = nil
	return dst
}

// hash3 hashes the first three bytes of b.
func hash3(b []byte) int {
	return (int(b[0])<<8 | int(b[1])<<4 | int(b[2])) & hashMask
}

func (q *HashChain) insert(pos, h int) {
	q.prev[pos&windowMask] = q.head[h]
	q.head[h] = int32(pos)
}

func (q *HashChain) Insert(pos int) {
	if pos+minMatchLength > len(q.src) {
		return
	}
	q.insert(pos, hash3(q.src[pos:]))
}

// Search walks the hash chain for pos and returns the longest match.
// When two candidates give the same length, the first one found (the most
// recent) wins.
func (q *HashChain) Search(pos, end int) AbsoluteMatch {
	src := q.src[:end]
	if pos+minMatchLength > len(src) {
		return AbsoluteMatch{}
	}

	h := hash3(src[pos:])
	minIndex := pos - q.MaxDistance
	if minIndex < 0 {
		minIndex = 0
	}
	limit := len(src)
	if pos+q.MaxLength < limit {
		limit = pos + q.MaxLength
	}

	var best AbsoluteMatch
	bestLen := 0
	for i := int(q.head[h]); i >= minIndex; i = int(q.prev[i&windowMask]) {
		n := extendMatch(src[:limit], i, pos) - pos
		if n >= minMatchLength && n > bestLen {
			bestLen = n
			best = AbsoluteMatch{
				Start: pos,
				End:   pos + n,
				Match: i,
			}
			if n == q.MaxLength {
				break
			}
		}
	}

	q.insert(pos, h)
	return best
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// XOR the two values and return the index of the first byte
				// that differs; the shift by 3 converts a bit index to a byte
				// index.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
