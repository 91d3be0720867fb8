package flate

import (
	"fmt"
	"math/bits"
)

const (
	endBlockMarker   = 256
	lengthCodesStart = 257
	numLiterals      = 288 // fixed literal/length alphabet, including 286 and 287
	numDecodable     = 286 // 286 and 287 take part in the code but never occur
	numOffsets       = 30
	numOffsetCodes   = 32 // 30 and 31 are valid 5-bit codes with no meaning

	maxLiteralCodeLen = 9
	offsetCodeLen     = 5

	baseMatchLength   = 3
	maxMatchLength    = 258
	baseMatchOffset   = 1
	maxMatchOffset    = 1 << 15
	maxStoreBlockSize = 65535
)

// hcode is a Huffman code with its bits already reversed, ready to be
// written LSB first.
type hcode struct {
	code, len uint16
}

// The number of extra bits needed by length code X - lengthCodesStart.
var lengthExtraBits = [29]uint8{
	/* 257 */ 0, 0, 0,
	/* 260 */ 0, 0, 0, 0, 0, 1, 1, 1, 1, 2,
	/* 270 */ 2, 2, 2, 3, 3, 3, 3, 4, 4, 4,
	/* 280 */ 4, 5, 5, 5, 5, 0,
}

// The smallest length indicated by length code X - lengthCodesStart.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

// offset code word extra bits.
var offsetExtraBits = [numOffsets]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

var offsetBase = [numOffsets]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

// fixedTables holds the two views of the fixed Huffman codes of RFC 1951
// section 3.2.6. The encoder indexes by symbol; the decoder looks up a
// reversed code of a given length and gets the symbol, or -1.
type fixedTables struct {
	literal [numLiterals]hcode
	offset  [numOffsetCodes]hcode

	literalDecode [maxLiteralCodeLen + 1][]int16
	offsetDecode  [1 << offsetCodeLen]int16

	// lengthCode maps a match length to its index in lengthBase.
	lengthCode [maxMatchLength + 1]uint8
}

// fixed is built during package initialization and only read afterwards.
var fixed = newFixedTables()

func newFixedTables() *fixedTables {
	t := new(fixedTables)

	for ch := uint16(0); ch < numLiterals; ch++ {
		var bits, size uint16
		switch {
		case ch < 144:
			// size 8, 000110000  .. 10111111
			bits = ch + 48
			size = 8
		case ch < 256:
			// size 9, 110010000 .. 111111111
			bits = ch + 400 - 144
			size = 9
		case ch < 280:
			// size 7, 0000000 .. 0010111
			bits = ch - 256
			size = 7
		default:
			// size 8, 11000000 .. 11000111
			bits = ch + 192 - 280
			size = 8
		}
		t.literal[ch] = hcode{code: reverseBits(bits, size), len: size}
	}
	for ch := uint16(0); ch < numOffsetCodes; ch++ {
		t.offset[ch] = hcode{code: reverseBits(ch, offsetCodeLen), len: offsetCodeLen}
	}

	for n := 1; n <= maxLiteralCodeLen; n++ {
		t.literalDecode[n] = make([]int16, 1<<n)
		for i := range t.literalDecode[n] {
			t.literalDecode[n][i] = -1
		}
	}
	for sym := 0; sym < numDecodable; sym++ {
		c := t.literal[sym]
		if t.literalDecode[c.len][c.code] != -1 {
			panic(fmt.Sprintf("flate: literal codes %d and %d collide", t.literalDecode[c.len][c.code], sym))
		}
		t.literalDecode[c.len][c.code] = int16(sym)
	}
	for i := range t.offsetDecode {
		t.offsetDecode[i] = -1
	}
	for sym := 0; sym < numOffsets; sym++ {
		c := t.offset[sym]
		if t.offsetDecode[c.code] != -1 {
			panic(fmt.Sprintf("flate: offset codes %d and %d collide", t.offsetDecode[c.code], sym))
		}
		t.offsetDecode[c.code] = int16(sym)
	}

	code := 0
	for length := baseMatchLength; length <= maxMatchLength; length++ {
		for code+1 < len(lengthBase) && int(lengthBase[code+1]) <= length {
			code++
		}
		t.lengthCode[length] = uint8(code)
	}
	// 258 has its own code; 284 with all extra bits set would also reach it.
	if t.lengthCode[maxMatchLength] != 28 {
		panic("flate: length 258 does not map to code 285")
	}
	return t
}

func reverseBits(number uint16, bitLength uint16) uint16 {
	return bits.Reverse16(number << (16 - bitLength))
}

// lengthCode returns the index in lengthBase for a match length of 3..258.
func lengthCode(length int) int {
	return int(fixed.lengthCode[length])
}

// offsetCode returns the distance code for an offset of 1..32768.
func offsetCode(off int) int {
	code := numOffsets - 1
	for int(offsetBase[code]) > off {
		code--
	}
	return code
}
