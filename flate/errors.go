package flate

import "github.com/pkg/errors"

var (
	// ErrMalformed is returned for input that is not a valid DEFLATE or
	// gzip stream: truncated data, bad magic numbers, invalid codes,
	// back-references before the start of the output, or trailing bytes.
	ErrMalformed = errors.New("flate: malformed input")

	// ErrUnsupported is returned for blocks this package does not decode
	// (dynamic Huffman and the reserved block type).
	ErrUnsupported = errors.New("flate: unsupported block type")

	// ErrChecksum is returned when a gzip CRC (header or trailer) does not
	// match the data.
	ErrChecksum = errors.New("gzip: checksum mismatch")

	// ErrLength is returned when the gzip ISIZE field does not match the
	// decompressed length.
	ErrLength = errors.New("gzip: length mismatch")

	// ErrInputTooLarge is returned when incompressible input does not fit
	// in a single stored block.
	ErrInputTooLarge = errors.New("flate: input too large for a stored block")

	// ErrHeaderField is returned when a gzip header field can't be written.
	ErrHeaderField = errors.New("gzip: invalid header field")
)
