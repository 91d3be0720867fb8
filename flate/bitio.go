package flate

import "github.com/pkg/errors"

// A bitWriter packs bits LSB first, the order DEFLATE uses for everything
// except the bits of a Huffman code, which are reversed ahead of time.
// Whole bytes are appended to dst; the partial byte is only written by
// bytes, zero-padded on the high side.
type bitWriter struct {
	dst []byte

	// Data waiting to be written is the low nbits of bits.
	bits  uint64
	nbits uint
}

// writeBits writes the low nb bits of b, nb <= 16.
func (w *bitWriter) writeBits(b uint32, nb uint) {
	w.bits |= uint64(b) << w.nbits
	w.nbits += nb
	if w.nbits >= 48 {
		bits := w.bits
		w.bits >>= 48
		w.nbits -= 48
		w.dst = append(w.dst,
			byte(bits),
			byte(bits>>8),
			byte(bits>>16),
			byte(bits>>24),
			byte(bits>>32),
			byte(bits>>40),
		)
	}
}

func (w *bitWriter) writeCode(c hcode) {
	w.writeBits(uint32(c.code), uint(c.len))
}

// alignToByte pads the current byte with zero bits.
func (w *bitWriter) alignToByte() {
	w.nbits = (w.nbits + 7) &^ 7
	if w.nbits >= 48 {
		w.writeBits(0, 0)
	}
}

// writeBytes writes raw bytes. The writer must be aligned.
func (w *bitWriter) writeBytes(bytes []byte) {
	if w.nbits&7 != 0 {
		panic("writeBytes with unfinished bits")
	}
	w.flush()
	w.dst = append(w.dst, bytes...)
}

func (w *bitWriter) flush() {
	for w.nbits != 0 {
		w.dst = append(w.dst, byte(w.bits))
		w.bits >>= 8
		if w.nbits > 8 { // Avoid underflow
			w.nbits -= 8
		} else {
			w.nbits = 0
		}
	}
	w.bits = 0
}

// bytes flushes any pending bits and returns the output. It ends the
// stream; the writer must be reset before it is used again.
func (w *bitWriter) bytes() []byte {
	w.flush()
	return w.dst
}

func (w *bitWriter) reset(dst []byte) {
	w.dst = dst
	w.bits, w.nbits = 0, 0
}

// A bitReader reads bits LSB first from an in-memory stream.
type bitReader struct {
	src []byte
	pos  int  // index of the current byte
	bit  uint // bits already consumed from src[pos]
	past uint // bits read as zero beyond the end of src
}

// readBits reads n bits, n <= 32. Bits past the end of the input read as
// zero, up to 7 of them in total across all calls; that covers the padding
// of the final byte. Reading further is ErrMalformed.
func (r *bitReader) readBits(n uint) (uint32, error) {
	if n > 32 {
		return 0, errors.Errorf("flate: cannot read %d bits at once", n)
	}
	var v uint32
	var got uint
	for got < n {
		if r.pos >= len(r.src) {
			r.past += n - got
			if r.past > 7 {
				return 0, errors.Wrapf(ErrMalformed, "unexpected end of stream reading %d bits", n)
			}
			break
		}
		take := 8 - r.bit
		if take > n-got {
			take = n - got
		}
		part := uint32(r.src[r.pos]>>r.bit) & (1<<take - 1)
		v |= part << got
		got += take
		r.bit += take
		if r.bit == 8 {
			r.bit = 0
			r.pos++
		}
	}
	return v, nil
}

// alignToByte discards the rest of the current byte.
func (r *bitReader) alignToByte() {
	if r.bit != 0 {
		r.bit = 0
		r.pos++
	}
}

// readBytes returns the next n raw bytes. The reader must be aligned.
func (r *bitReader) readBytes(n int) ([]byte, error) {
	if r.bit != 0 {
		panic("readBytes with unfinished bits")
	}
	if n > len(r.src)-r.pos {
		return nil, errors.Wrapf(ErrMalformed, "stored block needs %d bytes, %d left", n, len(r.src)-r.pos)
	}
	b := r.src[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// consumed returns how many input bytes have been touched, counting a
// partially read byte.
func (r *bitReader) consumed() int {
	if r.bit > 0 {
		return r.pos + 1
	}
	return r.pos
}
