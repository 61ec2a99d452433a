// Package trees implements the Huffman-tree construction and bit-packing
// collaborator that spec.md §6.2 names but treats as external to the LZ77
// CORE: canonical code construction, fixed/dynamic/stored block emission,
// and the LSB-first bit accumulator DEFLATE packs codes into.
//
// Grounded in github.com/intel/fastgo's compress/flate/internal/deflate and
// compress/flate/internal/huffman packages, re-derived for the simpler
// token representation the flate package tallies.
package trees

import "io"

// bitWriter is an LSB-first bit accumulator: bits are packed into bytes
// starting from the least-significant bit, the order RFC 1951 §3.1.1
// requires for every field in the stream. Grounded in
// intel-fastgo/compress/flate/internal/deflate/bitbuf.go's BitBuf, without
// its unsafe-pointer fast path.
type bitWriter struct {
	dest    io.Writer
	bits    uint64
	nbits   uint
	buf     []byte
	err     error
	written int64
}

func newBitWriter(dest io.Writer) *bitWriter {
	return &bitWriter{dest: dest, buf: make([]byte, 0, 1<<12)}
}

func (w *bitWriter) reset(dest io.Writer) {
	w.dest = dest
	w.bits = 0
	w.nbits = 0
	w.buf = w.buf[:0]
	w.err = nil
	w.written = 0
}

// writeBits packs the low nb bits of b into the accumulator. Huffman codes
// passed in must already be bit-reversed by the caller (see
// reverseCode in huffman.go) since DEFLATE codes are conceptually
// MSB-first but the bitstream itself is LSB-first.
func (w *bitWriter) writeBits(b uint32, nb uint) {
	if w.err != nil || nb == 0 {
		return
	}
	w.bits |= uint64(b) << w.nbits
	w.nbits += nb
	for w.nbits >= 8 {
		w.buf = append(w.buf, byte(w.bits))
		w.bits >>= 8
		w.nbits -= 8
	}
	if len(w.buf) >= 1<<12 {
		w.flushBuf()
	}
}

// alignByte pads the accumulator out to the next byte boundary with zero
// bits, as a stored block's LEN field and the end of the stream require.
func (w *bitWriter) alignByte() {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.bits))
		w.bits = 0
		w.nbits = 0
	}
}

// writeRawBytes appends p directly to the byte stream. Must be called at a
// byte boundary (after alignByte), as it is for stored blocks.
func (w *bitWriter) writeRawBytes(p []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, p...)
	if len(w.buf) >= 1<<12 {
		w.flushBuf()
	}
}

func (w *bitWriter) flushBuf() {
	if w.err != nil || len(w.buf) == 0 {
		return
	}
	n, err := w.dest.Write(w.buf)
	w.written += int64(n)
	if err != nil {
		w.err = err
	}
	w.buf = w.buf[:0]
}

// drain pushes every fully-packed byte in the accumulator to dest without
// forcing byte alignment: block headers are free to continue mid-byte into
// the next block, so this is safe to call after every FlushBlock.
func (w *bitWriter) drain() error {
	w.flushBuf()
	return w.err
}

// alignAndDrain pads to a byte boundary and pushes everything to dest. Used
// only after the final block of the stream; stored blocks (including the
// sync/full flush marker) pad with alignByte themselves.
func (w *bitWriter) alignAndDrain() error {
	w.alignByte()
	w.flushBuf()
	return w.err
}
