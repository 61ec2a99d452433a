package trees

import "io"

// symbol is one entry of the tally buffer the Writer accumulates between
// blocks: a literal byte (dist == 0) or a length/distance back-reference.
// Grounded in the same literal/match-folding trick
// intel-fastgo/compress/flate/internal/deflate's token type uses, kept
// here as the trees subsystem's own sym_buf analogue (zlib's deflate.c
// tallies into trees.c's sym_buf, not the other way around, which is why
// this buffer lives in this package rather than as a standalone type in
// flate itself).
type symbol struct {
	dist uint32 // 0 for a literal
	lc   uint32 // literal byte value, or length-minMatchLength for a match
}

const minMatchLength = 3

// Writer accumulates literal/match tallies for one block at a time and
// emits RFC 1951-compliant stored, fixed, or dynamic Huffman blocks,
// whichever is cheapest, to an underlying io.Writer. It implements the
// operations spec.md §6.2 names for the trees subsystem collaborator.
type Writer struct {
	bw *bitWriter

	syms       []symbol
	litBufSize int

	litFreq  [litLenAlphaSize]uint32
	distFreq [distAlphaSize]uint32

	litExtraBits  uint64
	distExtraBits uint64
}

// NewWriter returns a Writer targeting dest. litBufSize bounds how many
// symbols accumulate before TallyLit/TallyDist report the block is full,
// mirroring spec.md §6.4's lit_bufsize derivation from memLevel.
func NewWriter(dest io.Writer, litBufSize int) *Writer {
	w := &Writer{bw: newBitWriter(dest), litBufSize: litBufSize}
	w.Init()
	return w
}

// Reset rebinds the Writer to a new destination and clears all per-stream
// state, the operation spec.md §6.2 names tr_init.
func (w *Writer) Reset(dest io.Writer) {
	w.bw.reset(dest)
	w.Init()
}

// Init clears the tally buffer and frequency tables for a fresh block,
// spec.md §6.2's tr_init.
func (w *Writer) Init() {
	w.syms = w.syms[:0]
	for i := range w.litFreq {
		w.litFreq[i] = 0
	}
	for i := range w.distFreq {
		w.distFreq[i] = 0
	}
	w.litExtraBits = 0
	w.distExtraBits = 0
}

// TallyLit records a literal byte and reports whether the tally buffer has
// reached litBufSize-1 symbols, spec.md §6.2's tr_tally_lit.
func (w *Writer) TallyLit(b byte) bool {
	w.syms = append(w.syms, symbol{dist: 0, lc: uint32(b)})
	w.litFreq[b]++
	return len(w.syms) >= w.litBufSize-1
}

// TallyDist records a back-reference of the given distance and length
// (already offset by minMatchLength, the same length/distance encoding
// intel-fastgo's token type uses) and
// reports whether the tally buffer is full, spec.md §6.2's tr_tally_dist.
func (w *Writer) TallyDist(dist, lengthMinus3 uint32) bool {
	w.syms = append(w.syms, symbol{dist: dist, lc: lengthMinus3})

	lcode, _ := lengthCode(lengthMinus3 + minMatchLength)
	w.litFreq[endBlockSymbol+1+int(lcode)]++
	w.litExtraBits += uint64(lengthExtraBits[lcode])

	dcode, _ := distCode(dist)
	w.distFreq[dcode]++
	w.distExtraBits += uint64(distExtraBits[dcode])

	return len(w.syms) >= w.litBufSize-1
}

// StoredBlock emits data verbatim as a single RFC 1951 stored block (BTYPE
// 00), spec.md §6.2's tr_stored_block. Used both by the stored strategy
// engine and by the flush controller's sync/full empty-block marker.
func (w *Writer) StoredBlock(data []byte, last bool) error {
	w.writeBlockHeader(0, last)
	w.bw.alignByte()
	n := len(data)
	w.bw.writeRawBytes([]byte{byte(n), byte(n >> 8), byte(^n), byte(^n >> 8)})
	w.bw.writeRawBytes(data)
	return w.bw.drain()
}

// Align emits an empty static-Huffman block (just the block header and an
// end-of-block code, no literals or matches) and pushes the complete bytes
// to dest without padding (up to 7 bits stay in the accumulator for the
// next block), spec.md §6.2's tr_align. Grounded in zlib's _tr_align: send_bits(STATIC_TREES
// << 1, 3) + send_code(END_BLOCK, static_ltree) + bi_flush, the same trick
// that makes a sync point self-describing to a decoder (it sees a
// complete, empty block) rather than merely padding with bits a decoder
// has no way to interpret.
func (w *Writer) Align() error {
	w.writeBlockHeader(1, false)
	w.bw.writeBits(uint32(fixedLitCodes[endBlockSymbol]), uint(fixedLitLengths[endBlockSymbol]))
	return w.bw.drain()
}

// FlushBits pushes any complete buffered bytes to the destination without
// forcing alignment, spec.md §6.2's tr_flush_bits.
func (w *Writer) FlushBits() error {
	return w.bw.drain()
}

// Len reports how many symbols are pending in the tally buffer.
func (w *Writer) Len() int { return len(w.syms) }

// BytesWritten reports how many bytes have been pushed to dest so far.
func (w *Writer) BytesWritten() int64 { return w.bw.written }

// FlushBlock emits whichever of a stored, static (fixed-Huffman), or
// dynamic-Huffman block is cheapest for the symbols tallied since Init,
// spec.md §6.2's tr_flush_block. storedData is the raw window slice
// backing the tallied tokens, used only if the stored encoding wins;
// pass nil when a stored fallback isn't possible (e.g. the block spans
// more than 65535 bytes of window). forceStatic skips the cost comparison
// and always emits the fixed-Huffman encoding, for StrategyFixed
// (spec.md §3's strategy set, zlib's Z_FIXED). When last is set, the
// block is padded out to a byte boundary.
func (w *Writer) FlushBlock(storedData []byte, last bool, forceStatic bool) error {
	w.litFreq[endBlockSymbol]++
	drain := w.bw.drain
	if last {
		drain = w.bw.alignAndDrain
	}

	if forceStatic {
		w.writeBlockHeader(1, last)
		w.writeTokens(fixedLitCodes, fixedLitLengths[:], fixedDistCodes, fixedDistLengths[:])
		err := drain()
		w.Init()
		return err
	}

	dynBits, litLengths, distLengths := w.dynamicCost()
	fixedBits := w.fixedCost()

	storedBits := 1 << 62
	if storedData != nil && len(storedData) <= 0xffff {
		storedBits = (len(storedData) + 5) * 8
	}

	switch {
	case storedBits <= dynBits && storedBits <= fixedBits:
		err := w.StoredBlock(storedData, last)
		w.Init()
		return err
	case fixedBits <= dynBits:
		w.writeBlockHeader(1, last)
		w.writeTokens(fixedLitCodes, fixedLitLengths[:], fixedDistCodes, fixedDistLengths[:])
		err := drain()
		w.Init()
		return err
	default:
		w.writeBlockHeader(2, last)
		litCodes := buildCodes(litLengths, maxLitLenBits)
		distCodes := buildCodes(distLengths, maxDistBits)
		w.writeDynamicHeader(litLengths, distLengths)
		w.writeTokens(litCodes, litLengths, distCodes, distLengths)
		err := drain()
		w.Init()
		return err
	}
}

func (w *Writer) writeBlockHeader(btype uint32, last bool) {
	final := uint32(0)
	if last {
		final = 1
	}
	w.bw.writeBits(final|(btype<<1), 3)
}

// writeTokens re-walks the tally buffer, emitting each literal or
// length/distance pair as Huffman-coded symbols plus raw extra bits.
func (w *Writer) writeTokens(litCodes []uint16, litLengths []uint32, distCodes []uint16, distLengths []uint32) {
	for _, s := range w.syms {
		if s.dist == 0 {
			w.bw.writeBits(uint32(litCodes[s.lc]), uint(litLengths[s.lc]))
			continue
		}
		lcode, lextra := lengthCode(s.lc + minMatchLength)
		sym := endBlockSymbol + 1 + int(lcode)
		w.bw.writeBits(uint32(litCodes[sym]), uint(litLengths[sym]))
		w.bw.writeBits(lextra, uint(lengthExtraBits[lcode]))

		dcode, dextra := distCode(s.dist)
		w.bw.writeBits(uint32(distCodes[dcode]), uint(distLengths[dcode]))
		w.bw.writeBits(dextra, uint(distExtraBits[dcode]))
	}
	w.bw.writeBits(uint32(litCodes[endBlockSymbol]), uint(litLengths[endBlockSymbol]))
}
