package trees

// clSym is one emission in the code-length alphabet (RFC 1951 §3.2.7):
// either a literal code length (0..15) or a repeat instruction (16, 17,
// 18) with its extra-bits payload.
type clSym struct {
	sym   uint8
	extra uint8
	val   uint8
}

// encodeLengths run-length-encodes the concatenated literal/length and
// distance code-length sequence into the 19-symbol code-length alphabet,
// following the same repeat-run grammar as
// intel-fastgo/compress/flate/internal/deflate/header.go's numRepeat and
// zeroRepeat, rewritten around a single combined pass instead of their
// split alphabet-building helper.
func encodeLengths(seq []uint32) ([]clSym, [codeLenAlphaSize]uint32) {
	var syms []clSym
	var freq [codeLenAlphaSize]uint32

	i := 0
	for i < len(seq) {
		v := seq[i]
		j := i + 1
		for j < len(seq) && seq[j] == v {
			j++
		}
		count := j - i
		if v == 0 {
			emitZeroRun(count, &syms, &freq)
		} else {
			emitValueRun(v, count, &syms, &freq)
		}
		i = j
	}
	return syms, freq
}

func emitZeroRun(count int, syms *[]clSym, freq *[codeLenAlphaSize]uint32) {
	for count > 0 {
		switch {
		case count < 3:
			*syms = append(*syms, clSym{sym: 0})
			freq[0]++
			count--
		case count <= 10:
			*syms = append(*syms, clSym{sym: 17, extra: 3, val: uint8(count - 3)})
			freq[17]++
			count = 0
		default:
			take := count
			if take > 138 {
				take = 138
			}
			*syms = append(*syms, clSym{sym: 18, extra: 7, val: uint8(take - 11)})
			freq[18]++
			count -= take
		}
	}
}

func emitValueRun(v uint32, count int, syms *[]clSym, freq *[codeLenAlphaSize]uint32) {
	*syms = append(*syms, clSym{sym: uint8(v)})
	freq[v]++
	count--
	for count > 0 {
		switch {
		case count < 3:
			*syms = append(*syms, clSym{sym: uint8(v)})
			freq[v]++
			count--
		default:
			take := count
			if take > 6 {
				take = 6
			}
			*syms = append(*syms, clSym{sym: 16, extra: 2, val: uint8(take - 3)})
			freq[16]++
			count -= take
		}
	}
}

// highestNonZero returns the last index in lengths with a nonzero value,
// or -1 if every entry is zero.
func highestNonZero(lengths []uint32) int {
	for i := len(lengths) - 1; i >= 0; i-- {
		if lengths[i] != 0 {
			return i
		}
	}
	return -1
}

// litDistCounts decides HLIT/HDIST (as literal/length and distance symbol
// counts, not the header's encoded HLIT-257/HDIST-1 values) for the
// tree described by litLengths/distLengths, forcing a one-symbol distance
// tree when a block contains no back-references at all — RFC 1951 still
// requires at least one distance code to be present.
func litDistCounts(litLengths, distLengths []uint32) (numLit, numDist int) {
	numLit = highestNonZero(litLengths) + 1
	numDist = highestNonZero(distLengths) + 1
	if numDist == 0 {
		distLengths[0] = 1
		numDist = 1
	}
	return numLit, numDist
}

// codeLenHeaderCount returns HCLEN (the number of hclenOrder entries
// actually transmitted), trimming trailing zero-length entries but never
// going below 4, per RFC 1951 §3.2.7.
func codeLenHeaderCount(clLengths []uint32) int {
	n := codeLenAlphaSize
	for n > 4 && clLengths[hclenOrder[n-1]] == 0 {
		n--
	}
	return n
}

func (w *Writer) fixedCost() int {
	bits := 3
	for sym, f := range w.litFreq {
		if f > 0 {
			bits += int(f) * int(fixedLitLengths[sym])
		}
	}
	for sym, f := range w.distFreq {
		if f > 0 {
			bits += int(f) * int(fixedDistLengths[sym])
		}
	}
	return bits + int(w.litExtraBits) + int(w.distExtraBits)
}

// dynamicCost computes the total bit cost of emitting the current tally
// buffer as a dynamic-Huffman block, including header overhead, and
// returns the literal/length and distance code lengths it would use so
// the caller doesn't have to rebuild them if dynamic wins.
func (w *Writer) dynamicCost() (totalBits int, litLengths, distLengths []uint32) {
	litLengths = buildLengths(w.litFreq[:], maxLitLenBits)
	distLengths = buildLengths(w.distFreq[:], maxDistBits)
	numLit, numDist := litDistCounts(litLengths, distLengths)

	bits := 3
	for sym, f := range w.litFreq {
		if f > 0 {
			bits += int(f) * int(litLengths[sym])
		}
	}
	for sym, f := range w.distFreq {
		if f > 0 {
			bits += int(f) * int(distLengths[sym])
		}
	}
	bits += int(w.litExtraBits) + int(w.distExtraBits)

	seq := make([]uint32, 0, numLit+numDist)
	seq = append(seq, litLengths[:numLit]...)
	seq = append(seq, distLengths[:numDist]...)
	clSyms, clFreq := encodeLengths(seq)
	clLengths := buildLengths(clFreq[:], maxCodeLenBits)
	hclen := codeLenHeaderCount(clLengths)

	bits += 5 + 5 + 4 + 3*hclen
	for _, s := range clSyms {
		bits += int(clLengths[s.sym]) + int(s.extra)
	}

	return bits, litLengths, distLengths
}

// writeDynamicHeader emits HLIT/HDIST/HCLEN, the code-length code lengths
// in hclenOrder, and the RLE-encoded literal/length+distance code-length
// sequence, per RFC 1951 §3.2.7.
func (w *Writer) writeDynamicHeader(litLengths, distLengths []uint32) {
	numLit, numDist := litDistCounts(litLengths, distLengths)

	seq := make([]uint32, 0, numLit+numDist)
	seq = append(seq, litLengths[:numLit]...)
	seq = append(seq, distLengths[:numDist]...)
	clSyms, clFreq := encodeLengths(seq)
	clLengths := buildLengths(clFreq[:], maxCodeLenBits)
	clCodes := buildCodes(clLengths, maxCodeLenBits)
	hclen := codeLenHeaderCount(clLengths)

	w.bw.writeBits(uint32(numLit-257), 5)
	w.bw.writeBits(uint32(numDist-1), 5)
	w.bw.writeBits(uint32(hclen-4), 4)

	for i := 0; i < hclen; i++ {
		w.bw.writeBits(uint32(clLengths[hclenOrder[i]]), 3)
	}
	for _, s := range clSyms {
		w.bw.writeBits(uint32(clCodes[s.sym]), uint(clLengths[s.sym]))
		if s.extra > 0 {
			w.bw.writeBits(uint32(s.val), uint(s.extra))
		}
	}
}
