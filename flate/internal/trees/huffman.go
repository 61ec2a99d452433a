package trees

import (
	"math/bits"
	"sort"
)

// symFreq pairs a symbol with its tally count, the unit the in-place
// minimum-redundancy algorithm below sorts and packs.
type symFreq struct {
	sym  uint16
	freq uint32
}

type byFreqDesc []symFreq

func (s byFreqDesc) Len() int           { return len(s) }
func (s byFreqDesc) Less(i, j int) bool { return s[i].freq > s[j].freq }
func (s byFreqDesc) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// buildLengths computes RFC 1951-compliant canonical code lengths, bounded
// by maxBits, for a symbol frequency table. It adapts the in-place
// minimum-redundancy algorithm of Moffat & Katajainen ("In-Place
// Calculation of Minimum-Redundancy Codes", WADS 1995) together with the
// classic Kraft-McMillan overflow correction for bit-length-limited codes,
// following the control flow of intel-fastgo's
// compress/flate/internal/huffman.{MoffatHuffmanCode,LenLimitedCode}, with
// the bookkeeping re-derived around this package's plain []uint32 lengths
// instead of their packed-word representation.
func buildLengths(freq []uint32, maxBits int) []uint32 {
	lengths := make([]uint32, len(freq))

	var counts byFreqDesc
	for sym, f := range freq {
		if f != 0 {
			counts = append(counts, symFreq{sym: uint16(sym), freq: f})
		}
	}
	switch len(counts) {
	case 0:
		return lengths
	case 1:
		lengths[counts[0].sym] = 1
		return lengths
	}

	sort.Sort(counts)

	w := make([]uint32, len(counts))
	for i, c := range counts {
		w[i] = c.freq
	}

	maxLen := int(codeLens(w))

	if maxLen <= maxBits {
		for i, v := range w {
			lengths[counts[i].sym] = v
		}
		return lengths
	}

	lenCounts := make([]int, maxLen+1)
	for _, v := range w {
		lenCounts[v]++
	}
	enforceMaxLen(lenCounts, maxBits)

	idx := 0
	for length := 1; length <= maxBits; length++ {
		for j := 0; j < lenCounts[length]; j++ {
			lengths[counts[idx].sym] = uint32(length)
			idx++
		}
	}
	return lengths
}

// codeLens runs the in-place minimum-redundancy algorithm over w, which
// must already be sorted by descending frequency. On return, w[i] holds
// the code length of the symbol that was at w[i] before the call, and the
// function's result is the maximum length produced.
func codeLens(w []uint32) uint32 {
	n := len(w)
	leaf := n - 1
	root := n - 1

	// Phase 1: build the implicit Huffman tree in place, parent pointers
	// stored where the leaves used to be.
	for next := n - 1; next >= 1; next-- {
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			w[next] = w[root]
			w[root] = uint32(next)
			root--
		} else {
			w[next] = w[leaf]
			leaf--
		}
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			w[next] += w[root]
			w[root] = uint32(next)
			root--
		} else {
			w[next] += w[leaf]
			leaf--
		}
	}

	// Phase 2: replace parent pointers with depths.
	w[1] = 0
	for next := 2; next <= n-1; next++ {
		w[next] = w[w[next]] + 1
	}

	// Phase 3: compute the number of leaves at each depth and overwrite
	// w[0..n-1] with each leaf's final code length, in the original
	// descending-frequency order.
	avail := 1
	used := 0
	depth := 0
	root = 1
	next := 0
	for avail > 0 {
		for ; root < n && w[root] == uint32(depth); root++ {
			used++
		}
		for ; avail > used; avail-- {
			w[next] = uint32(depth)
			next++
		}
		avail = 2 * used
		depth++
		used = 0
	}
	return w[n-1]
}

// enforceMaxLen redistributes lenCounts (a histogram of code lengths,
// indexed by length) so that no length exceeds maxLen, while preserving
// the Kraft-McMillan equality a length-limited canonical code requires.
// Adapted from intel-fastgo's enforceMaxLen.
func enforceMaxLen(lenCounts []int, maxLen int) {
	for i := len(lenCounts) - 1; i > maxLen; i-- {
		lenCounts[maxLen] += lenCounts[i]
		lenCounts[i] = 0
	}

	total := 0
	for i := 1; i <= maxLen; i++ {
		total += lenCounts[i] << (maxLen - i)
	}

	for total != 1<<maxLen {
		lenCounts[maxLen]--
		for i := maxLen - 1; i > 0; i-- {
			if lenCounts[i] != 0 {
				lenCounts[i]--
				lenCounts[i+1] += 2
				break
			}
		}
		total--
	}
}

// buildCodes assigns canonical Huffman codes from a table of code lengths,
// then bit-reverses each code so it can be packed LSB-first into the
// bitstream by writeBits. Grounded in intel-fastgo's GenerateCode, which
// performs the same bits.Reverse16 step for the same reason.
func buildCodes(lengths []uint32, maxBits int) []uint16 {
	blCount := make([]uint32, maxBits+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	nextCode := make([]uint32, maxBits+1)
	code := uint32(0)
	for n := 1; n <= maxBits; n++ {
		code = (code + blCount[n-1]) << 1
		nextCode[n] = code
	}

	codes := make([]uint16, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		codes[sym] = reverseCode(uint16(c), uint8(l))
	}
	return codes
}

func reverseCode(code uint16, length uint8) uint16 {
	return bits.Reverse16(code) >> (16 - length)
}
