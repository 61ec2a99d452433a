package flate

// findMatch walks the hash chain at the current strstart looking for the
// longest run that beats prevLen, following the chain-budget and early-exit
// rules of spec.md §4.2. It is grounded in
// andybalholm-pack/flate/matchfinder.go's findMatch, which already
// implements the same good/nice/chain knobs this module's level table uses,
// and cross-checked against the chain walk in
// other_examples/klauspost-compress__deflate.go's findMatch.
//
// cur is the current hash-chain head (the return value of insertString);
// prevLen/prevDist carry the best match found so far (0 if none), letting
// the lazy strategy ask "can we beat what deflateLazy already queued".
func (c *Stream) findMatch(cur, prevLen, prevDist int) (length, dist int) {
	strstart := c.strstart
	buf := c.buf

	niceLen := c.niceLength
	if niceLen > c.lookahead {
		niceLen = c.lookahead
	}

	bestLen := prevLen
	bestDist := prevDist
	if bestLen < minMatchLength-1 {
		bestLen = minMatchLength - 1
	}

	lookaheadEnd := strstart + c.lookahead
	limit := strstart - c.maxDist
	if limit < 0 {
		limit = 0
	}

	chain := c.maxChain
	if bestLen >= c.goodLength {
		chain >>= 2
	}

	scanEnd1 := byte(0)
	if bestLen > 0 && strstart+bestLen < lookaheadEnd {
		scanEnd1 = buf[strstart+bestLen]
	}

	pos := cur
	for n := chain; n > 0 && pos > limit; n-- {
		// Cheap rejection: the byte just past the current best length must
		// match before it's worth walking the full comparison (spec.md
		// §4.2's "cheap byte-at-offset rejection").
		if bestLen > 0 && pos+bestLen < len(buf) && buf[pos+bestLen] != scanEnd1 {
			pos = int(c.prev[pos&(c.windowSize-1)])
			continue
		}

		l := matchLen(buf, pos, strstart, lookaheadEnd)
		if l > bestLen {
			bestLen = l
			bestDist = strstart - pos
			if strstart+bestLen < lookaheadEnd {
				scanEnd1 = buf[strstart+bestLen]
			}
			if l >= niceLen {
				break
			}
			if bestLen >= c.goodLength {
				chain >>= 2
			}
		}

		pos = int(c.prev[pos&(c.windowSize-1)])
	}

	if bestLen < minMatchLength {
		return 0, 0
	}
	if bestLen > c.lookahead {
		bestLen = c.lookahead
	}
	return bestLen, bestDist
}

// matchLen returns the length of the common run starting at a and b (a < b,
// both positions in buf), capped at maxMatchLength and at end. Unlike the
// teacher's extendMatch (which XORs 8 bytes at a time via TrailingZeros64
// for SIMD-friendly throughput), this walks byte by byte: the CORE here
// optimizes for clarity over raw throughput, matching klauspost's matchLen
// fallback path rather than the teacher's unsafe fast path.
func matchLen(buf []byte, a, b, end int) int {
	if end > b+maxMatchLength {
		end = b + maxMatchLength
	}
	n := 0
	for b+n < end && buf[a+n] == buf[b+n] {
		n++
	}
	return n
}
