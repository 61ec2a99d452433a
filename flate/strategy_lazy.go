package flate

// lazyStep drives the classic zlib lazy-matching engine used at levels
// 4-9 (spec.md §4.3.3): before committing to a match at strstart, it
// checks whether the match available at strstart+1 is strictly longer,
// and if so emits strstart as a literal and defers to the better match
// one position later. Grounded directly in
// andybalholm-pack/flate/matchfinder.go's deflateLazy, which is this
// exact algorithm; cross-checked against
// other_examples/klauspost-compress__deflate.go's fastSkipHashing==false
// branch of deflate().
func (s *Stream) lazyStep(finishing bool) (needMore bool) {
	for {
		if s.lookahead < minMatchLength {
			if finishing {
				if s.matchAvailable {
					full := s.tw.TallyLit(s.buf[s.strstart-1])
					s.matchAvailable = false
					s.matchLength = minMatchLength - 1
					if full {
						if err := s.flushBlock(false); err != nil {
							s.err = err
							return true
						}
					}
					continue
				}
				if s.lookahead > 0 {
					if s.tallyTailLiteral() {
						return true
					}
					continue
				}
			}
			s.markInsertTail()
			return true
		}

		hashHead := s.insertString(s.strstart)

		s.prevLength = s.matchLength
		s.prevMatch = s.matchStart
		s.matchLength = minMatchLength - 1

		if hashHead > 0 && s.prevLength < s.maxLazy {
			length, dist := s.findMatch(hashHead, s.prevLength, s.prevMatch)
			if length > 0 && length <= 5 &&
				(s.strategy == StrategyFiltered || (length == minMatchLength && dist > tooFar)) {
				// spec.md §3's TOO_FAR/filtered heuristic: a short match at
				// a long distance, or any short match under the Filtered
				// strategy, costs more to encode as a back-reference than
				// as a literal, so it's rejected here rather than tallied.
				length = 0
			}
			if length > 0 {
				s.matchLength = length
				s.matchStart = dist
			}
		}

		if s.prevLength >= minMatchLength && s.matchLength <= s.prevLength {
			// The match found one position back was at least as good as
			// what's available here: commit to it now instead of the
			// current position, the defining move of lazy matching.
			// strstart already sits one byte into the match (advanced there
			// by whichever branch deferred it last iteration), so this branch
			// only needs to cover the remaining prevLength-1 bytes, the split
			// zlib's deflate_slow makes across the two iterations involved.
			maxInsert := s.strstart + s.lookahead - minMatchLength
			full := s.tw.TallyDist(uint32(s.prevMatch), uint32(s.prevLength-minMatchLength))

			s.lookahead -= s.prevLength - 1
			for n := s.prevLength - 2; n > 0; n-- {
				s.strstart++
				if s.strstart <= maxInsert {
					s.insertString(s.strstart)
				}
			}
			s.matchAvailable = false
			s.matchLength = minMatchLength - 1
			s.strstart++

			if full {
				if err := s.flushBlock(false); err != nil {
					s.err = err
					return true
				}
			}
		} else if s.matchAvailable {
			full := s.tw.TallyLit(s.buf[s.strstart-1])
			if full {
				if err := s.flushBlock(false); err != nil {
					s.err = err
					return true
				}
			}
			s.strstart++
			s.lookahead--
		} else {
			s.matchAvailable = true
			s.strstart++
			s.lookahead--
		}

		if s.lookahead < minLookahead && !finishing {
			s.markInsertTail()
			return true
		}
	}
}
