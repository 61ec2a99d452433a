package flate

// fastStep drives the greedy "insert on every position, take the first
// match that beats MIN_MATCH" engine used at levels 1-3 (spec.md
// §4.3.2). Grounded in andybalholm-pack's dualhash.go/lazy.go skip
// heuristics and in the non-lazy branch of
// other_examples/klauspost-compress__deflate.go's deflate() loop, which
// implements the same single-pass "take it, don't look ahead" strategy.
//
// Unlike the lazy engine, fast never defers a match to see if the next
// position does better — it inserts the match's full span into the hash
// chain when the match is no longer than maxLazy (a longer match is skipped
// over and only the rolling hash is resynced) and moves straight on,
// trading ratio for speed.
func (s *Stream) fastStep(finishing bool) (needMore bool) {
	for {
		if s.lookahead < minMatchLength {
			if finishing && s.lookahead > 0 {
				if s.tallyTailLiteral() {
					return true
				}
				continue
			}
			s.markInsertTail()
			return true
		}

		hashHead := s.insertString(s.strstart)

		length, dist := 0, 0
		if hashHead > 0 {
			length, dist = s.findMatch(hashHead, minMatchLength-1, 0)
		}

		if length >= minMatchLength {
			full := s.tw.TallyDist(uint32(dist), uint32(length-minMatchLength))
			s.lookahead -= length

			if length <= s.maxLazy && s.lookahead >= minMatchLength {
				// Cheap to keep the chain fresh across the whole match: insert
				// every position it covers (spec.md §4.3.2's "If match_length
				// <= max_lazy_match..." branch, zlib's deflate_fast).
				length--
				for {
					s.strstart++
					s.insertString(s.strstart)
					length--
					if length == 0 {
						break
					}
				}
				s.strstart++
			} else {
				// The match is long enough that re-hashing every position it
				// covers isn't worth the cost: skip straight past it and
				// resync ins_h from the new strstart instead.
				s.strstart += length
				if s.strstart+1 < len(s.buf) {
					s.insH = uint32(s.buf[s.strstart])
					s.insH = s.updateHash(s.insH, s.buf[s.strstart+1])
				}
			}
			if full {
				if err := s.flushBlock(false); err != nil {
					s.err = err
					return true
				}
			}
		} else {
			full := s.tw.TallyLit(s.buf[s.strstart])
			s.strstart++
			s.lookahead--
			if full {
				if err := s.flushBlock(false); err != nil {
					s.err = err
					return true
				}
			}
		}

		if s.lookahead < minLookahead && !finishing {
			s.markInsertTail()
			return true
		}
	}
}

// tallyTailLiteral emits the single byte at strstart as a literal and
// advances past it, reporting whether the tally buffer is now full. Used
// by every engine to drain the last one or two bytes of a finishing
// stream that are too short to ever form a MIN_MATCH match.
func (s *Stream) tallyTailLiteral() bool {
	full := s.tw.TallyLit(s.buf[s.strstart])
	s.strstart++
	s.lookahead--
	if full {
		if err := s.flushBlock(false); err != nil {
			s.err = err
		}
	}
	return s.err != nil
}
