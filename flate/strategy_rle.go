package flate

// rleStep drives the distance-1-only run-length engine (spec.md §4.3.4),
// selected by StrategyRLE at levels 1-9 (level 0 always uses the stored
// engine): every position only ever
// checks whether it extends a run of the immediately preceding byte,
// never consulting the hash chain. Grounded in zlib's deflate_rle
// algorithm as described by spec.md §4.3.4, reimplemented as a plain
// byte-compare loop rather than the SIMD-chunked scan zlib itself uses.
func (s *Stream) rleStep(finishing bool) (needMore bool) {
	for {
		if s.lookahead < minMatchLength {
			if finishing && s.lookahead > 0 {
				if s.tallyTailLiteral() {
					return true
				}
				continue
			}
			return true
		}

		length := 0
		if s.strstart > 0 {
			prev := s.buf[s.strstart-1]
			if s.buf[s.strstart] == prev {
				end := s.strstart + maxMatchLength
				if limit := s.strstart + s.lookahead; end > limit {
					end = limit
				}
				n := 0
				for s.strstart+n < end && s.buf[s.strstart+n] == prev {
					n++
				}
				length = n
			}
		}

		if length >= minMatchLength {
			full := s.tw.TallyDist(1, uint32(length-minMatchLength))
			s.strstart += length
			s.lookahead -= length
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
			return true
		}
	}
}
