package flate

// maxStoredBlockLen is RFC 1951's 16-bit LEN field limit for a single
// stored block.
const maxStoredBlockLen = 0xffff

// storedStep drives level 0 (spec.md §4.3.1): no matching, no Huffman
// coding, just raw bytes copied into RFC 1951 stored blocks as soon as a
// block's worth accumulates. Grounded in
// other_examples/klauspost-compress__deflate.go's writeStoredBlock path,
// generalized here into a streaming engine rather than a one-shot helper.
func (s *Stream) storedStep(finishing bool) (needMore bool) {
	for {
		if s.blockStart < s.windowSize && s.strstart >= s.windowSize+s.maxDist {
			// The next fillWindow slides buf[0:windowSize) away: emit the
			// pending bytes while they are still in the window.
			if err := s.flushBlock(false); err != nil {
				s.err = err
				return true
			}
		}
		if s.lookahead == 0 {
			return true
		}

		pending := s.strstart - s.blockStart
		room := maxStoredBlockLen - pending
		if room <= 0 {
			if err := s.flushBlock(false); err != nil {
				s.err = err
				return true
			}
			continue
		}

		n := s.lookahead
		if n > room {
			n = room
		}
		s.strstart += n
		s.lookahead -= n

		if s.strstart-s.blockStart >= maxStoredBlockLen {
			if err := s.flushBlock(false); err != nil {
				s.err = err
				return true
			}
		}
	}
}
