package flate

// huffStep drives the Huffman-only engine (spec.md §4.3.5): every byte
// is tallied as a literal, no back-references are ever formed. Unlike
// the other engines it needs no hash-chain lookahead margin at all, so it
// drains down to the last available byte regardless of finishing.
// Grounded in intel-fastgo's huffmanonly.go encodeBlock/bytesFreq, which
// is the same "skip matching entirely, just build a literal histogram"
// strategy.
func (s *Stream) huffStep(finishing bool) (needMore bool) {
	for {
		if s.lookahead == 0 {
			return true
		}
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
}
