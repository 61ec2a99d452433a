package flate

// FlushMode selects how eagerly the session driver surfaces compressed
// output, following spec.md §4.4. The names and numeric order mirror
// zlib's flush family (the vocabulary andybalholm-pack/flate/writer.go
// also borrows when it calls Flush a "Z_SYNC_FLUSH-equivalent"): the
// heavy-commitment modes are numbered first and the cheap block-boundary
// mode comes last, which is what makes rank's "f > FlushFinish" threshold
// single out exactly the cheap one.
type FlushMode int

const (
	FlushNone    FlushMode = iota // no flush: buffer as much as the strategy engine wants
	FlushPartial                  // close the block and emit an empty static block; no byte alignment
	FlushSync                     // close the block and emit the 00 00 FF FF byte-align marker
	FlushFull                     // like Sync, but also resets the hash chain (dictionary discontinuity)
	FlushFinish                   // close the stream: final block, trailing bits flushed
	FlushBlock                    // close the current block, start a new one, nothing else
)

// rank orders flush modes by how much they commit to, per spec.md §4.4's
// rank(f) = (f<<1) - (9 if f>4 else 0). WriteFlush uses it to reject a
// call that brings no new input and asks for a flush ranked no higher
// than the previous call's. FlushBlock (numeric value 5) gets the -9
// discount and ranks 1, between FlushNone and FlushPartial: every heavier
// mode is still accepted after it, while a FlushBlock with no new input is
// rejected after another FlushBlock or after any heavier flush.
func rank(f FlushMode) int {
	r := int(f) << 1
	if f > FlushFinish {
		r -= 9
	}
	return r
}
