package flate

// Core constants, transcribed from spec.md §3's constants table.
const (
	minMatchLength = 3   // MIN_MATCH
	maxMatchLength = 258 // MAX_MATCH
	minLookahead   = maxMatchLength + minMatchLength + 1
	tooFar         = 4096
	winInit        = maxMatchLength // WIN_INIT
)

// windowBits/memLevel bounds (spec.md §6.4).
const (
	minWindowBits = 8
	maxWindowBits = 15
	minMemLevel   = 1
	maxMemLevel   = 9
)

// hashBits/hashSize follow memLevel the way zlib derives them: hashBits =
// memLevel+7, hashSize = 1<<hashBits. The teacher's matchfinder.go ties its
// own hash table size to a fixed 15-bit hash instead of memLevel; spec.md
// §6.4 asks for the memLevel-derived table, so this department of the
// window follows spec.md over the teacher.
func hashBitsForMemLevel(memLevel int) int {
	return memLevel + 7
}

// window holds the sliding-window buffer and hash-chain index described in
// spec.md §4.1. It is embedded directly in Stream (no separate package:
// SPEC_FULL.md §2 collapses this into one flat flate package, following the
// standard library's own compress/flate layout).
type window struct {
	windowBits int
	windowSize int // W = 1<<windowBits
	maxDist    int // windowSize - minLookahead, the farthest valid back-reference

	buf []byte // size 2*windowSize, positions [0,windowSize) and [windowSize,2*windowSize)

	hashBits  int
	hashSize  int
	hashMask  uint32
	hashShift uint32

	head []uint16 // hashSize entries: most recent position for each hash value
	prev []uint16 // windowSize entries: hash-chain back-links, relative to the current window base

	strstart   int // position of the start of the current lookahead/match window, in buf coordinates
	lookahead  int // bytes of valid data starting at strstart
	blockStart int // start of the current pending block, in buf coordinates
	insert     int // number of positions behind strstart still needing hash-table insertion once more lookahead arrives
	insH       uint32

	highWater int // end of the furthest input read into buf, rebased on each slide; matchLen bounds its reads by lookahead, not by this
}

func (w *window) init(windowBits, memLevel int) {
	if windowBits < minWindowBits {
		// spec.md §9 open question: windowBits below 8 is promoted to 9, the
		// same floor zlib enforces, because the hash-chain insertion macro
		// needs at least MIN_MATCH bytes of distinct addressable window.
		windowBits = 9
	}
	if windowBits > maxWindowBits {
		windowBits = maxWindowBits
	}
	w.windowBits = windowBits
	w.windowSize = 1 << windowBits
	w.maxDist = w.windowSize - minLookahead
	w.buf = make([]byte, 2*w.windowSize)

	w.hashBits = hashBitsForMemLevel(memLevel)
	w.hashSize = 1 << w.hashBits
	w.hashMask = uint32(w.hashSize - 1)
	w.hashShift = (uint32(w.hashBits) + minMatchLength - 1) / minMatchLength

	w.head = make([]uint16, w.hashSize)
	w.prev = make([]uint16, w.windowSize)

	w.reset()
}

func (w *window) reset() {
	for i := range w.head {
		w.head[i] = 0
	}
	w.strstart = 0
	w.lookahead = 0
	w.blockStart = 0
	w.insert = 0
	w.insH = 0
	w.highWater = 0
}

// updateHash folds the next byte into a rolling 3-byte hash, the same
// shift-and-xor rolling hash the teacher's matchfinder.go (hash4) and
// klauspost's deflate.go (oldHash) both use, sized to minMatchLength
// instead of 4 bytes since spec.md fixes MIN_MATCH at 3.
func (w *window) updateHash(h uint32, b byte) uint32 {
	return ((h << w.hashShift) ^ uint32(b)) & w.hashMask
}

// insertString inserts the 3-byte string starting at pos into the hash
// chain and returns the previous head at that hash slot (0 means "no
// prior occurrence", matching the teacher's sentinel-free NUL head).
func (w *window) insertString(pos int) int {
	w.insH = w.updateHash(w.insH, w.buf[pos+minMatchLength-1])
	head := w.head[w.insH]
	w.prev[pos&(w.windowSize-1)] = head
	w.head[w.insH] = uint16(pos)
	return int(head)
}

// fillWindow slides the window left by windowSize bytes once strstart
// crosses the threshold described in spec.md §4.1, rebasing head/prev so
// that hash-chain links remain valid, then asks readInto for more bytes.
// The slide-on-threshold design and the "preserve windowSize bytes of
// history" invariant are grounded in andybalholm-pack/flate/matchfinder.go
// (fillDeflate) and cross-checked against klauspost-compress's fillDeflate.
func (w *window) fillWindow(readInto func([]byte) int) {
	if w.strstart >= w.windowSize+(w.windowSize-minLookahead) {
		copy(w.buf, w.buf[w.windowSize:2*w.windowSize])
		w.blockStart -= w.windowSize
		w.strstart -= w.windowSize
		if w.highWater > w.windowSize {
			w.highWater -= w.windowSize
		} else {
			w.highWater = 0
		}

		for i := range w.head {
			v := int(w.head[i]) - w.windowSize
			if v < 0 {
				v = 0
			}
			w.head[i] = uint16(v)
		}
		for i := range w.prev {
			v := int(w.prev[i]) - w.windowSize
			if v < 0 {
				v = 0
			}
			w.prev[i] = uint16(v)
		}
	}

	for w.lookahead < minLookahead {
		avail := len(w.buf) - (w.strstart + w.lookahead)
		if avail <= 0 {
			break
		}
		n := readInto(w.buf[w.strstart+w.lookahead : len(w.buf)])
		if n <= 0 {
			break
		}
		w.lookahead += n
		if end := w.strstart + w.lookahead; end > w.highWater {
			w.highWater = end
		}
		w.insertCarryOver()
	}
}

// markInsertTail records how many of the bytes just before strstart
// still need hash-chain insertion once more lookahead is available,
// spec.md §4.1's insert field. Called by the fast and lazy engines
// whenever they stop short of lookahead running out naturally.
func (w *window) markInsertTail() {
	w.insert = w.strstart
	if w.insert > minMatchLength-1 {
		w.insert = minMatchLength - 1
	}
}

// insertCarryOver replays the rolling hash over the positions left
// uninserted by the last engine call (spec.md §4.1's fill_window step 4):
// a strategy engine that runs out of lookahead before reaching
// minMatchLength leaves its last `insert` positions out of the hash
// chain, since insertString needs the full 3-byte window ahead of them.
// Once fillWindow pulls in more data those positions get a real 3-byte
// window again, so they're walked forward and inserted here.
func (w *window) insertCarryOver() {
	if w.insert == 0 || w.lookahead+w.insert < minMatchLength {
		return
	}
	str := w.strstart - w.insert
	w.insH = uint32(w.buf[str])
	w.insH = w.updateHash(w.insH, w.buf[str+1])
	for w.insert > 0 {
		w.insH = w.updateHash(w.insH, w.buf[str+minMatchLength-1])
		w.prev[str&(w.windowSize-1)] = w.head[w.insH]
		w.head[w.insH] = uint16(str)
		str++
		w.insert--
		if w.lookahead+w.insert < minMatchLength {
			break
		}
	}
}
