package flate

import (
	"io"

	"github.com/flowdeflate/deflate/flate/internal/trees"
)

// Status reports what a Stream.Write/WriteFlush call accomplished, the
// generalized equivalent of spec.md §6.1's raw avail_in/avail_out
// bookkeeping now that input is passed as a slice per call instead of a
// persistent pointer pair.
type Status int

const (
	StatusOK        Status = iota
	StatusStreamEnd        // FlushFinish was honored; no more input will be accepted
)

type status int

const (
	statusInit status = iota
	statusBusy
	statusFinished
)

// Stream is the session driver described in spec.md §4.5: it owns the
// sliding window, the hash-chain index, the active strategy engine, and
// the trees-subsystem collaborator, and drives bytes from input through
// whichever engine resolveEngine selected into compressed blocks. It is
// the lower-level entry point spec.md §6.1 names; Writer (in writer.go)
// layers an io.Writer/io.Closer surface on top of it, the same split
// intel-fastgo/compress/flate/writer.go draws between its io.Writer-based
// Writer and its lower-level LevelCompressor.
type Stream struct {
	window

	tw   *trees.Writer
	dest io.Writer

	level    int
	strategy Strategy
	eng      engine
	memLevel int

	goodLength int
	maxLazy    int
	niceLength int
	maxChain   int

	matchLength int
	matchStart  int

	prevLength     int
	prevMatch      int
	matchAvailable bool

	status    status
	lastFlush FlushMode

	dict []byte

	curInput []byte
	curPos   int

	totalIn  int64
	totalOut int64

	err error
}

// NewStream allocates a Stream writing compressed output to dest at the
// given level and strategy, spec.md §4.5's "session initialization".
func NewStream(dest io.Writer, level int, strategy Strategy) (*Stream, error) {
	s := &Stream{}
	if err := s.init(dest, level, strategy, maxWindowBits, maxMemLevel); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) init(dest io.Writer, level int, strategy Strategy, windowBits, memLevel int) error {
	if level < NoCompression || level > BestCompression {
		return ErrStreamError
	}
	if memLevel < minMemLevel || memLevel > maxMemLevel {
		return ErrStreamError
	}

	s.dest = dest
	s.level = level
	s.strategy = strategy
	s.memLevel = memLevel
	s.eng = resolveEngine(level, strategy)

	s.window.init(windowBits, memLevel)

	cfg := levels[level]
	s.goodLength = cfg.good
	s.maxLazy = cfg.lazy
	s.niceLength = cfg.nice
	s.maxChain = cfg.chain

	litBufSize := 1 << (memLevel + 6)
	s.tw = trees.NewWriter(dest, litBufSize)

	s.status = statusInit
	s.lastFlush = FlushNone
	s.totalIn = 0
	s.totalOut = 0
	s.err = nil
	s.matchAvailable = false
	s.prevLength = minMatchLength - 1
	s.prevMatch = 0

	return nil
}

// reset reinitializes the stream to write to a new destination, keeping
// the current level/strategy/window parameters — the operation
// Writer.Reset is built on (spec.md §3's "ownership & lifecycle").
func (s *Stream) reset(dest io.Writer) {
	s.window.reset()
	s.tw.Reset(dest)
	s.dest = dest
	s.status = statusInit
	s.lastFlush = FlushNone
	s.totalIn = 0
	s.totalOut = 0
	s.err = nil
	s.matchAvailable = false
	s.prevLength = minMatchLength - 1
	s.prevMatch = 0
	s.dict = nil
}

// Params retunes level and strategy mid-stream, atomically closing the
// currently open block first so the switch never corrupts an in-flight
// block — spec.md §3/§4's mid-stream reconfiguration requirement,
// supplemented per SPEC_FULL.md §9.
func (s *Stream) Params(level int, strategy Strategy) error {
	if s.err != nil {
		return s.err
	}
	if level < NoCompression || level > BestCompression {
		return ErrStreamError
	}
	// Run the current engine over the input it already holds, so the block
	// closed below covers every byte consumed so far.
	s.runEngine(true)
	if s.err != nil {
		return s.err
	}
	if s.tw.Len() > 0 || s.strstart > s.blockStart {
		if err := s.flushBlock(false); err != nil {
			return err
		}
	}
	s.level = level
	s.strategy = strategy
	s.eng = resolveEngine(level, strategy)
	cfg := levels[level]
	s.goodLength = cfg.good
	s.maxLazy = cfg.lazy
	s.niceLength = cfg.nice
	s.maxChain = cfg.chain
	return nil
}

// SetDictionary seeds the window with dict so the first matches in the
// stream can reference it, spec.md §4.5's dictionary-seeding discipline.
// Must be called before any data is written.
func (s *Stream) SetDictionary(dict []byte) error {
	if s.status != statusInit || s.strstart != 0 || s.lookahead != 0 {
		return ErrStreamError
	}
	if len(dict) == 0 {
		return nil
	}
	if len(dict) > s.windowSize {
		dict = dict[len(dict)-s.windowSize:]
	}
	n := copy(s.buf, dict)
	s.strstart = n
	s.blockStart = n
	s.insH = 0
	for i := 0; i < n-minMatchLength+1; i++ {
		s.insertString(i)
	}
	// The last minMatchLength-1 bytes of the dictionary never got a full
	// 3-byte window to hash, the same tail deflateSetDictionary leaves for
	// fill_window to pick up once real input starts arriving.
	s.markInsertTail()
	s.dict = dict
	return nil
}

func (s *Stream) readFromCurInput(dst []byte) int {
	n := copy(dst, s.curInput[s.curPos:])
	s.curPos += n
	return n
}

// Write feeds p through the active strategy engine with no flush request,
// the generalized form of spec.md §6.1's raw buffer-pair Write operation.
func (s *Stream) Write(p []byte) (Status, error) {
	return s.WriteFlush(p, FlushNone)
}

// WriteFlush is Write with an explicit flush mode, exposing the full
// state machine spec.md §4.4 describes.
func (s *Stream) WriteFlush(p []byte, flush FlushMode) (Status, error) {
	if s.err != nil {
		return StatusOK, s.err
	}
	if s.status == statusFinished {
		if len(p) == 0 && flush == FlushFinish {
			// A repeated Close is idempotent, the same tolerance io.Closer
			// implementations conventionally give a second Close call.
			return StatusStreamEnd, nil
		}
		return StatusOK, ErrStreamError
	}
	if len(p) == 0 && flush != FlushFinish && rank(flush) <= rank(s.lastFlush) {
		// spec.md §4.4's redundant-flush rejection: no new input and a
		// flush no stronger than the one already honored has nothing left
		// to do. Mirrors zlib's deflate() returning Z_BUF_ERROR for the
		// same call shape.
		return StatusOK, ErrBufError
	}

	s.status = statusBusy
	s.curInput = p
	s.curPos = 0
	s.totalIn += int64(len(p))

	for {
		s.fillWindow(s.readFromCurInput)

		needMore := s.runEngine(flush != FlushNone)
		if s.err != nil {
			return StatusOK, s.err
		}
		if needMore && s.curPos >= len(s.curInput) {
			break
		}
	}

	if err := s.applyFlush(flush); err != nil {
		s.err = err
		return StatusOK, err
	}

	s.lastFlush = flush
	if flush == FlushFinish {
		s.status = statusFinished
		return StatusStreamEnd, nil
	}
	return StatusOK, nil
}

// runEngine dispatches to the active strategy engine for as long as there
// is enough lookahead to make progress, returning true once the engine
// can't proceed without more input (or, when finishing or flushing, has
// consumed everything there is).
func (s *Stream) runEngine(finishing bool) bool {
	switch s.eng {
	case engineStored:
		return s.storedStep(finishing)
	case engineFast:
		return s.fastStep(finishing)
	case engineRLE:
		return s.rleStep(finishing)
	case engineHuffmanOnly:
		return s.huffStep(finishing)
	default:
		return s.lazyStep(finishing)
	}
}

// flushBlock closes the block currently open in the trees subsystem,
// spec.md §4.3's block-boundary contract. The window slice backing the
// tallied tokens is passed along for use only if a stored encoding turns
// out cheapest; once a window slide has moved the block's start out of
// the buffer, no slice is passed and a stored encoding is not considered.
func (s *Stream) flushBlock(last bool) error {
	var storedData []byte
	if s.blockStart >= 0 {
		storedData = s.buf[s.blockStart:s.strstart]
	}
	before := s.tw.BytesWritten()

	var err error
	if s.eng == engineStored {
		// The stored engine never tallies into the trees subsystem (spec.md
		// §4.3.1: level 0 is raw bytes, no Huffman at all), so its pending
		// span is emitted directly rather than through FlushBlock's
		// cheapest-of-three-encodings choice.
		err = s.tw.StoredBlock(storedData, last)
	} else {
		err = s.tw.FlushBlock(storedData, last, s.strategy == StrategyFixed)
	}

	s.totalOut += s.tw.BytesWritten() - before
	s.blockStart = s.strstart
	return err
}

// applyFlush closes out whatever the active engine left pending according
// to the requested flush mode, spec.md §4.4.
func (s *Stream) applyFlush(flush FlushMode) error {
	switch flush {
	case FlushNone:
		return nil
	case FlushBlock:
		if s.tw.Len() == 0 {
			return nil
		}
		return s.flushBlock(false)
	case FlushPartial:
		if err := s.flushBlock(false); err != nil {
			return err
		}
		return s.tw.Align()
	case FlushSync:
		if err := s.flushBlock(false); err != nil {
			return err
		}
		return s.tw.StoredBlock(nil, false)
	case FlushFull:
		if err := s.flushBlock(false); err != nil {
			return err
		}
		if err := s.tw.StoredBlock(nil, false); err != nil {
			return err
		}
		// Full flush additionally discards hash-chain history: the next
		// match search must not reach across this discontinuity, spec.md
		// §4.4's dictionary-discontinuity behavior.
		s.insert = 0
		for i := range s.head {
			s.head[i] = 0
		}
		if s.lookahead == 0 {
			// Nothing buffered ahead of strstart: safe to rewind position
			// tracking to the start of the window rather than leaving it
			// parked wherever the stream happened to be, so the window
			// doesn't slide sooner than it needs to after a full flush.
			s.strstart = 0
			s.blockStart = 0
		}
		return nil
	case FlushFinish:
		return s.flushBlock(true)
	default:
		return ErrStreamError
	}
}

// Flush is a convenience alias for WriteFlush(nil, FlushSync), used by the
// higher-level Writer type.
func (s *Stream) Flush() error {
	_, err := s.WriteFlush(nil, FlushSync)
	return err
}

// Close finishes the stream, emitting the final block and trailing bits.
func (s *Stream) Close() error {
	_, err := s.WriteFlush(nil, FlushFinish)
	return err
}

// TotalIn/TotalOut report the byte counters spec.md §3's stream-state
// table names; totalOut resets to 0 on Reset, matching the "reset on new
// destination" resolution of spec.md §9's open question about their
// lifetime across Reset vs. Params.
func (s *Stream) TotalIn() int64  { return s.totalIn }
func (s *Stream) TotalOut() int64 { return s.totalOut }
