package flate

import "io"

// Writer implements io.Writer and io.Closer on top of a Stream, the same
// split intel-fastgo/compress/flate/writer.go draws between its Writer
// and LevelCompressor, and the same trio of methods every consumer in
// the retrieved pack drives compression through
// (andybalholm-pack/flate/writer.go's NewWriter/pack.Writer included).
type Writer struct {
	s *Stream
}

// NewWriter returns a Writer that writes DEFLATE-compressed data to dest
// at DefaultCompression.
func NewWriter(dest io.Writer) *Writer {
	w, _ := NewWriterLevel(dest, DefaultCompression)
	return w
}

// NewWriterLevel is NewWriter with an explicit level (spec.md §6.3), 0-9.
func NewWriterLevel(dest io.Writer, level int) (*Writer, error) {
	s, err := NewStream(dest, level, StrategyDefault)
	if err != nil {
		return nil, err
	}
	return &Writer{s: s}, nil
}

// NewWriterDict is NewWriterLevel with a preset dictionary seeded into
// the window before the first byte is written (spec.md §4.5).
func NewWriterDict(dest io.Writer, level int, dict []byte) (*Writer, error) {
	w, err := NewWriterLevel(dest, level)
	if err != nil {
		return nil, err
	}
	if err := w.s.SetDictionary(dict); err != nil {
		return nil, err
	}
	return w, nil
}

// Write compresses p, buffering as needed; it never flushes on its own.
func (w *Writer) Write(p []byte) (int, error) {
	_, err := w.s.Write(p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush closes the current block and emits a byte-aligned sync marker so
// a decoder reading up to this point can recover a prefix of the stream,
// without resetting dictionary history. Equivalent to FlushSync.
func (w *Writer) Flush() error {
	return w.s.Flush()
}

// FlushMode exposes the full flush state machine (spec.md §4.4) beyond
// the plain Flush/Close pair, for callers that need block-boundary,
// partial, or full (history-discontinuity) flushes.
func (w *Writer) FlushMode(mode FlushMode) error {
	_, err := w.s.WriteFlush(nil, mode)
	return err
}

// Close finishes the stream. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	return w.s.Close()
}

// Reset discards the Writer's state and starts writing to dest, reusing
// its level, strategy, and window allocation — spec.md §3's "ownership &
// lifecycle" reset operation.
func (w *Writer) Reset(dest io.Writer) {
	w.s.reset(dest)
}

// Params retunes level and strategy mid-stream (spec.md §3, supplemented
// per SPEC_FULL.md §9), closing the currently open block first.
func (w *Writer) Params(level int, strategy Strategy) error {
	return w.s.Params(level, strategy)
}
