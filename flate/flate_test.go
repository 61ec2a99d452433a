package flate

import (
	"bytes"
	"compress/flate"
	"io"
	"strings"
	"testing"
)

// decode runs compressed through the standard library's inflater, the same
// decoder-side oracle andybalholm-pack/flate/flate_test.go's TestEncode
// uses, since decoding is out of scope for this package.
func decode(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func roundTrip(t *testing.T, input []byte, level int, strategy Strategy) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, level)
	if err != nil {
		t.Fatalf("NewWriterLevel: %v", err)
	}
	if strategy != StrategyDefault {
		if err := w.Params(level, strategy); err != nil {
			t.Fatalf("Params: %v", err)
		}
	}
	if _, err := w.Write(input); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := decode(t, buf.Bytes())
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(input))
	}
	return buf.Bytes()
}

func TestRoundTripAllLevels(t *testing.T) {
	input := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))
	for level := NoCompression; level <= BestCompression; level++ {
		roundTrip(t, input, level, StrategyDefault)
	}
}

func TestRoundTripStrategies(t *testing.T) {
	input := []byte(strings.Repeat("abcabcabcabc", 500) + strings.Repeat("x", 300))
	strategies := []Strategy{StrategyDefault, StrategyFiltered, StrategyHuffmanOnly, StrategyRLE, StrategyFixed}
	for _, s := range strategies {
		roundTrip(t, input, BestCompression, s)
	}
}

// Scenario 1: empty input, finish only.
func TestEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if len(buf.Bytes()) > 2 {
		t.Fatalf("empty-input output too long: %d bytes", len(buf.Bytes()))
	}
	got := decode(t, buf.Bytes())
	if len(got) != 0 {
		t.Fatalf("expected empty decode, got %q", got)
	}
}

// Scenario 2: single literal.
func TestSingleLiteral(t *testing.T) {
	out := roundTrip(t, []byte("a"), BestSpeed, StrategyDefault)
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

// Scenario 3: highly repetitive input compresses very small.
func TestHighlyRepetitive(t *testing.T) {
	input := bytes.Repeat([]byte("A"), 1000)
	out := roundTrip(t, input, BestCompression, StrategyDefault)
	if len(out) >= 20 {
		t.Fatalf("expected output under 20 bytes, got %d", len(out))
	}
}

// Scenario 4: sync flush mid-stream, then finish; decoded output is the
// concatenation, and the sync marker 00 00 FF FF appears in the stream.
func TestSyncFlush(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	afterFlush := append([]byte(nil), buf.Bytes()...)
	if !bytes.HasSuffix(afterFlush, []byte{0x00, 0x00, 0xff, 0xff}) {
		t.Fatalf("expected sync marker at end of flushed output, got %x", afterFlush)
	}
	if _, err := w.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

// Scenario 5 (adapted; see DESIGN.md open question 4): this package writes
// straight through to an io.Writer rather than a bounded output buffer, so
// "partial-output resumption" is exercised as many small, irregularly sized
// input writes instead of a 1-byte avail_out.
func TestManySmallWrites(t *testing.T) {
	input := bytes.Repeat([]byte("A"), 1000)
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range input {
		if _, err := w.Write([]byte{b}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if !bytes.Equal(got, input) {
		t.Fatalf("1-byte-write round trip mismatch: got %d bytes, want %d", len(got), len(input))
	}
}

// Scenario 6: strategy/level switch mid-stream via Params.
func TestParamsSwitchMidStream(t *testing.T) {
	first := bytes.Repeat([]byte("q"), 4096)
	second := bytes.Repeat([]byte("z"), 4096)
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(first); err != nil {
		t.Fatal(err)
	}
	if err := w.Params(BestCompression, StrategyDefault); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(second); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	want := append(append([]byte(nil), first...), second...)
	if !bytes.Equal(got, want) {
		t.Fatalf("params-switch round trip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

// Partial flush closes the block with a complete, empty static block
// (spec.md §4.4/§6.2's tr_align) rather than bare padding bits a decoder
// has no way to interpret, so the stream keeps decoding across it.
func TestFlushPartial(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.s.WriteFlush([]byte("partial flush payload"), FlushPartial); err != nil {
		t.Fatal(err)
	}
	if _, err := w.s.WriteFlush([]byte(" more data"), FlushFinish); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	want := "partial flush payload more data"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// A match whose distance exceeds maxMatchLength (258) must still be found
// and used at full length: matchLen's end bound has to clamp relative to
// the current position, not the earlier candidate position.
func TestLongDistanceMatch(t *testing.T) {
	prefix := bytes.Repeat([]byte("z"), 943)
	repeat := []byte("this exact 39 byte string recurs")
	input := append(append([]byte{}, repeat...), append(prefix, repeat...)...)
	out := roundTrip(t, input, BestCompression, StrategyDefault)
	// The repeated 32-byte string at distance 975 should compress away to
	// well under the input's raw size.
	if len(out) >= len(input) {
		t.Fatalf("expected compression from the long-distance repeat, got %d >= %d", len(out), len(input))
	}
}

// Many tiny writes force repeated fillWindow calls with very little
// lookahead each time, exercising the hash-chain carry-over (insert) that
// fast/lazy leave for the next fillWindow to finish inserting.
func TestManySmallWritesLongDistanceMatch(t *testing.T) {
	var parts [][]byte
	repeat := []byte("recurring needle")
	parts = append(parts, repeat)
	for i := 0; i < 2000; i++ {
		parts = append(parts, []byte{byte('a' + i%26)})
	}
	parts = append(parts, repeat)
	input := bytes.Join(parts, nil)

	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range parts {
		if _, err := w.Write(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(input))
	}
}

func TestFinishIsFinal(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be idempotent, got %v", err)
	}
	if _, err := w.Write([]byte("more")); err == nil {
		t.Fatal("expected error writing after Close")
	}
}

func TestRedundantFlushRejected(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStream(&buf, DefaultCompression, StrategyDefault)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteFlush([]byte("x"), FlushSync); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteFlush(nil, FlushSync); err != ErrBufError {
		t.Fatalf("expected ErrBufError on redundant sync flush, got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	input := []byte(strings.Repeat("determinism check payload ", 50))
	a := roundTrip(t, input, 7, StrategyDefault)
	b := roundTrip(t, input, 7, StrategyDefault)
	if !bytes.Equal(a, b) {
		t.Fatal("two identical sessions produced different output")
	}
}

func TestSetDictionary(t *testing.T) {
	dict := []byte("the quick brown fox")
	input := []byte("the quick brown fox jumps over the lazy dog")

	var withDict bytes.Buffer
	w, err := NewWriterDict(&withDict, BestCompression, dict)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(input); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var noDict bytes.Buffer
	w2, err := NewWriterLevel(&noDict, BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w2.Write(input); err != nil {
		t.Fatal(err)
	}
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(withDict.Bytes(), noDict.Bytes()) {
		t.Fatal("dictionary-seeded output should differ from unseeded output")
	}
	r := flate.NewReaderDict(bytes.NewReader(withDict.Bytes()), dict)
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Fatalf("dictionary round trip mismatch: got %q, want %q", got, input)
	}
}

func TestUpperBound(t *testing.T) {
	input := bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 10000)
	var buf bytes.Buffer
	w, err := NewWriterLevel(&buf, NoCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(input); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	// Stored blocks cap at 65535 bytes of payload plus a 5-byte header
	// each; the upper bound on output size is a small constant multiple
	// of input size, never unbounded growth.
	maxExpected := len(input) + (len(input)/0xffff+1)*5 + 8
	if buf.Len() > maxExpected {
		t.Fatalf("output %d exceeds expected upper bound %d", buf.Len(), maxExpected)
	}
}
