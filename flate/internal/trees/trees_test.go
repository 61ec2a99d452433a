package trees

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"
)

// decode runs a raw DEFLATE stream through the standard library inflater,
// the same oracle flate_test.go uses one package up.
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

func TestStoredBlockRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1<<15)
	data := []byte("stored block payload, no matching or Huffman involved")
	if err := w.StoredBlock(data, true); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestFlushBlockLiteralsOnly(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1<<15)
	msg := "a message made entirely of literals, no back-references"
	for i := 0; i < len(msg); i++ {
		w.TallyLit(msg[i])
	}
	if err := w.FlushBlock([]byte(msg), true, false); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if string(got) != msg {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

func TestFlushBlockWithBackReferences(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1<<15)
	lit := []byte("abc")
	for _, b := range lit {
		w.TallyLit(b)
	}
	// A back-reference to the "abc" just tallied, length 6 (two repeats).
	w.TallyDist(3, 6-minMatchLength)
	if err := w.FlushBlock(nil, true, false); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	want := "abcabcabc"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestForceStaticBlock(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1<<15)
	msg := "forced static Huffman encoding"
	for i := 0; i < len(msg); i++ {
		w.TallyLit(msg[i])
	}
	if err := w.FlushBlock(nil, true, true); err != nil {
		t.Fatal(err)
	}
	// BTYPE bits (bits 1-2 of the first byte) must read 01 (fixed).
	first := buf.Bytes()[0]
	btype := (first >> 1) & 0x3
	if btype != 1 {
		t.Fatalf("expected BTYPE=1 (fixed), got %d", btype)
	}
	got := decode(t, buf.Bytes())
	if string(got) != msg {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

// Align emits a complete empty static block (header + end-of-block code)
// and pushes only whole bytes, not padding, so it must not disturb a block
// already flushed before it or one flushed after it. The 'x' block takes
// 18 bits and the empty block 10, so 3 bytes are written and 4 bits stay
// pending.
func TestAlignEmitsEmptyStaticBlock(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1<<15)
	w.TallyLit('x')
	if err := w.FlushBlock([]byte("x"), false, false); err != nil {
		t.Fatal(err)
	}
	if err := w.Align(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 3 || w.bw.nbits != 4 {
		t.Fatalf("expected 3 bytes written and 4 pending bits after Align, got %d bytes and %d bits", buf.Len(), w.bw.nbits)
	}
	w.TallyLit('y')
	if err := w.FlushBlock([]byte("y"), true, false); err != nil {
		t.Fatal(err)
	}
	got := decode(t, buf.Bytes())
	if string(got) != "xy" {
		t.Fatalf("got %q, want %q", got, "xy")
	}
}

func TestBuildLengthsSingleSymbol(t *testing.T) {
	freq := make([]uint32, 288)
	freq[65] = 10
	lengths := buildLengths(freq, maxLitLenBits)
	if lengths[65] != 1 {
		t.Fatalf("single-symbol alphabet must get a 1-bit code, got %d", lengths[65])
	}
}

func TestBuildLengthsSatisfiesKraftMcMillan(t *testing.T) {
	freq := make([]uint32, 288)
	// A skewed distribution forcing a range of code lengths.
	weights := []uint32{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377}
	for i, wt := range weights {
		freq[i] = wt
	}
	lengths := buildLengths(freq, maxLitLenBits)
	var sum float64
	for _, l := range lengths {
		if l > 0 {
			sum += 1.0 / float64(uint64(1)<<l)
		}
	}
	if sum > 1.0001 {
		t.Fatalf("Kraft-McMillan inequality violated: sum=%f", sum)
	}
}

func TestEnforceMaxLenCapsAtLimit(t *testing.T) {
	// 17 symbols with strictly increasing frequency forces codeLens to
	// want lengths beyond a tight cap, exercising the overflow path.
	freq := make([]uint32, 288)
	for i := 0; i < 17; i++ {
		freq[i] = uint32(1 << i)
	}
	lengths := buildLengths(freq, 4)
	for sym, l := range lengths {
		if l > 4 {
			t.Fatalf("symbol %d exceeds maxBits=4: length %d", sym, l)
		}
	}
}

func TestBuildCodesAreDistinctPerLength(t *testing.T) {
	lengths := []uint32{0, 2, 2, 2, 3, 3}
	codes := buildCodes(lengths, 7)
	// reverseCode is self-inverse for a given length: reversing the
	// already-reversed code must recover the original pre-reversal bits.
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if reverseCode(reverseCode(codes[sym], uint8(l)), uint8(l)) != codes[sym] {
			t.Fatalf("symbol %d: reverseCode is not self-inverse at length %d", sym, l)
		}
	}
	if codes[1] == codes[2] || codes[1] == codes[3] || codes[2] == codes[3] {
		t.Fatal("three symbols sharing a length must get three distinct codes")
	}
}

func TestLengthAndDistCodeRoundTrip(t *testing.T) {
	for length := uint32(minMatchLength); length <= maxLitLenSymbols; length++ {
		code, extra := lengthCode(length)
		got := uint32(lengthBase[code]) + extra
		if got != length {
			t.Fatalf("lengthCode(%d) -> code %d extra %d reconstructs to %d", length, code, extra, got)
		}
	}
	for _, dist := range []uint32{1, 2, 4, 5, 100, 4096, 32768} {
		code, extra := distCode(dist)
		got := uint32(distBase[code]) + extra
		if got != dist {
			t.Fatalf("distCode(%d) -> code %d extra %d reconstructs to %d", dist, code, extra, got)
		}
	}
}

func TestCodeLenHeaderCountMinimumFour(t *testing.T) {
	clLengths := make([]uint32, codeLenAlphaSize)
	clLengths[hclenOrder[0]] = 3
	if got := codeLenHeaderCount(clLengths); got != 4 {
		t.Fatalf("expected HCLEN floor of 4, got %d", got)
	}
}

func TestEncodeLengthsRunsRoundTripThroughCounts(t *testing.T) {
	seq := make([]uint32, 0, 140)
	for i := 0; i < 20; i++ {
		seq = append(seq, 0)
	}
	for i := 0; i < 5; i++ {
		seq = append(seq, 8)
	}
	for i := 0; i < 150; i++ {
		seq = append(seq, 0)
	}
	syms, freq := encodeLengths(seq)
	if len(syms) == 0 {
		t.Fatal("expected at least one emitted symbol")
	}
	total := 0
	for sym, f := range freq {
		total += int(f)
		if sym == 18 && f != 3 {
			// symbol 18 covers zero runs of 11-138; make sure it actually
			// got used for the 20-run and the 150-run above (the latter
			// split across two emissions).
			t.Fatalf("symbol 18 emitted %d times, want 3", f)
		}
	}
	if total != len(syms) {
		t.Fatalf("frequency table total %d doesn't match emitted symbol count %d", total, len(syms))
	}
}

func TestResetClearsState(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	w := NewWriter(&buf1, 1<<15)
	w.TallyLit('x')
	w.Reset(&buf2)
	if w.Len() != 0 {
		t.Fatalf("Reset should clear the tally buffer, got %d pending", w.Len())
	}
	if err := w.StoredBlock([]byte("after reset"), true); err != nil {
		t.Fatal(err)
	}
	if buf1.Len() != 0 {
		t.Fatal("writes after Reset must not land on the old destination")
	}
	got := decode(t, buf2.Bytes())
	if string(got) != "after reset" {
		t.Fatalf("got %q", got)
	}
}
