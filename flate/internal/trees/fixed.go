package trees

// Alphabet sizes and the code-length alphabet's own fixed structure,
// per RFC 1951 §3.2.5–§3.2.7.
const (
	maxLitLenSymbols = 286 // symbols 0-255 literal, 256 end-of-block, 257-285 length
	litLenAlphaSize  = 288 // padded to 288 for the fixed tree (286,287 unused)
	maxDistSymbols   = 30
	distAlphaSize    = 30
	codeLenAlphaSize = 19
	endBlockSymbol   = 256

	maxLitLenBits  = 15
	maxDistBits    = 15
	maxCodeLenBits = 7
)

// hclenOrder is the fixed transmission order of code-length-alphabet
// symbols in a dynamic block header (RFC 1951 §3.2.7), cross-checked
// against intel-fastgo/compress/flate/internal/deflate/header.go's
// hclenOrder.
var hclenOrder = [codeLenAlphaSize]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// lengthBase/lengthExtraBits give, for length code index 0..28 (symbols
// 257..285), the base match length and number of extra bits that follow
// the code in the bitstream. Cross-checked against RFC 1951 §3.2.5's
// table and against intel-fastgo's disttable-adjacent length handling in
// compress/flate/internal/deflate/token.go.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase/distExtraBits give, for distance code index 0..29, the base
// distance and extra-bit count. Cross-checked against
// intel-fastgo/compress/flate/internal/deflate/token.go's disttable.
var distBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtraBits = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// lengthCode returns the length-alphabet code index (0..28) for a raw match
// length (3..258), and its extra-bits value.
func lengthCode(length uint32) (code uint8, extra uint32) {
	for i := len(lengthBase) - 1; i >= 0; i-- {
		if uint32(lengthBase[i]) <= length {
			return uint8(i), length - uint32(lengthBase[i])
		}
	}
	return 0, 0
}

// distCode returns the distance-alphabet code index (0..29) for a raw
// distance (1..32768), and its extra-bits value.
func distCode(dist uint32) (code uint8, extra uint32) {
	for i := len(distBase) - 1; i >= 0; i-- {
		if uint32(distBase[i]) <= dist {
			return uint8(i), dist - uint32(distBase[i])
		}
	}
	return 0, 0
}

// fixedLitLengths/fixedDistLengths are the RFC 1951 §3.2.6 fixed Huffman
// code lengths; fixedLitCodes/fixedDistCodes are their canonical codes,
// computed once at init time via the same buildCodes used for dynamic
// blocks.
var (
	fixedLitLengths  [litLenAlphaSize]uint32
	fixedDistLengths [distAlphaSize]uint32
	fixedLitCodes    []uint16
	fixedDistCodes   []uint16
)

func init() {
	for i := 0; i <= 143; i++ {
		fixedLitLengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		fixedLitLengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		fixedLitLengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		fixedLitLengths[i] = 8
	}
	for i := range fixedDistLengths {
		fixedDistLengths[i] = 5
	}
	fixedLitCodes = buildCodes(fixedLitLengths[:], maxLitLenBits)
	fixedDistCodes = buildCodes(fixedDistLengths[:], maxDistBits)
}
