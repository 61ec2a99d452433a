// Package flate implements the compressing half of DEFLATE (RFC 1951):
// LZ77 sliding-window matching, the five block-production strategies
// (stored, fast, lazy, rle, huffman-only) zlib's level table selects
// between, the flush-mode state machine, and dictionary seeding.
//
// Decoding and the gzip/zlib envelope formats are out of scope; pair
// this package's output with compress/flate's Reader, or with gzip/zlib
// wrapping built on top of it, the same way the wider ecosystem layers
// those concerns over a bare DEFLATE stream.
package flate
