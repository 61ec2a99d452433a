// Command deflatecat compresses stdin to stdout as a raw DEFLATE stream,
// the cmd-line exercise of flate.Writer this module's examples are
// grounded on (intel-fastgo/examples/flate/main.go's Writer/Close pair,
// extended with the flag surface spec.md §4.4's flush modes and §3's
// strategy set need to be reachable from outside a test).
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/flowdeflate/deflate/flate"
)

var strategyNames = map[string]flate.Strategy{
	"default":  flate.StrategyDefault,
	"filtered": flate.StrategyFiltered,
	"huffman":  flate.StrategyHuffmanOnly,
	"rle":      flate.StrategyRLE,
	"fixed":    flate.StrategyFixed,
}

var flushNames = map[string]flate.FlushMode{
	"none":    flate.FlushNone,
	"partial": flate.FlushPartial,
	"sync":    flate.FlushSync,
	"full":    flate.FlushFull,
	"block":   flate.FlushBlock,
}

func sortedKeys(m map[string]flate.Strategy) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFlushKeys(m map[string]flate.FlushMode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func main() {
	level := flag.Int("level", flate.DefaultCompression, "compression level, 0-9")
	strategy := flag.String("strategy", "default", "strategy: "+strings.Join(sortedKeys(strategyNames), ", "))
	flush := flag.String("flush", "", "flush mode after every write: "+strings.Join(sortedFlushKeys(flushNames), ", ")+" (default: none, only a final Close)")
	chunkSize := flag.Int("chunk", 32*1024, "read chunk size in bytes")
	dictFile := flag.String("dict", "", "path to a preset dictionary")
	flag.Parse()

	strat, ok := strategyNames[*strategy]
	if !ok {
		log.Fatalf("deflatecat: unknown strategy %q", *strategy)
	}

	var dict []byte
	if *dictFile != "" {
		var err error
		dict, err = os.ReadFile(*dictFile)
		if err != nil {
			log.Fatalf("deflatecat: reading dictionary: %v", err)
		}
	}

	out := bufio.NewWriter(os.Stdout)
	var w *flate.Writer
	if dict != nil {
		var err error
		w, err = flate.NewWriterDict(out, *level, dict)
		if err != nil {
			log.Fatalf("deflatecat: %v", err)
		}
	} else {
		var err error
		w, err = flate.NewWriterLevel(out, *level)
		if err != nil {
			log.Fatalf("deflatecat: %v", err)
		}
	}
	if strat != flate.StrategyDefault {
		if err := w.Params(*level, strat); err != nil {
			log.Fatalf("deflatecat: %v", err)
		}
	}

	doFlush := *flush != ""
	var flushMode flate.FlushMode
	if doFlush {
		flushMode, ok = flushNames[*flush]
		if !ok {
			log.Fatalf("deflatecat: unknown flush mode %q", *flush)
		}
	}

	in := bufio.NewReaderSize(os.Stdin, *chunkSize)
	buf := make([]byte, *chunkSize)
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				log.Fatalf("deflatecat: %v", err)
			}
			if doFlush {
				if err := w.FlushMode(flushMode); err != nil {
					log.Fatalf("deflatecat: %v", err)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Fatalf("deflatecat: reading stdin: %v", readErr)
		}
	}

	if err := w.Close(); err != nil {
		log.Fatalf("deflatecat: %v", err)
	}
	if err := out.Flush(); err != nil {
		log.Fatalf("deflatecat: %v", err)
	}
}
