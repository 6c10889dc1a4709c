// Command prefix-indexer builds a static double-array trie index from a
// Han->Pinyin dictionary and a ranked-names file, the offline half of
// the lookup service's index: the online server only ever mmaps what
// this binary produces.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pombredanne/prefix-match-server/pkg/romanize"
)

func main() {
	os.Exit(run())
}

func run() int {
	cliInit()

	if flagHelp || flagHanPinyin == "" || flagRankedFile == "" || flagIndexOut == "" {
		usage()
		return -1
	}
	for _, path := range []string{flagHanPinyin, flagRankedFile} {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "prefix-indexer: %v\n", err)
			usage()
			return -1
		}
	}

	dict, err := romanize.LoadDictionary(flagHanPinyin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prefix-indexer: %v\n", err)
		return -1
	}

	blob, err := buildIndex(dict, flagRankedFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prefix-indexer: %v\n", err)
		return -1
	}

	if err := writeIndex(flagIndexOut, blob); err != nil {
		fmt.Fprintf(os.Stderr, "prefix-indexer: %v\n", err)
		return -1
	}

	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: prefix-indexer -C <hanpinyin> -I <rankedfile> -O <indexout>")
	flag.PrintDefaults()
}
