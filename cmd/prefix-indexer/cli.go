package main

import "flag"

var (
	flagHanPinyin  string
	flagRankedFile string
	flagIndexOut   string
	flagHelp       bool
)

func cliInit() {
	flag.StringVar(&flagHanPinyin, "C", "", "Path to the Han->Pinyin dictionary file")
	flag.StringVar(&flagRankedFile, "I", "", "Path to the TAB-separated ranked-names file")
	flag.StringVar(&flagIndexOut, "O", "", "Path to write the built trie index to")
	flag.BoolVar(&flagHelp, "h", false, "Show usage and exit")
	flag.Parse()
}
