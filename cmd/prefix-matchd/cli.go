package main

import "flag"

var (
	flagConfigFile string
	flagGops       bool
)

func cliInit() {
	flag.StringVar(&flagConfigFile, "f", "", "Path to the server configuration file")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.Parse()
}
