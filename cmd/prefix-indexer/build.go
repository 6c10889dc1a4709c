package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pombredanne/prefix-match-server/internal/trie"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// buildIndex reads the ranked-names file, romanizes each name's field
// only (not the raw line, O-1) against dict, and groups the resulting
// candidate keys into a sorted set of trie.Record ready for trie.Build.
func buildIndex(dict *romanize.Dictionary, rankedFilePath string) ([]byte, error) {
	f, err := os.Open(rankedFilePath)
	if err != nil {
		return nil, fmt.Errorf("prefix-indexer: open ranked file: %w", err)
	}
	defer f.Close()

	byKey := make(map[string]trie.StringArray)
	lineNo := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			xlog.Warnf("prefix-indexer: %s:%d: expected name<TAB>rank, skipping", rankedFilePath, lineNo)
			continue
		}
		name := fields[0]
		rank, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 32)
		if err != nil {
			xlog.Warnf("prefix-indexer: %s:%d: bad rank %q, skipping", rankedFilePath, lineNo, fields[1])
			continue
		}

		for _, key := range romanize.Expand(dict, name) {
			if key == "" {
				continue
			}
			byKey[key] = append(byKey[key], trie.NodeItem{Name: name, Rank: float32(rank)})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("prefix-indexer: read ranked file: %w", err)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]trie.Record, len(keys))
	for i, k := range keys {
		records[i] = trie.Record{Key: k, Value: byKey[k]}
	}

	return trie.Build(records)
}

func writeIndex(path string, blob []byte) error {
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("prefix-indexer: write %q: %w", path, err)
	}
	return nil
}
