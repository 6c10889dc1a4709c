// Package query implements the prefix-match lookup shared by the binary
// TCP protocol and the HTTP admin surface: romanize, fan out across the
// trie, filter survivors down to names that actually contain the
// original ideographs, dedup, rank-sort, and truncate.
package query

import (
	"sort"
	"strings"

	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
)

// Run returns up to maxNumber names matching text, ranked ascending.
// maxNumber <= 0 is treated as the default of 10.
func Run(dict *romanize.Dictionary, registry *index.Registry, maxDepth, maxNumber int, text string) []string {
	if maxNumber <= 0 {
		maxNumber = 10
	}

	filterRule := romanize.IdeographTokens(text)
	letters := romanize.Expand(dict, text)
	if len(letters) == 0 {
		return nil
	}

	hits := registry.Query(letters, maxDepth)
	survivors := filterAndDedup(hits, filterRule)
	sort.SliceStable(survivors, func(i, j int) bool { return survivors[i].Rank < survivors[j].Rank })

	if maxNumber > len(survivors) {
		maxNumber = len(survivors)
	}
	names := make([]string, maxNumber)
	for i := 0; i < maxNumber; i++ {
		names[i] = survivors[i].Name
	}
	return names
}

// filterAndDedup drops hits whose name doesn't contain every ideograph
// of filterRule as a substring, and collapses duplicate names reached
// through more than one romanization letter.
func filterAndDedup(hits []index.Hit, filterRule []string) []index.Hit {
	seen := make(map[string]bool, len(hits))
	out := make([]index.Hit, 0, len(hits))
	for _, h := range hits {
		if seen[h.Name] {
			continue
		}
		if !containsAll(h.Name, filterRule) {
			continue
		}
		seen[h.Name] = true
		out = append(out, h)
	}
	return out
}

func containsAll(name string, rule []string) bool {
	for _, r := range rule {
		if !strings.Contains(name, r) {
			return false
		}
	}
	return true
}
