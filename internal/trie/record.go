// Package trie implements a static double-array trie keyed by romanized
// prefixes, each leaf holding an ordered list of (name, rank) entries. A
// blob is built offline by Build and consumed online by Reader.
package trie

import (
	"encoding/binary"
	"errors"
	"math"
)

// NodeItem is a single stored record: a name and its precomputed rank.
type NodeItem struct {
	Name string
	Rank float32
}

// StringArray is an ordered sequence of NodeItem sharing a trie key.
type StringArray []NodeItem

var errTruncated = errors.New("trie: truncated string array")

// EncodeStringArray serializes items per the wire format: a 4-byte
// little-endian count, then per entry a 4-byte little-endian length, the
// UTF-8 name bytes, and a 4-byte little-endian rank.
func EncodeStringArray(items StringArray) []byte {
	size := 4
	for _, it := range items {
		size += 4 + len(it.Name) + 4
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf, uint32(len(items)))
	pos := 4
	for _, it := range items {
		binary.LittleEndian.PutUint32(buf[pos:], uint32(len(it.Name)))
		pos += 4
		pos += copy(buf[pos:], it.Name)
		binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(it.Rank))
		pos += 4
	}
	return buf
}

// DecodeStringArray parses a string array from the head of b and returns
// the number of bytes consumed.
func DecodeStringArray(b []byte) (StringArray, int, error) {
	if len(b) < 4 {
		return nil, 0, errTruncated
	}
	count := binary.LittleEndian.Uint32(b)
	pos := 4
	items := make(StringArray, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(b) {
			return nil, 0, errTruncated
		}
		nameLen := int(binary.LittleEndian.Uint32(b[pos:]))
		pos += 4
		if nameLen < 0 || pos+nameLen+4 > len(b) {
			return nil, 0, errTruncated
		}
		name := string(b[pos : pos+nameLen])
		pos += nameLen
		rank := math.Float32frombits(binary.LittleEndian.Uint32(b[pos:]))
		pos += 4
		items = append(items, NodeItem{Name: name, Rank: rank})
	}
	return items, pos, nil
}
