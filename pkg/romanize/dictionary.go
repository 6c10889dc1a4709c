// Package romanize expands UTF-8 strings containing Han ideographs into
// candidate romanizations using a Han-to-pinyin dictionary.
//
// The dictionary maps a single ideograph to an ordered list of readings.
// Expand walks a string codepoint by codepoint, looks each ideograph up,
// and combines the per-character reading lists into the Cartesian product
// of full-reading strings plus, for all-ideographic input, a second set of
// initial-letter abbreviations.
package romanize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dictionary holds the Han-to-pinyin mapping. The zero value is an empty,
// ready-to-use dictionary.
type Dictionary struct {
	readings map[string][]string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{readings: make(map[string][]string)}
}

// Readings returns the reading list for a single ideograph, in source
// order, and whether the ideograph is present.
func (d *Dictionary) Readings(ideograph string) ([]string, bool) {
	if d == nil || d.readings == nil {
		return nil, false
	}
	r, ok := d.readings[ideograph]
	return r, ok
}

// Set stores the reading list for an ideograph, overwriting any previous
// entry. Used by LoadDictionary and by tests.
func (d *Dictionary) Set(ideograph string, readings []string) {
	if d.readings == nil {
		d.readings = make(map[string][]string)
	}
	d.readings[ideograph] = append([]string(nil), readings...)
}

// Len reports the number of ideographs held by the dictionary.
func (d *Dictionary) Len() int {
	return len(d.readings)
}

// LoadDictionary reads a Han-to-pinyin file: one entry per line,
// whitespace-separated, first token the ideograph, remaining tokens its
// readings in order. Blank lines and lines with fewer than two tokens are
// skipped. Trailing carriage returns are tolerated.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romanize: open dictionary %q: %w", path, err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

// ReadDictionary parses the Han-to-pinyin format from an arbitrary reader.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d.Set(fields[0], fields[1:])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("romanize: read dictionary: %w", err)
	}
	return d, nil
}
