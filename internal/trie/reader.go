package trie

// Reader attaches to an encoded blob without copying the value region and
// answers common-prefix descents against it.
type Reader struct {
	blob *blob
}

// NewReader returns an unattached reader.
func NewReader() *Reader { return &Reader{} }

// Assign attaches r to raw. raw must remain valid and unmodified for the
// lifetime of r (it is typically the backing array of an mmap region).
func (r *Reader) Assign(raw []byte) error {
	b, err := decodeBlob(raw)
	if err != nil {
		return err
	}
	r.blob = b
	return nil
}

// Hit is a single (key, value) pair returned by GetChildren.
type Hit struct {
	Key   string
	Value StringArray
}

func (r *Reader) walk(prefix string) (int, bool) {
	if r.blob == nil {
		return 0, false
	}
	state := 0
	for i := 0; i < len(prefix); i++ {
		next := int(r.blob.base[state]) + int(code(prefix[i]))
		if next < 0 || next >= len(r.blob.check) || r.blob.check[next] != int32(state) {
			return 0, false
		}
		state = next
	}
	return state, true
}

func (r *Reader) valueAt(state int) (StringArray, bool) {
	off := r.blob.leafValue[state]
	if off < 0 {
		return nil, false
	}
	items, _, err := DecodeStringArray(r.blob.values[off:])
	if err != nil {
		return nil, false
	}
	return items, true
}

// Find returns the value stored at key, if any. An absent key is not an
// error; it simply returns ok == false.
func (r *Reader) Find(key string) (StringArray, bool) {
	state, ok := r.walk(key)
	if !ok {
		return nil, false
	}
	return r.valueAt(state)
}

// GetChildren enumerates every (key, value) pair whose key starts with
// prefix, descending at most maxDepth additional levels below the prefix
// node. maxDepth <= 0 means unbounded. An absent prefix yields a nil
// slice, not an error.
func (r *Reader) GetChildren(prefix string, maxDepth int) []Hit {
	state, ok := r.walk(prefix)
	if !ok {
		return nil
	}

	var hits []Hit
	var walk func(state, depth int, key []byte)
	walk = func(state, depth int, key []byte) {
		if items, ok := r.valueAt(state); ok {
			hits = append(hits, Hit{Key: string(key), Value: items})
		}
		if maxDepth > 0 && depth >= maxDepth {
			return
		}
		base := r.blob.base[state]
		if base == 0 {
			return
		}
		for c := 0; c < 256; c++ {
			next := int(base) + int(code(byte(c)))
			if next < 0 || next >= len(r.blob.check) || r.blob.check[next] != int32(state) {
				continue
			}
			childKey := make([]byte, len(key)+1)
			copy(childKey, key)
			childKey[len(key)] = byte(c)
			walk(next, depth+1, childKey)
		}
	}
	walk(state, 0, []byte(prefix))
	return hits
}
