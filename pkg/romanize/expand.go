package romanize

// utf8Len returns the byte length of the UTF-8 sequence starting with lead
// byte b, using the fixed lead-byte table from the wire format: 1-byte
// (ASCII), 2/3/4-byte lead patterns. Any byte that does not match a known
// lead pattern (a stray continuation byte, or invalid encoding) is treated
// as a single byte so that malformed input never stalls the walk.
func utf8Len(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// isASCIIOnly reports whether every byte of s is below 0x80.
func isASCIIOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Expand computes the candidate romanizations for s against dictionary d,
// per the algorithm in the romanizer design: the Cartesian product of
// per-ideograph readings, plus (when s is entirely multi-byte) the
// Cartesian product of per-ideograph initial letters.
//
// Codepoints absent from the dictionary are silently skipped; they neither
// fail the expansion nor contribute a placeholder. Invalid UTF-8 advances
// one byte and continues.
func Expand(d *Dictionary, s string) []string {
	if isASCIIOnly(s) {
		return []string{s}
	}

	var allReadings [][]string
	var initials [][]string
	allMultiByte := true

	p := 0
	for p < len(s) {
		n := utf8Len(s[p])
		if p+n > len(s) {
			n = 1
		}
		if n == 1 {
			allMultiByte = false
			p++
			continue
		}
		key := s[p : p+n]
		if readings, ok := d.Readings(key); ok && len(readings) > 0 {
			allReadings = append(allReadings, readings)
			firsts := make([]string, len(readings))
			for i, r := range readings {
				if len(r) == 0 {
					firsts[i] = r
					continue
				}
				firsts[i] = r[:1]
			}
			initials = append(initials, firsts)
		}
		p += n
	}

	out := cartesianProduct(allReadings)
	if allMultiByte {
		out = append(out, cartesianProduct(initials)...)
	}
	return out
}

// cartesianProduct computes the Cartesian product of stacks, preserving
// the order of each stack and the order of the accumulator at every step:
// O starts as stacks[0]; for each subsequent stack S, O is replaced by
// |S| concatenated replicas of the original O, replica j having S[j]
// appended to every element.
func cartesianProduct(stacks [][]string) []string {
	if len(stacks) == 0 {
		return nil
	}

	out := append([]string(nil), stacks[0]...)
	for i := 1; i < len(stacks); i++ {
		alt := stacks[i]
		next := make([]string, 0, len(out)*len(alt))
		for _, a := range alt {
			for _, prefix := range out {
				next = append(next, prefix+a)
			}
		}
		out = next
	}
	return out
}

// IdeographTokens returns, in source order, the multi-byte codepoints of
// s (the ideographs used as the query handler's substring filter rule).
// ASCII codepoints are skipped.
func IdeographTokens(s string) []string {
	var out []string
	p := 0
	for p < len(s) {
		n := utf8Len(s[p])
		if p+n > len(s) {
			n = 1
		}
		if n > 1 {
			out = append(out, s[p:p+n])
		}
		p += n
	}
	return out
}
