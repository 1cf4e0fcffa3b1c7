package art

import "fmt"

// Key-terminator escaping (spec §4.E): an injective mapping on the
// encoded key byte stream that removes the leaf terminator T from the
// stored alphabet, so a leaf's stored partial key can always find its
// end by scanning for T.
//
//	T  -> E1 E2
//	E1 -> E1 E1
//	other -> itself

// escape appends the escaped form of key to dst and returns the grown
// slice.
func (t *Tree) escape(dst, key []byte) []byte {
	for _, b := range key {
		switch b {
		case t.terminator:
			dst = append(dst, t.escape1, t.escape2)
		case t.escape1:
			dst = append(dst, t.escape1, t.escape1)
		default:
			dst = append(dst, b)
		}
	}

	return dst
}

// unescape inverts escape over a complete stored byte sequence (no
// trailing partial pair allowed).
func (t *Tree) unescape(data []byte) ([]byte, error) {
	return t.unescapeUpTo(data, len(data))
}

// unescapeUpTo inverts escape over data, treating completeUpTo as the
// number of input bytes known to be complete; if a two-byte escape
// sequence begun by E1 would run past completeUpTo, the scan extends
// up to len(data) to finish the pair (the partial-prefix accommodation
// named in §4.E), and only raises ErrFormatError if even the full
// buffer cannot complete the pair.
func (t *Tree) unescapeUpTo(data []byte, completeUpTo int) ([]byte, error) {
	out := make([]byte, 0, len(data))

	for i := 0; i < completeUpTo; i++ {
		b := data[i]
		if b != t.escape1 {
			out = append(out, b)
			continue
		}

		if i+1 >= len(data) {
			return nil, fmt.Errorf("art: unescape: %w: trailing escape byte with no pair", ErrFormatError)
		}

		next := data[i+1]
		switch next {
		case t.escape2:
			out = append(out, t.terminator)
		case t.escape1:
			out = append(out, t.escape1)
		default:
			return nil, fmt.Errorf("art: unescape: %w: invalid escape pair %x %x", ErrFormatError, b, next)
		}

		i++
	}

	return out, nil
}
