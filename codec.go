package art

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Codec converts a Go value to and from its byte-encoded key/value
// representation (spec §4.D). The core Tree operates on raw []byte;
// Typed[K, V] layers a Codec pair on top so callers never hand-roll
// encoding for common primitive types. Grounded on scigolib-hdf5's
// endian.go fixed-width encode/decode helpers, generalised to a small
// strategy interface the way gaissmai-bart's stringer/serializer
// helpers are factored out of the core trie.
type Codec[T any] struct {
	Encode func(v T) []byte
	Decode func(data []byte) (T, error)
}

// StringCodec encodes a string as its raw UTF-8 bytes.
func StringCodec() Codec[string] {
	return Codec[string]{
		Encode: func(v string) []byte { return []byte(v) },
		Decode: func(data []byte) (string, error) { return string(data), nil },
	}
}

// BytesCodec is the identity codec for []byte keys/values.
func BytesCodec() Codec[[]byte] {
	return Codec[[]byte]{
		Encode: func(v []byte) []byte {
			out := make([]byte, len(v))
			copy(out, v)
			return out
		},
		Decode: func(data []byte) ([]byte, error) {
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		},
	}
}

// BoolCodec encodes false/true as a single 0x00/0x01 byte.
func BoolCodec() Codec[bool] {
	return Codec[bool]{
		Encode: func(v bool) []byte {
			if v {
				return []byte{1}
			}
			return []byte{0}
		},
		Decode: func(data []byte) (bool, error) {
			if len(data) != 1 {
				return false, fmt.Errorf("art: bool codec: %w: want 1 byte, got %d", ErrFormatError, len(data))
			}
			return data[0] != 0, nil
		},
	}
}

// Int8Codec encodes an int8 with its sign bit flipped, so unsigned
// byte comparison of the encoded form matches numeric order.
func Int8Codec() Codec[int8] {
	return Codec[int8]{
		Encode: func(v int8) []byte { return []byte{byte(v) ^ 0x80} },
		Decode: func(data []byte) (int8, error) {
			if len(data) != 1 {
				return 0, fmt.Errorf("art: int8 codec: %w: want 1 byte, got %d", ErrFormatError, len(data))
			}
			return int8(data[0] ^ 0x80), nil
		},
	}
}

// Uint8Codec is the identity codec for a single byte.
func Uint8Codec() Codec[uint8] {
	return Codec[uint8]{
		Encode: func(v uint8) []byte { return []byte{v} },
		Decode: func(data []byte) (uint8, error) {
			if len(data) != 1 {
				return 0, fmt.Errorf("art: uint8 codec: %w: want 1 byte, got %d", ErrFormatError, len(data))
			}
			return data[0], nil
		},
	}
}

// Int16Codec encodes a big-endian, sign-flipped int16 so that
// unsigned byte comparison preserves numeric order.
func Int16Codec() Codec[int16] {
	return Codec[int16]{
		Encode: func(v int16) []byte {
			var buf [2]byte
			binary.BigEndian.PutUint16(buf[:], uint16(v)^0x8000)
			return buf[:]
		},
		Decode: func(data []byte) (int16, error) {
			if len(data) != 2 {
				return 0, fmt.Errorf("art: int16 codec: %w: want 2 bytes, got %d", ErrFormatError, len(data))
			}
			return int16(binary.BigEndian.Uint16(data) ^ 0x8000), nil
		},
	}
}

// Uint16Codec encodes a big-endian uint16.
func Uint16Codec() Codec[uint16] {
	return Codec[uint16]{
		Encode: func(v uint16) []byte {
			var buf [2]byte
			binary.BigEndian.PutUint16(buf[:], v)
			return buf[:]
		},
		Decode: func(data []byte) (uint16, error) {
			if len(data) != 2 {
				return 0, fmt.Errorf("art: uint16 codec: %w: want 2 bytes, got %d", ErrFormatError, len(data))
			}
			return binary.BigEndian.Uint16(data), nil
		},
	}
}

// Int32Codec encodes a big-endian, sign-flipped int32.
func Int32Codec() Codec[int32] {
	return Codec[int32]{
		Encode: func(v int32) []byte {
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], uint32(v)^0x80000000)
			return buf[:]
		},
		Decode: func(data []byte) (int32, error) {
			if len(data) != 4 {
				return 0, fmt.Errorf("art: int32 codec: %w: want 4 bytes, got %d", ErrFormatError, len(data))
			}
			return int32(binary.BigEndian.Uint32(data) ^ 0x80000000), nil
		},
	}
}

// Uint32Codec encodes a big-endian uint32.
func Uint32Codec() Codec[uint32] {
	return Codec[uint32]{
		Encode: func(v uint32) []byte {
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], v)
			return buf[:]
		},
		Decode: func(data []byte) (uint32, error) {
			if len(data) != 4 {
				return 0, fmt.Errorf("art: uint32 codec: %w: want 4 bytes, got %d", ErrFormatError, len(data))
			}
			return binary.BigEndian.Uint32(data), nil
		},
	}
}

// Int64Codec encodes a big-endian, sign-flipped int64.
func Int64Codec() Codec[int64] {
	return Codec[int64]{
		Encode: func(v int64) []byte {
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], uint64(v)^0x8000000000000000)
			return buf[:]
		},
		Decode: func(data []byte) (int64, error) {
			if len(data) != 8 {
				return 0, fmt.Errorf("art: int64 codec: %w: want 8 bytes, got %d", ErrFormatError, len(data))
			}
			return int64(binary.BigEndian.Uint64(data) ^ 0x8000000000000000), nil
		},
	}
}

// Uint64Codec encodes a big-endian uint64.
func Uint64Codec() Codec[uint64] {
	return Codec[uint64]{
		Encode: func(v uint64) []byte {
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], v)
			return buf[:]
		},
		Decode: func(data []byte) (uint64, error) {
			if len(data) != 8 {
				return 0, fmt.Errorf("art: uint64 codec: %w: want 8 bytes, got %d", ErrFormatError, len(data))
			}
			return binary.BigEndian.Uint64(data), nil
		},
	}
}

// Float64Codec encodes a float64 so that unsigned byte comparison of
// the encoded form matches numeric order for both signs: positive
// numbers get the sign bit set, negative numbers get every bit
// flipped, mirroring the classic order-preserving float transform.
func Float64Codec() Codec[float64] {
	return Codec[float64]{
		Encode: func(v float64) []byte {
			bits := math.Float64bits(v)
			if bits&0x8000000000000000 != 0 {
				bits = ^bits
			} else {
				bits |= 0x8000000000000000
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], bits)
			return buf[:]
		},
		Decode: func(data []byte) (float64, error) {
			if len(data) != 8 {
				return 0, fmt.Errorf("art: float64 codec: %w: want 8 bytes, got %d", ErrFormatError, len(data))
			}
			bits := binary.BigEndian.Uint64(data)
			if bits&0x8000000000000000 != 0 {
				bits &^= 0x8000000000000000
			} else {
				bits = ^bits
			}
			return math.Float64frombits(bits), nil
		},
	}
}

// Typed is a generic, codec-backed view over a Tree. It encodes keys
// and values through KeyCodec/ValueCodec and delegates to the
// underlying byte-level Tree for storage, so the core engine stays
// free of type parameters (§4.D's rationale: Options and the node
// layout are fixed-shape and must not carry an any-typed field).
type Typed[K, V any] struct {
	tree  *Tree
	key   Codec[K]
	value Codec[V]
}

// NewTyped wraps tree with the given key/value codecs.
func NewTyped[K, V any](tree *Tree, key Codec[K], value Codec[V]) *Typed[K, V] {
	return &Typed[K, V]{tree: tree, key: key, value: value}
}

// Add inserts key/value, failing with ErrKeyExists if key is present.
func (t *Typed[K, V]) Add(k K, v V) error {
	return t.tree.Add(t.key.Encode(k), t.value.Encode(v))
}

// TryAdd inserts key/value only if key is absent, reporting whether it added.
func (t *Typed[K, V]) TryAdd(k K, v V) (bool, error) {
	return t.tree.TryAdd(t.key.Encode(k), t.value.Encode(v))
}

// Set inserts or overwrites key/value.
func (t *Typed[K, V]) Set(k K, v V) error {
	return t.tree.Set(t.key.Encode(k), t.value.Encode(v))
}

// Get looks up key, decoding its value.
func (t *Typed[K, V]) Get(k K) (V, bool, error) {
	var zero V
	raw, ok, err := t.tree.TryGetValue(t.key.Encode(k))
	if err != nil || !ok {
		return zero, ok, err
	}
	v, err := t.value.Decode(raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Remove deletes key, reporting whether it was present.
func (t *Typed[K, V]) Remove(k K) (bool, error) {
	return t.tree.Remove(t.key.Encode(k))
}

// ContainsKey reports whether key is present.
func (t *Typed[K, V]) ContainsKey(k K) (bool, error) {
	return t.tree.ContainsKey(t.key.Encode(k))
}
