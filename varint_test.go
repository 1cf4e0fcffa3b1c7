package art

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 255, 256, 16383, 16384,
		1 << 20, 1 << 30, 1 << 40, 1 << 50, 1 << 55,
		1<<56 - 1, 1 << 56, 1 << 60, ^uint64(0),
	}

	for _, v := range values {
		buf := encodeVarint(nil, v)
		require.Equal(t, varintLength(v), len(buf), "value %d", v)
		require.Equal(t, len(buf), varintEncodedLength(buf[0]), "value %d", v)

		got, n, err := decodeVarint(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got, "value %d", v)
	}
}

func TestVarintWidths(t *testing.T) {
	require.Equal(t, 1, varintLength(0))
	require.Equal(t, 1, varintLength(127))
	require.Equal(t, 2, varintLength(128))
	require.Equal(t, 9, varintLength(^uint64(0)))
}

func TestDecodeVarintErrors(t *testing.T) {
	_, _, err := decodeVarint(nil)
	require.ErrorIs(t, err, ErrFormatError)

	_, _, err = decodeVarint([]byte{0x80}) // claims a 2nd byte that isn't there
	require.ErrorIs(t, err, ErrFormatError)
}

func TestDecodeVarintAt(t *testing.T) {
	stream, err := NewFileStream(t.TempDir() + "/varint.bin")
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.SetLength(32))

	buf := encodeVarint(nil, 1<<40)
	_, err = stream.WriteAt(buf, 4)
	require.NoError(t, err)

	got, n, err := decodeVarintAt(stream, 4)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, uint64(1<<40), got)
}
