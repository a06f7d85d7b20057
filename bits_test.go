package dawg

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitWriter(t *testing.T) {
	// write 101010 = 0x2a
	// write 010101 = 0x15
	// result: 10101001 01010000 = 0xa9 0x50
	var buffer bytes.Buffer
	bw := newBitWriter(&buffer)
	require.NoError(t, bw.WriteBits(0x2a, 6))
	require.NoError(t, bw.WriteBits(0x15, 6))
	require.NoError(t, bw.Flush())

	assert.Equal(t, []byte{0xa9, 0x50}, buffer.Bytes())
	assert.Equal(t, int64(2), bw.written)
}

func TestBitReader(t *testing.T) {
	// 10101001 01010000 = 0xa9 0x50
	br := newBitSeeker(bytes.NewReader([]byte{0xa9, 0x50}))

	assert.Equal(t, uint64(0x2a), br.ReadBits(6))
	assert.Equal(t, uint64(0x15), br.ReadBits(6))
	assert.Equal(t, uint64(0x00), br.ReadBits(2))

	br.Seek(0)
	assert.Equal(t, uint64(0xa950), br.ReadBits(16))

	// 0010 1001 0101 0000 = 0x2950
	br.Seek(1)
	assert.Equal(t, uint64(0x2950), br.ReadBits(15))
	assert.Equal(t, int64(16), br.Tell())
	require.NoError(t, br.Err())
}

func TestBitReaderPastEnd(t *testing.T) {
	br := newBitSeeker(bytes.NewReader([]byte{0xff}))
	assert.Equal(t, uint64(0xf), br.ReadBits(4))
	br.ReadBits(8)
	assert.True(t, errors.Is(br.Err(), ErrInvalidFormat))

	// the error sticks
	br.Seek(0)
	assert.Equal(t, uint64(0), br.ReadBits(4))
	assert.Error(t, br.Err())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestBitWriterError(t *testing.T) {
	bw := newBitWriter(failingWriter{})
	require.NoError(t, bw.WriteBits(1, 4))
	assert.Error(t, bw.WriteBits(1, 4))
	assert.Error(t, bw.Flush())
}

func TestBitReaderWriter(t *testing.T) {
	var buffer bytes.Buffer
	bw := newBitWriter(&buffer)

	for i := 0; i < 100000; i++ {
		bits := i % 31
		data := i & ((1 << bits) - 1)
		require.NoError(t, bw.WriteBits(uint64(data), bits))
	}
	require.NoError(t, bw.Flush())

	br := newBitSeeker(bytes.NewReader(buffer.Bytes()))
	for i := 0; i < 100000; i++ {
		bits := i % 31
		data := i & ((1 << bits) - 1)
		if dataRead := br.ReadBits(int64(bits)); int(dataRead) != data {
			t.Fatalf("Fail: %d Expected 0x%x, read 0x%x", bits, data, dataRead)
		}
	}
	require.NoError(t, br.Err())
}
