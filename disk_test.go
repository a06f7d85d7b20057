package dawg

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	words := testWords()
	c := mustBuild(t, words).Compress()

	filename := filepath.Join(t.TempDir(), "test.dawg")
	size, err := c.Save(filename)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	loaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
	assert.Equal(t, words, slices.Collect(loaded.AllStrings()))
	for i, word := range words {
		require.Equal(t, i, loaded.IndexOf(word))
	}
}

func TestWriteReadSmall(t *testing.T) {
	tests := map[string][]string{
		"empty":      nil,
		"zero":       {""},
		"single":     {"a"},
		"hellojello": {"hello", "jello"},
		"unicode":    {"café", "naïve", "über", "日本", "日本語"},
	}

	for name, words := range tests {
		t.Run(name, func(t *testing.T) {
			c := mustBuild(t, words).Compress()

			var buffer bytes.Buffer
			size, err := c.Write(&buffer)
			require.NoError(t, err)
			assert.Equal(t, int64(buffer.Len()), size)

			read, err := Read(bytes.NewReader(buffer.Bytes()), 0)
			require.NoError(t, err)
			assert.Equal(t, c, read)
		})
	}
}

func TestReadAtOffset(t *testing.T) {
	c := mustBuild(t, []string{"blip", "cat", "catnip", "cats"}).Compress()

	buffer := bytes.NewBufferString("header")
	_, err := c.Write(buffer)
	require.NoError(t, err)
	buffer.WriteString("trailer")

	read, err := Read(bytes.NewReader(buffer.Bytes()), int64(len("header")))
	require.NoError(t, err)
	assert.Equal(t, c, read)
}

func TestReadCorrupt(t *testing.T) {
	c := mustBuild(t, testWords()).Compress()
	var buffer bytes.Buffer
	_, err := c.Write(&buffer)
	require.NoError(t, err)
	data := buffer.Bytes()

	// truncated
	_, err = Read(bytes.NewReader(data[:len(data)/2]), 0)
	require.Error(t, err)

	// header claims more words than the graph holds
	var bad bytes.Buffer
	bw := newBitWriter(&bad)
	require.NoError(t, bw.WriteBits(11, 32))
	require.NoError(t, bw.WriteBits(1, 8))
	require.NoError(t, bw.WriteBits(1, 8))
	writeUnsigned(bw, 5) // words
	writeUnsigned(bw, 2) // nodes
	writeUnsigned(bw, 1) // edges
	require.NoError(t, bw.WriteBits(0b0_1_1, 3)) // source: not final, fallthrough on '1'
	require.NoError(t, bw.WriteBits(0b1_0, 2))   // node 1: final, no fallthrough
	writeUnsigned(bw, 0)
	require.NoError(t, bw.Flush())

	_, err = Read(bytes.NewReader(bad.Bytes()), 0)
	assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)
}

func TestReadHugeCountsInShortData(t *testing.T) {
	var buffer bytes.Buffer
	bw := newBitWriter(&buffer)
	require.NoError(t, bw.WriteBits(0xffffffff, 32))
	require.NoError(t, bw.WriteBits(8, 8))
	require.NoError(t, bw.WriteBits(26, 8))
	writeUnsigned(bw, 1)          // words
	writeUnsigned(bw, 40_000_000) // nodes
	writeUnsigned(bw, 40_000_000) // edges
	require.NoError(t, bw.Flush())

	_, err := Read(bytes.NewReader(buffer.Bytes()), 0)
	assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)

	filename := filepath.Join(t.TempDir(), "short.dawg")
	require.NoError(t, os.WriteFile(filename, buffer.Bytes(), 0o644))
	_, err = Load(filename)
	assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)

	// a size below the fixed header is rejected too
	_, err = Read(bytes.NewReader([]byte{0, 0, 0, 2, 8, 8}), 0)
	assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)
}

func TestUnsigned(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 0x1fffff, 0xfffffff, 1 << 40, 1<<64 - 1}

	var buffer bytes.Buffer
	w := newBitWriter(&buffer)
	var bitsWritten uint64
	for _, v := range values {
		writeUnsigned(w, v)
		bitsWritten += unsignedLength(v) * 8
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, int(bitsWritten/8), buffer.Len())

	r := newBitSeeker(bytes.NewReader(buffer.Bytes()))
	for _, v := range values {
		assert.Equal(t, v, readUnsigned(r))
	}
	require.NoError(t, r.Err())
}

func TestDump(t *testing.T) {
	c := mustBuild(t, []string{"tap", "taps", "top", "tops"}).Compress()
	var buffer bytes.Buffer
	_, err := c.Write(&buffer)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Dump(&out, bytes.NewReader(buffer.Bytes())))
	assert.Contains(t, out.String(), "WordCount=4")
	assert.Contains(t, out.String(), "NodeCount=5")
	assert.Contains(t, out.String(), "(fallthrough)")
}
