package dawg

import (
	"io"

	"github.com/pkg/errors"
)

// bitWriter packs values into a byte stream, most significant bit first.
// The first write error is kept and returned by every later call.
type bitWriter struct {
	w       io.Writer
	cache   uint8
	used    int
	written int64
	err     error
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

func (w *bitWriter) emit(b byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write([]byte{b}); err != nil {
		w.err = errors.Wrap(err, "write dawg")
		return
	}
	w.written++
}

// WriteBits writes the low n bits of data.
func (w *bitWriter) WriteBits(data uint64, n int) error {
	for n > 0 {
		chunk := n
		if chunk+w.used > 8 {
			chunk = 8 - w.used
		}

		mask := uint8(uint16(1<<chunk) - 1)
		w.used += chunk
		w.cache = (w.cache << chunk) | byte(data>>(n-chunk))&mask

		if w.used == 8 {
			w.emit(w.cache)
			w.cache, w.used = 0, 0
		}

		n -= chunk
	}
	return w.err
}

// Flush pads the last partial byte with zero bits and writes it.
func (w *bitWriter) Flush() error {
	if w.used > 0 {
		w.emit(w.cache << (8 - w.used))
		w.cache, w.used = 0, 0
	}
	return w.err
}

var maskTop = []byte{
	0xff,
	0x7f,
	0x3f,
	0x1f,
	0x0f,
	0x07,
	0x03,
	0x01,
	0x00,
}

// bitSeeker reads bits from an io.ReaderAt at a position counted in bits.
// Reading past the end sets a sticky error and yields zero bits.
type bitSeeker struct {
	r      io.ReaderAt
	p      int64
	buffer []byte
	err    error
}

func newBitSeeker(r io.ReaderAt) *bitSeeker {
	return &bitSeeker{r: r, buffer: make([]byte, 1)}
}

func (r *bitSeeker) nextByte() byte {
	if r.err != nil {
		return 0
	}
	if _, err := r.r.ReadAt(r.buffer, r.p>>3); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.Wrapf(ErrInvalidFormat, "unexpected end of data at bit %d", r.p)
		}
		r.err = err
		return 0
	}
	return r.buffer[0]
}

// ReadBits reads the next n bits, n <= 64.
func (r *bitSeeker) ReadBits(n int64) uint64 {
	if n == 0 {
		return 0
	}
	if r.p&7+n <= 8 {
		ret := uint64((r.nextByte() & maskTop[r.p&7]) >> (8 - r.p&7 - n))
		r.p += n
		return ret
	}

	// the bits continue past the current byte
	result := uint64(r.nextByte() & maskTop[r.p&7])

	l := 8 - r.p&7
	r.p += l
	n -= l

	for n >= 8 {
		result = (result << 8) | uint64(r.nextByte())
		r.p += 8
		n -= 8
	}

	if n > 0 {
		result = (result << n) | uint64(r.nextByte()>>(8-n))
		r.p += n
	}

	return result
}

// Seek moves to an absolute bit position.
func (r *bitSeeker) Seek(bit int64) {
	r.p = bit
}

// Tell returns the current bit position.
func (r *bitSeeker) Tell() int64 {
	return r.p
}

// Err returns the first error met while reading.
func (r *bitSeeker) Err() error {
	return r.err
}
