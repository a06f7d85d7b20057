package dawg

import (
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

/* FILE FORMAT
- 32 bits: total size of file in bytes
- 8 bits: cbits, the number of bits in a character
- 8 bits: ibits, the number of bits in a node index
- 7code - number of words
- 7code - number of nodes
- 7code - number of edges
- for each node, in index order (node 0 is the source):
	- 1 bit: is node final?
	- 1 bit: fallthrough? (a single edge, to the next node)

	- if fallthrough
		cbits: character
	else:
		7code: number of edges
		- for each edge, in character order:
			cbits: character
			ibits: index of the node to jump to

We define 7code to be an unsigned that can be read the following way:

result = 0
for {
	data = next 8 bits
	result = result << 7 | data & 0x7f
	if data & 0x80 == 0 break
}

*/

const headerBits = 32 + 8 + 8

// Save writes the dawg to disk. Returns the number of bytes written
func (c *Compact) Save(filename string) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, errors.Wrap(err, "create dawg file")
	}

	n, err := c.Write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close dawg file")
	}
	return n, err
}

func (c *Compact) isFallthrough(node int) bool {
	edges := c.edgesOf(node)
	return len(edges) == 1 && edges[0].node == node+1
}

// Write writes the dawg to an io.Writer. Returns the number of bytes written
func (c *Compact) Write(wIn io.Writer) (int64, error) {
	var maxChar rune
	for _, e := range c.edges {
		if e.ch > maxChar {
			maxChar = e.ch
		}
	}

	cbits := bits.Len32(uint32(maxChar))
	ibits := bits.Len(uint(c.NumNodes() - 1))

	pos := uint64(headerBits)
	pos += unsignedLength(uint64(c.NumAdded())) * 8
	pos += unsignedLength(uint64(c.NumNodes())) * 8
	pos += unsignedLength(uint64(c.NumEdges())) * 8
	for i := range c.final {
		pos += 2
		if c.isFallthrough(i) {
			pos += uint64(cbits)
			continue
		}
		numEdges := uint64(len(c.edgesOf(i)))
		pos += unsignedLength(numEdges) * 8
		pos += numEdges * uint64(cbits+ibits)
	}
	size := (pos + 7) / 8
	if size > 0xffffffff {
		return 0, errors.Errorf("dawg of %d bytes is too large to write", size)
	}

	w := newBitWriter(wIn)
	w.WriteBits(size, 32)
	w.WriteBits(uint64(cbits), 8)
	w.WriteBits(uint64(ibits), 8)

	writeUnsigned(w, uint64(c.NumAdded()))
	writeUnsigned(w, uint64(c.NumNodes()))
	writeUnsigned(w, uint64(c.NumEdges()))

	for i, final := range c.final {
		if final {
			w.WriteBits(1, 1)
		} else {
			w.WriteBits(0, 1)
		}

		edges := c.edgesOf(i)
		if c.isFallthrough(i) {
			w.WriteBits(1, 1)
			w.WriteBits(uint64(edges[0].ch), cbits)
			continue
		}

		w.WriteBits(0, 1)
		writeUnsigned(w, uint64(len(edges)))
		for _, e := range edges {
			w.WriteBits(uint64(e.ch), cbits)
			w.WriteBits(uint64(e.node), ibits)
		}
	}

	if err := w.Flush(); err != nil {
		return w.written, err
	}
	return w.written, nil
}

// Load loads the dawg from a file. The file is mapped into memory while it
// is decoded and closed afterwards.
func Load(filename string) (*Compact, error) {
	f, err := mmap.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open dawg file")
	}
	defer f.Close()

	return Read(f, 0)
}

// Read decodes a dawg written by Write, starting at offset in f.
func Read(f io.ReaderAt, offset int64) (*Compact, error) {
	r := newBitSeeker(io.NewSectionReader(f, offset, 4))
	size := int64(r.ReadBits(32))
	if err := r.Err(); err != nil {
		return nil, err
	}

	// the counts below are checked against size, so size must be real
	// before anything is allocated from them
	if size < headerBits/8+3 {
		return nil, errors.Wrapf(ErrInvalidFormat, "size %d is too small", size)
	}
	var last [1]byte
	if n, _ := f.ReadAt(last[:], offset+size-1); n != 1 {
		return nil, errors.Wrapf(ErrInvalidFormat, "data ends before the %d bytes the header claims", size)
	}

	r = newBitSeeker(io.NewSectionReader(f, offset, size))
	r.Seek(32)
	cbits := int64(r.ReadBits(8))
	ibits := int64(r.ReadBits(8))
	numAdded := readUnsigned(r)
	numNodes := readUnsigned(r)
	numEdges := readUnsigned(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	if cbits > 32 || ibits > 63 {
		return nil, errors.Wrapf(ErrInvalidFormat, "field widths %d/%d out of range", cbits, ibits)
	}
	// every node takes at least two bits, every edge at least one
	if numNodes == 0 || numNodes > uint64(size)*4 || numEdges > uint64(size)*8 {
		return nil, errors.Wrapf(ErrInvalidFormat, "%d nodes and %d edges do not fit in %d bytes",
			numNodes, numEdges, size)
	}

	c := &Compact{
		final:    make([]bool, numNodes),
		start:    make([]int, numNodes+1),
		edges:    make([]edge, 0, numEdges),
		numAdded: int(numAdded),
	}

	for i := range c.final {
		c.final[i] = r.ReadBits(1) == 1
		c.start[i] = len(c.edges)

		if r.ReadBits(1) == 1 {
			c.edges = append(c.edges, edge{
				ch:   rune(r.ReadBits(cbits)),
				node: i + 1,
			})
		} else {
			n := readUnsigned(r)
			if n > numEdges-min(numEdges, uint64(len(c.edges))) {
				return nil, errors.Wrapf(ErrInvalidFormat, "node %d has too many edges", i)
			}
			for j := uint64(0); j < n; j++ {
				c.edges = append(c.edges, edge{
					ch:   rune(r.ReadBits(cbits)),
					node: int(r.ReadBits(ibits)),
				})
			}
		}

		if err := r.Err(); err != nil {
			return nil, err
		}
	}
	c.start[numNodes] = len(c.edges)

	if uint64(len(c.edges)) != numEdges {
		return nil, errors.Wrapf(ErrInvalidFormat, "read %d edges, header says %d", len(c.edges), numEdges)
	}
	for i := range c.final {
		edges := c.edgesOf(i)
		for j, e := range edges {
			if e.node <= 0 || e.node >= len(c.final) {
				return nil, errors.Wrapf(ErrInvalidFormat, "node %d has an edge to %d", i, e.node)
			}
			if j > 0 && edges[j-1].ch >= e.ch {
				return nil, errors.Wrapf(ErrInvalidFormat, "edges of node %d are not sorted", i)
			}
		}
	}

	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}
	c.calculateReach()
	if c.reach[rootNode] != c.numAdded {
		return nil, errors.Wrapf(ErrInvalidFormat, "%d words reachable, header says %d",
			c.reach[rootNode], c.numAdded)
	}

	return c, nil
}

// checkAcyclic makes sure a decoded dawg has no cycles, which the counting
// and enumeration code relies on.
func (c *Compact) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]uint8, len(c.final))
	var visit func(n int) error
	visit = func(n int) error {
		state[n] = visiting
		for _, e := range c.edgesOf(n) {
			switch state[e.node] {
			case visiting:
				return errors.Wrapf(ErrInvalidFormat, "cycle through node %d", e.node)
			case unvisited:
				if err := visit(e.node); err != nil {
					return err
				}
			}
		}
		state[n] = visited
		return nil
	}
	return visit(rootNode)
}

// Dump prints out the file
func Dump(out io.Writer, f io.ReaderAt) error {
	r := newBitSeeker(f)
	size := r.ReadBits(32)
	fmt.Fprintf(out, "[%08x] Size=%v bytes\n", r.Tell()-32, size)

	cbits := int64(r.ReadBits(8))
	fmt.Fprintf(out, "[%08x] cbits=%d\n", r.Tell()-8, cbits)

	ibits := int64(r.ReadBits(8))
	fmt.Fprintf(out, "[%08x] ibits=%d\n", r.Tell()-8, ibits)

	at := r.Tell()
	wordCount := readUnsigned(r)
	fmt.Fprintf(out, "[%08x] WordCount=%v\n", at, wordCount)

	at = r.Tell()
	nodeCount := readUnsigned(r)
	fmt.Fprintf(out, "[%08x] NodeCount=%v\n", at, nodeCount)

	at = r.Tell()
	edgeCount := readUnsigned(r)
	fmt.Fprintf(out, "[%08x] EdgeCount=%v\n", at, edgeCount)

	for i := uint64(0); i < nodeCount && r.Err() == nil; i++ {
		at := r.Tell()
		final := r.ReadBits(1)
		fallthr := r.ReadBits(1)

		if fallthr == 1 {
			ch := r.ReadBits(cbits)
			fmt.Fprintf(out, "[%08x] Node %d final=%d ch='%c' (fallthrough)\n", at, i, final, rune(ch))
			continue
		}

		edges := readUnsigned(r)
		fmt.Fprintf(out, "[%08x] Node %d final=%d has %d edges\n", at, i, final, edges)

		for j := uint64(0); j < edges && r.Err() == nil; j++ {
			at = r.Tell()
			ch := r.ReadBits(cbits)
			target := r.ReadBits(ibits)
			fmt.Fprintf(out, "[%08x] '%c' goto %d\n", at, rune(ch), target)
		}
	}

	return r.Err()
}

func writeUnsigned(w *bitWriter, n uint64) {
	for shift := (unsignedLength(n) - 1) * 7; shift > 0; shift -= 7 {
		w.WriteBits((n>>shift)&0x7f|0x80, 8)
	}
	w.WriteBits(n&0x7f, 8)
}

func readUnsigned(r *bitSeeker) uint64 {
	var result uint64
	for i := 0; i < 10; i++ {
		d := r.ReadBits(8)
		result = (result << 7) | d&0x7f
		if d&0x80 == 0 {
			return result
		}
	}
	if r.err == nil {
		r.err = errors.Wrap(ErrInvalidFormat, "7code number too long")
	}
	return 0
}

func unsignedLength(n uint64) uint64 {
	length := uint64(1)
	for n >= 0x80 {
		n >>= 7
		length++
	}
	return length
}
