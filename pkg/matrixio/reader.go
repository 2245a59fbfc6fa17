package matrixio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/network"
)

// Snapshot is a memory-mapped matrix snapshot. Rows are decoded on demand.
type Snapshot struct {
	path    string
	mmap    *mmap.ReaderAt
	rows    int
	cols    int
	ids     []string
	offsets []int64 // start of each row's [BlockLen] field
}

// Open maps the snapshot at path and reads its header and node order.
// Row blocks are located but not decoded.
func Open(path string) (*Snapshot, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	s, err := parse(reader)
	if err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

func parse(reader *mmap.ReaderAt) (*Snapshot, error) {
	size := int64(reader.Len())

	var h header
	hbuf := make([]byte, binary.Size(h))
	if _, err := reader.ReadAt(hbuf, 0); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	if err := binary.Read(bytes.NewReader(hbuf), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: invalid magic %q", ErrCorrupt, h.Magic[:])
	}
	if h.Rows != h.Cols {
		return nil, fmt.Errorf("%w: matrix is %dx%d, want square", ErrCorrupt, h.Rows, h.Cols)
	}

	n := int(h.Rows)
	pos := int64(len(hbuf))
	// each node needs at least an ID length and a row block header
	if int64(n)*12 > size-pos {
		return nil, fmt.Errorf("%w: %d rows do not fit in %d bytes", ErrCorrupt, n, size)
	}

	ids := make([]string, n)
	for i := range ids {
		l, err := readUint32(reader, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrCorrupt, i, err)
		}
		if l > maxIDLen || pos+4+int64(l) > size {
			return nil, fmt.Errorf("%w: node %d has invalid length %d", ErrCorrupt, i, l)
		}
		buf := make([]byte, l)
		if _, err := reader.ReadAt(buf, pos+4); err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrCorrupt, i, err)
		}
		ids[i] = string(buf)
		pos += 4 + int64(l)
	}

	offsets := make([]int64, n)
	for i := range offsets {
		l, err := readUint32(reader, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, i, err)
		}
		offsets[i] = pos
		pos += 8 + int64(l)
		if pos > size {
			return nil, fmt.Errorf("%w: row %d extends past end of file", ErrCorrupt, i)
		}
	}
	if pos != size {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, size-pos)
	}

	return &Snapshot{
		mmap:    reader,
		rows:    n,
		cols:    int(h.Cols),
		ids:     ids,
		offsets: offsets,
	}, nil
}

func readUint32(r io.ReaderAt, off int64) (uint32, error) {
	var buf [4]byte
	if _, err := r.ReadAt(buf[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Path returns the file the snapshot was opened from.
func (s *Snapshot) Path() string { return s.path }

// Dims returns the matrix dimensions.
func (s *Snapshot) Dims() (int, int) { return s.rows, s.cols }

// NodeIDs returns a copy of the stored node order.
func (s *Snapshot) NodeIDs() []string { return append([]string(nil), s.ids...) }

// Row decodes row i into dst, which is grown if needed, and returns it.
func (s *Snapshot) Row(i int, dst []float64) ([]float64, error) {
	if i < 0 || i >= s.rows {
		return nil, fmt.Errorf("row %d outside [0, %d)", i, s.rows)
	}

	off := s.offsets[i]
	var meta [8]byte
	if _, err := s.mmap.ReadAt(meta[:], off); err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, i, err)
	}
	blockLen := binary.LittleEndian.Uint32(meta[:4])
	checksum := binary.LittleEndian.Uint32(meta[4:])

	block := make([]byte, blockLen)
	if _, err := s.mmap.ReadAt(block, off+8); err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, i, err)
	}
	if crc32.ChecksumIEEE(block) != checksum {
		return nil, fmt.Errorf("%w: row %d checksum mismatch", ErrCorrupt, i)
	}

	decodedLen, err := snappy.DecodedLen(block)
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, i, err)
	}
	if decodedLen != 8*s.cols {
		return nil, fmt.Errorf("%w: row %d holds %d bytes, want %d", ErrCorrupt, i, decodedLen, 8*s.cols)
	}

	raw, err := snappy.Decode(nil, block)
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, i, err)
	}
	if len(raw) != 8*s.cols {
		return nil, fmt.Errorf("%w: row %d holds %d bytes, want %d", ErrCorrupt, i, len(raw), 8*s.cols)
	}

	if cap(dst) < s.cols {
		dst = make([]float64, s.cols)
	}
	dst = dst[:s.cols]
	for j := range dst {
		dst[j] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*j:]))
	}
	return dst, nil
}

// Dense decodes every row into a new matrix.
func (s *Snapshot) Dense() (*mat.Dense, error) {
	if s.rows == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrCorrupt)
	}
	m := mat.NewDense(s.rows, s.cols, nil)
	var row []float64
	for i := 0; i < s.rows; i++ {
		var err error
		if row, err = s.Row(i, row); err != nil {
			return nil, err
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// RowSums returns the sum of every row.
func (s *Snapshot) RowSums() ([]float64, error) {
	sums := make([]float64, s.rows)
	var row []float64
	for i := range sums {
		var err error
		if row, err = s.Row(i, row); err != nil {
			return nil, err
		}
		for _, v := range row {
			sums[i] += v
		}
	}
	return sums, nil
}

// Close unmaps the file.
func (s *Snapshot) Close() error {
	if s.mmap != nil {
		return s.mmap.Close()
	}
	return nil
}

var _ io.Closer = (*Snapshot)(nil)

// Load reads the snapshot at path and checks that its node order matches
// index. A mismatch is an InputError; structural damage is ErrCorrupt.
func Load(path string, index *network.NodeIndex) (*mat.Dense, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if index != nil {
		if err := index.Matches(s.ids); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return s.Dense()
}
