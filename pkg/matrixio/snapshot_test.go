package matrixio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/validation"
)

func testIndex(t *testing.T, ids ...string) *network.NodeIndex {
	t.Helper()
	idx, err := network.NewNodeIndex(ids)
	require.NoError(t, err)
	return idx
}

func testMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0.5, 0.25, 0.25,
		0.1, 0.7, 0.2,
		1.0 / 3, 1.0 / 3, 1.0 / 3,
	})
}

func writeSnapshot(t *testing.T) (string, *network.NodeIndex) {
	t.Helper()
	idx := testIndex(t, "P04637", "Q00987", "P38936")
	path := filepath.Join(t.TempDir(), "probabilities"+Extension)
	require.NoError(t, WriteFile(path, testMatrix(), idx))
	return path, idx
}

func TestRoundTrip(t *testing.T) {
	path, idx := writeSnapshot(t)

	got, err := Load(path, idx)
	require.NoError(t, err)
	assert.True(t, mat.Equal(testMatrix(), got), "loaded matrix differs")
}

func TestOpen_Metadata(t *testing.T) {
	path, idx := writeSnapshot(t)

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	r, c := s.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, idx.IDs(), s.NodeIDs())
	assert.Equal(t, path, s.Path())

	row, err := s.Row(1, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.7, 0.2}, row)

	sums, err := s.RowSums()
	require.NoError(t, err)
	for i, v := range sums {
		assert.InDelta(t, 1.0, v, 1e-12, "row %d", i)
	}

	_, err = s.Row(3, nil)
	assert.Error(t, err)
}

func TestLoad_NodeOrderMismatch(t *testing.T) {
	path, _ := writeSnapshot(t)

	_, err := Load(path, testIndex(t, "Q00987", "P04637", "P38936"))
	assert.True(t, validation.IsInputError(err), "got %v", err)

	_, err = Load(path, testIndex(t, "P04637", "Q00987"))
	assert.True(t, validation.IsInputError(err), "got %v", err)
}

func TestLoad_Corruption(t *testing.T) {
	path, idx := writeSnapshot(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"flipped row byte", func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-3] }},
		{"trailing bytes", func(b []byte) []byte { return append(b, 0, 0) }},
		{"empty", func([]byte) []byte { return nil }},
		{"row count larger than file", func([]byte) []byte {
			b := append([]byte(nil), Magic[:]...)
			return append(b, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			damaged := tt.mutate(append([]byte(nil), data...))
			p := filepath.Join(t.TempDir(), "damaged"+Extension)
			require.NoError(t, os.WriteFile(p, damaged, 0o644))

			_, err := Load(p, idx)
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
		})
	}
}

func TestRow_RejectsOversizedBlock(t *testing.T) {
	// valid checksum, but the block decodes to far more than one row
	block := snappy.Encode(nil, make([]byte, 1<<20))

	var buf bytes.Buffer
	buf.Write(Magic[:])
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [2]uint32{1, 1}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(1)))
	buf.WriteString("A")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(block)), crc32.ChecksumIEEE(block)}))
	buf.Write(block)

	p := filepath.Join(t.TempDir(), "big"+Extension)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))

	s, err := Open(p)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Row(0, nil)
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
}

func TestWrite_Validation(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, testMatrix(), testIndex(t, "A", "B"))
	assert.True(t, validation.IsInputError(err))

	err = Write(&buf, mat.NewDense(2, 3, nil), testIndex(t, "A", "B"))
	assert.True(t, validation.IsInputError(err))

	err = Write(&buf, nil, nil)
	assert.True(t, validation.IsInputError(err))
}

func TestWriteFile_LeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "w"+Extension)
	require.NoError(t, WriteFile(path, testMatrix(), testIndex(t, "A", "B", "C")))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "w"+Extension, entries[0].Name())
}
