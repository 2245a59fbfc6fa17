package matrixio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/network"
	"github.com/bioc/wppi/pkg/validation"
)

// Write encodes m and its node order to w.
func Write(w io.Writer, m mat.Matrix, index *network.NodeIndex) error {
	if m == nil || index == nil {
		return validation.NewInputError("snapshot", "matrix and node index are required")
	}
	rows, cols := m.Dims()
	if rows != cols || rows != index.Len() {
		return validation.NewInputError("snapshot", "matrix is %dx%d, node index has %d entries", rows, cols, index.Len())
	}

	bw := bufio.NewWriter(w)

	h := header{Magic: Magic, Rows: uint32(rows), Cols: uint32(cols)}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, id := range index.IDs() {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(id))); err != nil {
			return err
		}
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
	}

	raw := make([]byte, 8*cols)
	var block []byte
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			binary.LittleEndian.PutUint64(raw[8*j:], math.Float64bits(m.At(i, j)))
		}
		block = snappy.Encode(block[:cap(block)], raw)

		if err := binary.Write(bw, binary.LittleEndian, uint32(len(block))); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, crc32.ChecksumIEEE(block)); err != nil {
			return err
		}
		if _, err := bw.Write(block); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// WriteFile writes the snapshot to path atomically: the data goes to a
// temporary file in the same directory which is synced and then renamed.
func WriteFile(path string, m mat.Matrix, index *network.NodeIndex) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = Write(tmp, m, index); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}
