// Package matrixio persists square node×node matrices (transition and
// probability matrices) together with the node order that indexes them.
//
// File layout, little-endian:
//
//	[Magic:8]["WPPIMTX1"]
//	[Rows:4][Cols:4]
//	Rows × [IDLen:4][ID:IDLen]
//	Rows × [BlockLen:4][Checksum:4][Block:BlockLen]
//
// Each block is the snappy-compressed row of Cols float64 values; Checksum
// is the CRC32 (IEEE) of the compressed block.
package matrixio

import (
	"errors"
)

// Magic identifies a snapshot file
var Magic = [8]byte{'W', 'P', 'P', 'I', 'M', 'T', 'X', '1'}

// Extension is the conventional snapshot file suffix
const Extension = ".wmtx"

// maxIDLen bounds a single node ID when reading
const maxIDLen = 1 << 16

// ErrCorrupt is returned when a snapshot fails structural or checksum checks
var ErrCorrupt = errors.New("corrupt matrix snapshot")

// header is the fixed-size file prefix
type header struct {
	Magic [8]byte
	Rows  uint32
	Cols  uint32
}
