// Package persist implements the persistence boundary (component I):
// a small fixed header (magic, element kind, shape) followed by
// encoding/binary-encoded fixed-width elements, the whole stream
// wrapped in zstd compression. Producers and consumers agree on
// element type and shape by convention; schema evolution is out of
// scope, generalizing the teacher's JSON strategy-profile codec
// (pkg/solver/serialization.go) to a compact binary format sized for
// gigabyte-scale LUTs.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

const magic uint32 = 0x504b4142 // "PKAB"

// Kind identifies the element type stored after the header.
type Kind uint8

const (
	KindFloat64 Kind = iota
	KindInt64
)

type header struct {
	Magic uint32
	Kind  Kind
	Rows  uint64
	Cols  uint64
}

// WriteMatrix persists m as a KindFloat64 blob at path.
func WriteMatrix(path string, m *mat.Dense) error {
	rows, cols := m.Dims()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: %s: %w", path, err)
	}
	defer f.Close()

	if err := writeMatrixTo(f, rows, cols, func(i, j int) float64 { return m.At(i, j) }); err != nil {
		return fmt.Errorf("persist: %s: %w", path, err)
	}
	return nil
}

// ReadMatrix loads a KindFloat64 blob from path.
func ReadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %s: %w", path, err)
	}
	defer f.Close()

	m, err := readMatrixFrom(f)
	if err != nil {
		return nil, fmt.Errorf("persist: %s: %w", path, err)
	}
	return m, nil
}

// WriteInts persists a vector of assignment/index values as a
// KindInt64 blob of shape (len(v), 1) at path.
func WriteInts(path string, v []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: %s: %w", path, err)
	}
	defer f.Close()

	if err := writeIntsTo(f, v); err != nil {
		return fmt.Errorf("persist: %s: %w", path, err)
	}
	return nil
}

// ReadInts loads a KindInt64 vector from path.
func ReadInts(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %s: %w", path, err)
	}
	defer f.Close()

	v, err := readIntsFrom(f)
	if err != nil {
		return nil, fmt.Errorf("persist: %s: %w", path, err)
	}
	return v, nil
}

func writeMatrixTo(w io.Writer, rows, cols int, at func(i, j int) float64) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	defer zw.Close()

	h := header{Magic: magic, Kind: KindFloat64, Rows: uint64(rows), Cols: uint64(cols)}
	if err := writeHeader(zw, h); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(at(i, j)))
			if _, err := zw.Write(buf); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func readMatrixFrom(r io.Reader) (*mat.Dense, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	h, err := readHeader(zr)
	if err != nil {
		return nil, err
	}
	if h.Kind != KindFloat64 {
		return nil, fmt.Errorf("unexpected element kind %d, want %d", h.Kind, KindFloat64)
	}

	rows, cols := int(h.Rows), int(h.Cols)
	data := make([]float64, rows*cols)
	buf := make([]byte, 8)
	for i := range data {
		if _, err := io.ReadFull(zr, buf); err != nil {
			return nil, err
		}
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
	return mat.NewDense(rows, cols, data), nil
}

func writeIntsTo(w io.Writer, v []int) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	defer zw.Close()

	h := header{Magic: magic, Kind: KindInt64, Rows: uint64(len(v)), Cols: 1}
	if err := writeHeader(zw, h); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf, uint64(int64(x)))
		if _, err := zw.Write(buf); err != nil {
			return err
		}
	}
	return zw.Close()
}

func readIntsFrom(r io.Reader) ([]int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	h, err := readHeader(zr)
	if err != nil {
		return nil, err
	}
	if h.Kind != KindInt64 {
		return nil, fmt.Errorf("unexpected element kind %d, want %d", h.Kind, KindInt64)
	}

	out := make([]int, h.Rows)
	buf := make([]byte, 8)
	for i := range out {
		if _, err := io.ReadFull(zr, buf); err != nil {
			return nil, err
		}
		out[i] = int(int64(binary.LittleEndian.Uint64(buf)))
	}
	return out, nil
}

func writeHeader(w io.Writer, h header) error {
	buf := make([]byte, 21)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = byte(h.Kind)
	binary.LittleEndian.PutUint64(buf[5:13], h.Rows)
	binary.LittleEndian.PutUint64(buf[13:21], h.Cols)
	_, err := w.Write(buf)
	return err
}

func readHeader(r io.Reader) (header, error) {
	buf := make([]byte, 21)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header{}, err
	}
	h := header{
		Magic: binary.LittleEndian.Uint32(buf[0:4]),
		Kind:  Kind(buf[4]),
		Rows:  binary.LittleEndian.Uint64(buf[5:13]),
		Cols:  binary.LittleEndian.Uint64(buf[13:21]),
	}
	if h.Magic != magic {
		return header{}, fmt.Errorf("bad magic %x, want %x", h.Magic, magic)
	}
	return h, nil
}
