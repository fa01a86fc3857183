package persist

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestMatrixRoundTrip100x100 reproduces the reference round-trip
// scenario: a 100x100 matrix with cell (i,j) = i+j.
func TestMatrixRoundTrip100x100(t *testing.T) {
	const n = 100
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = float64(i + j)
		}
	}
	m := mat.NewDense(n, n, data)

	path := filepath.Join(t.TempDir(), "matrix.bin")
	if err := WriteMatrix(path, m); err != nil {
		t.Fatalf("WriteMatrix: %v", err)
	}

	got, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}

	rows, cols := got.Dims()
	if rows != n || cols != n {
		t.Fatalf("dims = %dx%d, want %dx%d", rows, cols, n, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := float64(i + j)
			if got.At(i, j) != want {
				t.Fatalf("[%d][%d] = %v, want %v", i, j, got.At(i, j), want)
			}
		}
	}
}

// TestVectorRoundTrip100Doubles reproduces the reference round-trip
// scenario: a length-100 double vector v_i = i + i/10, stored as a
// 100x1 matrix.
func TestVectorRoundTrip100Doubles(t *testing.T) {
	const n = 100
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = float64(i) + float64(i)/10
	}
	m := mat.NewDense(n, 1, data)

	path := filepath.Join(t.TempDir(), "vector.bin")
	if err := WriteMatrix(path, m); err != nil {
		t.Fatalf("WriteMatrix: %v", err)
	}

	got, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}

	rows, cols := got.Dims()
	if rows != n || cols != 1 {
		t.Fatalf("dims = %dx%d, want %dx1", rows, cols)
	}
	for i := 0; i < n; i++ {
		want := float64(i) + float64(i)/10
		if got.At(i, 0) != want {
			t.Fatalf("[%d] = %v, want %v", i, got.At(i, 0), want)
		}
	}
}

func TestIntsRoundTrip(t *testing.T) {
	v := make([]int, 300)
	for i := range v {
		v[i] = (i * 7) % 200
	}

	path := filepath.Join(t.TempDir(), "assignments.bin")
	if err := WriteInts(path, v); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}

	got, err := ReadInts(path)
	if err != nil {
		t.Fatalf("ReadInts: %v", err)
	}
	if len(got) != len(v) {
		t.Fatalf("len = %d, want %d", len(got), len(v))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("[%d] = %d, want %d", i, got[i], v[i])
		}
	}
}

func TestReadMatrixRejectsWrongKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := WriteInts(path, []int{1, 2, 3}); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}

	if _, err := ReadMatrix(path); err == nil {
		t.Fatal("ReadMatrix on an int-kind blob: want error, got nil")
	}
}

func TestReadMatrixRejectsMissingFile(t *testing.T) {
	_, err := ReadMatrix(filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Fatal("ReadMatrix on a missing file: want error, got nil")
	}
}
