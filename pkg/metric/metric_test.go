package metric

import "testing"

func TestEMDIdenticalVectorsAreZero(t *testing.T) {
	p := make([]float64, 50)
	q := make([]float64, 50)
	p[49] = 1081
	q[49] = 1081

	if got := (EMD{}).Distance(p, q); got != 0 {
		t.Fatalf("EMD(identical) = %f, want 0", got)
	}
}

func TestEMDCrossTypeScenario(t *testing.T) {
	p := []float64{2, 5, 15}
	q := []float64{10.4, 1.1, 10.5}

	got := (EMD{}).Distance(p, q)
	if !closeEnough(got, 12.9) {
		t.Fatalf("EMD(p,q) = %f, want 12.9", got)
	}

	gotRev := (EMD{}).Distance(q, p)
	if !closeEnough(gotRev, 12.9) {
		t.Fatalf("EMD(q,p) = %f, want 12.9 (symmetric)", gotRev)
	}
}

func TestEMDNonNegativeAndSubAdditive(t *testing.T) {
	p := []float64{1, 2, 3, 4}
	q := []float64{4, 3, 2, 1}
	r := []float64{2, 2, 3, 3}

	pq := (EMD{}).Distance(p, q)
	pr := (EMD{}).Distance(p, r)
	rq := (EMD{}).Distance(r, q)

	if pq < 0 {
		t.Fatalf("EMD(p,q) = %f, want non-negative", pq)
	}
	if pq > pr+rq+1e-9 {
		t.Fatalf("EMD violates sub-additivity: d(p,q)=%f > d(p,r)+d(r,q)=%f", pq, pr+rq)
	}
}

func TestEuclideanZeroIffEqual(t *testing.T) {
	p := []float64{1, 2, 3}
	q := []float64{1, 2, 3}
	if got := (Euclidean{}).Distance(p, q); got != 0 {
		t.Fatalf("Euclidean(equal) = %f, want 0", got)
	}

	r := []float64{1, 2, 4}
	if got := (Euclidean{}).Distance(p, r); got == 0 {
		t.Fatal("Euclidean(unequal) = 0, want nonzero")
	}
}

func TestEuclideanSymmetricAndKnownValue(t *testing.T) {
	p := []float64{0, 0}
	q := []float64{3, 4}
	got := (Euclidean{}).Distance(p, q)
	if !closeEnough(got, 5.0) {
		t.Fatalf("Euclidean(p,q) = %f, want 5.0", got)
	}
	if got2 := (Euclidean{}).Distance(q, p); !closeEnough(got2, 5.0) {
		t.Fatalf("Euclidean(q,p) = %f, want 5.0 (symmetric)", got2)
	}
}

func closeEnough(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
