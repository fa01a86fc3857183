package indexer

import "testing"

func TestPopulatePreflopReachesFullCardinality(t *testing.T) {
	ix := New()
	ix.Populate(Preflop)
	if got := ix.Count(Preflop); got != 169 {
		t.Fatalf("Count(Preflop) = %d, want 169", got)
	}
}
