package eval

import (
	"testing"

	"github.com/adriftdev/holdem-abstractor/pkg/cards"
)

func skInts(t *testing.T, s string) []int {
	t.Helper()
	cs, err := cards.ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q): %v", s, err)
	}
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = int(c.ToSK())
	}
	return out
}

func TestRankOrdering(t *testing.T) {
	tests := []struct {
		name  string
		cards string
	}{
		{"royal flush", "AhKhQhJhTh2d3c"},
		{"straight flush", "9s8s7s6s5s2h3d"},
		{"wheel straight flush", "5d4d3d2dAd7h8c"},
		{"quad aces", "AsAhAdAcKs2d3c"},
		{"full house", "AsAhAdKsKh2d3c"},
		{"flush", "AhKh9h5h2h3dQc"},
		{"straight", "AhKdQcJsTs2h3c"},
		{"wheel straight", "Ah2s3d4c5h7s9d"},
		{"trips", "AsAhAdKsQh2d3c"},
		{"two pair", "AsAhKsKh2d3c4h"},
		{"one pair", "AsAh2d3c4h7s9c"},
		{"high card", "Ah2d3c4h7s9cJs"},
	}

	var prev Strength = 1<<32 - 1
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := skInts(t, tt.cards)
			got := Rank(hand)
			if got >= prev {
				t.Fatalf("Rank(%s) = %d, expected strictly below previous category's minimum %d", tt.cards, got, prev)
			}
			prev = got
		})
	}
}

func TestRankTieIsSymmetricAcrossSuitPermutation(t *testing.T) {
	// Two boards differing only by a global suit relabeling must
	// produce equal strength for otherwise-identical hands.
	a := skInts(t, "AsKsQsJsTs2h3h")
	b := skInts(t, "AhKhQhJhTh2s3s")
	if Rank(a) != Rank(b) {
		t.Fatalf("Rank not suit-invariant: %d != %d", Rank(a), Rank(b))
	}
}

func TestRankPanicsOnWrongCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for wrong card count")
		}
	}()
	Rank(skInts(t, "AhKhQhJhTh2d"))
}
