package oppcluster

import (
	"testing"

	"github.com/adriftdev/holdem-abstractor/pkg/cards"
)

func TestClusterIsSymmetric(t *testing.T) {
	a := cards.NewCard(cards.Ace, cards.Spades)
	b := cards.NewCard(cards.King, cards.Spades)
	if Cluster(a, b) != Cluster(b, a) {
		t.Fatalf("Cluster not symmetric: %d != %d", Cluster(a, b), Cluster(b, a))
	}
}

func TestClusterIsSuitInvariantWithinType(t *testing.T) {
	// AsKs and AhKh are both suited ace-king; same canonical type.
	c1 := Cluster(cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.King, cards.Spades))
	c2 := Cluster(cards.NewCard(cards.Ace, cards.Hearts), cards.NewCard(cards.King, cards.Hearts))
	if c1 != c2 {
		t.Fatalf("suited AK types diverged across suits: %d != %d", c1, c2)
	}
}

func TestClusterRangeAndCoverage(t *testing.T) {
	seen := make(map[int]bool)
	deck := make([]cards.Card, 0, 52)
	for s := cards.Suit(0); s < 4; s++ {
		for r := cards.Rank(0); r < 13; r++ {
			deck = append(deck, cards.NewCard(r, s))
		}
	}
	for i := 0; i < len(deck); i++ {
		for j := i + 1; j < len(deck); j++ {
			c := Cluster(deck[i], deck[j])
			if c < 0 || c >= NumClusters {
				t.Fatalf("cluster %d out of range [0,%d) for %v/%v", c, NumClusters, deck[i], deck[j])
			}
			seen[c] = true
		}
	}
	if len(seen) != NumClusters {
		t.Fatalf("only %d of %d clusters were ever produced", len(seen), NumClusters)
	}
}

func TestPocketAcesIsTopCluster(t *testing.T) {
	aces := Cluster(cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.Ace, cards.Hearts))
	deuces := Cluster(cards.NewCard(cards.Two, cards.Spades), cards.NewCard(cards.Two, cards.Hearts))
	trash := Cluster(cards.NewCard(cards.Seven, cards.Spades), cards.NewCard(cards.Two, cards.Hearts))
	if aces != 0 {
		t.Fatalf("pocket aces cluster = %d, want 0 (the strongest cluster)", aces)
	}
	if aces > deuces {
		t.Fatalf("pocket aces cluster %d ranked weaker than pocket deuces cluster %d", aces, deuces)
	}
	if aces > trash {
		t.Fatalf("pocket aces cluster %d ranked weaker than 72o cluster %d", aces, trash)
	}
}

func TestClusterPanicsOnDuplicateCard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate card")
		}
	}()
	c := cards.NewCard(cards.Ace, cards.Spades)
	Cluster(c, c)
}
