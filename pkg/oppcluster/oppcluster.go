// Package oppcluster provides the static opponent preflop-cluster
// table used by the showdown table builder to partition an opposing
// two-card hand's equity contribution by rough preflop strength. The
// spec treats this table's derivation as out of scope and requires
// only that it be a fixed, symmetric pair-to-cluster mapping; this
// package builds it once, deterministically, from a Chen-style
// preflop strength heuristic rather than shipping an opaque literal
// table.
package oppcluster

import "github.com/adriftdev/holdem-abstractor/pkg/cards"

// NumClusters is the number of opponent preflop clusters, O in the
// spec's notation.
const NumClusters = 8

// handType is a canonical preflop type: an unordered pair of ranks
// plus whether the two cards share a suit. Pocket pairs have
// high == low and suited is meaningless (always false).
type handType struct {
	high, low int
	suited    bool
}

var clusterOf = buildTable()

// buildTable scores every one of the 169 canonical preflop types with
// a simplified Chen-formula heuristic, sorts by score, and splits the
// ranked list into NumClusters roughly equal contiguous bands.
func buildTable() map[handType]int {
	var types []handType
	for hi := 0; hi < 13; hi++ {
		types = append(types, handType{hi, hi, false}) // pocket pair
		for lo := 0; lo < hi; lo++ {
			types = append(types, handType{hi, lo, true})
			types = append(types, handType{hi, lo, false})
		}
	}

	scores := make(map[handType]float64, len(types))
	for _, ht := range types {
		scores[ht] = chenScore(ht)
	}

	// Sort descending by score, ties broken by (high,low,suited) for
	// determinism.
	ordered := append([]handType(nil), types...)
	ranksBefore := func(a, b handType) bool {
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		if a.high != b.high {
			return a.high > b.high
		}
		if a.low != b.low {
			return a.low > b.low
		}
		return a.suited && !b.suited
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ranksBefore(ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	table := make(map[handType]int, len(ordered))
	n := len(ordered)
	for i, ht := range ordered {
		cluster := i * NumClusters / n
		if cluster >= NumClusters {
			cluster = NumClusters - 1
		}
		table[ht] = cluster
	}
	return table
}

// highCardPoints assigns the Chen formula's base points for a single
// rank (Two=0 .. Ace=12 in cards.Rank's encoding).
func highCardPoints(r int) float64 {
	switch r {
	case 12: // Ace
		return 10
	case 11: // King
		return 8
	case 10: // Queen
		return 7
	case 9: // Jack
		return 6
	default:
		pts := float64(r+2) / 2
		if pts < 1 {
			pts = 1
		}
		return pts
	}
}

// chenScore is a simplified Chen formula: base points from the higher
// card (doubled, floor 5, for pocket pairs), a suited bonus, and a
// gap penalty for non-paired hands.
func chenScore(ht handType) float64 {
	if ht.high == ht.low {
		pts := highCardPoints(ht.high) * 2
		if pts < 5 {
			pts = 5
		}
		return pts
	}

	pts := highCardPoints(ht.high)
	if ht.suited {
		pts += 2
	}

	gap := ht.high - ht.low - 1
	switch {
	case gap <= 0:
		// connector, no penalty
	case gap == 1:
		pts -= 1
	case gap == 2:
		pts -= 2
	case gap == 3:
		pts -= 4
	default:
		pts -= 5
	}
	if pts < 0 {
		pts = 0
	}
	return pts
}

// Cluster returns the opponent preflop cluster, in [0,NumClusters),
// for the unordered two-card hand {a,b}. Cluster is symmetric:
// Cluster(a,b) == Cluster(b,a). a and b must be distinct cards.
func Cluster(a, b cards.Card) int {
	if a.Rank == b.Rank && a.Suit == b.Suit {
		panic("oppcluster: Cluster requires two distinct cards")
	}
	hi, lo := int(a.Rank), int(b.Rank)
	suited := a.Suit == b.Suit
	if lo > hi {
		hi, lo = lo, hi
	}
	return clusterOf[handType{hi, lo, suited && hi != lo}]
}
