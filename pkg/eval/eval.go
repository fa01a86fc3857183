// Package eval is the seven-card evaluator collaborator (component
// C): a pure function from seven SK-convention cards to an opaque,
// totally ordered strength. Callers on the ISO side of the boundary
// must convert with cards.Card.ToSK before calling Rank.
package eval

import "sort"

// category is the hand-rank class; higher beats lower.
type category uint8

const (
	highCard category = iota
	onePair
	twoPair
	threeOfAKind
	straight
	flush
	fullHouse
	fourOfAKind
	straightFlush
)

// Strength is the opaque, totally ordered showdown strength returned
// by Rank. Only relative order is meaningful.
type Strength uint32

// pack encodes a category and up to five rank tiebreakers (0-12) into
// a single totally ordered integer: category dominates, then
// tiebreakers most-significant first.
func pack(cat category, tiebreak [5]int) Strength {
	s := Strength(cat)
	for _, r := range tiebreak {
		s = s<<4 | Strength(r&0xF)
	}
	return s
}

// Rank returns the showdown strength of the best 5-card hand
// selectable from seven SK-convention cards. Higher Strength wins;
// equal Strength is a tie. cards must contain exactly 7 distinct SK
// card values in [0,52).
func Rank(cards []int) Strength {
	if len(cards) != 7 {
		panic("eval: Rank requires exactly 7 cards")
	}

	var best Strength
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			for k := j + 1; k < 7; k++ {
				for l := k + 1; l < 7; l++ {
					for m := l + 1; m < 7; m++ {
						five := [5]int{cards[i], cards[j], cards[k], cards[l], cards[m]}
						if s := rank5(five); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best
}

func rank5(cs [5]int) Strength {
	var rankCounts [13]int
	var suitCounts [4]int
	for _, c := range cs {
		rankCounts[c/4]++
		suitCounts[c%4]++
	}

	isFlush := false
	for _, n := range suitCounts {
		if n == 5 {
			isFlush = true
			break
		}
	}

	isStraight, straightHigh := checkStraight(rankCounts)

	if isFlush && isStraight {
		return pack(straightFlush, [5]int{straightHigh, 0, 0, 0, 0})
	}

	groups := rankGroups(rankCounts)

	if groups[0].count == 4 {
		return pack(fourOfAKind, [5]int{groups[0].rank, groups[1].rank, 0, 0, 0})
	}
	if groups[0].count == 3 && groups[1].count == 2 {
		return pack(fullHouse, [5]int{groups[0].rank, groups[1].rank, 0, 0, 0})
	}
	if isFlush {
		var ranks [5]int
		idx := 0
		for r := 12; r >= 0; r-- {
			if rankCounts[r] > 0 {
				ranks[idx] = r
				idx++
			}
		}
		return pack(flush, ranks)
	}
	if isStraight {
		return pack(straight, [5]int{straightHigh, 0, 0, 0, 0})
	}
	if groups[0].count == 3 {
		return pack(threeOfAKind, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, 0, 0})
	}
	if groups[0].count == 2 && groups[1].count == 2 {
		return pack(twoPair, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, 0, 0})
	}
	if groups[0].count == 2 {
		return pack(onePair, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, 0})
	}
	return pack(highCard, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank})
}

type rankGroup struct {
	rank  int
	count int
}

// rankGroups returns the ranks present in the hand, count descending
// then rank descending, in a fixed 5-entry array; entries past the
// number of distinct ranks are left as the zero rankGroup (count 0).
func rankGroups(rankCounts [13]int) [5]rankGroup {
	var groups []rankGroup
	for r := 12; r >= 0; r-- {
		if rankCounts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: rankCounts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	var out [5]rankGroup
	copy(out[:], groups)
	return out
}

// checkStraight reports whether the rank-count histogram of a 5-card
// hand forms a straight, and if so its high card (wheel high card is
// 3, i.e. Five, since ace plays low).
func checkStraight(rankCounts [13]int) (bool, int) {
	for high := 12; high >= 4; high-- {
		ok := true
		for i := 0; i < 5; i++ {
			if rankCounts[high-i] == 0 {
				ok = false
				break
			}
		}
		if ok {
			return true, high
		}
	}
	// wheel: A-2-3-4-5, ranks 12,0,1,2,3
	if rankCounts[12] > 0 && rankCounts[0] > 0 && rankCounts[1] > 0 && rankCounts[2] > 0 && rankCounts[3] > 0 {
		return true, 3
	}
	return false, 0
}
