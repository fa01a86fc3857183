package cards

// SKCard is a card in the evaluator's native ordering: 4*rank+suit,
// ranks 2..A, a fixed suit order distinct from the ISO convention
// used by Card. The two orderings must be explicitly converted at
// every evaluator boundary (see pkg/eval).
type SKCard int

// skSuitOrder fixes the SK suit ordering: Clubs, Diamonds, Hearts,
// Spades. This differs from Card's Spades/Hearts/Diamonds/Clubs ISO
// order on purpose, so that ToSK/FromSK are a real permutation and
// not just a type rename.
var skSuitOrder = [4]Suit{Clubs, Diamonds, Hearts, Spades}

var suitToSKIndex = func() [4]int {
	var m [4]int
	for i, s := range skSuitOrder {
		m[s] = i
	}
	return m
}()

// ToSK converts a Card from ISO convention to the evaluator's SK
// convention (4*rank+suit).
func (c Card) ToSK() SKCard {
	return SKCard(4*int(c.Rank) + suitToSKIndex[c.Suit])
}

// FromSK converts an SK-convention card back to ISO convention.
func FromSK(sk SKCard) Card {
	rank := Rank(int(sk) / 4)
	suit := skSuitOrder[int(sk)%4]
	return Card{Rank: rank, Suit: suit}
}

// ToSKSlice converts a slice of ISO cards to SK convention in order.
func ToSKSlice(cs []Card) []SKCard {
	out := make([]SKCard, len(cs))
	for i, c := range cs {
		out[i] = c.ToSK()
	}
	return out
}
