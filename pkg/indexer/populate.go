package indexer

import (
	"github.com/adriftdev/holdem-abstractor/pkg/cards"
	"github.com/adriftdev/holdem-abstractor/pkg/combin"
)

// Populate walks every raw (hole, board) tuple for round r and
// registers it, so that every canonical id reachable at r is known to
// ix before a builder (showdown, histogram/OCHS LUT) runs over
// ix.Count(r). Required because ids are assigned lazily on first
// sight (see package doc); callers driving a full-domain build must
// call this before relying on Count/IndexRound bounds being complete.
func (ix *Indexer) Populate(r Round) {
	holeEnum := combin.New(2, nil)
	boardSize := r.BoardSize()

	for !holeEnum.Done() {
		hole := indicesToCards(holeEnum.Current())

		if boardSize == 0 {
			ix.IndexRound(r, hole, nil)
		} else {
			exclude := []int{
				hole[0].ISOIndex(),
				hole[1].ISOIndex(),
			}
			boardEnum := combin.New(boardSize, exclude)
			for !boardEnum.Done() {
				board := indicesToCards(boardEnum.Current())
				ix.IndexRound(r, hole, board)
				boardEnum.Advance()
			}
		}

		holeEnum.Advance()
	}
}

func indicesToCards(idx []int) []cards.Card {
	out := make([]cards.Card, len(idx))
	for i, v := range idx {
		out[i] = cards.CardFromISOIndex(v)
	}
	return out
}
