// Package combin enumerates ordered k-subsets of {0,...,51} (the deck
// indices), in lexicographic order, skipping an arbitrary exclusion
// set. It generalizes the hand-rolled nested rank/suit loops used
// throughout the equity calculator into a single reusable stateful
// enumerator.
package combin

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Enumerator walks every k-subset of {0,...,51}\E in strictly
// increasing, lexicographic order. Zero value is not usable; call
// New or Reset first.
type Enumerator struct {
	k       int
	exclude [DeckSize]bool
	current []int
	done    bool
}

// New creates an enumerator for k-subsets of {0,...,51} excluding the
// cards in exclude, positioned at the smallest such subset.
func New(k int, exclude []int) *Enumerator {
	e := &Enumerator{k: k, current: make([]int, k)}
	e.Reset(exclude)
	return e
}

// Reset repositions the enumerator at the smallest k-subset of
// {0,...,51}\exclude, replacing any previous exclusion set.
func (e *Enumerator) Reset(exclude []int) {
	for i := range e.exclude {
		e.exclude[i] = false
	}
	for _, c := range exclude {
		e.exclude[c] = true
	}
	e.done = false
	card := 0
	for i := 0; i < e.k; i++ {
		card = e.nextIncluded(card)
		if card >= DeckSize {
			e.done = true
			return
		}
		e.current[i] = card
		card++
	}
}

// Done reports whether the enumerator has exhausted all k-subsets.
func (e *Enumerator) Done() bool {
	return e.done
}

// Current returns the enumerator's current k-subset. The returned
// slice is owned by the enumerator and is overwritten by the next
// Advance; callers that need to retain it must copy.
func (e *Enumerator) Current() []int {
	return e.current
}

// Advance moves to the next k-subset in lexicographic order, or sets
// Done() if none remain.
//
// Starting at position i=k-1, try to move current[i] to the next
// included card. If positions i+1..k-1 can then be refilled with the
// smallest included cards strictly above the new current[i], the move
// succeeds. If no move (or refill) is possible at position i, recurse
// to i-1; exhaustion at i=0 marks the enumerator done. A refill
// failure at i can never be rescued by picking a larger candidate at
// i (a larger candidate only leaves fewer cards for the refill), so
// backtracking immediately on refill failure is safe.
func (e *Enumerator) Advance() {
	if e.done {
		return
	}
	for i := e.k - 1; i >= 0; i-- {
		candidate := e.nextIncluded(e.current[i] + 1)
		if candidate >= DeckSize {
			continue
		}
		e.current[i] = candidate
		card := candidate + 1
		filled := true
		for j := i + 1; j < e.k; j++ {
			card = e.nextIncluded(card)
			if card >= DeckSize {
				filled = false
				break
			}
			e.current[j] = card
			card++
		}
		if filled {
			return
		}
	}
	e.done = true
}

// nextIncluded returns the smallest card >= from that is not excluded,
// or DeckSize if none exists.
func (e *Enumerator) nextIncluded(from int) int {
	for c := from; c < DeckSize; c++ {
		if !e.exclude[c] {
			return c
		}
	}
	return DeckSize
}
