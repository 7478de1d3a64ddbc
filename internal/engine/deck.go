package engine

import (
	"fmt"
	"math/rand/v2"
)

// BuildDeck returns a freshly shuffled policy stock for the given config.
func BuildDeck(cfg GameConfig, rng *rand.Rand) []Policy {
	cards := make([]Policy, 0, cfg.LiberalCards+cfg.FascistCards)
	for i := 0; i < cfg.LiberalCards; i++ {
		cards = append(cards, PolicyLiberal)
	}
	for i := 0; i < cfg.FascistCards; i++ {
		cards = append(cards, PolicyFascist)
	}
	shuffle(rng, cards)
	return cards
}

// Deck is the policy draw pile plus its discard pile.
type Deck struct {
	cards   []Policy // cards[0] is the top
	discard []Policy
	rng     *rand.Rand
}

// NewDeck creates a deck from a shuffled stock.
func NewDeck(cfg GameConfig, rng *rand.Rand) *Deck {
	return &Deck{cards: BuildDeck(cfg, rng), rng: rng}
}

// Reshuffle folds the discard pile back into the draw pile and shuffles.
func (d *Deck) Reshuffle() {
	d.cards = append(d.cards, d.discard...)
	d.discard = nil
	shuffle(d.rng, d.cards)
}

// EnsureDrawable reshuffles when fewer than n cards remain. It reports
// whether a reshuffle happened.
func (d *Deck) EnsureDrawable(n int) bool {
	if len(d.cards) >= n {
		return false
	}
	d.Reshuffle()
	return true
}

// Draw removes and returns the top n cards, reshuffling first if the draw
// pile is short. Running out after a reshuffle is an engine bug.
func (d *Deck) Draw(n int) []Policy {
	d.EnsureDrawable(n)
	if len(d.cards) < n {
		panic(fmt.Sprintf("engine: draw %d from deck with %d cards after reshuffle", n, len(d.cards)))
	}
	drawn := make([]Policy, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn
}

// Discard puts cards on the discard pile.
func (d *Deck) Discard(cards ...Policy) {
	d.discard = append(d.discard, cards...)
}

// Peek returns the top n cards without removing them.
func (d *Deck) Peek(n int) []Policy {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Policy, n)
	copy(out, d.cards[:n])
	return out
}

// Len returns the number of cards in the draw pile.
func (d *Deck) Len() int {
	return len(d.cards)
}

// DiscardLen returns the number of cards in the discard pile.
func (d *Deck) DiscardLen() int {
	return len(d.discard)
}

// Counts tallies the draw pile by colour.
func (d *Deck) Counts() PolicyCounts {
	return countPolicies(d.cards)
}

// DiscardCounts tallies the discard pile by colour.
func (d *Deck) DiscardCounts() PolicyCounts {
	return countPolicies(d.discard)
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
