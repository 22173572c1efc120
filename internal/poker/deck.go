package poker

import math_rand "math/rand"

const DeckSize = 52 // 52 cards in a poker deck

// Deck is an ordered sequence of the 52 distinct cards plus a cursor
// marking the next undealt position. A Deck is created for a single round.
type Deck struct {
	pos   int
	cards [DeckSize]Card
	rng   *math_rand.Rand
}

// newDeck builds the deck in canonical order: every rank of hearts, then
// diamonds, clubs and spades.
func newDeck(rng *math_rand.Rand) *Deck {
	deck := &Deck{rng: rng}

	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			deck.cards[deck.pos] = Card{Rank: rank, Suit: suit}
			deck.pos++
		}
	}

	Assert(deck.pos == DeckSize, "newDeck(): BUG: deck not filled")
	deck.pos = 0

	return deck
}

// NewShuffledDeck returns a freshly shuffled deck. A nil rng falls back to
// a crypto seeded source.
//
// The shuffle is uniform over the orders rng can produce. A source seeded
// from one int64 reaches at most 2^64 first orders, far fewer than 52!;
// successive shuffles from the same rng keep walking its sequence.
func NewShuffledDeck(rng *math_rand.Rand) *Deck {
	if rng == nil {
		rng = NewRand(0)
	}

	deck := newDeck(rng)
	deck.Shuffle()

	return deck
}

// Shuffle applies a Fisher-Yates permutation over all 52 cards, including
// any already dealt, and resets the cursor.
func (deck *Deck) Shuffle() {
	for i := DeckSize - 1; i > 0; i-- {
		j := deck.rng.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}

	deck.pos = 0
}

// DealCard returns the card at the cursor and advances it. An exhausted
// deck is reshuffled in full before dealing, so this never fails.
func (deck *Deck) DealCard() Card {
	if deck.pos >= DeckSize {
		deck.Shuffle()
	}

	deck.pos++
	return deck.cards[deck.pos-1]
}

// Remaining is the number of cards left before the next reshuffle.
func (deck *Deck) Remaining() int {
	return DeckSize - deck.pos
}
