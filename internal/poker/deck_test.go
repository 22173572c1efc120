package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dealAll(deck *Deck) map[Card]int {
	seen := make(map[Card]int, DeckSize)
	for i := 0; i < DeckSize; i++ {
		seen[deck.DealCard()]++
	}

	return seen
}

func assertFullDeck(t *testing.T, seen map[Card]int) {
	t.Helper()

	assert.Len(t, seen, DeckSize)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			assert.Equal(t, 1, seen[Card{Rank: rank, Suit: suit}], "%s", Card{Rank: rank, Suit: suit})
		}
	}
}

func TestCanonicalOrder(t *testing.T) {
	deck := newDeck(NewRand(1))

	assert.Equal(t, Card{Rank: Two, Suit: Hearts}, deck.cards[0])
	assert.Equal(t, Card{Rank: Ace, Suit: Hearts}, deck.cards[12])
	assert.Equal(t, Card{Rank: Two, Suit: Diamonds}, deck.cards[13])
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, deck.cards[51])
	assert.Equal(t, DeckSize, deck.Remaining())
}

func TestShuffledDeckDealsEveryCardOnce(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		deck := NewShuffledDeck(NewRand(seed))
		assertFullDeck(t, dealAll(deck))
		assert.Equal(t, 0, deck.Remaining())
	}
}

func TestShuffleChangesOrder(t *testing.T) {
	canonical := newDeck(NewRand(1)).cards
	shuffled := NewShuffledDeck(NewRand(42)).cards

	assert.NotEqual(t, canonical, shuffled)
}

func TestSameSeedSameOrder(t *testing.T) {
	a := NewShuffledDeck(NewRand(7))
	b := NewShuffledDeck(NewRand(7))

	assert.Equal(t, a.cards, b.cards)
}

func TestExhaustedDeckReshuffles(t *testing.T) {
	deck := NewShuffledDeck(NewRand(3))
	assertFullDeck(t, dealAll(deck))

	assert.NotPanics(t, func() {
		deck.DealCard()
	})
	assert.Equal(t, DeckSize-1, deck.Remaining())

	deck = NewShuffledDeck(NewRand(3))
	dealAll(deck)
	assertFullDeck(t, dealAll(deck))
}

func TestNilRandFallsBack(t *testing.T) {
	deck := NewShuffledDeck(nil)
	assertFullDeck(t, dealAll(deck))
}
