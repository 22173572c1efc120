package poker

import (
	"errors"
	"fmt"

	"github.com/bkazemi/drawpoker/internal/selection"
)

const (
	HandSize        = 5
	MaxReplacements = 3 // most cards a player may swap during the draw
)

var (
	ErrInvalidPosition     = errors.New("invalid hand position")
	ErrTooManyReplacements = errors.New("too many replacements")
)

// CardSupplier is anything cards can be drawn from. *Deck satisfies it.
type CardSupplier interface {
	DealCard() Card
}

// Hand holds exactly five card slots belonging to one participant.
type Hand struct {
	cards [HandSize]Card
}

func validPosition(pos int) error {
	if pos < 0 || pos >= HandSize {
		return fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidPosition, pos, HandSize-1)
	}

	return nil
}

func (hand *Hand) SetCard(pos int, card Card) error {
	if err := validPosition(pos); err != nil {
		return err
	}

	hand.cards[pos] = card

	return nil
}

// Replace deals one new card from supplier into each selected position,
// lowest position first. Nothing is replaced if the selection is too
// large.
func (hand *Hand) Replace(positions selection.Set, supplier CardSupplier) error {
	if n := positions.Len(); n > MaxReplacements {
		return fmt.Errorf("%w: %d selected, at most %d allowed",
			ErrTooManyReplacements, n, MaxReplacements)
	}

	for _, pos := range positions.Positions() {
		hand.cards[pos] = supplier.DealCard()
	}

	return nil
}

// Cards returns a copy of the slots in order.
func (hand *Hand) Cards() [HandSize]Card {
	return hand.cards
}

func (hand *Hand) Card(pos int) (Card, error) {
	if err := validPosition(pos); err != nil {
		return Card{}, err
	}

	return hand.cards[pos], nil
}

// Full reports whether every slot holds a card.
func (hand *Hand) Full() bool {
	for _, c := range hand.cards {
		if c.IsZero() {
			return false
		}
	}

	return true
}

func (hand *Hand) Contains(card Card) bool {
	for _, c := range hand.cards {
		if c == card {
			return true
		}
	}

	return false
}

func (hand *Hand) clear() {
	hand.cards = [HandSize]Card{}
}

func (hand *Hand) String() string {
	return Cards(hand.cards[:]).String()
}
