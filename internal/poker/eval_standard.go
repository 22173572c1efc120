package poker

import (
	"fmt"

	ph "github.com/paulhankin/poker"
)

// StandardEvaluator follows the usual casino rules, where A-2-3-4-5 is a
// five-high straight. Tie-breaking uses the paulhankin/poker score.
type StandardEvaluator struct{}

var suitToPH = map[Suit]ph.Suit{
	Clubs:    ph.Club,
	Diamonds: ph.Diamond,
	Hearts:   ph.Heart,
	Spades:   ph.Spade,
}

// toPHCard converts to the evaluator library's card; it numbers the ace 1.
func toPHCard(c Card) (ph.Card, error) {
	rank := ph.Rank(c.Rank)
	if c.Rank == Ace {
		rank = 1
	}

	card, err := ph.MakeCard(suitToPH[c.Suit], rank)
	if err != nil {
		return card, fmt.Errorf("%w: %s: %v", ErrInvalidCard, c.Code(), err)
	}

	return card, nil
}

func (StandardEvaluator) Evaluate(cards [HandSize]Card) (Evaluation, error) {
	if err := validateHand(cards); err != nil {
		return Evaluation{}, err
	}

	var phCards [HandSize]ph.Card
	for i, c := range cards {
		card, err := toPHCard(c)
		if err != nil {
			return Evaluation{}, err
		}
		phCards[i] = card
	}

	desc, err := ph.Describe(phCards[:])
	if err != nil {
		return Evaluation{}, fmt.Errorf("describe %s: %w", Cards(cards[:]), err)
	}

	shape := shapeOf(cards, true)
	cat := shape.category()

	return Evaluation{
		Category:    cat,
		Key:         []int{int(ph.Eval5(&phCards))},
		Label:       cat.String(),
		Description: desc,
	}, nil
}
