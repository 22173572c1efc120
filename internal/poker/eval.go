package poker

import (
	"fmt"
	"sort"
	"strings"
)

// hand categories
type Category int8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNameMap = map[Category]string{
	HighCard:      "high card",
	Pair:          "pair",
	TwoPair:       "two pair",
	ThreeOfAKind:  "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
}

func (c Category) String() string {
	if name, ok := categoryNameMap[c]; ok {
		return name
	}

	return fmt.Sprintf("category(%d)", int8(c))
}

// Evaluation is the comparable strength of a five card hand.
type Evaluation struct {
	Category Category `json:"category" msgpack:"category"`
	// Key breaks ties within a category; compared element by element,
	// highest wins.
	Key         []int  `json:"key" msgpack:"key"`
	Label       string `json:"label" msgpack:"label"`
	Description string `json:"description" msgpack:"description"`
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a tie.
func Compare(a, b Evaluation) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	for i := 0; i < len(a.Key) && i < len(b.Key); i++ {
		if a.Key[i] > b.Key[i] {
			return 1
		} else if a.Key[i] < b.Key[i] {
			return -1
		}
	}

	switch {
	case len(a.Key) > len(b.Key):
		return 1
	case len(a.Key) < len(b.Key):
		return -1
	}

	return 0
}

// Evaluator categorizes a complete five card hand.
type Evaluator interface {
	Evaluate(cards [HandSize]Card) (Evaluation, error)
}

// rankGroup is a rank and how many times it appears in the hand.
type rankGroup struct {
	rank  Rank
	count int
}

// handShape is what every evaluator needs to know about a hand.
type handShape struct {
	groups   []rankGroup // count desc, then rank desc
	flush    bool
	straight bool
	high     Rank // top card of the straight
}

func validateHand(cards [HandSize]Card) error {
	seen := make(map[Card]bool, HandSize)

	for i, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: slot %d is empty", ErrInvalidCard, i)
		}
		if seen[c] {
			return fmt.Errorf("%w: %s appears twice", ErrInvalidCard, c.Code())
		}
		seen[c] = true
	}

	return nil
}

// shapeOf groups the hand by rank and looks for flushes and straights.
// With wheel set, A-2-3-4-5 counts as a five-high straight.
func shapeOf(cards [HandSize]Card, wheel bool) handShape {
	counts := make(map[Rank]int, HandSize)
	for _, c := range cards {
		counts[c.Rank]++
	}

	shape := handShape{groups: make([]rankGroup, 0, len(counts))}
	for r, n := range counts {
		shape.groups = append(shape.groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(shape.groups, func(i, j int) bool {
		if shape.groups[i].count != shape.groups[j].count {
			return shape.groups[i].count > shape.groups[j].count
		}
		return shape.groups[i].rank > shape.groups[j].rank
	})

	shape.flush = true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			shape.flush = false
			break
		}
	}

	if len(shape.groups) == HandSize {
		top, bottom := shape.groups[0].rank, shape.groups[HandSize-1].rank
		if top-bottom == 4 {
			shape.straight = true
			shape.high = top
		} else if wheel && top == Ace && shape.groups[1].rank == Five {
			shape.straight = true
			shape.high = Five
		}
	}

	return shape
}

func (shape handShape) category() Category {
	switch {
	case shape.straight && shape.flush:
		return StraightFlush
	case shape.groups[0].count == 4:
		return FourOfAKind
	case shape.groups[0].count == 3 && shape.groups[1].count == 2:
		return FullHouse
	case shape.flush:
		return Flush
	case shape.straight:
		return Straight
	case shape.groups[0].count == 3:
		return ThreeOfAKind
	case shape.groups[0].count == 2 && shape.groups[1].count == 2:
		return TwoPair
	case shape.groups[0].count == 2:
		return Pair
	}

	return HighCard
}

// key orders rank strengths by multiplicity then strength, so a full
// house is [trips, pair] and two pair is [high, low, kicker].
func (shape handShape) key() []int {
	if shape.straight {
		return []int{shape.high.Strength()}
	}

	key := make([]int, len(shape.groups))
	for i, g := range shape.groups {
		key[i] = g.rank.Strength()
	}

	return key
}

func (shape handShape) describe(cat Category) string {
	top := shape.groups[0].rank

	switch cat {
	case StraightFlush:
		if shape.high == Ace {
			return "royal flush"
		}
		return shape.high.String() + "-high straight flush"
	case FourOfAKind:
		return "four " + top.String() + "s"
	case FullHouse:
		return top.String() + "s full of " + shape.groups[1].rank.String() + "s"
	case Flush:
		return top.String() + "-high flush"
	case Straight:
		return shape.high.String() + "-high straight"
	case ThreeOfAKind:
		return "three " + top.String() + "s"
	case TwoPair:
		return top.String() + "s and " + shape.groups[1].rank.String() + "s"
	case Pair:
		return "pair of " + top.String() + "s"
	}

	return top.String() + " high"
}

// AceHighEvaluator applies standard categories with the ace counted high
// only: A-2-3-4-5 is not a straight.
type AceHighEvaluator struct{}

func (AceHighEvaluator) Evaluate(cards [HandSize]Card) (Evaluation, error) {
	if err := validateHand(cards); err != nil {
		return Evaluation{}, err
	}

	shape := shapeOf(cards, false)
	cat := shape.category()

	return Evaluation{
		Category:    cat,
		Key:         shape.key(),
		Label:       cat.String(),
		Description: shape.describe(cat),
	}, nil
}

func (e Evaluation) String() string {
	keys := make([]string, len(e.Key))
	for i, k := range e.Key {
		keys[i] = fmt.Sprint(k)
	}

	return fmt.Sprintf("%s (%s) [%s]", e.Label, e.Description, strings.Join(keys, " "))
}
