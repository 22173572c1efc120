package poker

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCard = errors.New("invalid card")

// ranks
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Strength is the numeric value of the rank, 2 through 14 (ace high).
func (r Rank) Strength() int {
	return int(r)
}

func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

var rankSymbolMap = map[Rank]string{
	Two:   "2",
	Three: "3",
	Four:  "4",
	Five:  "5",
	Six:   "6",
	Seven: "7",
	Eight: "8",
	Nine:  "9",
	Ten:   "10",
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
}

func (r Rank) String() string {
	if sym, ok := rankSymbolMap[r]; ok {
		return sym
	}

	return "?"
}

// suits
type Suit uint8

const (
	Hearts Suit = iota + 1
	Diamonds
	Clubs
	Spades
)

// Suits lists the suits in canonical deck order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

func (s Suit) Valid() bool {
	return s >= Hearts && s <= Spades
}

// letter, symbol, full name
var suitNameMap = map[Suit][3]string{
	Hearts:   {"H", "♥", "hearts"},
	Diamonds: {"D", "♦", "diamonds"},
	Clubs:    {"C", "♣", "clubs"},
	Spades:   {"S", "♠", "spades"},
}

func (s Suit) Letter() string {
	return suitNameMap[s][0]
}

func (s Suit) Symbol() string {
	if !s.Valid() {
		return "?"
	}

	return suitNameMap[s][1]
}

func (s Suit) String() string {
	if !s.Valid() {
		return "unknown"
	}

	return suitNameMap[s][2]
}

// IsRed reports whether the suit is printed in red.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Card is an immutable rank and suit pair. The zero Card marks an empty
// hand slot.
type Card struct {
	Rank Rank
	Suit Suit
}

func NewCard(rank Rank, suit Suit) (Card, error) {
	if !rank.Valid() || !suit.Valid() {
		return Card{}, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, rank, suit)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

func (c Card) IsZero() bool {
	return c == Card{}
}

func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Code is the card's stable identity, e.g. "AH" or "10S". Presentation
// layers use it to look up artwork.
func (c Card) Code() string {
	if !c.Valid() {
		return ""
	}

	return c.Rank.String() + c.Suit.Letter()
}

// e.g. "A ♥"
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}

	return c.Rank.String() + " " + c.Suit.Symbol()
}

// e.g. "A of hearts"
func (c Card) FullName() string {
	if !c.Valid() {
		return "no card"
	}

	return c.Rank.String() + " of " + c.Suit.String()
}

// ParseCard is the inverse of Card.Code. It is case insensitive.
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}

	rankPart, suitPart := code[:len(code)-1], code[len(code)-1:]

	var rank Rank
	for r, sym := range rankSymbolMap {
		if sym == rankPart {
			rank = r
			break
		}
	}

	var suit Suit
	for s, names := range suitNameMap {
		if names[0] == suitPart {
			suit = s
			break
		}
	}

	card, err := NewCard(rank, suit)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}

	return card, nil
}

// MustParseCards parses space separated card codes and panics on error.
// Intended for fixed tables of cards.
func MustParseCards(codes string) []Card {
	fields := strings.Fields(codes)
	cards := make([]Card, 0, len(fields))

	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, card)
	}

	return cards
}

func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Card{}
		return nil
	}

	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card

	return nil
}

type Cards []Card

func (cards Cards) Codes() []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}

	return codes
}

func (cards Cards) String() string {
	var b strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&b, "[%4s]", c.String())
	}

	return b.String()
}
