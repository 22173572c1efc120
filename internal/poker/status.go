package poker

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StatusKey identifies the message a front end should show for the
// current state of a round.
type StatusKey string

const (
	StatusPressDeal   StatusKey = "press-deal"
	StatusSelectCards StatusKey = "select-cards"
	StatusReplaced    StatusKey = "replaced"
	StatusTooMany     StatusKey = "too-many"
	StatusPlayerWins  StatusKey = "player-wins"
	StatusDealerWins  StatusKey = "dealer-wins"
	StatusTie         StatusKey = "tie"
)

var statusCatalog = map[StatusKey]string{
	StatusPressDeal:   "Press DEAL to start.",
	StatusSelectCards: "Click up to %d player cards to replace, then press DRAW.",
	StatusReplaced:    "Replacement done. Press SHOWDOWN to see the winner.",
	StatusTooMany:     "You can only replace up to %d cards!",
	StatusPlayerWins:  "Player wins with %s over %s.",
	StatusDealerWins:  "Dealer wins with %s over %s.",
	StatusTie:         "Tie: both hands have %s.",
}

var printer *message.Printer

func init() {
	for key, msg := range statusCatalog {
		if err := message.SetString(language.English, string(key), msg); err != nil {
			panic("poker: BUG: bad status catalog entry " + string(key) + ": " + err.Error())
		}
	}

	printer = message.NewPrinter(language.English)
}

// Message renders the key. Outcome keys take the two hand labels as args.
func (key StatusKey) Message(args ...interface{}) string {
	switch key {
	case StatusSelectCards, StatusTooMany:
		return printer.Sprintf(string(key), MaxReplacements)
	}

	return printer.Sprintf(string(key), args...)
}
