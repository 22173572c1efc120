package poker

import (
	"errors"
	"fmt"
	math_rand "math/rand"

	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/selection"
)

var ErrInvalidPhase = errors.New("operation not allowed in this phase")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDealt
	PhaseDrawn
	PhaseShowdown
)

var phaseNameMap = map[Phase]string{
	PhaseIdle:     "idle",
	PhaseDealt:    "dealt",
	PhaseDrawn:    "drawn",
	PhaseShowdown: "showdown",
}

func (p Phase) String() string {
	if name, ok := phaseNameMap[p]; ok {
		return name
	}

	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNameMap {
		if name == string(text) {
			*p = phase
			return nil
		}
	}

	return fmt.Errorf("unknown phase %q", text)
}

type Result int

const (
	PlayerWins Result = iota + 1
	DealerWins
	Tie
)

var resultNameMap = map[Result]string{
	PlayerWins: "player wins",
	DealerWins: "dealer wins",
	Tie:        "tie",
}

func (r Result) String() string {
	if name, ok := resultNameMap[r]; ok {
		return name
	}

	return "undecided"
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	for result, name := range resultNameMap {
		if name == string(text) {
			*r = result
			return nil
		}
	}

	return fmt.Errorf("unknown result %q", text)
}

// Outcome is what a showdown produced.
type Outcome struct {
	Result Result     `json:"result" msgpack:"result"`
	Player Evaluation `json:"player" msgpack:"player"`
	Dealer Evaluation `json:"dealer" msgpack:"dealer"`
}

// Snapshot is a read-only copy of everything a front end needs to render
// a round. The dealer's cards are always present; DealerVisible says
// whether they may be shown.
type Snapshot struct {
	Phase         Phase          `json:"phase" msgpack:"phase"`
	Player        [HandSize]Card `json:"player" msgpack:"player"`
	Dealer        [HandSize]Card `json:"dealer" msgpack:"dealer"`
	DealerVisible bool           `json:"dealerVisible" msgpack:"dealerVisible"`
	Selected      []int          `json:"selected" msgpack:"selected"`
	Status        StatusKey      `json:"status" msgpack:"status"`
	Message       string         `json:"message" msgpack:"message"`
	Outcome       *Outcome       `json:"outcome,omitempty" msgpack:"outcome,omitempty"`
}

// IsSelected reports whether a player position is marked for replacement.
func (snap Snapshot) IsSelected(pos int) bool {
	for _, p := range snap.Selected {
		if p == pos {
			return true
		}
	}

	return false
}

type RoundOpts struct {
	Evaluator Evaluator       // defaults to AceHighEvaluator
	Rand      *math_rand.Rand // defaults to a crypto seeded source
	Logger    *logger.Logger  // defaults to discarding
}

// Round drives one deck and two hands through
// idle -> dealt -> drawn -> showdown.
//
// A Round is not safe for concurrent use. Front ends issue one operation
// at a time and must serialize access themselves if they are concurrent.
type Round struct {
	deck      *Deck
	player    Hand
	dealer    Hand
	selected  selection.Set
	phase     Phase
	status    StatusKey
	outcome   *Outcome
	evaluator Evaluator
	rng       *math_rand.Rand
	log       *logger.Logger
	count     uint64 // rounds dealt
}

func NewRound(opts *RoundOpts) *Round {
	if opts == nil {
		opts = &RoundOpts{}
	}

	round := &Round{
		phase:     PhaseIdle,
		status:    StatusPressDeal,
		evaluator: opts.Evaluator,
		rng:       opts.Rand,
		log:       opts.Logger,
	}

	if round.evaluator == nil {
		round.evaluator = AceHighEvaluator{}
	}
	if round.rng == nil {
		round.rng = NewRand(0)
	}
	if round.log == nil {
		round.log = logger.Discard()
	}

	return round
}

func (round *Round) Phase() Phase {
	return round.phase
}

// Outcome is the result of the last showdown, nil before one happens.
func (round *Round) Outcome() *Outcome {
	return round.outcome
}

func (round *Round) phaseErr(op string) error {
	return fmt.Errorf("%s: %w (round is %s)", op, ErrInvalidPhase, round.phase)
}

// StartRound discards any current state, deals five cards to the player
// then five to the dealer from a new shuffled deck and moves to dealt. It
// is legal in every phase.
func (round *Round) StartRound() Snapshot {
	round.deck = NewShuffledDeck(round.rng)
	round.player.clear()
	round.dealer.clear()
	round.selected.Clear()
	round.outcome = nil

	for _, hand := range []*Hand{&round.player, &round.dealer} {
		for pos := 0; pos < HandSize; pos++ {
			err := hand.SetCard(pos, round.deck.DealCard())
			Assert(err == nil, "Round.StartRound(): BUG: bad position")
		}
	}

	round.count++
	round.phase = PhaseDealt
	round.status = StatusSelectCards

	player, dealer := round.player.Cards(), round.dealer.Cards()
	round.log.Logf("round %d dealt: player %v dealer %v\n",
		round.count, Cards(player[:]).Codes(), Cards(dealer[:]).Codes())

	return round.Snapshot()
}

// ToggleSelect marks or unmarks a player position for replacement.
// Selecting a fourth card is silently ignored.
func (round *Round) ToggleSelect(pos int) (Snapshot, error) {
	if round.phase != PhaseDealt {
		return round.Snapshot(), round.phaseErr("toggle select")
	}
	if err := validPosition(pos); err != nil {
		return round.Snapshot(), fmt.Errorf("toggle select: %w", err)
	}

	switch {
	case round.selected.Has(pos):
		round.selected.Remove(pos)
	case round.selected.Len() < MaxReplacements:
		round.selected.Add(pos)
	default:
		round.log.Logf("ignoring selection of position %d: %d already selected\n",
			pos, round.selected.Len())
	}

	return round.Snapshot(), nil
}

// Draw replaces every selected player card from the round's deck and
// moves to drawn, revealing the dealer's hand.
func (round *Round) Draw() (Snapshot, error) {
	if round.phase != PhaseDealt {
		return round.Snapshot(), round.phaseErr("draw")
	}

	// unreachable through ToggleSelect, checked before touching the hand
	if round.selected.Len() > MaxReplacements {
		round.status = StatusTooMany
		return round.Snapshot(), fmt.Errorf("draw: %w: %d selected",
			ErrTooManyReplacements, round.selected.Len())
	}

	if err := round.player.Replace(round.selected, round.deck); err != nil {
		round.status = StatusTooMany
		return round.Snapshot(), fmt.Errorf("draw: %w", err)
	}

	round.log.Logf("round %d replaced %v: player %s\n",
		round.count, round.selected.Positions(), round.player.String())

	round.selected.Clear()
	round.phase = PhaseDrawn
	round.status = StatusReplaced

	return round.Snapshot(), nil
}

// Resolve evaluates both hands and moves to showdown.
func (round *Round) Resolve() (Outcome, error) {
	if round.phase != PhaseDrawn {
		return Outcome{}, round.phaseErr("resolve")
	}

	playerEval, err := round.evaluator.Evaluate(round.player.Cards())
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve: player hand: %w", err)
	}
	dealerEval, err := round.evaluator.Evaluate(round.dealer.Cards())
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve: dealer hand: %w", err)
	}

	outcome := Outcome{Player: playerEval, Dealer: dealerEval}

	switch Compare(playerEval, dealerEval) {
	case 1:
		outcome.Result = PlayerWins
		round.status = StatusPlayerWins
	case -1:
		outcome.Result = DealerWins
		round.status = StatusDealerWins
	default:
		outcome.Result = Tie
		round.status = StatusTie
	}

	round.outcome = &outcome
	round.phase = PhaseShowdown

	round.log.Logf("round %d showdown: %s (player %s, dealer %s)\n",
		round.count, outcome.Result, playerEval, dealerEval)

	return outcome, nil
}

func (round *Round) message() string {
	if round.outcome == nil {
		return round.status.Message()
	}

	p, d := round.outcome.Player.Description, round.outcome.Dealer.Description

	switch round.status {
	case StatusPlayerWins:
		return round.status.Message(p, d)
	case StatusDealerWins:
		return round.status.Message(d, p)
	case StatusTie:
		return round.status.Message(round.outcome.Player.Label)
	}

	return round.status.Message()
}

func (round *Round) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:         round.phase,
		Player:        round.player.Cards(),
		Dealer:        round.dealer.Cards(),
		DealerVisible: round.phase == PhaseDrawn || round.phase == PhaseShowdown,
		Selected:      round.selected.Positions(),
		Status:        round.status,
		Message:       round.message(),
	}

	if round.outcome != nil {
		outcome := *round.outcome
		snap.Outcome = &outcome
	}

	return snap
}
