package poker

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRound(seed int64) *Round {
	return NewRound(&RoundOpts{Rand: NewRand(seed)})
}

// roundIn returns a round that has been driven into phase.
func roundIn(t *testing.T, phase Phase) *Round {
	t.Helper()

	round := newTestRound(11)
	if phase == PhaseIdle {
		return round
	}

	round.StartRound()
	if phase == PhaseDealt {
		return round
	}

	_, err := round.Draw()
	require.NoError(t, err)
	if phase == PhaseDrawn {
		return round
	}

	_, err = round.Resolve()
	require.NoError(t, err)
	require.Equal(t, PhaseShowdown, round.Phase())

	return round
}

func TestNewRoundIsIdle(t *testing.T) {
	round := NewRound(nil)
	snap := round.Snapshot()

	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, StatusPressDeal, snap.Status)
	assert.Equal(t, "Press DEAL to start.", snap.Message)
	assert.False(t, snap.DealerVisible)
	assert.Empty(t, snap.Selected)
	assert.Nil(t, snap.Outcome)
}

func TestStartRoundDealsTenDistinctCards(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		round := newTestRound(seed)
		snap := round.StartRound()

		assert.Equal(t, PhaseDealt, snap.Phase)
		assert.False(t, snap.DealerVisible)

		seen := make(map[Card]bool)
		for _, c := range append(snap.Player[:], snap.Dealer[:]...) {
			require.True(t, c.Valid())
			assert.False(t, seen[c], "duplicate %s", c.Code())
			seen[c] = true
		}
		assert.Len(t, seen, 10)
		assert.Equal(t, DeckSize-10, round.deck.Remaining())
	}
}

func TestStartRoundDealOrder(t *testing.T) {
	round := newTestRound(5)
	snap := round.StartRound()

	// player gets the first five cards off the deck, dealer the next five
	for i := 0; i < HandSize; i++ {
		assert.Equal(t, round.deck.cards[i], snap.Player[i])
		assert.Equal(t, round.deck.cards[HandSize+i], snap.Dealer[i])
	}
}

func TestToggleSelectCap(t *testing.T) {
	round := roundIn(t, PhaseDealt)

	for _, pos := range []int{0, 1, 2, 3, 4, 3} {
		snap, err := round.ToggleSelect(pos)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(snap.Selected), MaxReplacements)
	}

	snap := round.Snapshot()
	assert.Equal(t, []int{0, 1, 2}, snap.Selected)

	snap, err := round.ToggleSelect(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, snap.Selected)

	snap, err = round.ToggleSelect(4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, snap.Selected)
	assert.True(t, snap.IsSelected(4))
	assert.False(t, snap.IsSelected(1))
}

func TestToggleSelectManySequences(t *testing.T) {
	rng := NewRand(99)
	round := roundIn(t, PhaseDealt)

	for i := 0; i < 500; i++ {
		snap, err := round.ToggleSelect(rng.Intn(HandSize))
		require.NoError(t, err)
		require.LessOrEqual(t, len(snap.Selected), MaxReplacements)
	}
}

func TestToggleSelectInvalidPosition(t *testing.T) {
	round := roundIn(t, PhaseDealt)

	for _, pos := range []int{-1, 5, 100} {
		_, err := round.ToggleSelect(pos)
		assert.ErrorIs(t, err, ErrInvalidPosition)
	}
	assert.Empty(t, round.Snapshot().Selected)
}

func TestDrawReplacesOnlySelected(t *testing.T) {
	round := roundIn(t, PhaseDealt)
	before := round.Snapshot()

	_, err := round.ToggleSelect(0)
	require.NoError(t, err)
	_, err = round.ToggleSelect(2)
	require.NoError(t, err)

	snap, err := round.Draw()
	require.NoError(t, err)

	assert.Equal(t, PhaseDrawn, snap.Phase)
	assert.True(t, snap.DealerVisible)
	assert.Empty(t, snap.Selected)
	assert.Equal(t, StatusReplaced, snap.Status)

	assert.NotEqual(t, before.Player[0], snap.Player[0])
	assert.NotEqual(t, before.Player[2], snap.Player[2])
	for _, pos := range []int{1, 3, 4} {
		assert.Equal(t, before.Player[pos], snap.Player[pos])
	}
	assert.Equal(t, before.Dealer, snap.Dealer)

	// replacements come off the same deck, so still no duplicates
	seen := make(map[Card]bool)
	for _, c := range append(snap.Player[:], snap.Dealer[:]...) {
		assert.False(t, seen[c])
		seen[c] = true
	}
	assert.Equal(t, DeckSize-12, round.deck.Remaining())
}

func TestDrawNothingSelected(t *testing.T) {
	round := roundIn(t, PhaseDealt)
	before := round.Snapshot()

	snap, err := round.Draw()
	require.NoError(t, err)
	assert.Equal(t, before.Player, snap.Player)
	assert.Equal(t, PhaseDrawn, snap.Phase)
}

func TestDrawTooManyIsRejected(t *testing.T) {
	round := roundIn(t, PhaseDealt)
	before := round.Snapshot()

	// only reachable by bypassing ToggleSelect
	round.selected = selection.Of(0, 1, 2, 3)

	snap, err := round.Draw()
	assert.ErrorIs(t, err, ErrTooManyReplacements)
	assert.Equal(t, PhaseDealt, snap.Phase)
	assert.Equal(t, StatusTooMany, snap.Status)
	assert.Equal(t, "You can only replace up to 3 cards!", snap.Message)
	assert.Equal(t, before.Player, snap.Player)
	assert.Equal(t, DeckSize-10, round.deck.Remaining())
}

func TestResolve(t *testing.T) {
	round := roundIn(t, PhaseDrawn)

	outcome, err := round.Resolve()
	require.NoError(t, err)

	assert.Contains(t, []Result{PlayerWins, DealerWins, Tie}, outcome.Result)
	assert.Equal(t, PhaseShowdown, round.Phase())
	assert.Equal(t, &outcome, round.Outcome())

	snap := round.Snapshot()
	require.NotNil(t, snap.Outcome)
	assert.Equal(t, outcome.Result, snap.Outcome.Result)
	assert.True(t, snap.DealerVisible)
	assert.NotEmpty(t, snap.Message)
	assert.NotEmpty(t, outcome.Player.Label)
	assert.NotEmpty(t, outcome.Dealer.Label)

	want := map[int]Result{1: PlayerWins, -1: DealerWins, 0: Tie}[Compare(outcome.Player, outcome.Dealer)]
	assert.Equal(t, want, outcome.Result)
}

// stubEvaluator returns fixed evaluations for the player and dealer hands
// in call order.
type stubEvaluator struct {
	evals []Evaluation
	err   error
	calls int
}

func (s *stubEvaluator) Evaluate([HandSize]Card) (Evaluation, error) {
	if s.err != nil {
		return Evaluation{}, s.err
	}

	e := s.evals[s.calls]
	s.calls++
	return e, nil
}

func TestResolveResults(t *testing.T) {
	pair := Evaluation{Category: Pair, Key: []int{9, 8, 7, 6}, Label: "pair", Description: "pair of 9s"}
	flush := Evaluation{Category: Flush, Key: []int{13, 9, 7, 4, 2}, Label: "flush", Description: "K-high flush"}

	tests := []struct {
		name    string
		player  Evaluation
		dealer  Evaluation
		want    Result
		status  StatusKey
		message string
	}{
		{"player", flush, pair, PlayerWins, StatusPlayerWins, "Player wins with K-high flush over pair of 9s."},
		{"dealer", pair, flush, DealerWins, StatusDealerWins, "Dealer wins with K-high flush over pair of 9s."},
		{"tie", pair, pair, Tie, StatusTie, "Tie: both hands have pair."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := NewRound(&RoundOpts{
				Rand:      NewRand(1),
				Evaluator: &stubEvaluator{evals: []Evaluation{tt.player, tt.dealer}},
			})
			round.StartRound()
			_, err := round.Draw()
			require.NoError(t, err)

			outcome, err := round.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Result)

			snap := round.Snapshot()
			assert.Equal(t, tt.status, snap.Status)
			assert.Equal(t, tt.message, snap.Message)
		})
	}
}

func TestResolveEvaluatorFailureKeepsDrawn(t *testing.T) {
	boom := errors.New("boom")
	round := NewRound(&RoundOpts{Rand: NewRand(1), Evaluator: &stubEvaluator{err: boom}})
	round.StartRound()
	_, err := round.Draw()
	require.NoError(t, err)

	_, err = round.Resolve()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, PhaseDrawn, round.Phase())
	assert.Nil(t, round.Outcome())
}

func TestPhaseMatrix(t *testing.T) {
	phases := []Phase{PhaseIdle, PhaseDealt, PhaseDrawn, PhaseShowdown}

	for _, phase := range phases {
		t.Run(phase.String(), func(t *testing.T) {
			t.Run("toggle", func(t *testing.T) {
				round := roundIn(t, phase)
				before := round.Snapshot()

				_, err := round.ToggleSelect(0)
				if phase == PhaseDealt {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidPhase)
				assert.Equal(t, before, round.Snapshot())
			})

			t.Run("draw", func(t *testing.T) {
				round := roundIn(t, phase)
				before := round.Snapshot()

				_, err := round.Draw()
				if phase == PhaseDealt {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidPhase)
				assert.Equal(t, before, round.Snapshot())
			})

			t.Run("resolve", func(t *testing.T) {
				round := roundIn(t, phase)
				before := round.Snapshot()

				_, err := round.Resolve()
				if phase == PhaseDrawn {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidPhase)
				assert.Equal(t, before, round.Snapshot())
			})

			t.Run("start", func(t *testing.T) {
				round := roundIn(t, phase)

				snap := round.StartRound()
				assert.Equal(t, PhaseDealt, snap.Phase)
				assert.Empty(t, snap.Selected)
				assert.Nil(t, snap.Outcome)
				assert.Equal(t, StatusSelectCards, snap.Status)
			})
		})
	}
}

func TestRestartClearsSelection(t *testing.T) {
	round := roundIn(t, PhaseDealt)
	_, err := round.ToggleSelect(3)
	require.NoError(t, err)

	snap := round.StartRound()
	assert.Empty(t, snap.Selected)
	assert.Equal(t, PhaseDealt, snap.Phase)
}

func TestEndToEnd(t *testing.T) {
	var buf bytes.Buffer
	round := NewRound(&RoundOpts{
		Rand:   NewRand(2024),
		Logger: logger.NewLoggerTo(&buf, "test"),
	})

	dealt := round.StartRound()
	assert.Equal(t, "Click up to 3 player cards to replace, then press DRAW.", dealt.Message)

	_, err := round.ToggleSelect(0)
	require.NoError(t, err)
	_, err = round.ToggleSelect(2)
	require.NoError(t, err)

	drawn, err := round.Draw()
	require.NoError(t, err)
	assert.NotEqual(t, dealt.Player[0], drawn.Player[0])
	assert.NotEqual(t, dealt.Player[2], drawn.Player[2])
	assert.Equal(t, dealt.Player[1], drawn.Player[1])
	assert.Equal(t, dealt.Player[3], drawn.Player[3])
	assert.Equal(t, dealt.Player[4], drawn.Player[4])

	outcome, err := round.Resolve()
	require.NoError(t, err)
	assert.Contains(t, []Result{PlayerWins, DealerWins, Tie}, outcome.Result)
	assert.Equal(t, PhaseShowdown, round.Phase())

	assert.Contains(t, buf.String(), "round 1 dealt")
	assert.Contains(t, buf.String(), fmt.Sprint(Cards(dealt.Player[:]).Codes()))
	assert.Contains(t, buf.String(), fmt.Sprint(Cards(dealt.Dealer[:]).Codes()))
	assert.Contains(t, buf.String(), "round 1 showdown")
}

func TestStandardEvaluatorRound(t *testing.T) {
	round := NewRound(&RoundOpts{Rand: NewRand(8), Evaluator: StandardEvaluator{}})
	round.StartRound()
	_, err := round.Draw()
	require.NoError(t, err)

	outcome, err := round.Resolve()
	require.NoError(t, err)
	assert.Len(t, outcome.Player.Key, 1)
}
