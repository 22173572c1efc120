// Package plain is a line oriented front end. It reads commands from an
// io.Reader and renders each snapshot as boxed panels with pterm, which
// makes it usable over a pipe or in a dumb terminal.
package plain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/poker"

	"github.com/pterm/pterm"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  deal            start a new round
  select N [N..]  toggle player cards (1-5) for replacement
  draw            replace the selected cards
  showdown        compare hands
  show            print the table again
  help            this text
  quit            leave`

type Plain struct {
	round *poker.Round
	in    io.Reader
	out   io.Writer
	log   *logger.Logger
}

func New(round *poker.Round, in io.Reader, out io.Writer, log *logger.Logger) *Plain {
	if log == nil {
		log = logger.Discard()
	}

	return &Plain{
		round: round,
		in:    in,
		out:   out,
		log:   log,
	}
}

func (p *Plain) Init() error {
	if p.round == nil {
		return errors.New("plain: nil round")
	}

	return nil
}

// Run processes commands until quit or end of input.
func (p *Plain) Run() error {
	p.render(p.round.Snapshot())

	scanner := bufio.NewScanner(p.in)
	for {
		fmt.Fprint(p.out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}

		if err := p.exec(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}

			p.log.Logf("command %q: %s\n", scanner.Text(), err.Error())
			fmt.Fprintln(p.out, pterm.LightRed(err.Error()))
		}
	}
}

func (p *Plain) exec(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "deal", "d":
		p.render(p.round.StartRound())
	case "select", "s":
		if len(fields) < 2 {
			return errors.New("select: which card? (1-5)")
		}

		// check every field before toggling any
		positions := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("select: %q is not a card number", f)
			}
			if n < 1 || n > poker.HandSize {
				return fmt.Errorf("select: %w: %d (want 1-%d)",
					poker.ErrInvalidPosition, n, poker.HandSize)
			}

			positions = append(positions, n-1)
		}

		var snap poker.Snapshot
		for _, pos := range positions {
			var err error
			if snap, err = p.round.ToggleSelect(pos); err != nil {
				return err
			}
		}
		p.render(snap)
	case "draw", "r":
		snap, err := p.round.Draw()
		p.render(snap)
		if err != nil {
			return err
		}
	case "showdown", "sd":
		if _, err := p.round.Resolve(); err != nil {
			return err
		}
		p.render(p.round.Snapshot())
	case "show":
		p.render(p.round.Snapshot())
	case "help", "?":
		fmt.Fprintln(p.out, helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}

	return nil
}

func (p *Plain) render(snap poker.Snapshot) {
	fmt.Fprint(p.out, Render(snap))
}

// Render draws a snapshot as dealer, player and status panels.
func Render(snap poker.Snapshot) string {
	box := pterm.DefaultBox.WithHorizontalPadding(2)

	dealerTitle := "Dealer"
	playerTitle := "Player"
	if snap.Outcome != nil {
		dealerTitle += " - " + snap.Outcome.Dealer.Label
		playerTitle += " - " + snap.Outcome.Player.Label
	}

	var b strings.Builder

	if snap.Phase != poker.PhaseIdle {
		b.WriteString(box.WithTitle(dealerTitle).WithTitleTopLeft().
			Sprint(cardRow(snap.Dealer, nil, !snap.DealerVisible)))
		b.WriteString("\n")
		b.WriteString(box.WithTitle(playerTitle).WithTitleTopLeft().
			Sprint(cardRow(snap.Player, snap.IsSelected, false)))
		b.WriteString("\n")
	}

	status := snap.Message
	switch snap.Status {
	case poker.StatusPlayerWins:
		status = pterm.LightGreen(status)
	case poker.StatusDealerWins, poker.StatusTooMany:
		status = pterm.LightRed(status)
	case poker.StatusTie:
		status = pterm.LightYellow(status)
	}
	b.WriteString(pterm.Sprintfln("[%s] %s", snap.Phase, status))

	return b.String()
}

// cardRow renders five cards with their 1-based position underneath.
func cardRow(cards [poker.HandSize]poker.Card, selected func(int) bool, hidden bool) string {
	var top, bottom strings.Builder

	for i, c := range cards {
		cell := poker.FillRight("["+c.String()+"]", 7)
		if hidden {
			cell = poker.FillRight("[##]", 7)
		} else if c.Suit.IsRed() {
			cell = pterm.LightRed(cell)
		}

		mark := poker.FillRight(" "+strconv.Itoa(i+1), 7)
		if selected != nil && selected(i) {
			mark = pterm.LightCyan(poker.FillRight("*"+strconv.Itoa(i+1), 7))
		}

		top.WriteString(cell)
		bottom.WriteString(mark)
	}

	return top.String() + "\n" + bottom.String()
}
