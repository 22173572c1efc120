package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/poker"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var printer *message.Printer

func init() {
	printer = message.NewPrinter(language.English)
}

type CLI struct {
	app      *tview.Application
	pages    *tview.Pages
	gameGrid *tview.Grid

	pagesToPrimFocus map[string]tview.Primitive

	round *poker.Round
	log   *logger.Logger
	snap  poker.Snapshot

	dealerView,
	playerView,
	statusView,
	helpView *tview.TextView

	actionsForm *tview.Form

	exitModal,
	errorModal *tview.Modal
}

func New(round *poker.Round, log *logger.Logger) *CLI {
	if log == nil {
		log = logger.Discard()
	}

	return &CLI{
		round: round,
		log:   log,
	}
}

func (cli *CLI) switchToPage(page string) {
	if !cli.pages.HasPage(page) {
		cli.log.Logf("BUG: no page %q\n", page)
		return
	}

	cli.pages.SwitchToPage(page)
	cli.app.SetFocus(cli.pagesToPrimFocus[page])
}

func (cli *CLI) eventHandler(eventKey *tcell.EventKey) *tcell.EventKey {
	// first of two universal keys is esc to quit the game
	if eventKey.Key() == tcell.KeyEscape {
		cli.switchToPage("exit")
	}

	// the second is Ctrl-R to refresh the screen in case something writes
	// to std{out,err}
	if eventKey.Key() == tcell.KeyCtrlR {
		focusedPrim := cli.app.GetFocus()
		cli.app.SetRoot(cli.pages, true)
		cli.app.SetFocus(focusedPrim)
	}

	return eventKey
}

func (cli *CLI) showError(err error) {
	cli.log.Logf("%s\n", err.Error())

	cli.errorModal.SetText(err.Error())
	cli.switchToPage("error")
}

func (cli *CLI) handleButton(btn string) {
	var (
		snap poker.Snapshot
		err  error
	)

	switch btn {
	case "deal":
		snap = cli.round.StartRound()
	case "draw":
		snap, err = cli.round.Draw()
	case "showdown":
		if _, err = cli.round.Resolve(); err == nil {
			snap = cli.round.Snapshot()
		}
	case "quit":
		cli.switchToPage("exit")
		return
	default:
		cli.log.Logf("BUG: unknown button %q\n", btn)
		return
	}

	if err != nil {
		if errors.Is(err, poker.ErrTooManyReplacements) {
			cli.update(snap)
		}
		cli.showError(err)
		return
	}

	cli.update(snap)
}

// toggle handles the 1-5 keys.
func (cli *CLI) toggle(pos int) {
	snap, err := cli.round.ToggleSelect(pos)
	if err != nil {
		// selecting before a deal is a no-op, not worth a modal
		if errors.Is(err, poker.ErrInvalidPhase) {
			return
		}

		cli.showError(err)
		return
	}

	cli.update(snap)
}

func (cli *CLI) update(snap poker.Snapshot) {
	cli.snap = snap

	dealerTitle, playerTitle := "Dealer", "Player"
	if snap.Outcome != nil {
		dealerTitle += " - " + snap.Outcome.Dealer.Label
		playerTitle += " - " + snap.Outcome.Player.Label
	}
	cli.dealerView.SetTitle(dealerTitle)
	cli.playerView.SetTitle(playerTitle)

	if snap.Phase == poker.PhaseIdle {
		cli.dealerView.SetText("")
		cli.playerView.SetText("")
	} else {
		cli.dealerView.SetText(cards2String(snap.Dealer, nil, !snap.DealerVisible))
		cli.playerView.SetText(cards2String(snap.Player, snap.IsSelected, false))
	}

	cli.statusView.SetText(statusString(snap))
}

func statusString(snap poker.Snapshot) string {
	color := "white"

	switch snap.Status {
	case poker.StatusPlayerWins:
		color = "green"
	case poker.StatusDealerWins, poker.StatusTooMany:
		color = "red"
	case poker.StatusTie:
		color = "yellow"
	}

	return printer.Sprintf("[%s]%s[-]\n\nround phase: %s", color,
		tview.Escape(snap.Message), snap.Phase)
}

func (cli *CLI) Init() error {
	if cli.round == nil {
		return errors.New("cli: nil round")
	}

	cli.app = tview.NewApplication()
	cli.pages = tview.NewPages()
	cli.gameGrid = tview.NewGrid()
	cli.exitModal = tview.NewModal()
	cli.errorModal = tview.NewModal()

	newTextView := func(title string, border bool) *tview.TextView {
		ret := tview.NewTextView().SetTextAlign(tview.AlignCenter).
			SetDynamicColors(true)

		ret.SetTitle(title)

		if border {
			ret.SetBorder(true)
		}

		return ret
	}

	cli.dealerView = newTextView("Dealer", true)
	cli.playerView = newTextView("Player", true)
	cli.statusView = newTextView("Status", true)

	cli.helpView = newTextView("Keys", true)
	cli.helpView.SetTextAlign(tview.AlignLeft).
		SetText("1-5  toggle card\n" +
			"d    deal\n" +
			"r    draw\n" +
			"s    showdown\n" +
			"q    quit")

	cli.actionsForm = tview.NewForm().
		AddButton("deal", func() {
			cli.handleButton("deal")
		}).
		AddButton("draw", func() {
			cli.handleButton("draw")
		}).
		AddButton("showdown", func() {
			cli.handleButton("showdown")
		}).
		AddButton("quit", func() {
			cli.handleButton("quit")
		})
	cli.actionsForm.SetBorder(true).SetTitle("Actions")

	cli.gameGrid.
		SetRows(0, 0, 7).
		SetColumns(0, 24).
		AddItem(cli.dealerView, 0, 0, 1, 1, 0, 0, false).
		AddItem(cli.helpView, 0, 1, 1, 1, 0, 0, false).
		AddItem(cli.playerView, 1, 0, 1, 1, 0, 0, false).
		AddItem(cli.statusView, 1, 1, 1, 1, 0, 0, false).
		AddItem(cli.actionsForm, 2, 0, 1, 2, 0, 0, true).
		SetFocusFunc(func() {
			cli.app.SetFocus(cli.actionsForm)
		}).
		SetInputCapture(func(eventKey *tcell.EventKey) *tcell.EventKey {
			if eventKey.Key() != tcell.KeyRune {
				return eventKey
			}

			return cli.handleRune(eventKey)
		})

	cli.exitModal.SetText("do you want to quit the game?").
		AddButtons([]string{"quit", "cancel"}).
		SetDoneFunc(func(btnIdx int, btnLabel string) {
			switch btnLabel {
			case "quit":
				cli.app.Stop()
			case "cancel":
				cli.switchToPage("game")
			}
		})

	cli.errorModal.
		AddButtons([]string{"close"}).
		SetDoneFunc(func(_ int, btnLabel string) {
			switch btnLabel {
			case "close":
				cli.switchToPage("game")
				cli.errorModal.SetText("")
			}
		})

	cli.pages.AddPage("game", cli.gameGrid, true, true)
	cli.pages.AddPage("exit", cli.exitModal, true, false)
	cli.pages.AddPage("error", cli.errorModal, true, false)

	cli.pagesToPrimFocus = map[string]tview.Primitive{
		"game":  cli.gameGrid,
		"exit":  cli.exitModal,
		"error": cli.errorModal,
	}

	cli.app.SetInputCapture(cli.eventHandler)

	cli.update(cli.round.Snapshot())

	return nil
}

var keyToActionsButtonLabel = map[rune]string{
	'd': "deal",
	'r': "draw",
	's': "showdown",
	'q': "quit",
}

func (cli *CLI) handleRune(eventKey *tcell.EventKey) *tcell.EventKey {
	keyRune := eventKey.Rune()

	if keyRune >= '1' && keyRune <= '0'+poker.HandSize {
		cli.toggle(int(keyRune - '1'))
		return nil
	}

	if label, ok := keyToActionsButtonLabel[keyRune]; ok {
		if idx := cli.actionsForm.GetButtonIndex(label); idx != -1 {
			cli.actionsForm.SetFocus(cli.actionsForm.GetFormItemCount() + idx)
		}
		cli.handleButton(label)

		return nil
	}

	return eventKey
}

func cardColor(card poker.Card) string {
	if card.Suit.IsRed() {
		return "red"
	}

	return "white"
}

// cards2String draws a row of boxed cards using tview color tags. Selected
// positions get a highlighted border and a marker under the card.
func cards2String(cards [poker.HandSize]poker.Card, selected func(int) bool, hidden bool) string {
	isSelected := func(i int) bool {
		return selected != nil && selected(i)
	}

	var top, mid, bot, marks strings.Builder

	for i, card := range cards {
		border := "white"
		if isSelected(i) {
			border = "yellow"
		}

		face := "[blue]" + poker.FillRight("##", 4) + "[-]"
		if !hidden {
			face = fmt.Sprintf("[%s]%s[-]", cardColor(card),
				poker.FillRight(card.String(), 4))
		}

		fmt.Fprintf(&top, "[%s]┌──────┐[-]", border)
		fmt.Fprintf(&mid, "[%s]│[-] %s [%s]│[-]", border, face, border)
		fmt.Fprintf(&bot, "[%s]└──────┘[-]", border)

		mark := poker.FillLeft(strconv.Itoa(i+1), 4)
		if isSelected(i) {
			mark = "[yellow]" + poker.FillLeft("*"+strconv.Itoa(i+1), 4) + "[-]"
		}
		marks.WriteString(mark + "    ")
	}

	return "\n" + top.String() + "\n" + mid.String() + "\n" + bot.String() +
		"\n" + marks.String() + "\n"
}

func (cli *CLI) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if cli.app != nil {
				cli.app.Stop()
			}
			err = poker.PanicRetToError(r)
		}
	}()

	return cli.app.SetRoot(cli.pages, true).SetFocus(cli.gameGrid).Run()
}
