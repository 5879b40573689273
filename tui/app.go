package tui

import (
	"fmt"

	"github.com/ChristianF88/fjsort/steps"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const helpText = `
[white::b]Ford-Johnson Merge-Insertion Sort[white::-]

[yellow]→[white] / [yellow]n[white]      next step
[yellow]←[white] / [yellow]p[white]      previous step
[yellow]Home[white] / [yellow]r[white]   back to the first step
[yellow]↑[white] / [yellow]↓[white]      scroll the current step
[yellow]h[white]          toggle this help
[yellow]q[white]          quit

[white::b]How it works[white::-]

[mediumpurple]1. Pairing:[white] group elements into pairs and order each pair (smaller, larger).
[slateblue]2. Separation:[white] larger elements form the main chain, smaller ones the pend chain.
[dodgerblue]3. Recursive sort:[white] the main chain is sorted with the same algorithm.
[green]4. Insertion:[white] pend elements are binary-inserted in Jacobsthal order (1, 3, 5, 11, 21, 43, ...),
   each search bounded by the position of its partner.
`

// App steps through the recorded stages of one sort.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	stepView  *tview.TextView
	helpView  *tview.TextView
	statusBar *tview.TextView

	steps   []steps.Step[float64]
	current int
	cache   *RenderCache
}

// NewApp creates a viewer over the given steps, starting at the first one.
func NewApp(recorded []steps.Step[float64]) *App {
	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		steps: recorded,
		cache: NewRenderCache(),
	}
	a.setupUI()
	a.showStep()
	return a
}

func (a *App) setupUI() {
	a.stepView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	a.stepView.SetBorder(true).SetTitle(" fjsort Step-by-Step ").SetTitleAlign(tview.AlignCenter)

	a.helpView = tview.NewTextView().
		SetDynamicColors(true).
		SetText(helpText)
	a.helpView.SetBorder(true).SetTitle(" Help ").SetTitleAlign(tview.AlignLeft)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true)
	a.statusBar.SetBorder(false)

	stepsPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.stepView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	helpPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.helpView, 0, 1, true).
		AddItem(tview.NewTextView().SetText(" Press 'h' to return"), 1, 0, false)

	a.pages.AddPage("steps", stepsPage, true, true)
	a.pages.AddPage("help", helpPage, true, false)

	a.app.SetInputCapture(a.handleKey)
	a.app.SetRoot(a.pages, true)
}

// handleKey implements the key bindings. It returns nil for handled keys.
func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyRight:
		a.Next()
		return nil
	case tcell.KeyLeft:
		a.Prev()
		return nil
	case tcell.KeyHome:
		a.Reset()
		return nil
	case tcell.KeyEscape:
		a.pages.SwitchToPage("steps")
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case 'q', 'Q':
		a.app.Stop()
		return nil
	case 'n', 'N':
		a.Next()
		return nil
	case 'p', 'P':
		a.Prev()
		return nil
	case 'r', 'R':
		a.Reset()
		return nil
	case 'h', 'H', '?':
		a.toggleHelp()
		return nil
	}
	return event
}

func (a *App) toggleHelp() {
	if name, _ := a.pages.GetFrontPage(); name == "help" {
		a.pages.SwitchToPage("steps")
		return
	}
	a.pages.SwitchToPage("help")
}

// Current is the index of the step on screen.
func (a *App) Current() int {
	return a.current
}

func (a *App) Next() {
	if a.current < len(a.steps)-1 {
		a.current++
		a.showStep()
	}
}

func (a *App) Prev() {
	if a.current > 0 {
		a.current--
		a.showStep()
	}
}

func (a *App) Reset() {
	a.current = 0
	a.showStep()
}

func (a *App) showStep() {
	if len(a.steps) == 0 {
		a.stepView.SetText("[yellow]No steps recorded.[white]")
		a.statusBar.SetText("[yellow]Step 0 / 0[white] | 'q' to quit")
		return
	}
	step := a.steps[a.current]
	a.stepView.SetText(a.cache.Get(a.current, step))
	a.stepView.ScrollToBeginning()
	a.updateStatusBar(step)
}

func (a *App) updateStatusBar(step steps.Step[float64]) {
	a.statusBar.SetText(fmt.Sprintf(
		"[yellow]Step %d / %d[white] | [%s]%s[white] | comparisons %d | ←/→ navigate, 'r' reset, 'h' help, 'q' quit",
		a.current+1, len(a.steps), stageColor(step.Stage), step.Stage, step.Comparisons))
}

// Run starts the viewer and blocks until the user quits.
func (a *App) Run() error {
	go a.cache.PreRender(a.steps)
	return a.app.Run()
}
