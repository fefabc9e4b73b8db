// Package terminal renders the portfolio and the game in a tcell screen.
package terminal

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Zachkp/quantum-portfolio/internal/content"
	"github.com/Zachkp/quantum-portfolio/internal/quantum"
	"github.com/Zachkp/quantum-portfolio/internal/shell"
)

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMuted   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleTag     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleQubit   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	styleMeasure = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorNavy)
	styleCursor  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleOver    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// App owns the screen, the key bus and the game host.
type App struct {
	screen    tcell.Screen
	portfolio content.Portfolio
	keys      shell.Keys
	host      *shell.Host
	detach    func()
	cursor    int
	log       zerolog.Logger
}

func New(screen tcell.Screen, p content.Portfolio, toggle rune, newGame func() *quantum.Game, log zerolog.Logger) *App {
	a := &App{
		screen:    screen,
		portfolio: p,
		host:      shell.NewHost(toggle, newGame),
		log:       log.With().Str("component", "terminal").Logger(),
	}
	a.detach = a.host.Attach(&a.keys)
	return a
}

// Host exposes the game host, mainly for tests.
func (a *App) Host() *shell.Host { return a.host }

// Run draws and handles events until the user quits.
func (a *App) Run() {
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.HandleEvent(ev) {
			return
		}
	}
}

// Close detaches the host and releases the screen.
func (a *App) Close() {
	a.host.Close()
	a.detach()
	a.screen.Fini()
}

// HandleEvent applies one event and reports whether the app keeps running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	g := a.host.Game()
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if g == nil {
			return false
		}
		a.host.Close()
		return true
	case tcell.KeyLeft:
		a.moveCursor(-1)
		return true
	case tcell.KeyRight:
		a.moveCursor(1)
		return true
	case tcell.KeyEnter:
		if g != nil {
			a.measure(g, a.cursor)
		}
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	// the toggle key always toggles, even when it doubles as a game key
	r := ev.Rune()
	if g != nil && unicode.ToLower(r) != a.host.ToggleKey() && a.gameKey(g, r) {
		return true
	}

	wasVisible := a.host.Visible()
	a.keys.Publish(r)
	if a.host.Visible() != wasVisible {
		a.cursor = 0
		a.log.Debug().Bool("visible", a.host.Visible()).Msg("game toggled")
	}
	return true
}

// gameKey applies a rune bound to the game and reports whether it was one.
func (a *App) gameKey(g *quantum.Game, r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		a.measure(g, int(r-'0'))
	case r == ' ':
		a.measure(g, a.cursor)
	case r == 'r' && g.Over():
		g.Restart()
		a.cursor = 0
	default:
		return false
	}
	return true
}

func (a *App) measure(g *quantum.Game, id int) {
	out := g.Measure(id)
	if out == quantum.LevelUp {
		a.cursor = 0
	}
	if out == quantum.LevelUp || out == quantum.GameOver {
		a.log.Debug().Str("outcome", out.String()).Int("level", g.Level()).Int("score", g.Score()).Msg("round complete")
	}
}

func (a *App) moveCursor(delta int) {
	g := a.host.Game()
	if g == nil {
		return
	}
	n := len(g.Qubits())
	a.cursor = (a.cursor + delta + n) % n
}

// Draw renders the current state.
func (a *App) Draw() {
	a.screen.Clear()
	if a.host.Visible() && a.host.Game() != nil {
		a.drawGame(a.host.Game().Snapshot())
	} else {
		a.drawPortfolio()
	}
	a.screen.Show()
}

func (a *App) drawPortfolio() {
	p := a.portfolio
	y := 1
	y = a.text(2, y, styleTitle, p.Profile.Name) + 1
	y = a.text(2, y, styleText, p.Profile.Tagline)
	y = a.text(2, y, styleTag, p.Profile.LinkedIn)
	y = a.text(2, y, styleMuted, p.Profile.Hint) + 1

	y = a.text(2, y, styleTitle, "Areas of Expertise")
	for _, e := range p.Expertise {
		y = a.text(4, y, styleText, e.Title)
		y = a.text(6, y, styleMuted, strings.Join(e.Skills, " · "))
	}
	y++

	y = a.text(2, y, styleTitle, "Notable Projects")
	for _, pr := range p.Projects {
		y = a.text(4, y, styleText, pr.Title)
		y = a.text(6, y, styleMuted, pr.Description)
		y = a.text(6, y, styleTag, "["+strings.Join(pr.Tags, "] [")+"]")
	}
	y++

	y = a.text(2, y, styleTitle, p.Contact.Heading)
	for _, line := range strings.Split(p.Contact.Blurb, "\n") {
		y = a.text(4, y, styleMuted, line)
	}
	y = a.text(4, y, styleTag, p.Contact.LinkedIn) + 1
	a.text(2, y, styleMuted, "Ctrl-C or Esc to quit")
}

func (a *App) drawGame(s quantum.Snapshot) {
	y := 1
	y = a.text(2, y, styleTitle, "Quantum Superposition Game") + 1
	y = a.text(2, y, styleText, fmt.Sprintf("Level: %d", s.Level))
	y = a.text(2, y, styleText, fmt.Sprintf("Score: %d", s.Score)) + 1

	x := 2
	for i, q := range s.Qubits {
		style := styleQubit
		if q.Measured {
			style = styleMeasure
		}
		if i == a.cursor && !s.GameOver {
			style = styleCursor
		}
		cell := fmt.Sprintf(" %d:%s ", q.ID, q.Glyph())
		a.text(x, y, style, cell)
		x += len([]rune(cell)) + 1
	}
	y += 2

	if s.GameOver {
		y = a.text(2, y, styleOver, fmt.Sprintf("Game Over! Final Score: %d", s.Score))
		y = a.text(2, y, styleText, "Press r to play again") + 1
	}

	help := []string{
		"How to play:",
		"  Measure a qubit with its number, or move with ←/→ and press Enter",
		"  |ψ⟩ represents a qubit in superposition",
		"  Measuring collapses the superposition to either 0 or 1",
		"  Score points by measuring superposition states",
		fmt.Sprintf("  Press %c or Esc to close", a.host.ToggleKey()),
	}
	for _, line := range help {
		y = a.text(2, y, styleMuted, line)
	}
}

// text draws s at (x, y) and returns the next row.
func (a *App) text(x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return y + 1
}
