package terminal

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/quantum-portfolio/internal/content"
	"github.com/Zachkp/quantum-portfolio/internal/quantum"
)

// zeros makes every qubit a definite Zero.
type zeros struct{}

func (zeros) IntN(int) int { return 0 }

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	return newTestAppWithToggle(t, 'q')
}

func newTestAppWithToggle(t *testing.T, toggle rune) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 40)
	app := New(screen, content.Default(), toggle, func() *quantum.Game {
		return quantum.New(zeros{})
	}, zerolog.Nop())
	t.Cleanup(app.Close)
	return app, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func special(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func screenText(screen tcell.SimulationScreen) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
		if (i+1)%w == 0 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func TestPortfolioShownByDefault(t *testing.T) {
	app, screen := newTestApp(t)
	app.Draw()

	text := screenText(screen)
	assert.Contains(t, text, "Ryan Kamosa")
	assert.Contains(t, text, "Areas of Expertise")
	assert.Contains(t, text, "Notable Projects")
	assert.NotContains(t, text, "Quantum Superposition Game")
}

func TestToggleKeyShowsAndHidesGame(t *testing.T) {
	app, screen := newTestApp(t)

	assert.True(t, app.HandleEvent(key('q')))
	require.True(t, app.Host().Visible())
	app.Draw()
	text := screenText(screen)
	assert.Contains(t, text, "Quantum Superposition Game")
	assert.Contains(t, text, "Level: 1")

	assert.True(t, app.HandleEvent(key('Q')))
	assert.False(t, app.Host().Visible())
}

func TestDigitsMeasureQubits(t *testing.T) {
	app, _ := newTestApp(t)
	app.HandleEvent(key('q'))
	g := app.Host().Game()

	app.HandleEvent(key('1'))
	assert.True(t, g.Qubits()[1].Measured)

	app.HandleEvent(key('0'))
	app.HandleEvent(key('2'))
	assert.Equal(t, 2, g.Level())
	assert.Equal(t, 3, g.Score())
}

func TestGameKeysDoNotReachTheToggle(t *testing.T) {
	app, _ := newTestApp(t)
	app.HandleEvent(key('q'))
	g := app.Host().Game()

	app.HandleEvent(key('1'))
	app.HandleEvent(key(' '))
	app.HandleEvent(key('r'))
	assert.True(t, app.Host().Visible())
	assert.Same(t, g, app.Host().Game())
}

func TestToggleKeyWinsOverGameKey(t *testing.T) {
	for _, toggle := range []rune{'1', 'r', 'R'} {
		app, _ := newTestAppWithToggle(t, toggle)

		app.HandleEvent(key(toggle))
		require.True(t, app.Host().Visible(), "toggle %q", toggle)
		g := app.Host().Game()

		app.HandleEvent(key(toggle))
		assert.False(t, app.Host().Visible(), "toggle %q", toggle)
		for _, q := range g.Qubits() {
			assert.False(t, q.Measured, "toggle %q measured qubit %d", toggle, q.ID)
		}
	}
}

func TestCursorMeasure(t *testing.T) {
	app, _ := newTestApp(t)
	app.HandleEvent(key('q'))
	g := app.Host().Game()

	app.HandleEvent(special(tcell.KeyLeft))
	app.HandleEvent(special(tcell.KeyEnter))
	assert.True(t, g.Qubits()[2].Measured)

	app.HandleEvent(special(tcell.KeyRight))
	app.HandleEvent(key(' '))
	assert.True(t, g.Qubits()[0].Measured)
}

func TestKeysIgnoredWhileHidden(t *testing.T) {
	app, _ := newTestApp(t)
	assert.True(t, app.HandleEvent(key('1')))
	assert.True(t, app.HandleEvent(special(tcell.KeyEnter)))
	assert.False(t, app.Host().Visible())
}

func TestEscapeClosesGameThenQuits(t *testing.T) {
	app, _ := newTestApp(t)
	app.HandleEvent(key('q'))

	assert.True(t, app.HandleEvent(special(tcell.KeyEscape)))
	assert.False(t, app.Host().Visible())
	assert.False(t, app.HandleEvent(special(tcell.KeyEscape)))
}

func TestCtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
}
