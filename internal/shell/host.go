package shell

import (
	"unicode"

	"github.com/Zachkp/quantum-portfolio/internal/quantum"
)

// DefaultToggleKey opens and closes the game.
const DefaultToggleKey = 'q'

// Host mounts the game while it is visible and throws it away when hidden.
type Host struct {
	toggle  rune
	factory func() *quantum.Game
	visible bool
	game    *quantum.Game
}

// NewHost returns a hidden host. factory builds a game on every mount.
func NewHost(toggle rune, factory func() *quantum.Game) *Host {
	if toggle == 0 {
		toggle = DefaultToggleKey
	}
	return &Host{toggle: unicode.ToLower(toggle), factory: factory}
}

// Attach subscribes the host to keys. Every press of the toggle key, in
// either case, flips visibility. The returned func detaches the host.
func (h *Host) Attach(keys *Keys) func() {
	return keys.Subscribe(func(key rune) {
		if unicode.ToLower(key) == h.toggle {
			h.Toggle()
		}
	})
}

// Toggle flips visibility, mounting a fresh game when it becomes visible.
func (h *Host) Toggle() {
	if h.visible {
		h.Close()
		return
	}
	h.visible = true
	h.game = h.factory()
}

// Close hides the game and discards it.
func (h *Host) Close() {
	h.visible = false
	h.game = nil
}

func (h *Host) Visible() bool { return h.visible }

// Game returns the mounted game, or nil while hidden.
func (h *Host) Game() *quantum.Game { return h.game }

// ToggleKey returns the lower-case key the host reacts to.
func (h *Host) ToggleKey() rune { return h.toggle }
