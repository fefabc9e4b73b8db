package web

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/quantum-portfolio/internal/quantum"
	"github.com/Zachkp/quantum-portfolio/internal/shell"
)

// GameView is what the overlay template and /api/game render.
type GameView struct {
	Visible   bool            `json:"visible"`
	ToggleKey string          `json:"toggle_key"`
	Level     int             `json:"level,omitempty"`
	Score     int             `json:"score"`
	GameOver  bool            `json:"game_over"`
	Qubits    []quantum.Qubit `json:"qubits,omitempty"`
}

func viewOf(host *shell.Host) GameView {
	v := GameView{ToggleKey: string(host.ToggleKey())}
	g := host.Game()
	if !host.Visible() || g == nil {
		return v
	}
	snap := g.Snapshot()
	v.Visible = true
	v.Level = snap.Level
	v.Score = snap.Score
	v.GameOver = snap.GameOver
	v.Qubits = snap.Qubits
	return v
}

// current is the overlay for the request's session, hidden when it has none.
func (s *server) current(c *gin.Context) GameView {
	sess := session(c)
	if sess == nil {
		return GameView{ToggleKey: string(s.sessions.ToggleKey())}
	}
	var view GameView
	sess.Do(func(_ *shell.Keys, host *shell.Host) {
		view = viewOf(host)
	})
	return view
}

func (s *server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":     s.portfolio.Profile.Name,
		"profile":   s.portfolio.Profile,
		"expertise": s.portfolio.Expertise,
		"projects":  s.portfolio.Projects,
		"contact":   s.portfolio.Contact,
		"game":      s.current(c),
	})
}

// keys forwards a browser key press into the session's key bus.
func (s *server) keys(c *gin.Context) {
	key := c.PostForm("key")
	if utf8.RuneCountInString(key) != 1 {
		c.String(http.StatusBadRequest, "key must be a single character")
		return
	}
	r, _ := utf8.DecodeRuneInString(key)

	var view GameView
	session(c).Do(func(keys *shell.Keys, host *shell.Host) {
		keys.Publish(r)
		view = viewOf(host)
	})
	c.HTML(http.StatusOK, "game.html", view)
}

func (s *server) game(c *gin.Context) {
	c.HTML(http.StatusOK, "game.html", s.current(c))
}

var errHidden = errors.New("game is not open")

// play runs fn against the mounted game and renders the overlay.
func (s *server) play(c *gin.Context, fn func(g *quantum.Game)) {
	sess := session(c)
	if sess == nil {
		c.String(http.StatusConflict, errHidden.Error())
		return
	}
	var view GameView
	var err error
	sess.Do(func(_ *shell.Keys, host *shell.Host) {
		g := host.Game()
		if g == nil {
			err = errHidden
			return
		}
		fn(g)
		view = viewOf(host)
	})
	if err != nil {
		c.String(http.StatusConflict, err.Error())
		return
	}
	c.HTML(http.StatusOK, "game.html", view)
}

func (s *server) measure(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid qubit id")
		return
	}
	s.play(c, func(g *quantum.Game) {
		out := g.Measure(id)
		if out == quantum.LevelUp || out == quantum.GameOver {
			s.log.Debug().
				Str("session", session(c).ID).
				Str("outcome", out.String()).
				Int("level", g.Level()).
				Int("score", g.Score()).
				Msg("round complete")
		}
	})
}

func (s *server) restart(c *gin.Context) {
	s.play(c, func(g *quantum.Game) {
		g.Restart()
	})
}

func (s *server) closeGame(c *gin.Context) {
	if sess := session(c); sess != nil {
		sess.Do(func(_ *shell.Keys, host *shell.Host) {
			host.Close()
		})
	}
	c.HTML(http.StatusOK, "game.html", s.current(c))
}

func (s *server) gameJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.current(c))
}

// HTMX contact form fragment
func (s *server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
	})
}

func (s *server) contact(c *gin.Context) {
	name := c.PostForm("fullName")
	email := c.PostForm("email")
	message := c.PostForm("message")

	if err := s.mailer.Send(name, email, message); err != nil {
		s.log.Error().Err(err).Msg("error sending contact email")
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	s.log.Info().Str("name", name).Msg("contact email sent")
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
