package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zachkp/quantum-portfolio/internal/content"
	"github.com/Zachkp/quantum-portfolio/internal/metrics"
	"github.com/Zachkp/quantum-portfolio/internal/version"
)

const sessionCookie = "qsid"

// Deps are the collaborators the router needs. Metrics and Admin may be nil.
type Deps struct {
	Portfolio     content.Portfolio
	Sessions      *SessionStore
	Mailer        Mailer
	Metrics       *metrics.Store
	Admin         *metrics.Admin
	TemplatesGlob string
	StaticDir     string
	Log           zerolog.Logger
}

type server struct {
	portfolio content.Portfolio
	sessions  *SessionStore
	mailer    Mailer
	log       zerolog.Logger
}

// NewRouter builds the gin engine serving the portfolio and the game.
func NewRouter(d Deps) *gin.Engine {
	s := &server{
		portfolio: d.Portfolio,
		sessions:  d.Sessions,
		mailer:    d.Mailer,
		log:       d.Log.With().Str("component", "web").Logger(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	r.LoadHTMLGlob(d.TemplatesGlob)
	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
	}
	if d.Metrics != nil {
		r.Use(metrics.Tracker(d.Metrics))
		r.GET("/privacy", metrics.Privacy)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
	})

	// only a key press starts a session; everything else renders the
	// hidden overlay for visitors without one
	r.POST("/keys", s.withSession(true), s.keys)

	page := r.Group("/")
	page.Use(s.withSession(false))
	page.GET("/", s.index)
	page.GET("/game", s.game)
	page.POST("/game/measure/:id", s.measure)
	page.POST("/game/restart", s.restart)
	page.POST("/game/close", s.closeGame)
	page.GET("/api/game", s.gameJSON)

	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.contact)

	if d.Admin != nil {
		d.Admin.Register(r)
	}
	return r
}

// withSession resolves the qsid cookie to a live session. With create set a
// missing or stale cookie gets a new session; otherwise the request carries
// no session. The cookie is re-issued on every hit because the TTL counts
// idle time.
func (s *server) withSession(create bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		var sess *Session
		if create {
			sess = s.sessions.Get(id)
		} else {
			sess = s.sessions.Lookup(id)
		}
		if sess != nil {
			c.SetCookie(sessionCookie, sess.ID, int(s.sessions.TTL()/time.Second), "/", "", false, true)
			c.Set(sessionCookie, sess)
		}
		c.Next()
	}
}

// session returns the request's session, or nil when it has none.
func session(c *gin.Context) *Session {
	v, _ := c.Get(sessionCookie)
	sess, _ := v.(*Session)
	return sess
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
