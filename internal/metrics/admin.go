package metrics

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const adminCookie = "admin_token"

// Credentials are the single admin account.
type Credentials struct {
	Username string
	Password string
}

// Admin serves the privacy page and the cookie-protected dashboard.
type Admin struct {
	store *Store
	creds Credentials
	token string
	log   zerolog.Logger
}

func NewAdmin(store *Store, creds Credentials, log zerolog.Logger) *Admin {
	a := &Admin{
		store: store,
		creds: creds,
		token: RandomToken(),
		log:   log.With().Str("component", "admin").Logger(),
	}
	if creds.Username == "admin" || creds.Password == "admin123" {
		a.log.Warn().Msg("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	if gin.Mode() == gin.DebugMode {
		a.log.Debug().Str("token", a.token).Msg("admin token (dev only)")
	}
	return a
}

func (a *Admin) authorized(c *gin.Context) bool {
	token, err := c.Cookie(adminCookie)
	return err == nil && subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

func (a *Admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authorized(c) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Admin) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	if !userOK || !passOK {
		a.log.Warn().Str("client", a.store.HashIP(c.ClientIP())).Msg("failed admin login attempt")
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}

	c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
	a.log.Info().Str("client", a.store.HashIP(c.ClientIP())).Msg("admin login successful")
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *Admin) dashboard(c *gin.Context) {
	stats, err := a.store.Stats(c.Request.Context())
	if err != nil {
		a.log.Error().Err(err).Msg("error loading admin stats")
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
			"error": "Failed to load statistics",
		})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"title": "Dashboard",
		"stats": stats,
	})
}

func (a *Admin) statsJSON(c *gin.Context) {
	stats, err := a.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *Admin) visitors(c *gin.Context) {
	visitors, err := a.store.Recent(c.Request.Context(), 200)
	if err != nil {
		a.log.Error().Err(err).Msg("error loading visitors")
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
			"error": "Failed to load visitors",
		})
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
		"title":    "Visitors",
		"visitors": visitors,
	})
}

func (a *Admin) cleanup(c *gin.Context) {
	n, err := a.store.Cleanup(c.Request.Context())
	if err != nil {
		a.log.Error().Err(err).Msg("privacy cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
}

func (a *Admin) export(c *gin.Context) {
	stats, err := a.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	a.log.Info().Str("client", a.store.HashIP(c.ClientIP())).Msg("admin stats exported")
	c.JSON(http.StatusOK, stats)
}

// Register mounts the privacy page and admin routes on r.
func (a *Admin) Register(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})
	r.POST("/admin/login", a.login)

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		a.log.Info().Str("client", a.store.HashIP(c.ClientIP())).Msg("admin logout")
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.authMiddleware())
	group.GET("/dashboard", a.dashboard)
	group.GET("/api/stats", a.statsJSON)
	group.GET("/visitors", a.visitors)
	group.POST("/privacy/cleanup", a.cleanup)
	group.GET("/export/stats", a.export)
}
