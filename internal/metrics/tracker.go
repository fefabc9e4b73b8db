package metrics

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/game",
	"/keys",
	"/api/",
	"/healthz",
}

// Tracked reports whether a request path counts as a page view.
func Tracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Tracker records page views in the background. Requests carrying DNT: 1
// are never recorded.
func Tracker(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if Tracked(path) && c.GetHeader("DNT") != "1" {
			s.RecordAsync(c.ClientIP(), c.GetHeader("User-Agent"), path)
		}
		c.Next()
	}
}

// Privacy serves the privacy notice describing what Tracker stores. It stays
// up whether or not the admin routes are registered.
func Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title": "Privacy Policy",
	})
}
