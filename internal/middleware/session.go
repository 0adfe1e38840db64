package middleware

import (
	"grade_predictor/internal/config"
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware attaches the caller's form session to the context,
// starting a new one (and setting its cookie) when the cookie is missing or
// the session has expired.
func SessionMiddleware(store *service.SessionStore, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)

		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sess.ID, int(cfg.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
		}

		c.Set(util.ContextSessionKey, sess)
		c.Next()
	}
}

// GetSession returns the session attached by SessionMiddleware, or nil.
func GetSession(c *gin.Context) *service.Session {
	v, exists := c.Get(util.ContextSessionKey)
	if !exists {
		return nil
	}
	sess, ok := v.(*service.Session)
	if !ok {
		return nil
	}
	return sess
}
