package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/session"
	"github.com/noah-isme/sma-adp-admin/pkg/logger"
)

// ContextSessionKey is the gin context key storing the browser session.
const ContextSessionKey = "adminSession"

// sessionLogPrefix is how much of the session id reaches the access log; the
// full id is the cookie's secret.
const sessionLogPrefix = 8

// Session attaches the caller's browser session. The cookie is re-issued on
// every request so its lifetime slides with the registry's idle TTL.
func Session(registry *session.Registry, cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		sess, _ := registry.Acquire(id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sess.ID, int(ttl.Seconds()), "/", "", false, true)
		c.Set(ContextSessionKey, sess)
		logger.AddFields(c, zap.String("session", shortID(sess.ID)))
		c.Next()
	}
}

// CurrentSession returns the session attached by Session.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

func shortID(id string) string {
	if len(id) > sessionLogPrefix {
		return id[:sessionLogPrefix]
	}
	return id
}
