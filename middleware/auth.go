package middleware

import (
	"net/http"
	"net/url"
	"time"

	"bookstore-web/logger"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const SessionContextKey = "session"

// Session loads the visitor session into the gin context. A signed-in
// session whose token has expired is signed out before the handler runs.
func Session(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := sessions.Load(c.Writer, c.Request)
		if err != nil {
			logger.Warn(c, "failed to save visitor session", zap.Error(err))
		}

		if state.Expired(time.Now()) {
			logger.Info(c, "session expired", zap.String("visitor_id", state.VisitorID))
			if err := sessions.SignOut(c.Writer, c.Request); err != nil {
				logger.Warn(c, "failed to sign out expired session", zap.Error(err))
			}
			_ = sessions.AddFlash(c.Writer, c.Request, session.FlashInfo, "Your session has expired. Please sign in again.")
			state = &session.State{VisitorID: state.VisitorID}
		}

		c.Set(SessionContextKey, state)
		c.Next()
	}
}

// GetSession returns the session loaded by Session. It never returns nil.
func GetSession(c *gin.Context) *session.State {
	if v, ok := c.Get(SessionContextKey); ok {
		if st, ok := v.(*session.State); ok && st != nil {
			return st
		}
	}
	return &session.State{}
}

// LoginURL is the sign-in page that returns the user to from afterwards.
func LoginURL(from string) string {
	if from == "" || from == "/" {
		return "/login"
	}
	return "/login?from=" + url.QueryEscape(from)
}

// RequireAuth redirects anonymous visitors to the sign-in page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c).Authenticated() {
			c.Next()
			return
		}

		from := c.Request.URL.RequestURI()
		if c.Request.Method != http.MethodGet {
			from = c.Request.URL.Path
		}
		c.Redirect(http.StatusSeeOther, LoginURL(from))
		c.Abort()
	}
}

// AdminOnly restricts access to admin role.
func AdminOnly(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := GetSession(c)
		if !st.Authenticated() {
			c.Redirect(http.StatusSeeOther, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !st.IsAdmin() {
			logger.Warn(c, "admin page denied", zap.Int64("user_id", st.User.ID), zap.String("path", c.Request.URL.Path))
			_ = sessions.AddFlash(c.Writer, c.Request, session.FlashError, "You do not have access to the admin console.")
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GuestOnly sends signed-in users away from the sign-in and sign-up pages.
func GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c).Authenticated() {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
