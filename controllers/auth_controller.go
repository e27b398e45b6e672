package controllers

import (
	"net/http"

	"bookstore-web/logger"
	"bookstore-web/models"
	"bookstore-web/services"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	*Base
	auth services.AuthService
}

func NewAuthController(base *Base, auth services.AuthService) *AuthController {
	return &AuthController{Base: base, auth: auth}
}

// LoginPage handles GET /login.
func (ac *AuthController) LoginPage(c *gin.Context) {
	ac.Render(c, http.StatusOK, "store/login", gin.H{
		"Title": "Sign in",
		"Form":  models.LoginForm{},
		"From":  c.Query("from"),
	})
}

// Login handles POST /login. After signing in the user goes back to the
// page that asked for it, or to the admin console for admins.
func (ac *AuthController) Login(c *gin.Context) {
	var form models.LoginForm
	from := c.PostForm("from")
	data := gin.H{"Title": "Sign in", "From": from}

	if err := c.ShouldBind(&form); err != nil {
		data["Form"] = form
		ac.RenderForm(c, "store/login", bindError, data)
		return
	}

	signed, serr := ac.auth.Login(c.Request.Context(), form)
	if serr != nil {
		// Bad credentials come back as 401 too; they stay on the form.
		form.Password = ""
		data["Form"] = form
		data["Error"] = serr.Message
		data["Errors"] = serr.Fields
		ac.Render(c, serr.StatusCode, "store/login", data)
		return
	}

	if err := ac.sessions.SignIn(c.Writer, c.Request, signed.Token, signed.User, signed.ExpiresAt); err != nil {
		logger.Error(c, "failed to save session", err)
		_ = c.Error(err)
		return
	}
	ac.Flash(c, session.FlashSuccess, "Welcome back, "+signed.User.Name)

	switch {
	case SafeRedirect(from):
		ac.Redirect(c, from)
	case signed.User.IsAdmin():
		ac.Redirect(c, "/admin")
	default:
		ac.Redirect(c, "/")
	}
}

// RegisterPage handles GET /register.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	ac.Render(c, http.StatusOK, "store/register", gin.H{"Title": "Create an account", "Form": models.RegisterForm{}})
}

// Register handles POST /register.
func (ac *AuthController) Register(c *gin.Context) {
	var form models.RegisterForm
	data := gin.H{"Title": "Create an account"}

	if err := c.ShouldBind(&form); err != nil {
		data["Form"] = form
		ac.RenderForm(c, "store/register", bindError, data)
		return
	}

	if serr := ac.auth.Register(c.Request.Context(), form); serr != nil {
		form.Password, form.ConfirmPassword = "", ""
		data["Form"] = form
		ac.RenderForm(c, "store/register", serr, data)
		return
	}

	ac.Flash(c, session.FlashSuccess, "Your account has been created. Please sign in.")
	ac.Redirect(c, "/login")
}

// Logout handles POST /logout. The cart is kept for the next sign in.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.SignOut(c.Writer, c.Request); err != nil {
		logger.Warn(c, "failed to sign out", zap.Error(err))
	}
	ac.Flash(c, session.FlashInfo, "You have been signed out.")
	ac.Redirect(c, "/")
}
