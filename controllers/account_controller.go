package controllers

import (
	"fmt"
	"net/http"

	"bookstore-web/logger"
	"bookstore-web/middleware"
	"bookstore-web/models"
	"bookstore-web/services"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountController serves the signed-in customer's orders and profile.
type AccountController struct {
	*Base
	account services.AccountService
}

func NewAccountController(base *Base, account services.AccountService) *AccountController {
	return &AccountController{Base: base, account: account}
}

// Orders handles GET /orders.
func (ac *AccountController) Orders(c *gin.Context) {
	st := middleware.GetSession(c)
	orders, serr := ac.account.MyOrders(c.Request.Context(), st.Token)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "store/orders", gin.H{"Title": "My orders", "Orders": orders})
}

// Order handles GET /orders/:id.
func (ac *AccountController) Order(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st := middleware.GetSession(c)

	order, serr := ac.account.Order(c.Request.Context(), st.Token, id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "store/order", gin.H{
		"Title":     fmt.Sprintf("Order #%d", order.ID),
		"Order":     order,
		"CanCancel": order.Status == models.OrderPending,
	})
}

// CancelOrder handles POST /orders/:id/cancel.
func (ac *AccountController) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st := middleware.GetSession(c)
	back := fmt.Sprintf("/orders/%d", id)

	if serr := ac.account.CancelOrder(c.Request.Context(), st.Token, id); serr != nil {
		ac.FailAndBack(c, serr, back)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("Order #%d has been cancelled", id))
	ac.Redirect(c, back)
}

func (ac *AccountController) profilePage(c *gin.Context, status int, user *models.User, profile models.ProfileForm, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "My profile"
	data["Profile"] = user
	data["Form"] = profile
	if _, ok := data["PasswordForm"]; !ok {
		data["PasswordForm"] = models.PasswordForm{}
	}
	ac.Render(c, status, "store/profile", data)
}

func profileForm(u *models.User) models.ProfileForm {
	if u == nil {
		return models.ProfileForm{}
	}
	return models.ProfileForm{Name: u.Name, Phone: u.Phone, Address: u.Address}
}

// Profile handles GET /profile.
func (ac *AccountController) Profile(c *gin.Context) {
	st := middleware.GetSession(c)
	user, serr := ac.account.Profile(c.Request.Context(), st.Token)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.profilePage(c, http.StatusOK, user, profileForm(user), nil)
}

// UpdateProfile handles POST /profile.
func (ac *AccountController) UpdateProfile(c *gin.Context) {
	st := middleware.GetSession(c)

	var form models.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		ac.profilePage(c, http.StatusBadRequest, st.User, form, gin.H{"Error": bindError.Message})
		return
	}

	user, serr := ac.account.UpdateProfile(c.Request.Context(), st.Token, form)
	if serr != nil {
		if serr.Unauthorized() {
			ac.Fail(c, serr)
			return
		}
		ac.profilePage(c, serr.StatusCode, st.User, form, gin.H{"Error": serr.Message, "Errors": serr.Fields})
		return
	}

	// The backend does not echo the role on every endpoint.
	if st.User != nil && user.Role == "" {
		user.Role = st.User.Role
	}
	if err := ac.sessions.UpdateUser(c.Writer, c.Request, *user); err != nil {
		logger.Warn(c, "failed to refresh session user", zap.Error(err))
	}
	ac.Flash(c, session.FlashSuccess, "Your profile has been updated")
	ac.Redirect(c, "/profile")
}

// ChangePassword handles POST /profile/password.
func (ac *AccountController) ChangePassword(c *gin.Context) {
	st := middleware.GetSession(c)

	var form models.PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		ac.profilePage(c, http.StatusBadRequest, st.User, profileForm(st.User), gin.H{"PasswordError": bindError.Message})
		return
	}

	if serr := ac.account.ChangePassword(c.Request.Context(), st.Token, form); serr != nil {
		if serr.Unauthorized() {
			ac.Fail(c, serr)
			return
		}
		ac.profilePage(c, serr.StatusCode, st.User, profileForm(st.User), gin.H{
			"PasswordError":  serr.Message,
			"PasswordErrors": serr.Fields,
		})
		return
	}

	ac.Flash(c, session.FlashSuccess, "Your password has been changed")
	ac.Redirect(c, "/profile")
}
