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

type CheckoutController struct {
	*Base
	checkout services.CheckoutService
	auth     services.AuthService
}

func NewCheckoutController(base *Base, checkout services.CheckoutService, auth services.AuthService) *CheckoutController {
	return &CheckoutController{Base: base, checkout: checkout, auth: auth}
}

func (cc *CheckoutController) page(c *gin.Context, status int, cart models.Cart, form models.CheckoutForm, serr *services.ServiceError) {
	data := gin.H{
		"Title":          "Checkout",
		"Cart":           cart,
		"Form":           form,
		"PaymentMethods": models.PaymentMethods,
	}
	if serr != nil {
		data["Error"] = serr.Message
		data["Errors"] = serr.Fields
	}
	cc.Render(c, status, "store/checkout", data)
}

// Show handles GET /checkout. The profile is reloaded so the form starts
// from the latest contact details.
func (cc *CheckoutController) Show(c *gin.Context) {
	ctx := c.Request.Context()
	st := middleware.GetSession(c)

	cart, serr := cc.cart.Get(ctx, st.VisitorID)
	if serr != nil {
		cc.Fail(c, serr)
		return
	}
	if cart.Empty() {
		cc.Flash(c, session.FlashInfo, "Your cart is empty")
		cc.Redirect(c, "/cart")
		return
	}

	user := st.User
	fresh, serr := cc.auth.Refresh(ctx, st.Token)
	switch {
	case serr.Unauthorized():
		cc.Fail(c, serr)
		return
	case serr != nil:
		logger.Warn(c, "using cached profile for checkout", zap.String("reason", serr.Message))
	default:
		user = fresh
	}

	cc.page(c, http.StatusOK, cart, cc.checkout.Prefill(user), nil)
}

// Place handles POST /checkout.
func (cc *CheckoutController) Place(c *gin.Context) {
	ctx := c.Request.Context()
	st := middleware.GetSession(c)

	var form models.CheckoutForm
	bindErr := c.ShouldBind(&form)

	cart, serr := cc.cart.Get(ctx, st.VisitorID)
	if serr != nil {
		cc.Fail(c, serr)
		return
	}
	if bindErr != nil {
		cc.page(c, http.StatusBadRequest, cart, form, bindError)
		return
	}

	order, serr := cc.checkout.PlaceOrder(ctx, st.VisitorID, st.Token, form)
	if serr != nil {
		if serr.Unauthorized() {
			cc.Fail(c, serr)
			return
		}
		if cart.Empty() {
			cc.Flash(c, session.FlashInfo, serr.Message)
			cc.Redirect(c, "/cart")
			return
		}
		cc.page(c, serr.StatusCode, cart, form, serr)
		return
	}

	cc.Flash(c, session.FlashSuccess, fmt.Sprintf("Thank you! Your order #%d has been placed.", order.ID))
	cc.Redirect(c, fmt.Sprintf("/orders/%d", order.ID))
}
