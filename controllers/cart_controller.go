package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookstore-web/middleware"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

// CartController handles the visitor's cart. Carts are keyed by the visitor
// id, so anonymous visitors can shop before signing in.
type CartController struct {
	*Base
}

func NewCartController(base *Base) *CartController {
	return &CartController{Base: base}
}

// Show handles GET /cart.
func (cc *CartController) Show(c *gin.Context) {
	st := middleware.GetSession(c)
	cart, serr := cc.cart.Get(c.Request.Context(), st.VisitorID)
	if serr != nil {
		cc.Fail(c, serr)
		return
	}
	cc.Render(c, http.StatusOK, "store/cart", gin.H{"Title": "Your cart", "Cart": cart})
}

const invalidQuantity = "Enter a whole number of copies"

// postedQuantity reads the quantity field. An absent field yields fallback;
// anything that is not an integer is refused.
func postedQuantity(c *gin.Context, fallback int) (int, bool) {
	raw, ok := c.GetPostForm("quantity")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return fallback, fallback >= 0
	}
	q, err := strconv.Atoi(raw)
	return q, err == nil
}

// Add handles POST /cart/items.
func (cc *CartController) Add(c *gin.Context) {
	st := middleware.GetSession(c)
	bookID, err := strconv.ParseInt(c.PostForm("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		cc.Flash(c, session.FlashError, "Choose a book to add")
		cc.Back(c, "/books")
		return
	}
	qty, ok := postedQuantity(c, 1)
	if !ok {
		cc.Flash(c, session.FlashError, invalidQuantity)
		cc.Back(c, fmt.Sprintf("/books/%d", bookID))
		return
	}

	cart, serr := cc.cart.Add(c.Request.Context(), st.VisitorID, bookID, qty)
	if serr != nil {
		cc.FailAndBack(c, serr, fmt.Sprintf("/books/%d", bookID))
		return
	}

	title := "The book"
	if i := cart.Find(bookID); i >= 0 {
		title = cart.Items[i].Title
	}
	cc.Flash(c, session.FlashSuccess, fmt.Sprintf("%s was added to your cart", title))
	cc.Back(c, "/cart")
}

// Update handles POST /cart/items/:id.
func (cc *CartController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st := middleware.GetSession(c)

	// The update form always posts a quantity; without one there is nothing to apply.
	qty, ok := postedQuantity(c, -1)
	if !ok {
		cc.Flash(c, session.FlashError, invalidQuantity)
		cc.Redirect(c, "/cart")
		return
	}

	upd, serr := cc.cart.UpdateQuantity(c.Request.Context(), st.VisitorID, id, qty)
	if serr != nil {
		cc.FailAndBack(c, serr, "/cart")
		return
	}

	switch {
	case upd.Removed:
		cc.Flash(c, session.FlashInfo, "The item was removed from your cart")
	case upd.Clamped:
		cc.Flash(c, session.FlashInfo, fmt.Sprintf("Only %d copies are available", upd.Cart.Quantity(id)))
	}
	cc.Redirect(c, "/cart")
}

// Remove handles POST /cart/items/:id/remove.
func (cc *CartController) Remove(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st := middleware.GetSession(c)

	if _, serr := cc.cart.Remove(c.Request.Context(), st.VisitorID, id); serr != nil {
		cc.FailAndBack(c, serr, "/cart")
		return
	}
	cc.Flash(c, session.FlashInfo, "The item was removed from your cart")
	cc.Redirect(c, "/cart")
}

// Clear handles POST /cart/clear.
func (cc *CartController) Clear(c *gin.Context) {
	st := middleware.GetSession(c)
	if serr := cc.cart.Clear(c.Request.Context(), st.VisitorID); serr != nil {
		cc.FailAndBack(c, serr, "/cart")
		return
	}
	cc.Flash(c, session.FlashInfo, "Your cart is now empty")
	cc.Redirect(c, "/cart")
}
