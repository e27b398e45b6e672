package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"bookstore-web/models"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

// Orders handles GET /admin/orders.
func (ac *AdminController) Orders(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.OrderFilter{
		Page:      queryInt(c, "page", 1),
		Size:      adminPageSize,
		Status:    models.OrderStatus(strings.ToUpper(c.Query("status"))),
		UserEmail: strings.TrimSpace(c.Query("email")),
		SortBy:    c.Query("sortBy"),
		SortDir:   c.Query("sortDir"),
	}

	orders, serr := ac.admin.ListOrders(ctx, token(c), filter)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	stats, serr := ac.admin.OrderStatistics(ctx, token(c))
	optional(c, "order statistics", serr)

	ac.Render(c, http.StatusOK, "admin/orders", gin.H{
		"Title":    "Orders",
		"Orders":   orders,
		"Status":   filter.Status,
		"Filter":   filter,
		"Statuses": models.OrderStatuses,
		"Stats":    stats,
	})
}

// Order handles GET /admin/orders/:id.
func (ac *AdminController) Order(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, serr := ac.admin.Order(c.Request.Context(), token(c), id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "admin/order", gin.H{
		"Title": fmt.Sprintf("Order #%d", order.ID),
		"Order": order,
		"Next":  order.Status.NextStatuses(),
	})
}

// UpdateOrderStatus handles POST /admin/orders/:id/status.
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/orders/%d", id)
	status := models.OrderStatus(c.PostForm("status"))

	if serr := ac.admin.UpdateOrderStatus(c.Request.Context(), token(c), id, status); serr != nil {
		ac.FailAndBack(c, serr, back)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("Order #%d is now %s", id, status.Label()))
	ac.Back(c, back)
}

// BulkUpdateOrderStatus handles POST /admin/orders/bulk-status.
func (ac *AdminController) BulkUpdateOrderStatus(c *gin.Context) {
	status := models.OrderStatus(c.PostForm("status"))

	res, serr := ac.admin.BulkUpdateOrderStatus(c.Request.Context(), token(c), postedIDs(c), status)
	if serr != nil {
		ac.FailAndBack(c, serr, "/admin/orders")
		return
	}

	if res.Succeeded > 0 {
		ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%d orders are now %s", res.Succeeded, status.Label()))
	}
	if len(res.Failed) > 0 {
		refs := make([]string, len(res.Failed))
		for i, id := range res.Failed {
			refs[i] = fmt.Sprintf("#%d", id)
		}
		ac.Flash(c, session.FlashError, fmt.Sprintf("Could not update %s", strings.Join(refs, ", ")))
	}
	ac.Back(c, "/admin/orders")
}
