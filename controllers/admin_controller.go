package controllers

import (
	"net/http"

	"bookstore-web/logger"
	"bookstore-web/middleware"
	"bookstore-web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	adminPageSize     = 10
	largestOrdersSize = 5
)

// AdminController serves the admin console. Every handler here runs behind
// middleware.AdminOnly.
type AdminController struct {
	*Base
	admin  services.AdminService
	images services.ImageService
}

func NewAdminController(base *Base, admin services.AdminService, images services.ImageService) *AdminController {
	return &AdminController{Base: base, admin: admin, images: images}
}

func token(c *gin.Context) string {
	return middleware.GetSession(c).Token
}

// actorID is the id of the signed-in admin.
func actorID(c *gin.Context) int64 {
	if u := middleware.GetSession(c).User; u != nil {
		return u.ID
	}
	return 0
}

// optional logs a failed secondary read. Statistics panels are left empty
// instead of failing the page.
func optional(c *gin.Context, what string, serr *services.ServiceError) {
	if serr != nil {
		logger.Warn(c, "admin panel unavailable", zap.String("panel", what), zap.Int("status", serr.StatusCode), zap.String("reason", serr.Message))
	}
}

// Dashboard handles GET /admin.
func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	overview, serr := ac.admin.Overview(ctx, token(c))
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	largest, serr := ac.admin.LargestOrders(ctx, token(c), largestOrdersSize)
	optional(c, "largest orders", serr)

	ac.Render(c, http.StatusOK, "admin/dashboard", gin.H{
		"Title":         "Dashboard",
		"Overview":      overview,
		"LargestOrders": largest,
	})
}
