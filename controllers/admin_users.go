package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookstore-web/models"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

func userFilter(c *gin.Context) models.UserFilter {
	f := models.UserFilter{
		Page:     queryInt(c, "page", 1),
		Size:     adminPageSize,
		Username: strings.TrimSpace(c.Query("username")),
		Email:    strings.TrimSpace(c.Query("email")),
		Role:     strings.ToUpper(c.Query("role")),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
	}
	if v, err := strconv.ParseBool(c.Query("enabled")); err == nil {
		f.Enabled = &v
	}
	return f
}

// Users handles GET /admin/users.
func (ac *AdminController) Users(c *gin.Context) {
	ctx := c.Request.Context()
	filter := userFilter(c)

	users, serr := ac.admin.ListUsers(ctx, token(c), filter)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	stats, serr := ac.admin.UserStatistics(ctx, token(c))
	optional(c, "user statistics", serr)

	ac.Render(c, http.StatusOK, "admin/users", gin.H{
		"Title":   "Users",
		"Users":   users,
		"Filter":  filter,
		"Stats":   stats,
		"ActorID": actorID(c),
		"Roles":   []models.Role{models.RoleUser, models.RoleAdmin},
		"Enabled": c.Query("enabled"),
	})
}

// User handles GET /admin/users/:id.
func (ac *AdminController) User(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, serr := ac.admin.User(c.Request.Context(), token(c), id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "admin/user", gin.H{
		"Title":   user.Name,
		"Account": user,
		"Self":    user.ID == actorID(c),
		"Roles":   []models.Role{models.RoleUser, models.RoleAdmin},
	})
}

// ToggleUserStatus handles POST /admin/users/:id/toggle.
func (ac *AdminController) ToggleUserStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.ToggleUserStatus(c.Request.Context(), token(c), actorID(c), id); serr != nil {
		ac.FailAndBack(c, serr, "/admin/users")
		return
	}
	ac.Flash(c, session.FlashSuccess, "The account status has been updated")
	ac.Back(c, "/admin/users")
}

// ChangeUserRole handles POST /admin/users/:id/role.
func (ac *AdminController) ChangeUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	role := models.Role(strings.ToUpper(c.PostForm("role")))
	if serr := ac.admin.ChangeUserRole(c.Request.Context(), token(c), actorID(c), id, role); serr != nil {
		ac.FailAndBack(c, serr, "/admin/users")
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("The role has been changed to %s", role))
	ac.Back(c, "/admin/users")
}

// DeleteUser handles POST /admin/users/:id/delete.
func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.DeleteUser(c.Request.Context(), token(c), actorID(c), id); serr != nil {
		ac.FailAndBack(c, serr, "/admin/users")
		return
	}
	ac.Flash(c, session.FlashSuccess, "The user has been deleted")
	ac.Redirect(c, "/admin/users")
}
