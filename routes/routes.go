package routes

import (
	"io/fs"
	"net/http"

	"bookstore-web/controllers"
	"bookstore-web/middleware"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the controllers mounted by RegisterRoutes.
type Handlers struct {
	Store    *controllers.StoreController
	Cart     *controllers.CartController
	Auth     *controllers.AuthController
	Checkout *controllers.CheckoutController
	Account  *controllers.AccountController
	Admin    *controllers.AdminController

	Sessions *session.Manager
	// Limiter throttles login and registration attempts per client IP.
	Limiter *middleware.RateLimiter
	Static  fs.FS
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", controllers.Health)
	if h.Static != nil {
		r.StaticFS("/static", http.FS(h.Static))
	}

	// Storefront - open to everyone
	store := r.Group("/")
	{
		store.GET("/", h.Store.Home)
		store.GET("/books", h.Store.Books)
		store.GET("/books/:id", h.Store.BookDetail)

		store.GET("/cart", h.Cart.Show)
		store.POST("/cart/items", h.Cart.Add)
		store.POST("/cart/items/:id", h.Cart.Update)
		store.POST("/cart/items/:id/remove", h.Cart.Remove)
		store.POST("/cart/clear", h.Cart.Clear)

		store.POST("/logout", h.Auth.Logout)
	}

	guest := r.Group("/")
	guest.Use(middleware.GuestOnly())
	{
		guest.GET("/login", h.Auth.LoginPage)
		guest.GET("/register", h.Auth.RegisterPage)

		throttled := guest.Group("/")
		if h.Limiter != nil {
			throttled.Use(middleware.RateLimit(h.Limiter))
		}
		throttled.POST("/login", h.Auth.Login)
		throttled.POST("/register", h.Auth.Register)
	}

	// Signed-in customers
	account := r.Group("/")
	account.Use(middleware.RequireAuth(), middleware.NoStore())
	{
		account.GET("/checkout", h.Checkout.Show)
		account.POST("/checkout", h.Checkout.Place)

		account.GET("/orders", h.Account.Orders)
		account.GET("/orders/:id", h.Account.Order)
		account.POST("/orders/:id/cancel", h.Account.CancelOrder)

		account.GET("/profile", h.Account.Profile)
		account.POST("/profile", h.Account.UpdateProfile)
		account.POST("/profile/password", h.Account.ChangePassword)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminOnly(h.Sessions), middleware.NoStore())
	{
		admin.GET("", h.Admin.Dashboard)

		admin.GET("/books", h.Admin.Books)
		admin.GET("/books/new", h.Admin.NewBook)
		admin.POST("/books", h.Admin.CreateBook)
		admin.POST("/books/bulk-delete", h.Admin.BulkDeleteBooks)
		admin.GET("/books/:id/edit", h.Admin.EditBook)
		admin.POST("/books/:id", h.Admin.UpdateBook)
		admin.POST("/books/:id/delete", h.Admin.DeleteBook)
		admin.POST("/books/:id/toggle-stock", h.Admin.ToggleBookStock)

		admin.GET("/authors", h.Admin.Authors)
		admin.GET("/authors/search", h.Admin.SearchAuthors)
		admin.GET("/authors/new", h.Admin.NewAuthor)
		admin.POST("/authors", h.Admin.CreateAuthor)
		admin.POST("/authors/bulk-delete", h.Admin.BulkDeleteAuthors)
		admin.GET("/authors/:id/edit", h.Admin.EditAuthor)
		admin.POST("/authors/:id", h.Admin.UpdateAuthor)
		admin.POST("/authors/:id/delete", h.Admin.DeleteAuthor)

		admin.GET("/categories", h.Admin.Categories)
		admin.GET("/categories/new", h.Admin.NewCategory)
		admin.POST("/categories", h.Admin.CreateCategory)
		admin.GET("/categories/:id/edit", h.Admin.EditCategory)
		admin.POST("/categories/:id", h.Admin.UpdateCategory)
		admin.POST("/categories/:id/delete", h.Admin.DeleteCategory)

		admin.GET("/orders", h.Admin.Orders)
		admin.POST("/orders/bulk-status", h.Admin.BulkUpdateOrderStatus)
		admin.GET("/orders/:id", h.Admin.Order)
		admin.POST("/orders/:id/status", h.Admin.UpdateOrderStatus)

		admin.GET("/users", h.Admin.Users)
		admin.GET("/users/:id", h.Admin.User)
		admin.POST("/users/:id/toggle", h.Admin.ToggleUserStatus)
		admin.POST("/users/:id/role", h.Admin.ChangeUserRole)
		admin.POST("/users/:id/delete", h.Admin.DeleteUser)

		admin.GET("/images", h.Admin.Images)
		admin.POST("/images", h.Admin.UploadImages)
		admin.POST("/images/delete", h.Admin.DeleteImage)
		admin.POST("/images/bulk-delete", h.Admin.BulkDeleteImages)
	}

	r.NoRoute(h.Store.NotFound)
}
