package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/forcosplay/costume-shop/pkg/middleware/auth"
)

type Deps struct {
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	AccountHandler *AccountHTTP
	CatalogHandler *CatalogHTTP
	Auth           *middleware.AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")
	user := d.Auth.RequireAuth
	admin := d.Auth.RequireAdmin

	api.POST("/register", d.AccountHandler.Register)
	api.POST("/login", d.AccountHandler.Login)
	api.POST("/logout", d.AccountHandler.Logout)
	api.POST("/current-user", d.AccountHandler.CurrentAccount, user)
	api.POST("/current-admin", d.AccountHandler.CurrentAccount, admin)

	api.GET("/user/profile", d.AccountHandler.Profile, user)
	api.PATCH("/user/update-profile", d.AccountHandler.UpdateProfile, user)
	api.POST("/user/address", d.AccountHandler.SaveAddress, user)
	api.GET("/users", d.AccountHandler.ListUsers, admin)
	api.POST("/change-status", d.AccountHandler.ChangeStatus, admin)
	api.POST("/change-role", d.AccountHandler.ChangeRole, admin)

	api.POST("/user/cart", d.CartHandler.ReplaceCart, user)
	api.GET("/user/cart", d.CartHandler.GetCart, user)
	api.DELETE("/user/cart", d.CartHandler.EmptyCart, user)
	api.POST("/user/create-payment-intent", d.CartHandler.CreatePaymentIntent, user)

	api.POST("/user/order", d.OrderHandler.Checkout, user)
	api.GET("/user/order", d.OrderHandler.ListOrders, user)
	api.GET("/user/rentals", d.OrderHandler.ListRentals, user)
	api.POST("/user/return-rental", d.OrderHandler.ReturnRental, user)
	api.PUT("/user/rentals/:id/status", d.OrderHandler.UpdateRentalStatus, admin)
	api.GET("/admin/orders", d.OrderHandler.ListAllOrders, admin)
	api.PUT("/admin/order-status", d.OrderHandler.ChangeOrderStatus, admin)

	api.GET("/costumes/:count", d.CatalogHandler.ListCostumes)
	api.GET("/costume/:id", d.CatalogHandler.GetCostume)
	api.POST("/costumes/filter", d.CatalogHandler.FilterCostumes)
	api.GET("/costumes/search", d.CatalogHandler.SearchCostumes)
	api.POST("/costumes/search/filters", d.CatalogHandler.SearchCostumes)
	api.POST("/costumes", d.CatalogHandler.CreateCostume, admin)
	api.PUT("/costume/:id", d.CatalogHandler.PatchCostume, admin)
	api.DELETE("/costume/:id", d.CatalogHandler.DeleteCostume, admin)

	api.GET("/category", d.CatalogHandler.ListCategories)
	api.GET("/category/:id", d.CatalogHandler.GetCategory)
	api.POST("/category", d.CatalogHandler.CreateCategory, admin)
	api.PUT("/category/:id", d.CatalogHandler.RenameCategory, admin)
	api.DELETE("/category/:id", d.CatalogHandler.DeleteCategory, admin)
}
