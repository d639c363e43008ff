package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/handlers"
)

type Deps struct {
	DB             *gorm.DB
	Auth           *auth.Middleware
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	UserHandler    *handlers.UserHandler
	AdminHandler   *handlers.AdminHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/session", d.AuthHandler.CreateSession)
	v1.POST("/auth/logout", d.AuthHandler.Logout, d.Auth.RequireUser)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.SearchHandler.Search)

	v1.POST("/products", d.ProductHandler.CreateProduct, d.Auth.RequireAdmin)
	v1.PUT("/products/:id", d.ProductHandler.PatchProduct, d.Auth.RequireAdmin)
	v1.DELETE("/products/:id", d.ProductHandler.DeleteProduct, d.Auth.RequireAdmin)

	orders := v1.Group("/orders", d.Auth.RequireUser)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	users := v1.Group("/users", d.Auth.RequireUser)
	users.GET("/me", d.UserHandler.Me)
	users.PUT("/me", d.UserHandler.UpdateMe)
	users.GET("/me/activities", d.UserHandler.MyActivities)
	users.GET("/me/statistics", d.UserHandler.MyStatistics)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)
	admin.GET("/logs", d.AdminHandler.Logs)
}
