package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/ordesk/ordesk/internal/config"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/handlers"
	"github.com/ordesk/ordesk/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.OrderDeskFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	tenantHandler := handlers.NewTenantHandler(facade, cfg.OperatorKey)
	orderHandler := handlers.NewOrderHandler(facade, facade)
	dispatchHandler := handlers.NewDispatchHandler(facade)
	courierHandler := handlers.NewCourierHandler(facade)
	clientHandler := handlers.NewClientHandler(facade)

	api := engine.Group("/api")

	// Operator bootstrap, guarded by the shared key inside the handler.
	api.POST("/tenants", tenantHandler.Create)

	// Public storefront surface, scoped by tenant slug.
	public := api.Group("/t/:slug")
	public.GET("/card", tenantHandler.Card)
	public.POST("/orders", orderHandler.CreatePublic)
	public.POST("/staff/login", authHandler.StaffLogin)
	public.POST("/courier/login", authHandler.CourierLogin)

	// Store console.
	staff := api.Group("/staff")
	staff.Use(middleware.AuthRequired(facade))
	staff.Use(middleware.RequireRoles(model.RoleOwner, model.RoleStaff))
	staff.GET("/tenant", tenantHandler.Profile)
	staff.PATCH("/tenant", tenantHandler.Patch)
	staff.POST("/accounts", authHandler.CreateStaff)
	staff.POST("/orders", orderHandler.Create)
	staff.GET("/orders", orderHandler.List)
	staff.GET("/orders/stream", orderHandler.Stream)
	staff.GET("/orders/:id", orderHandler.Get)
	staff.POST("/orders/:id/transition", orderHandler.Transition)
	staff.GET("/orders/:id/audit", orderHandler.Audit)
	staff.POST("/couriers", courierHandler.Register)
	staff.GET("/couriers", courierHandler.List)
	staff.PATCH("/couriers/:id", courierHandler.Patch)
	staff.GET("/clients/lookup", clientHandler.Lookup)
	staff.GET("/clients/top", clientHandler.Top)

	// Courier app.
	courier := api.Group("/courier")
	courier.Use(middleware.AuthRequired(facade))
	courier.Use(middleware.RequireRoles(model.RoleCourier))
	courier.GET("/me", courierHandler.Me)
	courier.POST("/availability", courierHandler.Availability)
	courier.POST("/location", courierHandler.Location)
	courier.GET("/offers", dispatchHandler.Offers)
	courier.POST("/offers/:id/accept", dispatchHandler.Accept)
	courier.GET("/pool", dispatchHandler.Pool)
	courier.POST("/pool/:id/claim", dispatchHandler.Claim)
	courier.POST("/orders/:id/transition", orderHandler.Transition)

	return engine
}
